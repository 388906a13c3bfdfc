package adminValidator

import (
	"mime/multipart"
	"strconv"
	"strings"

	"coursefront/apiclient"
	"coursefront/middleware"
	"coursefront/utils"
	"coursefront/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	ModeUpload = "upload"
	ModeURL    = "url"
)

// Submission is a parsed admin form. Values keeps the raw input so the form
// can be shown again with its errors.
type Submission struct {
	Payload apiclient.Payload
	Values  map[string]string
	Mode    string
}

// AdminResource resolves :resource and the optional :id
func AdminResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, ok := Lookup(c.Params("resource"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Unknown panel!")
		}
		c.Locals("adminResource", res)

		if raw := c.Params("id"); raw != "" {
			id, err := utils.ParseID(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Item not found!")
			}
			c.Locals("adminItemID", id)
		}
		if raw := c.Query("course"); raw != "" {
			if id, err := utils.ParseID(raw); err == nil {
				c.Locals("courseFilter", id)
			}
		}
		return c.Next()
	}
}

// AdminForm validates a create (creating=true) or edit submission for the
// resolved resource.
func AdminForm(creating bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, ok := c.Locals("adminResource").(*Resource)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Unknown panel!")
		}

		sub := &Submission{
			Payload: apiclient.Payload{Fields: map[string]interface{}{}},
			Values:  map[string]string{},
		}
		errors := make(map[string]string)

		for _, f := range res.Fields {
			if f.Kind == KindFile {
				parseFile(c, f, creating, sub, errors)
				continue
			}
			raw := strings.TrimSpace(c.FormValue(f.Name))
			sub.Values[f.Name] = raw
			if msg := parseValue(f, raw, sub.Payload.Fields); msg != "" {
				errors[f.Name] = msg
			}
		}

		middleware.SetFormErrors(c, errors)
		c.Locals("validatedSubmission", sub)
		return c.Next()
	}
}

func parseValue(f Field, raw string, out map[string]interface{}) string {
	switch f.Kind {
	case KindBool:
		out[f.Name] = raw == "on" || raw == "true" || raw == "1"
		return ""
	case KindNumber:
		if raw == "" {
			return validators.Var(f.Name, raw, requiredOnly(f.Rules))
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f.Label + " must be a number!"
		}
		if msg := validators.Var(f.Name, v, f.Rules); msg != "" {
			return msg
		}
		out[f.Name] = v
	case KindInt:
		if raw == "" {
			return validators.Var(f.Name, raw, requiredOnly(f.Rules))
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return f.Label + " must be a whole number!"
		}
		if msg := validators.Var(f.Name, v, f.Rules); msg != "" {
			return msg
		}
		out[f.Name] = v
	case KindCourse, KindUser:
		if raw == "" {
			return validators.Var(f.Name, raw, requiredOnly(f.Rules))
		}
		id, err := utils.ParseID(raw)
		if err != nil {
			return "Please choose a " + strings.ToLower(f.Label) + "!"
		}
		out[f.Name] = id
	default:
		if f.Rules != "" {
			if msg := validators.Var(f.Name, raw, f.Rules); msg != "" {
				return msg
			}
		}
		out[f.Name] = raw
	}
	return ""
}

// requiredOnly keeps only the required rule for empty optional inputs
func requiredOnly(rules string) string {
	for _, r := range strings.Split(rules, ",") {
		if r == "required" {
			return "required"
		}
	}
	return "omitempty"
}

// parseFile applies the upload/url toggle: one source per submission. On
// edit, giving neither keeps the current file.
func parseFile(c *fiber.Ctx, f Field, creating bool, sub *Submission, errors map[string]string) {
	mode := strings.TrimSpace(c.FormValue("mode"))
	if mode == "" {
		mode = ModeUpload
	}
	sub.Mode = mode
	if mode != ModeUpload && mode != ModeURL {
		errors["mode"] = "Mode must be upload or url!"
		return
	}

	urlValue := strings.TrimSpace(c.FormValue(f.Name + "_url"))
	sub.Values[f.Name+"_url"] = urlValue
	var header *multipart.FileHeader
	if fh, err := c.FormFile(f.Name); err == nil && fh != nil && fh.Size > 0 {
		header = fh
	}

	switch {
	case header != nil && urlValue != "":
		errors[f.Name] = "Choose either a file or a URL, not both!"
		return
	case header == nil && urlValue == "":
		if creating {
			if mode == ModeURL {
				errors[f.Name] = "Please enter a URL!"
			} else {
				errors[f.Name] = "Please choose a file to upload!"
			}
		}
		return
	}

	if mode == ModeURL {
		if header != nil {
			errors[f.Name] = "Switch to upload mode to send a file!"
			return
		}
		if msg := validators.Var(f.Name+"_url", urlValue, "url"); msg != "" {
			errors[f.Name] = msg
			return
		}
		sub.Payload.Fields[f.Name+"_url"] = urlValue
		return
	}

	if header == nil {
		errors[f.Name] = "Switch to URL mode to use a link!"
		return
	}
	name, content, err := utils.ReadUploadedFile(header)
	if err != nil {
		errors[f.Name] = err.Error()
		return
	}
	sub.Payload.Files = append(sub.Payload.Files, apiclient.FileUpload{Field: f.Name, Filename: name, Content: content})
}

// ConfirmDelete records whether the destructive call was confirmed
func ConfirmDelete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("deleteConfirmed", c.FormValue("confirm") == "yes")
		return c.Next()
	}
}
