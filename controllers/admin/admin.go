package adminController

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/middleware"
	"coursefront/services"
	"coursefront/utils"
	adminValidator "coursefront/validators/admin"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	videos *services.VideoPanel
	log    *logger.Logger
}

func New(videos *services.VideoPanel, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{videos: videos, log: log.With("controller", "admin")}
}

func (ctl *Controller) Dashboard(c *fiber.Ctx) error {
	return middleware.Render(c, fiber.StatusOK, "dashboard", fiber.Map{
		"Title":     "Dashboard",
		"Resources": adminValidator.Resources(),
	})
}

// List shows one panel.
func (ctl *Controller) List(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	filter, _ := c.Locals("courseFilter").(uint)
	sess := middleware.CurrentSession(c)
	api := sess.API()
	ctx := c.UserContext()

	var rows []map[string]interface{}
	var err error
	if res.Name == apiclient.ResourceVideos {
		videos, listErr := ctl.videos.List(ctx, api, sess.ID(), filter)
		if listErr != nil {
			return listErr
		}
		rows, err = toRows(videos)
	} else {
		rows, err = panel(res).List(ctx, api, apiclient.AdminFilter{Course: filter})
	}
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":        res.Title,
		"Resource":     res,
		"Rows":         rows,
		"CourseFilter": filter,
	}
	if res.ByCourse {
		courses, err := api.AdminCourses(ctx)
		if err != nil {
			return err
		}
		data["Courses"] = courses
	}
	return middleware.Render(c, fiber.StatusOK, "admin_list", data)
}

func (ctl *Controller) NewForm(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	if !res.CanCreate {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	values := map[string]string{}
	if filter, ok := c.Locals("courseFilter").(uint); ok {
		values["course"] = utils.FormatID(filter)
	}
	return ctl.renderForm(c, fiber.StatusOK, res, 0, values, adminValidator.ModeUpload, "", nil)
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	if !res.CanCreate {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	sub := c.Locals("validatedSubmission").(*adminValidator.Submission)
	if len(middleware.FormErrors(c)) > 0 {
		return ctl.renderForm(c, fiber.StatusUnprocessableEntity, res, 0, sub.Values, sub.Mode, "", nil)
	}

	if res.Name == apiclient.ResourceCertificates {
		if number, _ := sub.Payload.Fields["certificate_number"].(string); number == "" {
			sub.Payload.Fields["certificate_number"] = utils.NewCertificateNumber(time.Now())
		}
	}

	sess := middleware.CurrentSession(c)
	var err error
	if res.Name == apiclient.ResourceVideos {
		_, err = ctl.videos.Create(c.UserContext(), sess.API(), sess.ID(), sub.Payload)
	} else {
		_, err = panel(res).Create(c.UserContext(), sess.API(), sub.Payload)
	}
	if err != nil {
		return ctl.saveFailed(c, err, res, 0, sub)
	}

	ctl.log.Info("admin item created", "resource", res.Name)
	middleware.SetFlash(c, middleware.FlashSuccess, "Saved "+res.Singular+".")
	return c.Redirect(listPath(res, sub.Values["course"]), fiber.StatusSeeOther)
}

func (ctl *Controller) EditForm(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	id := c.Locals("adminItemID").(uint)
	sess := middleware.CurrentSession(c)

	item, err := panel(res).Get(c.UserContext(), sess.API(), id)
	if err != nil {
		return err
	}
	values := make(map[string]string, len(res.Fields))
	for _, f := range res.Fields {
		values[f.Name] = formValue((*item)[f.Name])
	}
	return ctl.renderForm(c, fiber.StatusOK, res, id, values, adminValidator.ModeUpload, "", nil)
}

func (ctl *Controller) Update(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	id := c.Locals("adminItemID").(uint)
	sub := c.Locals("validatedSubmission").(*adminValidator.Submission)
	if len(middleware.FormErrors(c)) > 0 {
		return ctl.renderForm(c, fiber.StatusUnprocessableEntity, res, id, sub.Values, sub.Mode, "", nil)
	}

	sess := middleware.CurrentSession(c)
	var err error
	if res.Name == apiclient.ResourceVideos {
		_, err = ctl.videos.Update(c.UserContext(), sess.API(), sess.ID(), id, sub.Payload)
	} else {
		_, err = panel(res).Update(c.UserContext(), sess.API(), id, sub.Payload)
	}
	if err != nil {
		return ctl.saveFailed(c, err, res, id, sub)
	}

	ctl.log.Info("admin item updated", "resource", res.Name, "id", id)
	middleware.SetFlash(c, middleware.FlashSuccess, "Saved "+res.Singular+".")
	return c.Redirect(listPath(res, sub.Values["course"]), fiber.StatusSeeOther)
}

// ConfirmDeletePage asks before anything is removed
func (ctl *Controller) ConfirmDeletePage(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	id := c.Locals("adminItemID").(uint)
	sess := middleware.CurrentSession(c)

	item, err := panel(res).Get(c.UserContext(), sess.API(), id)
	if err != nil {
		return err
	}
	return middleware.Render(c, fiber.StatusOK, "confirm_delete", fiber.Map{
		"Title":    "Delete " + res.Singular,
		"Resource": res,
		"ItemID":   id,
		"Label":    itemLabel(*item, id),
	})
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	res := c.Locals("adminResource").(*adminValidator.Resource)
	id := c.Locals("adminItemID").(uint)
	if confirmed, _ := c.Locals("deleteConfirmed").(bool); !confirmed {
		return c.Redirect(fmt.Sprintf("/dashboard/%s/%d/delete", res.Name, id), fiber.StatusSeeOther)
	}

	sess := middleware.CurrentSession(c)
	var err error
	if res.Name == apiclient.ResourceVideos {
		err = ctl.videos.Delete(c.UserContext(), sess.API(), sess.ID(), id)
	} else {
		err = panel(res).Delete(c.UserContext(), sess.API(), id)
	}
	if err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			middleware.SetFlash(c, middleware.FlashError, err.Error())
			return c.Redirect(listPath(res, ""), fiber.StatusSeeOther)
		}
		return err
	}

	ctl.log.Info("admin item deleted", "resource", res.Name, "id", id)
	middleware.SetFlash(c, middleware.FlashSuccess, "Deleted "+res.Singular+".")
	return c.Redirect(listPath(res, ""), fiber.StatusSeeOther)
}

// saveFailed shows server-side validation next to the form; anything else
// goes to the error handler.
func (ctl *Controller) saveFailed(c *fiber.Ctx, err error, res *adminValidator.Resource, id uint, sub *adminValidator.Submission) error {
	apiErr, ok := apierr.As(err)
	if !ok || apiErr.Kind != apierr.KindValidation {
		return err
	}
	errors := map[string]string{}
	for k := range apiErr.Fields {
		errors[k] = apiErr.FieldError(k)
	}
	// url-mode errors come back on <field>_url; the form shows them on the file input
	if ff := res.FileField(); ff != nil {
		if msg := apiErr.FieldError(ff.Name + "_url"); msg != "" {
			errors[ff.Name] = msg
		}
	}
	return ctl.renderForm(c, fiber.StatusUnprocessableEntity, res, id, sub.Values, sub.Mode, apiErr.Message, errors)
}

func (ctl *Controller) renderForm(c *fiber.Ctx, status int, res *adminValidator.Resource, id uint, values map[string]string, mode, message string, errors map[string]string) error {
	data := fiber.Map{
		"Title":    res.Title,
		"Resource": res,
		"ItemID":   id,
		"Values":   values,
		"Mode":     mode,
		"Message":  message,
	}
	if errors != nil {
		data["Errors"] = errors
	}
	if err := ctl.loadOptions(c.UserContext(), middleware.CurrentSession(c).API(), res, data); err != nil {
		return err
	}
	return middleware.Render(c, status, "admin_form", data)
}

// loadOptions fills the course and user selects the form needs
func (ctl *Controller) loadOptions(ctx context.Context, api *apiclient.Client, res *adminValidator.Resource, data fiber.Map) error {
	for _, f := range res.Fields {
		switch f.Kind {
		case adminValidator.KindCourse:
			if _, done := data["Courses"]; done {
				continue
			}
			courses, err := api.AdminCourses(ctx)
			if err != nil {
				return err
			}
			data["Courses"] = courses
		case adminValidator.KindUser:
			if _, done := data["Users"]; done {
				continue
			}
			users, err := api.AdminUsers(ctx)
			if err != nil {
				return err
			}
			data["Users"] = users
		}
	}
	return nil
}

func panel(res *adminValidator.Resource) services.Panel[map[string]interface{}] {
	return services.Panel[map[string]interface{}]{Resource: res.Name}
}

func listPath(res *adminValidator.Resource, course string) string {
	path := "/dashboard/" + string(res.Name)
	if res.ByCourse && course != "" {
		path += "?course=" + course
	}
	return path
}

// toRows turns typed items into the generic rows the list template reads
func toRows(items interface{}) ([]map[string]interface{}, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// formValue prints an API value the way the form inputs expect it
func formValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatFloat(t, 'f', 0, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}:
		// nested course or user object
		return formValue(t["id"])
	default:
		return fmt.Sprint(t)
	}
}

func itemLabel(item map[string]interface{}, id uint) string {
	for _, k := range []string{"title", "email", "certificate_number", "name"} {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return "#" + utils.FormatID(id)
}
