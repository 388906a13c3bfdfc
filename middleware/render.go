package middleware

import (
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/utils"

	"github.com/gofiber/fiber/v2"
)

const formErrorsKey = "formErrors"

// Render executes a page with the values every layout needs
func Render(c *fiber.Ctx, status int, page string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if sess := CurrentSession(c); sess != nil {
		data["User"] = sess.CurrentUser()
		data["IsStaff"] = sess.IsStaff()
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = ConsumeFlash(c)
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = FormErrors(c)
	}
	data["Path"] = c.Path()
	data["Secure"] = IsSecure(c)
	return c.Status(status).Render(page, data)
}

// IsSecure reports whether the browser reached us over https
func IsSecure(c *fiber.Ctx) bool {
	return c.Protocol() == "https"
}

// SetFormErrors is used by validators to hand field messages to the handler
func SetFormErrors(c *fiber.Ctx, errors map[string]string) {
	if len(errors) == 0 {
		return
	}
	c.Locals(formErrorsKey, errors)
}

func FormErrors(c *fiber.Ctx) map[string]string {
	errors, _ := c.Locals(formErrorsKey).(map[string]string)
	return errors
}

// ErrorHandler turns API errors into the matching page or redirect
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		if apiErr, ok := apierr.As(err); ok {
			switch apiErr.Kind {
			case apierr.KindSessionExpired, apierr.KindUnauthorized:
				if sess := CurrentSession(c); sess != nil {
					_ = sess.Logout(c.UserContext())
				}
				SetFlash(c, FlashInfo, apierr.SessionExpired().Message)
				next := "/"
				if c.Method() == fiber.MethodGet {
					next = c.OriginalURL()
				}
				return c.Redirect(utils.LoginRedirect(next), fiber.StatusSeeOther)
			case apierr.KindForbidden:
				SetFlash(c, FlashError, "You are not authorized to do that.")
				return c.Redirect("/", fiber.StatusSeeOther)
			case apierr.KindNotFound:
				return renderError(c, log, fiber.StatusNotFound, "not_found", "")
			case apierr.KindNetwork:
				log.Warn("api unreachable", "path", c.Path(), "error", apiErr.Err)
				return renderError(c, log, fiber.StatusServiceUnavailable, "error", apiErr.Message)
			case apierr.KindValidation:
				return renderError(c, log, fiber.StatusBadRequest, "error", apiErr.Message)
			default:
				log.Error("api error", "path", c.Path(), "kind", apiErr.Kind, "status", apiErr.Status, "error", apiErr.Error())
				return renderError(c, log, fiber.StatusBadGateway, "error", apiErr.Message)
			}
		}

		if fe, ok := err.(*fiber.Error); ok {
			if fe.Code == fiber.StatusNotFound {
				return renderError(c, log, fe.Code, "not_found", "")
			}
			return renderError(c, log, fe.Code, "error", fe.Message)
		}

		log.Error("unhandled error", "path", c.Path(), "error", err)
		return renderError(c, log, fiber.StatusInternalServerError, "error", "Something went wrong. Please try again.")
	}
}

func renderError(c *fiber.Ctx, log *logger.Logger, status int, page, message string) error {
	err := Render(c, status, page, fiber.Map{"Title": "Error", "Message": message})
	if err != nil {
		log.Error("error page failed", "page", page, "error", err)
		return c.Status(status).SendString(message)
	}
	return nil
}
