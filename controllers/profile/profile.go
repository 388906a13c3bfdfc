package profileController

import (
	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/middleware"
	"coursefront/services"
	authValidator "coursefront/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	profiles *services.ProfileService
	log      *logger.Logger
}

func New(profiles *services.ProfileService, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{profiles: profiles, log: log.With("controller", "profile")}
}

func (ctl *Controller) Profile(c *fiber.Ctx) error {
	return ctl.render(c, fiber.StatusOK, nil)
}

func (ctl *Controller) render(c *fiber.Ctx, status int, errors map[string]string) error {
	sess := middleware.CurrentSession(c)
	page, err := ctl.profiles.Load(c.UserContext(), sess.API())
	if err != nil {
		return err
	}
	data := fiber.Map{"Title": "My profile", "Page": page}
	if errors != nil {
		data["Errors"] = errors
	}
	return middleware.Render(c, status, "profile", data)
}

func (ctl *Controller) UpdateProfile(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProfile").(*authValidator.ProfileForm)
	if len(middleware.FormErrors(c)) > 0 {
		return ctl.render(c, fiber.StatusUnprocessableEntity, nil)
	}

	sess := middleware.CurrentSession(c)
	user, err := sess.API().UpdateProfile(c.UserContext(), apiclient.ProfileUpdate{
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
	})
	if err != nil {
		if apiErr, ok := apierr.As(err); ok && apiErr.Kind == apierr.KindValidation {
			return ctl.render(c, fiber.StatusUnprocessableEntity, fieldErrors(apiErr, "first_name"))
		}
		return err
	}
	sess.SetUser(user)

	middleware.SetFlash(c, middleware.FlashSuccess, "Profile updated.")
	return c.Redirect("/profile", fiber.StatusSeeOther)
}

func (ctl *Controller) ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.PasswordForm)
	if len(middleware.FormErrors(c)) > 0 {
		return ctl.render(c, fiber.StatusUnprocessableEntity, nil)
	}

	sess := middleware.CurrentSession(c)
	err := sess.API().ChangePassword(c.UserContext(), apiclient.ChangePasswordRequest{
		OldPassword: reqData.OldPassword,
		NewPassword: reqData.NewPassword,
	})
	if err != nil {
		if apiErr, ok := apierr.As(err); ok && apiErr.Kind == apierr.KindValidation {
			return ctl.render(c, fiber.StatusUnprocessableEntity, fieldErrors(apiErr, "old_password"))
		}
		return err
	}

	ctl.log.Info("password changed", "user_id", sess.CurrentUser().ID)
	middleware.SetFlash(c, middleware.FlashSuccess, "Password changed.")
	return c.Redirect("/profile", fiber.StatusSeeOther)
}

// fieldErrors maps API field errors onto the form; a message without a
// field goes to fallback.
func fieldErrors(err *apierr.Error, fallback string) map[string]string {
	out := map[string]string{}
	for k := range err.Fields {
		out[k] = err.FieldError(k)
	}
	if len(out) == 0 {
		out[fallback] = err.Message
	}
	return out
}
