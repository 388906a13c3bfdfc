package authController

import (
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/middleware"
	"coursefront/services"
	"coursefront/session"
	"coursefront/utils"
	authValidator "coursefront/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	panels *services.PanelCache
	log    *logger.Logger
}

// New builds the auth handlers. panels is cleared for the browser on logout.
func New(panels *services.PanelCache, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{panels: panels, log: log.With("controller", "auth")}
}

func (ctl *Controller) LoginPage(c *fiber.Ctx) error {
	next := utils.SafeNext(c.Query("next"))
	if sess := middleware.CurrentSession(c); sess != nil && sess.IsAuthenticated() {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return middleware.Render(c, fiber.StatusOK, "login", fiber.Map{"Title": "Log in", "Next": next})
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginForm)
	next := utils.SafeNext(reqData.Next)
	data := fiber.Map{"Title": "Log in", "Next": next, "Email": reqData.Email}

	if len(middleware.FormErrors(c)) > 0 {
		return middleware.Render(c, fiber.StatusUnprocessableEntity, "login", data)
	}

	sess := middleware.CurrentSession(c)
	if err := sess.Login(c.UserContext(), reqData.Email, reqData.Password); err != nil {
		if !isFormFailure(err) {
			return err
		}
		data["Message"] = err.Error()
		return middleware.Render(c, fiber.StatusUnprocessableEntity, "login", data)
	}

	ctl.log.Info("user logged in", "user_id", sess.CurrentUser().ID)
	middleware.SetFlash(c, middleware.FlashSuccess, "Welcome back, "+sess.CurrentUser().DisplayName()+"!")
	return c.Redirect(next, fiber.StatusSeeOther)
}

func (ctl *Controller) RegisterPage(c *fiber.Ctx) error {
	next := utils.SafeNext(c.Query("next"))
	if sess := middleware.CurrentSession(c); sess != nil && sess.IsAuthenticated() {
		return c.Redirect(next, fiber.StatusSeeOther)
	}
	return middleware.Render(c, fiber.StatusOK, "register", fiber.Map{
		"Title": "Sign up",
		"Next":  next,
		"Form":  &authValidator.RegisterForm{},
	})
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterForm)
	next := utils.SafeNext(reqData.Next)
	data := fiber.Map{"Title": "Sign up", "Next": next, "Form": reqData}

	if len(middleware.FormErrors(c)) > 0 {
		return middleware.Render(c, fiber.StatusUnprocessableEntity, "register", data)
	}

	sess := middleware.CurrentSession(c)
	err := sess.Register(c.UserContext(), session.RegisterInput{
		Email:     reqData.Email,
		Password:  reqData.Password,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
	})
	if err != nil {
		if !isFormFailure(err) {
			return err
		}
		data["Message"] = err.Error()
		if apiErr, ok := apierr.As(err); ok {
			data["Errors"] = fieldMessages(apiErr)
		}
		return middleware.Render(c, fiber.StatusUnprocessableEntity, "register", data)
	}

	ctl.log.Info("user registered", "user_id", sess.CurrentUser().ID)
	middleware.SetFlash(c, middleware.FlashSuccess, "Your account is ready. Welcome!")
	return c.Redirect(next, fiber.StatusSeeOther)
}

func (ctl *Controller) Logout(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if err := sess.Logout(c.UserContext()); err != nil {
		return err
	}
	if ctl.panels != nil {
		ctl.panels.Forget(sess.ID())
	}
	middleware.SetFlash(c, middleware.FlashInfo, "You have been logged out.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// isFormFailure reports errors that belong next to the form rather than on
// an error page.
func isFormFailure(err error) bool {
	switch apierr.KindOf(err) {
	case apierr.KindValidation, apierr.KindUnauthorized, apierr.KindSessionExpired:
		return true
	}
	return false
}

func fieldMessages(err *apierr.Error) map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(err.Fields))
	for k := range err.Fields {
		out[k] = err.FieldError(k)
	}
	return out
}
