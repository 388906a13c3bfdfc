package authRoutes

import (
	authController "coursefront/controllers/auth"
	authValidator "coursefront/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, ctl *authController.Controller) {
	app.Get("/login", ctl.LoginPage)
	app.Post("/login", authValidator.Login(), ctl.Login)
	app.Get("/register", ctl.RegisterPage)
	app.Post("/register", authValidator.Register(), ctl.Register)
	app.Post("/logout", ctl.Logout)
}
