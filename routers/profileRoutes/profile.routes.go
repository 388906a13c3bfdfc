package profileRoutes

import (
	profileController "coursefront/controllers/profile"
	"coursefront/middleware"
	authValidator "coursefront/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, ctl *profileController.Controller) {
	profileGroup := app.Group("/profile", middleware.RequireAuth)

	profileGroup.Get("/", ctl.Profile)
	profileGroup.Post("/", authValidator.UpdateProfile(), ctl.UpdateProfile)
	profileGroup.Post("/password", authValidator.ChangePassword(), ctl.ChangePassword)
}
