package adminRoutes

import (
	adminController "coursefront/controllers/admin"
	"coursefront/middleware"
	adminValidator "coursefront/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts the staff dashboard and one CRUD panel per resource
func SetupAdminRoutes(app *fiber.App, ctl *adminController.Controller) {
	adminGroup := app.Group("/dashboard", middleware.RequireStaff)

	adminGroup.Get("/", ctl.Dashboard)

	adminGroup.Get("/:resource", adminValidator.AdminResource(), ctl.List)
	adminGroup.Get("/:resource/new", adminValidator.AdminResource(), ctl.NewForm)
	adminGroup.Post("/:resource", adminValidator.AdminResource(), adminValidator.AdminForm(true), ctl.Create)

	adminGroup.Get("/:resource/:id/edit", adminValidator.AdminResource(), ctl.EditForm)
	adminGroup.Post("/:resource/:id", adminValidator.AdminResource(), adminValidator.AdminForm(false), ctl.Update)

	// Delete only happens after the confirmation page posts back
	adminGroup.Get("/:resource/:id/delete", adminValidator.AdminResource(), ctl.ConfirmDeletePage)
	adminGroup.Post("/:resource/:id/delete", adminValidator.AdminResource(), adminValidator.ConfirmDelete(), ctl.Delete)
}
