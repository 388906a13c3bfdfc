package courseRoutes

import (
	courseController "coursefront/controllers/course"
	"coursefront/middleware"
	courseValidator "coursefront/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the home page, catalog and course pages
func SetupCourseRoutes(app *fiber.App, ctl *courseController.Controller) {
	app.Get("/", ctl.Home)

	courseGroup := app.Group("/courses")
	courseGroup.Get("/", courseValidator.CourseList(), ctl.Catalog)
	courseGroup.Get("/:id", courseValidator.CourseParams(), ctl.Detail)

	// Enrollment decides itself what anonymous visitors see
	courseGroup.Post("/:id/enroll", courseValidator.CourseParams(), ctl.Enroll)

	// Progress
	courseGroup.Post("/:id/videos/:videoId/complete", middleware.RequireAuth, courseValidator.CourseParams(), ctl.CompleteVideo)

	// Certificates
	courseGroup.Get("/:id/certificate", middleware.RequireAuth, courseValidator.CourseParams(), ctl.CertificatePage)
	courseGroup.Post("/:id/certificate", middleware.RequireAuth, courseValidator.CourseParams(), courseValidator.Certificate(), ctl.IssueCertificate)
	courseGroup.Get("/:id/certificate/download", middleware.RequireAuth, courseValidator.CourseParams(), ctl.DownloadCertificate)

	// Feedback
	courseGroup.Post("/:id/feedback", middleware.RequireAuth, courseValidator.CourseParams(), courseValidator.Feedback(), ctl.SubmitFeedback)
}
