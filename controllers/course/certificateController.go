package courseController

import (
	"errors"
	"fmt"

	"coursefront/apierr"
	"coursefront/middleware"
	"coursefront/services"
	courseValidator "coursefront/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) CertificatePage(c *fiber.Ctx) error {
	course, progress, err := ctl.enrolledCourse(c)
	if err != nil {
		return err
	}
	sess := middleware.CurrentSession(c)

	view, err := ctl.certificates.View(c.UserContext(), sess.API(), sess, course.ID, progress)
	if err != nil {
		ctl.log.Warn("certificate lookup failed", "course_id", course.ID, "error", err)
	}
	return middleware.Render(c, fiber.StatusOK, "certificate", fiber.Map{
		"Title":       "Certificate",
		"Course":      course,
		"Certificate": view,
		"DefaultName": sess.CurrentUser().DisplayName(),
	})
}

// IssueCertificate generates the PDF and sends it straight back as a download
func (ctl *Controller) IssueCertificate(c *fiber.Ctx) error {
	form := c.Locals("validatedCertificate").(*courseValidator.CertificateForm)
	course, progress, err := ctl.enrolledCourse(c)
	if err != nil {
		return err
	}
	sess := middleware.CurrentSession(c)
	user := sess.CurrentUser()

	issued, err := ctl.certificates.Issue(c.UserContext(), sess.API(), sess, *user, *course, progress, form.Name)
	if err != nil {
		var formErr *services.FormError
		if errors.As(err, &formErr) {
			return middleware.Render(c, fiber.StatusUnprocessableEntity, "certificate", fiber.Map{
				"Title":       "Certificate",
				"Course":      course,
				"Certificate": services.CertificateView{State: services.DialogForm},
				"DefaultName": form.Name,
				"Errors":      formErr.Fields,
			})
		}
		if apierr.Is(err, apierr.KindValidation) || errors.Is(err, services.ErrCertificateFailed) {
			middleware.SetFlash(c, middleware.FlashError, err.Error())
			return c.Redirect(coursePath(course.ID)+"/certificate", fiber.StatusSeeOther)
		}
		return err
	}

	ctl.log.Info("certificate issued", "course_id", course.ID, "number", issued.Certificate.CertificateNumber)
	return sendPDF(c, issued)
}

func (ctl *Controller) DownloadCertificate(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	sess := middleware.CurrentSession(c)

	course, err := sess.API().Course(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	issued, err := ctl.certificates.Download(c.UserContext(), sess.API(), *sess.CurrentUser(), *course)
	if err != nil {
		return err
	}
	return sendPDF(c, issued)
}

func sendPDF(c *fiber.Ctx, issued *services.IssuedCertificate) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", issued.Filename))
	return c.Status(fiber.StatusOK).Send(issued.PDF)
}
