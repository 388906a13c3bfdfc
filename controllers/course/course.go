package courseController

import (
	"errors"
	"sort"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/middleware"
	"coursefront/models"
	"coursefront/services"
	"coursefront/utils"
	courseValidator "coursefront/validators/course"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	courses      *services.CourseService
	certificates *services.CertificateDialog
	feedback     *services.FeedbackForm
	log          *logger.Logger
}

func New(courses *services.CourseService, certificates *services.CertificateDialog, feedback *services.FeedbackForm, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		courses:      courses,
		certificates: certificates,
		feedback:     feedback,
		log:          log.With("controller", "course"),
	}
}

// Home lists the catalog and the review photos flagged for the homepage
func (ctl *Controller) Home(c *fiber.Ctx) error {
	api := middleware.CurrentSession(c).API()
	ctx := c.UserContext()

	courses, err := api.Courses(ctx, apiclient.CourseFilter{})
	if err != nil {
		return err
	}

	photos, err := api.ReviewPhotos(ctx)
	if err != nil {
		// the page still works without testimonials
		ctl.log.Warn("review photos unavailable", "error", err)
	}
	visible := photos[:0]
	for _, p := range photos {
		if p.ShowOnHomepage {
			visible = append(visible, p)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].DisplayOrder < visible[j].DisplayOrder })

	return middleware.Render(c, fiber.StatusOK, "home", fiber.Map{
		"Title":   "Home",
		"Courses": courses,
		"Photos":  visible,
	})
}

func (ctl *Controller) Catalog(c *fiber.Ctx) error {
	q := c.Locals("validatedList").(*courseValidator.CatalogQuery)
	api := middleware.CurrentSession(c).API()
	ctx := c.UserContext()

	courses, err := api.Courses(ctx, apiclient.CourseFilter{Category: q.Category, Search: q.Search})
	if err != nil {
		return err
	}
	categories, err := api.Categories(ctx)
	if err != nil {
		ctl.log.Warn("categories unavailable", "error", err)
	}

	return middleware.Render(c, fiber.StatusOK, "courses", fiber.Map{
		"Title":      "Courses",
		"Courses":    courses,
		"Categories": categories,
		"Category":   q.Category,
		"Search":     q.Search,
	})
}

func (ctl *Controller) Detail(c *fiber.Ctx) error {
	return ctl.renderDetail(c, fiber.StatusOK, nil)
}

// renderDetail loads the course page. extra carries form state when a
// certificate or feedback submission is shown again.
func (ctl *Controller) renderDetail(c *fiber.Ctx, status int, extra fiber.Map) error {
	courseID := c.Locals("courseID").(uint)
	requested, _ := c.Locals("requestedVideo").(uint)
	sess := middleware.CurrentSession(c)
	api := sess.API()
	ctx := c.UserContext()

	page, err := ctl.courses.Load(ctx, api, courseID, requested, sess.IsAuthenticated())
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Title":  page.Course.Title,
		"Page":   page,
		"Rating": 0,
	}
	if page.Enrolled {
		view, err := ctl.certificates.View(ctx, api, sess, courseID, page.Progress())
		if err != nil {
			ctl.log.Warn("certificate lookup failed", "course_id", courseID, "error", err)
		}
		data["Certificate"] = view
		data["DefaultName"] = sess.CurrentUser().DisplayName()

		done, err := ctl.feedback.AlreadySubmitted(ctx, api, sess, courseID)
		if err != nil {
			ctl.log.Warn("feedback lookup failed", "course_id", courseID, "error", err)
		}
		data["FeedbackDone"] = done
	} else {
		data["Certificate"] = services.CertificateView{State: services.DialogHidden}
	}
	for k, v := range extra {
		data[k] = v
	}
	return middleware.Render(c, status, "course", data)
}

// Enroll sends anonymous visitors to log in and paid courses to the
// purchase link; free courses are enrolled through the API.
func (ctl *Controller) Enroll(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	sess := middleware.CurrentSession(c)
	back := coursePath(courseID)

	if !sess.IsAuthenticated() {
		return c.Redirect(utils.LoginRedirect(back), fiber.StatusSeeOther)
	}

	ctx := c.UserContext()
	api := sess.API()
	course, err := api.Course(ctx, courseID)
	if err != nil {
		return err
	}

	flow := ctl.courses.Flow()
	if plan := flow.Plan(true, *course); plan.Outcome == services.OutcomeExternalPurchase {
		return c.Redirect(plan.PurchaseURL, fiber.StatusSeeOther)
	}

	if _, err := flow.Enroll(ctx, api, true, *course); err != nil {
		if apierr.Is(err, apierr.KindValidation) {
			middleware.SetFlash(c, middleware.FlashError, err.Error())
			return c.Redirect(back, fiber.StatusSeeOther)
		}
		return err
	}
	middleware.SetFlash(c, middleware.FlashSuccess, "You are enrolled in "+course.Title+"!")
	return c.Redirect(back, fiber.StatusSeeOther)
}

func (ctl *Controller) CompleteVideo(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	videoID := c.Locals("videoID").(uint)
	api := middleware.CurrentSession(c).API()

	enrollment, err := ctl.courses.CompleteVideo(c.UserContext(), api, courseID, videoID)
	if err != nil {
		return err
	}
	if enrollment.IsComplete() {
		middleware.SetFlash(c, middleware.FlashSuccess, "Course completed! Your certificate is ready.")
	} else {
		middleware.SetFlash(c, middleware.FlashSuccess, "Progress saved.")
	}
	return c.Redirect(coursePath(courseID)+"?video="+c.Params("videoId"), fiber.StatusSeeOther)
}

func (ctl *Controller) SubmitFeedback(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	form := c.Locals("validatedFeedback").(*courseValidator.FeedbackForm)
	sess := middleware.CurrentSession(c)

	_, err := ctl.feedback.Submit(c.UserContext(), sess.API(), sess, courseID, form.Rating, form.Comment)
	if err != nil {
		var formErr *services.FormError
		if errors.As(err, &formErr) {
			return ctl.renderDetail(c, fiber.StatusUnprocessableEntity, fiber.Map{
				"Errors":  formErr.Fields,
				"Rating":  form.Rating,
				"Comment": form.Comment,
			})
		}
		if apierr.Is(err, apierr.KindValidation) {
			middleware.SetFlash(c, middleware.FlashError, err.Error())
			return c.Redirect(coursePath(courseID), fiber.StatusSeeOther)
		}
		return err
	}
	middleware.SetFlash(c, middleware.FlashSuccess, "Thank you for your feedback!")
	return c.Redirect(coursePath(courseID), fiber.StatusSeeOther)
}

func coursePath(id uint) string {
	return "/courses/" + utils.FormatID(id)
}

// enrolledCourse returns the course and the caller's enrollment progress
func (ctl *Controller) enrolledCourse(c *fiber.Ctx) (*models.Course, float64, error) {
	courseID := c.Locals("courseID").(uint)
	api := middleware.CurrentSession(c).API()
	ctx := c.UserContext()

	course, err := api.Course(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}
	enrollment, err := ctl.courses.Enrollment(ctx, api, courseID)
	if err != nil {
		return nil, 0, err
	}
	if enrollment == nil {
		return course, 0, nil
	}
	return course, enrollment.Progress, nil
}
