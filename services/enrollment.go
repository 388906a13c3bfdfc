package services

import (
	"context"
	"fmt"

	"coursefront/learning"
	"coursefront/logger"
	"coursefront/models"
)

type EnrollOutcome int

const (
	OutcomeLoginRequired EnrollOutcome = iota
	OutcomeEnrolled
	OutcomeExternalPurchase
)

func (o EnrollOutcome) String() string {
	switch o {
	case OutcomeLoginRequired:
		return "login_required"
	case OutcomeEnrolled:
		return "enrolled"
	case OutcomeExternalPurchase:
		return "external_purchase"
	default:
		return "unknown"
	}
}

// CourseAPI is the slice of the API client the course page needs.
type CourseAPI interface {
	Course(ctx context.Context, id uint) (*models.Course, error)
	CourseVideos(ctx context.Context, id uint) ([]models.Video, error)
	CoursePDFs(ctx context.Context, id uint) ([]models.PDF, error)
	Enroll(ctx context.Context, courseID uint) error
}

type EnrollResult struct {
	Outcome     EnrollOutcome
	Course      *models.Course
	Videos      []models.Video
	PDFs        []models.PDF
	PurchaseURL string
}

type EnrollmentFlow struct {
	messagingURL string
	log          *logger.Logger
}

func NewEnrollmentFlow(messagingURL string, log *logger.Logger) *EnrollmentFlow {
	if log == nil {
		log = logger.Nop()
	}
	return &EnrollmentFlow{messagingURL: messagingURL, log: log.With("flow", "enrollment")}
}

// Plan decides what the enroll button does without calling the API.
// Only free courses for signed-in users go through Enroll.
func (f *EnrollmentFlow) Plan(authenticated bool, course models.Course) EnrollResult {
	switch {
	case !authenticated:
		return EnrollResult{Outcome: OutcomeLoginRequired}
	case !course.IsFree():
		return EnrollResult{
			Outcome:     OutcomeExternalPurchase,
			PurchaseURL: learning.PurchaseLink(f.messagingURL, course.Title),
		}
	default:
		return EnrollResult{Outcome: OutcomeEnrolled}
	}
}

// Enroll runs the enrollment for an already loaded course. Free courses are
// enrolled then re-read in order: course, videos, pdfs.
func (f *EnrollmentFlow) Enroll(ctx context.Context, api CourseAPI, authenticated bool, course models.Course) (*EnrollResult, error) {
	plan := f.Plan(authenticated, course)
	if plan.Outcome != OutcomeEnrolled {
		return &plan, nil
	}

	if err := api.Enroll(ctx, course.ID); err != nil {
		return nil, fmt.Errorf("enroll in course %d: %w", course.ID, err)
	}
	fresh, err := api.Course(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("reload course %d: %w", course.ID, err)
	}
	videos, err := api.CourseVideos(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("load videos for course %d: %w", course.ID, err)
	}
	pdfs, err := api.CoursePDFs(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("load pdfs for course %d: %w", course.ID, err)
	}

	f.log.Info("enrolled", "course", course.ID, "videos", len(videos), "pdfs", len(pdfs))
	return &EnrollResult{Outcome: OutcomeEnrolled, Course: fresh, Videos: videos, PDFs: pdfs}, nil
}
