package services

import (
	"context"

	"coursefront/apiclient"
	"coursefront/learning"
	"coursefront/logger"
	"coursefront/models"
)

type ProfileAPI interface {
	Enrollments(ctx context.Context) ([]models.Enrollment, error)
	Courses(ctx context.Context, filter apiclient.CourseFilter) ([]models.Course, error)
	Certificates(ctx context.Context) ([]models.Certificate, error)
}

type ProfilePage struct {
	Enrollments     []models.Enrollment
	Courses         map[uint]models.Course
	Recommendations []models.Course
	Summary         learning.ProgressSummary
	Certificates    []models.Certificate
}

// Course returns the details for an enrollment, filled from the catalog
// when the enrollment only carried the course id.
func (p *ProfilePage) Course(e models.Enrollment) models.Course {
	if c, ok := p.Courses[e.CourseID()]; ok {
		return c
	}
	return e.Details()
}

type ProfileService struct {
	log *logger.Logger
}

func NewProfileService(log *logger.Logger) *ProfileService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileService{log: log.With("flow", "profile")}
}

func (s *ProfileService) Load(ctx context.Context, api ProfileAPI) (*ProfilePage, error) {
	enrollments, err := api.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := api.Courses(ctx, apiclient.CourseFilter{})
	if err != nil {
		return nil, err
	}

	page := &ProfilePage{
		Enrollments:     enrollments,
		Courses:         make(map[uint]models.Course, len(enrollments)),
		Recommendations: learning.Recommend(enrollments, catalog),
		Summary:         learning.Summarize(enrollments),
	}

	byID := make(map[uint]models.Course, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}
	for _, e := range enrollments {
		details := e.Details()
		if c, ok := byID[e.CourseID()]; ok && (details.Title == "" || e.Course.Course == nil) {
			merged := c
			if details.Title != "" {
				merged.Title = details.Title
			}
			page.Courses[e.CourseID()] = merged
		}
	}

	// certificates are a nice-to-have on this page
	if page.Certificates, err = api.Certificates(ctx); err != nil {
		s.log.Warn("certificates unavailable", "error", err)
		page.Certificates = nil
	}
	return page, nil
}
