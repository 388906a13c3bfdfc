package services

import (
	"context"
	"fmt"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/learning"
	"coursefront/models"
)

// CoursePageAPI adds the enrollment endpoints to CourseAPI.
type CoursePageAPI interface {
	CourseAPI
	Enrollments(ctx context.Context) ([]models.Enrollment, error)
	CreateEnrollment(ctx context.Context, courseID uint) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id uint, in apiclient.ProgressUpdate) (*models.Enrollment, error)
}

type CoursePage struct {
	Course     models.Course
	Enrollment *models.Enrollment
	Enrolled   bool
	Videos     []models.Video
	PDFs       []models.PDF
	Modules    []learning.Module
	Selected   *models.Video
	Plan       EnrollResult
}

// Progress is the enrollment progress, 0 when not enrolled.
func (p *CoursePage) Progress() float64 {
	if p.Enrollment == nil {
		return 0
	}
	return p.Enrollment.Progress
}

type CourseService struct {
	flow *EnrollmentFlow
}

func NewCourseService(flow *EnrollmentFlow) *CourseService {
	return &CourseService{flow: flow}
}

func (s *CourseService) Flow() *EnrollmentFlow {
	return s.flow
}

// Load builds the detail page. Videos and PDFs are only requested once the
// user is enrolled.
func (s *CourseService) Load(ctx context.Context, api CoursePageAPI, courseID, requestedVideo uint, authenticated bool) (*CoursePage, error) {
	course, err := api.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	page := &CoursePage{Course: *course, Plan: s.flow.Plan(authenticated, *course)}
	if !authenticated {
		return page, nil
	}

	enrollment, err := findEnrollment(ctx, api, courseID)
	if err != nil {
		return nil, err
	}
	page.Enrollment = enrollment
	page.Enrolled = course.IsEnrolled || enrollment != nil
	if !page.Enrolled {
		return page, nil
	}

	if page.Videos, err = api.CourseVideos(ctx, courseID); err != nil {
		if apierr.Is(err, apierr.KindForbidden) {
			page.Enrolled = false
			return page, nil
		}
		return nil, err
	}
	if page.PDFs, err = api.CoursePDFs(ctx, courseID); err != nil {
		return nil, err
	}

	page.Modules = learning.GroupIntoModules(page.Videos)
	var lastWatched *uint
	if enrollment != nil {
		lastWatched = enrollment.LastWatchedVideo
	}
	page.Selected = learning.SelectVideo(page.Videos, requestedVideo, lastWatched)
	return page, nil
}

// CompleteVideo records that a video was watched to the end and moves the
// enrollment progress forward.
func (s *CourseService) CompleteVideo(ctx context.Context, api CoursePageAPI, courseID, videoID uint) (*models.Enrollment, error) {
	videos, err := api.CourseVideos(ctx, courseID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, v := range videos {
		if v.ID == videoID {
			found = true
			break
		}
	}
	if !found {
		return nil, apierr.New(apierr.KindNotFound, 404, "Video not found in this course.")
	}

	enrollment, err := findEnrollment(ctx, api, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		if enrollment, err = api.CreateEnrollment(ctx, courseID); err != nil {
			return nil, fmt.Errorf("create enrollment for course %d: %w", courseID, err)
		}
	}

	id := videoID
	update := apiclient.ProgressUpdate{
		Progress:         learning.ProgressAfterWatching(videos, videoID, enrollment.Progress),
		LastWatchedVideo: &id,
	}
	return api.UpdateEnrollment(ctx, enrollment.ID, update)
}

func findEnrollment(ctx context.Context, api CoursePageAPI, courseID uint) (*models.Enrollment, error) {
	enrollments, err := api.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].CourseID() == courseID {
			return &enrollments[i], nil
		}
	}
	return nil, nil
}

// Enrollment returns the user's enrollment in the course, or nil.
func (s *CourseService) Enrollment(ctx context.Context, api CoursePageAPI, courseID uint) (*models.Enrollment, error) {
	return findEnrollment(ctx, api, courseID)
}
