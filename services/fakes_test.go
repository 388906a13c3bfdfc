package services

import (
	"context"
	"errors"
	"fmt"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/models"
	"coursefront/utils"
)

func price(v float64) *models.Price {
	p := models.Price(v)
	return &p
}

func uintPtr(v uint) *uint { return &v }

// fakeAPI records every call by name, in order.
type fakeAPI struct {
	calls []string

	course       models.Course
	videos       []models.Video
	pdfs         []models.PDF
	enrollments  []models.Enrollment
	catalog      []models.Course
	certificates []models.Certificate
	feedback     []models.Feedback

	certErr     error
	feedbackErr error
	issueErr    error
	submitErr   error
	updated     *apiclient.ProgressUpdate
	issued      *models.IssueCertificate
	submitted   *apiclient.FeedbackRequest
}

func (f *fakeAPI) record(name string, args ...interface{}) {
	if len(args) > 0 {
		name = fmt.Sprintf("%s %v", name, args[0])
	}
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Course(_ context.Context, id uint) (*models.Course, error) {
	f.record("course", id)
	c := f.course
	return &c, nil
}

func (f *fakeAPI) CourseVideos(_ context.Context, id uint) ([]models.Video, error) {
	f.record("videos", id)
	return f.videos, nil
}

func (f *fakeAPI) CoursePDFs(_ context.Context, id uint) ([]models.PDF, error) {
	f.record("pdfs", id)
	return f.pdfs, nil
}

func (f *fakeAPI) Enroll(_ context.Context, id uint) error {
	f.record("enroll", id)
	f.course.IsEnrolled = true
	return nil
}

func (f *fakeAPI) Enrollments(context.Context) ([]models.Enrollment, error) {
	f.record("enrollments")
	return f.enrollments, nil
}

func (f *fakeAPI) CreateEnrollment(_ context.Context, id uint) (*models.Enrollment, error) {
	f.record("create-enrollment", id)
	e := models.Enrollment{ID: 900, Course: models.CourseRef{ID: id}}
	f.enrollments = append(f.enrollments, e)
	return &e, nil
}

func (f *fakeAPI) UpdateEnrollment(_ context.Context, id uint, in apiclient.ProgressUpdate) (*models.Enrollment, error) {
	f.record("update-enrollment", id)
	f.updated = &in
	return &models.Enrollment{ID: id, Progress: in.Progress, LastWatchedVideo: in.LastWatchedVideo}, nil
}

func (f *fakeAPI) Courses(context.Context, apiclient.CourseFilter) ([]models.Course, error) {
	f.record("courses")
	return f.catalog, nil
}

func (f *fakeAPI) Certificates(context.Context) ([]models.Certificate, error) {
	f.record("certificates")
	if f.certErr != nil {
		return nil, f.certErr
	}
	return f.certificates, nil
}

func (f *fakeAPI) IssueCertificate(_ context.Context, in models.IssueCertificate) (*models.Certificate, error) {
	f.record("issue-certificate", in.Course)
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	f.issued = &in
	cert := models.Certificate{ID: 1, Course: models.CourseRef{ID: in.Course}, CertificateNumber: in.CertificateNumber, CustomTemplate: in.CustomTemplate}
	f.certificates = append(f.certificates, cert)
	return &cert, nil
}

func (f *fakeAPI) MyFeedback(_ context.Context, courseID uint) ([]models.Feedback, error) {
	f.record("my-feedback", courseID)
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback, nil
}

func (f *fakeAPI) SubmitFeedback(_ context.Context, in apiclient.FeedbackRequest) (*models.Feedback, error) {
	f.record("submit-feedback", in.Course)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = &in
	return &models.Feedback{ID: 1, Course: models.CourseRef{ID: in.Course}, Rating: in.Rating, Comment: in.Comment}, nil
}

type fakeHints struct {
	certs    map[uint]bool
	feedback map[uint]bool
}

func newHints() *fakeHints {
	return &fakeHints{certs: map[uint]bool{}, feedback: map[uint]bool{}}
}

func (h *fakeHints) HasIssuedCertificate(id uint) bool { return h.certs[id] }
func (h *fakeHints) MarkIssuedCertificate(_ context.Context, id uint) error {
	h.certs[id] = true
	return nil
}
func (h *fakeHints) HasSubmittedFeedback(id uint) bool { return h.feedback[id] }
func (h *fakeHints) MarkSubmittedFeedback(_ context.Context, id uint) error {
	h.feedback[id] = true
	return nil
}

type fakeRenderer struct {
	rendered []utils.CertificateData
	err      error
}

func (r *fakeRenderer) Render(data utils.CertificateData) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, data)
	return []byte("%PDF-fake"), nil
}

type fakeMailer struct {
	sent []utils.CertificateEmail
}

func (m *fakeMailer) SendCertificate(_ context.Context, in utils.CertificateEmail) error {
	m.sent = append(m.sent, in)
	return errors.New("mail is down")
}

var errOffline = apierr.Network(errors.New("dial tcp: connection refused"))
