package services

import (
	"context"
	"strings"
	"time"

	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/models"
	"coursefront/utils"
)

type DialogState int

const (
	DialogHidden DialogState = iota
	DialogForm
	DialogIssued
)

type CertificateAPI interface {
	Certificates(ctx context.Context) ([]models.Certificate, error)
	IssueCertificate(ctx context.Context, in models.IssueCertificate) (*models.Certificate, error)
}

// CertificateHints remembers issued certificates for when the API is unreachable.
type CertificateHints interface {
	HasIssuedCertificate(courseID uint) bool
	MarkIssuedCertificate(ctx context.Context, courseID uint) error
}

type CertificateRenderer interface {
	Render(data utils.CertificateData) ([]byte, error)
}

type CertificateMailer interface {
	SendCertificate(ctx context.Context, in utils.CertificateEmail) error
}

var ErrCertificateFailed = apierr.New(apierr.KindServer, 0, "Could not generate the certificate. Please try again.")

type CertificateView struct {
	State       DialogState
	Certificate *models.Certificate
}

type IssuedCertificate struct {
	Certificate *models.Certificate
	PDF         []byte
	Filename    string
}

type CertificateDialog struct {
	renderer CertificateRenderer
	mailer   CertificateMailer
	log      *logger.Logger
	now      func() time.Time
}

// NewCertificateDialog wires the dialog. mailer may be nil.
func NewCertificateDialog(renderer CertificateRenderer, mailer CertificateMailer, log *logger.Logger) *CertificateDialog {
	if log == nil {
		log = logger.Nop()
	}
	return &CertificateDialog{renderer: renderer, mailer: mailer, log: log.With("flow", "certificate"), now: time.Now}
}

// View decides what the dialog shows. The API is always asked first; the
// local hint only answers when the API cannot be reached.
func (d *CertificateDialog) View(ctx context.Context, api CertificateAPI, hints CertificateHints, courseID uint, progress float64) (CertificateView, error) {
	if progress < 100 {
		return CertificateView{State: DialogHidden}, nil
	}
	cert, issued, err := d.lookup(ctx, api, hints, courseID)
	if err != nil {
		return CertificateView{State: DialogForm}, err
	}
	if issued {
		return CertificateView{State: DialogIssued, Certificate: cert}, nil
	}
	return CertificateView{State: DialogForm}, nil
}

func (d *CertificateDialog) lookup(ctx context.Context, api CertificateAPI, hints CertificateHints, courseID uint) (*models.Certificate, bool, error) {
	certs, err := api.Certificates(ctx)
	if err != nil {
		if apierr.Is(err, apierr.KindNetwork) {
			d.log.Warn("certificate check fell back to local hint", "course", courseID)
			return nil, hints.HasIssuedCertificate(courseID), nil
		}
		return nil, false, err
	}
	for i := range certs {
		if certs[i].Course.ID == courseID {
			return &certs[i], true, nil
		}
	}
	return nil, false, nil
}

// Issue renders the certificate, records it with the API and sets the hint.
func (d *CertificateDialog) Issue(ctx context.Context, api CertificateAPI, hints CertificateHints, user models.User, course models.Course, progress float64, displayName string) (*IssuedCertificate, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, formError("name", "Please enter the name to print on the certificate!")
	}
	if progress < 100 {
		return nil, formError("name", "Complete the course to get a certificate.")
	}

	_, issued, err := d.lookup(ctx, api, hints, course.ID)
	if err != nil {
		return nil, err
	}
	if issued {
		return nil, formError("name", "A certificate has already been issued for this course.")
	}

	now := d.now()
	number := utils.NewCertificateNumber(now)
	pdf, err := d.renderer.Render(utils.CertificateData{
		Name:        name,
		CourseTitle: course.Title,
		Number:      number,
		IssuedAt:    now,
	})
	if err != nil {
		d.log.Error("certificate render failed", "course", course.ID, "error", err)
		return nil, ErrCertificateFailed
	}

	cert, err := api.IssueCertificate(ctx, models.IssueCertificate{
		User:              user.ID,
		Course:            course.ID,
		CertificateNumber: number,
		CustomTemplate:    name,
	})
	if err != nil {
		if apiErr, ok := apierr.As(err); ok && apiErr.Kind == apierr.KindValidation {
			return nil, formError("name", apiErr.Message)
		}
		d.log.Error("certificate record failed", "course", course.ID, "error", err)
		return nil, ErrCertificateFailed
	}

	if err := hints.MarkIssuedCertificate(ctx, course.ID); err != nil {
		d.log.Warn("could not remember issued certificate", "course", course.ID, "error", err)
	}

	if d.mailer != nil && user.Email != "" {
		err := d.mailer.SendCertificate(ctx, utils.CertificateEmail{
			To:          user.Email,
			Name:        name,
			CourseTitle: course.Title,
			Number:      number,
			PDF:         pdf,
		})
		if err != nil {
			d.log.Warn("certificate email not sent", "course", course.ID, "error", err)
		}
	}

	return &IssuedCertificate{Certificate: cert, PDF: pdf, Filename: utils.CertificateFilename(number)}, nil
}

// Download renders an already issued certificate again.
func (d *CertificateDialog) Download(ctx context.Context, api CertificateAPI, user models.User, course models.Course) (*IssuedCertificate, error) {
	certs, err := api.Certificates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range certs {
		cert := certs[i]
		if cert.Course.ID != course.ID {
			continue
		}
		name := strings.TrimSpace(cert.CustomTemplate)
		if name == "" {
			name = user.DisplayName()
		}
		issuedAt := cert.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = d.now()
		}
		pdf, err := d.renderer.Render(utils.CertificateData{
			Name:        name,
			CourseTitle: course.Title,
			Number:      cert.CertificateNumber,
			IssuedAt:    issuedAt,
		})
		if err != nil {
			d.log.Error("certificate render failed", "course", course.ID, "error", err)
			return nil, ErrCertificateFailed
		}
		return &IssuedCertificate{Certificate: &cert, PDF: pdf, Filename: utils.CertificateFilename(cert.CertificateNumber)}, nil
	}
	return nil, apierr.New(apierr.KindNotFound, 404, "No certificate has been issued for this course.")
}
