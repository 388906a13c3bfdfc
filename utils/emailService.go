package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"coursefront/config"
	"coursefront/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridHost = "https://api.sendgrid.com"

// CertificateMailer emails issued certificates through SendGrid.
type CertificateMailer struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
	log       *logger.Logger
}

// NewCertificateMailer returns nil when SendGrid is not configured.
func NewCertificateMailer(cfg *config.Config, log *logger.Logger) *CertificateMailer {
	if strings.TrimSpace(cfg.SendgridAPIKey) == "" || strings.TrimSpace(cfg.SendgridFromEmail) == "" {
		return nil
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CertificateMailer{
		apiKey:    cfg.SendgridAPIKey,
		host:      sendgridHost,
		fromEmail: cfg.SendgridFromEmail,
		fromName:  cfg.SendgridFromName,
		log:       log.With("component", "mailer"),
	}
}

// WithHost points the mailer at another API host. Used by tests.
func (m *CertificateMailer) WithHost(host string) *CertificateMailer {
	m.host = strings.TrimRight(host, "/")
	return m
}

type CertificateEmail struct {
	To          string
	Name        string
	CourseTitle string
	Number      string
	PDF         []byte
}

func (m *CertificateMailer) SendCertificate(ctx context.Context, in CertificateEmail) error {
	if strings.TrimSpace(in.To) == "" {
		return fmt.Errorf("recipient required")
	}
	subject := "Your certificate: " + in.CourseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate is attached to this email.</p>
		<div class="info-box">
			<strong>Certificate number:</strong> %s
		</div>
	`, html.EscapeString(in.Name), html.EscapeString(in.CourseTitle), html.EscapeString(in.Number))

	msg := mail.NewV3MailInit(
		mail.NewEmail(m.fromName, m.fromEmail),
		subject,
		mail.NewEmail(in.Name, in.To),
		mail.NewContent("text/html", getEmailTemplate("Certificate Issued", body)),
	)
	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(in.PDF))
	attachment.SetType("application/pdf")
	attachment.SetFilename(CertificateFilename(in.Number))
	attachment.SetDisposition("attachment")
	msg.AddAttachment(attachment)

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(msg)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		m.log.Error("certificate email failed", "number", in.Number, "error", err)
		return err
	}
	if resp.StatusCode >= 300 {
		m.log.Error("certificate email rejected", "number", in.Number, "status", resp.StatusCode)
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, resp.Body)
	}
	m.log.Info("certificate email sent", "number", in.Number)
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>COURSES</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You received this email because you completed a course.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}
