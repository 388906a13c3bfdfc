package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateMailerDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewCertificateMailer(&config.Config{}, nil))
	assert.Nil(t, NewCertificateMailer(&config.Config{SendgridAPIKey: "k"}, nil))
}

func TestSendCertificate(t *testing.T) {
	var (
		auth string
		body map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := &config.Config{SendgridAPIKey: "SG.key", SendgridFromEmail: "noreply@example.com", SendgridFromName: "Courses"}
	mailer := NewCertificateMailer(cfg, nil).WithHost(srv.URL)

	err := mailer.SendCertificate(context.Background(), CertificateEmail{
		To:          "ada@example.com",
		Name:        "Ada",
		CourseTitle: "Go <Basics>",
		Number:      "CERT-1",
		PDF:         []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "Your certificate: Go <Basics>", body["subject"])

	attachments := body["attachments"].([]interface{})
	require.Len(t, attachments, 1)
	att := attachments[0].(map[string]interface{})
	assert.Equal(t, "certificate-CERT-1.pdf", att["filename"])
	assert.Equal(t, "application/pdf", att["type"])
}

func TestSendCertificateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{SendgridAPIKey: "bad", SendgridFromEmail: "noreply@example.com"}
	err := NewCertificateMailer(cfg, nil).WithHost(srv.URL).SendCertificate(context.Background(), CertificateEmail{To: "a@b.c", Number: "N"})
	assert.Error(t, err)
}
