package models

import "time"

type Certificate struct {
	ID                uint      `json:"id"`
	User              Ref       `json:"user"`
	Course            CourseRef `json:"course"`
	CourseTitle       string    `json:"course_title,omitempty"`
	CertificateNumber string    `json:"certificate_number"`
	IssuedAt          time.Time `json:"issued_at"`
	CustomTemplate    string    `json:"custom_template,omitempty"`
}

// IssueCertificate is the body sent when recording an issued certificate
type IssueCertificate struct {
	User              uint   `json:"user,omitempty"`
	Course            uint   `json:"course"`
	CertificateNumber string `json:"certificate_number"`
	CustomTemplate    string `json:"custom_template,omitempty"`
}
