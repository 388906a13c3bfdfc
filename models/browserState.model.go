package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// BrowserState is what a browser would otherwise keep in local storage:
// the two API tokens and the issuance hint lists. The hints belong to the
// user in HintsUserID.
type BrowserState struct {
	SessionID          string         `gorm:"primaryKey;size:64" json:"session_id"`
	AccessToken        string         `gorm:"type:text" json:"access_token"`
	RefreshToken       string         `gorm:"type:text" json:"refresh_token"`
	HintsUserID        uint           `json:"hints_user_id"`
	IssuedCertificates datatypes.JSON `json:"issued_certificates"`
	SubmittedFeedback  datatypes.JSON `json:"submitted_feedback"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
}

// TableName sets the table name for GORM
func (BrowserState) TableName() string {
	return "browser_states"
}

func (s *BrowserState) HasIssuedCertificate(courseID uint) bool {
	return containsID(s.IssuedCertificates, courseID)
}

func (s *BrowserState) MarkIssuedCertificate(courseID uint) {
	s.IssuedCertificates = appendID(s.IssuedCertificates, courseID)
}

func (s *BrowserState) HasSubmittedFeedback(courseID uint) bool {
	return containsID(s.SubmittedFeedback, courseID)
}

func (s *BrowserState) MarkSubmittedFeedback(courseID uint) {
	s.SubmittedFeedback = appendID(s.SubmittedFeedback, courseID)
}

// ClearTokens forgets both API tokens but keeps the hint lists
func (s *BrowserState) ClearTokens() {
	s.AccessToken = ""
	s.RefreshToken = ""
}

// OwnHintsFor hands the hint lists to userID, dropping any left by
// a different user of the same browser.
func (s *BrowserState) OwnHintsFor(userID uint) {
	if s.HintsUserID == userID {
		return
	}
	s.ClearHints()
	s.HintsUserID = userID
}

func (s *BrowserState) ClearHints() {
	s.IssuedCertificates = nil
	s.SubmittedFeedback = nil
	s.HintsUserID = 0
}

func decodeIDs(raw datatypes.JSON) []uint {
	if len(raw) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}

func containsID(raw datatypes.JSON, id uint) bool {
	for _, v := range decodeIDs(raw) {
		if v == id {
			return true
		}
	}
	return false
}

func appendID(raw datatypes.JSON, id uint) datatypes.JSON {
	ids := decodeIDs(raw)
	for _, v := range ids {
		if v == id {
			return raw
		}
	}
	ids = append(ids, id)
	encoded, _ := json.Marshal(ids)
	return datatypes.JSON(encoded)
}
