package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMessagePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"detail", 404, `{"detail":"Not found."}`, KindNotFound, "Not found."},
		{"non field errors", 400, `{"non_field_errors":["Invalid credentials"]}`, KindValidation, "Invalid credentials"},
		{"message", 403, `{"message":"Staff only"}`, KindForbidden, "Staff only"},
		{"error", 500, `{"error":"boom"}`, KindServer, "boom"},
		{"field array", 400, `{"email":["user with this email already exists."]}`, KindValidation, "email: user with this email already exists."},
		{"empty body", 409, ``, KindValidation, "Conflict"},
		{"not json", 502, `<html>bad gateway</html>`, KindServer, "Bad Gateway"},
		{"unauthorized", 401, `{"detail":"Token is invalid"}`, KindUnauthorized, "Token is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.message, err.Message)
		})
	}
}

func TestDecodeKeepsFieldErrors(t *testing.T) {
	err := Decode(http.StatusBadRequest, []byte(`{"password":["too short","too common"],"email":"bad email","detail":"Invalid"}`))

	assert.Equal(t, "Invalid", err.Message)
	assert.Equal(t, []string{"too short", "too common"}, err.Fields["password"])
	assert.Equal(t, "bad email", err.FieldError("email"))
	assert.Empty(t, err.FieldError("first_name"))
	_, hasDetail := err.Fields["detail"]
	assert.False(t, hasDetail)
}

func TestKindOfWrapped(t *testing.T) {
	base := Network(errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("fetch courses: %w", base)

	assert.Equal(t, KindNetwork, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNetwork))
	assert.False(t, Is(wrapped, KindServer))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindNetwork))
}
