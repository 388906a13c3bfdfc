// Package apierr normalizes every failure coming back from the remote API
// into one error type so callers never inspect response payloads themselves.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Kind string

const (
	KindNetwork         Kind = "network"
	KindUnauthorized    Kind = "unauthorized"
	KindSessionExpired  Kind = "session_expired"
	KindValidation      Kind = "validation"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindServer          Kind = "server"
	KindUnexpectedShape Kind = "unexpected_shape"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// FieldError returns the first message reported for a form field.
func (e *Error) FieldError(field string) string {
	if e == nil {
		return ""
	}
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "Unable to reach the server. Please try again.", Err: err}
}

func UnexpectedShape(err error) *Error {
	return &Error{Kind: KindUnexpectedShape, Message: "Unexpected response from the server.", Err: err}
}

func SessionExpired() *Error {
	return &Error{Kind: KindSessionExpired, Status: http.StatusUnauthorized, Message: "Your session has expired. Please log in again."}
}

// KindOf returns the kind of an *Error anywhere in err's chain, or "" otherwise.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As is a shorthand for errors.As on *Error.
func As(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// KindForStatus maps an HTTP status to the error taxonomy.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// Decode turns a non-2xx response into an *Error. The message is picked from
// detail, non_field_errors[0], message, error, then the first field error.
func Decode(status int, body []byte) *Error {
	e := &Error{Kind: KindForStatus(status), Status: status}

	var payload map[string]json.RawMessage
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		e.Fields = fieldErrors(payload)
		e.Message = firstNonEmpty(
			stringField(payload, "detail"),
			firstString(payload["non_field_errors"]),
			stringField(payload, "message"),
			stringField(payload, "error"),
			firstFieldMessage(e.Fields),
		)
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("api error (%d)", status)
	}
	return e
}

var reservedKeys = map[string]bool{
	"detail":           true,
	"non_field_errors": true,
	"message":          true,
	"error":            true,
	"code":             true,
	"status":           true,
}

func fieldErrors(payload map[string]json.RawMessage) map[string][]string {
	fields := map[string][]string{}
	for key, raw := range payload {
		if reservedKeys[key] {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			fields[key] = []string{single}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func firstFieldMessage(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s: %s", keys[0], fields[keys[0]][0])
}

func stringField(payload map[string]json.RawMessage, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return firstString(raw)
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
