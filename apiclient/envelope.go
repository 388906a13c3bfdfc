package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"coursefront/apierr"
)

// maxPages bounds how many "next" links a list call follows.
const maxPages = 50

type page struct {
	Results *json.RawMessage `json:"results"`
	Next    *string          `json:"next"`
}

// DecodeList accepts a bare JSON array or a paginated object with a
// "results" array. Anything else is an unexpected shape.
func DecodeList[T any](body []byte) ([]T, error) {
	items, _, err := decodePage[T](body)
	return items, err
}

func decodePage[T any](body []byte) ([]T, string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, "", apierr.UnexpectedShape(errors.New("empty body where a list was expected"))
	}

	var raw []byte
	next := ""
	switch trimmed[0] {
	case '[':
		raw = trimmed
	case '{':
		var p page
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, "", apierr.UnexpectedShape(err)
		}
		if p.Results == nil {
			return nil, "", apierr.UnexpectedShape(errors.New("object without results array"))
		}
		raw = *p.Results
		if p.Next != nil {
			next = *p.Next
		}
	default:
		return nil, "", apierr.UnexpectedShape(fmt.Errorf("list expected, got %.20q", string(trimmed)))
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "", apierr.UnexpectedShape(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, next, nil
}

func decodeObject(body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return apierr.UnexpectedShape(errors.New("object expected"))
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return apierr.UnexpectedShape(err)
	}
	return nil
}

// getList fetches every page of a list endpoint.
func getList[T any](ctx context.Context, c *Client, path string, query map[string]string) ([]T, error) {
	all := []T{}
	next := path
	for i := 0; i < maxPages && next != ""; i++ {
		q := query
		if i > 0 {
			// absolute next links already carry the query
			q = nil
		}
		body, err := c.do(ctx, request{method: http.MethodGet, path: next, query: q})
		if err != nil {
			return nil, err
		}
		items, nextURL, err := decodePage[T](body)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		next = nextURL
	}
	return all, nil
}
