// Package apiclient is the only way the front end talks to the remote REST
// API. It attaches the bearer token, performs the single refresh-and-retry on
// 401 and turns every failure into an *apierr.Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursefront/apierr"
	"coursefront/logger"

	"github.com/go-resty/resty/v2"
)

const refreshPath = "/auth/token/refresh/"

// TokenStore is the durable home of the two API tokens for one browser.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(ctx context.Context, access string) error
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}

// NewHTTP builds the shared resty client. One per process.
func NewHTTP(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

type Client struct {
	http   *resty.Client
	tokens TokenStore
	log    *logger.Logger
}

// New binds the shared HTTP client to one browser's tokens.
func New(httpClient *resty.Client, tokens TokenStore, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{http: httpClient, tokens: tokens, log: log.With("client", "api")}
}

// FileUpload is a multipart file field. Content is kept in memory so the
// request can be replayed after a token refresh.
type FileUpload struct {
	Field    string
	Filename string
	Content  []byte
}

type request struct {
	method string
	path   string
	query  map[string]string
	body   interface{}
	form   map[string]string
	files  []FileUpload
	// public requests never carry a token and never trigger a refresh
	public bool
}

func (c *Client) build(ctx context.Context, req request) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if !req.public {
		if token := c.tokens.AccessToken(); token != "" {
			r.SetAuthToken(token)
		}
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	if len(req.files) > 0 {
		for _, f := range req.files {
			r.SetFileReader(f.Field, f.Filename, bytes.NewReader(f.Content))
		}
		if len(req.form) > 0 {
			r.SetFormData(req.form)
		}
	} else if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	return r
}

// do executes req and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	resp, err := c.build(ctx, req).Execute(req.method, req.path)
	if err != nil {
		c.log.Warn("api request failed", "method", req.method, "path", req.path, "error", err)
		return nil, apierr.Network(err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && !req.public {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		resp, err = c.build(ctx, req).Execute(req.method, req.path)
		if err != nil {
			return nil, apierr.Network(err)
		}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		apiErr := apierr.Decode(resp.StatusCode(), resp.Body())
		c.log.Debug("api error response", "method", req.method, "path", req.path, "status", resp.StatusCode(), "kind", apiErr.Kind)
		return nil, apiErr
	}
	return resp.Body(), nil
}

// refresh exchanges the refresh token for a new access token. Any failure
// clears both tokens and reports an expired session.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return c.expire(ctx, "no refresh token")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refresh": refreshToken}).
		Post(refreshPath)
	if err != nil {
		return c.expire(ctx, err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return c.expire(ctx, fmt.Sprintf("refresh status %d", resp.StatusCode()))
	}

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(resp.Body(), &pair); err != nil || pair.Access == "" {
		return c.expire(ctx, "refresh response without access token")
	}

	// rotated refresh tokens are kept when the API sends one
	if pair.Refresh != "" {
		err = c.tokens.SetTokens(ctx, pair.Access, pair.Refresh)
	} else {
		err = c.tokens.SetAccessToken(ctx, pair.Access)
	}
	if err != nil {
		return fmt.Errorf("store refreshed token: %w", err)
	}
	c.log.Debug("access token refreshed")
	return nil
}

func (c *Client) expire(ctx context.Context, reason string) error {
	c.log.Info("session expired, clearing tokens", "reason", reason)
	if err := c.tokens.ClearTokens(ctx); err != nil {
		c.log.Error("failed to clear tokens", "error", err)
	}
	return apierr.SessionExpired()
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, out interface{}) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decodeObject(body, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	body, err := c.do(ctx, request{method: method, path: path, body: in})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeObject(body, out)
}
