package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"coursefront/apierr"
	"coursefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared int
}

func (m *memTokens) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *memTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memTokens) SetAccessToken(_ context.Context, access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	return nil
}

func (m *memTokens) SetTokens(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
	return nil
}

func (m *memTokens) ClearTokens(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	m.cleared++
	return nil
}

type hit struct {
	method string
	path   string
	auth   string
	body   string
}

type fakeAPI struct {
	mu   sync.Mutex
	hits []hit
}

func (f *fakeAPI) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = append(f.hits, hit{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), body: string(body)})
}

func (f *fakeAPI) hitsFor(path string) []hit {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []hit
	for _, h := range f.hits {
		if h.path == path {
			out = append(out, h)
		}
	}
	return out
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens *memTokens) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(NewHTTP(srv.URL, 5*time.Second), tokens, nil), api
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAttachesBearerToken(t *testing.T) {
	tokens := &memTokens{access: "A1", refresh: "R1"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"id": 1, "email": "a@b.c"})
	}, tokens)

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, "Bearer A1", api.hitsFor("/auth/profile/")[0].auth)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []interface{}{})
	}, &memTokens{})

	_, err := client.Courses(context.Background(), CourseFilter{})
	require.NoError(t, err)
	assert.Empty(t, api.hitsFor("/courses/")[0].auth)
}

func TestRefreshesOnceAndReplays(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			writeJSON(w, 200, map[string]string{"access": "new"})
		case "/enrollments/":
			if r.Header.Get("Authorization") != "Bearer new" {
				writeJSON(w, 401, map[string]string{"detail": "Token is invalid or expired"})
				return
			}
			writeJSON(w, 200, []map[string]interface{}{{"id": 1, "course": 2, "progress": 50}})
		}
	}, tokens)

	list, err := client.Enrollments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	calls := api.hitsFor("/enrollments/")
	require.Len(t, calls, 2)
	assert.Equal(t, "Bearer old", calls[0].auth)
	assert.Equal(t, "Bearer new", calls[1].auth)
	assert.Len(t, api.hitsFor(refreshPath), 1)
	assert.JSONEq(t, `{"refresh":"R1"}`, api.hitsFor(refreshPath)[0].body)
	assert.Equal(t, "new", tokens.AccessToken())
	assert.Equal(t, "R1", tokens.RefreshToken())
}

func TestKeepsRotatedRefreshToken(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			writeJSON(w, 200, map[string]string{"access": "new", "refresh": "R2"})
		default:
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(401)
				return
			}
			writeJSON(w, 200, map[string]interface{}{"id": 1})
		}
	}, tokens)

	_, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "R2", tokens.RefreshToken())
}

func TestSecond401IsSurfaced(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			writeJSON(w, 200, map[string]string{"access": "new"})
			return
		}
		writeJSON(w, 401, map[string]string{"detail": "nope"})
	}, tokens)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindUnauthorized))
	assert.Len(t, api.hitsFor("/auth/profile/"), 2)
	assert.Len(t, api.hitsFor(refreshPath), 1)
	assert.Equal(t, 0, tokens.cleared)
}

func TestRefreshFailureClearsTokens(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			writeJSON(w, 401, map[string]string{"detail": "Token is blacklisted"})
			return
		}
		writeJSON(w, 401, map[string]string{"detail": "expired"})
	}, tokens)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindSessionExpired))
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, tokens.RefreshToken())
	assert.Len(t, api.hitsFor("/auth/profile/"), 1)

	// later calls no longer carry the old token
	_, _ = client.Courses(context.Background(), CourseFilter{})
	for _, h := range api.hitsFor("/courses/") {
		assert.Empty(t, h.auth)
	}
}

func TestMissingRefreshTokenExpiresWithoutCall(t *testing.T) {
	tokens := &memTokens{access: "old"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}, tokens)

	_, err := client.Enrollments(context.Background())
	assert.True(t, apierr.Is(err, apierr.KindSessionExpired))
	assert.Empty(t, api.hitsFor(refreshPath))
	assert.Equal(t, 1, tokens.cleared)
}

func TestLoginFailureDoesNotRefresh(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "No active account found with the given credentials"})
	}, tokens)

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.KindUnauthorized, apiErr.Kind)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message)
	assert.Empty(t, api.hitsFor(refreshPath))
	assert.Empty(t, api.hitsFor("/auth/login/")[0].auth)
	assert.Equal(t, "R1", tokens.RefreshToken())
}

func TestOtherStatusesAreNotRetried(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 403, map[string]string{"detail": "You do not have permission to perform this action."})
	}, &memTokens{access: "A", refresh: "R"})

	_, err := client.AdminUsers(context.Background())
	assert.True(t, apierr.Is(err, apierr.KindForbidden))
	assert.Len(t, api.hitsFor("/admin/users/"), 1)
	assert.Empty(t, api.hitsFor(refreshPath))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(NewHTTP(url, time.Second), &memTokens{}, nil)
	_, err := client.Courses(context.Background(), CourseFilter{})
	assert.True(t, apierr.Is(err, apierr.KindNetwork))
}

func TestListFollowsPagination(t *testing.T) {
	var base string
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, 200, map[string]interface{}{"count": 3, "next": nil, "results": []map[string]interface{}{{"id": 3}}})
			return
		}
		assert.Equal(t, "4", r.URL.Query().Get("category"))
		writeJSON(w, 200, map[string]interface{}{
			"count":   3,
			"next":    base + "/courses/?category=4&page=2",
			"results": []map[string]interface{}{{"id": 1}, {"id": 2}},
		})
	}, &memTokens{})
	base = client.http.BaseURL

	courses, err := client.Courses(context.Background(), CourseFilter{Category: 4})
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, uint(3), courses[2].ID)
	assert.Len(t, api.hitsFor("/courses/"), 2)
}

func TestUnexpectedListShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"data": []int{1}})
	}, &memTokens{})

	_, err := client.Courses(context.Background(), CourseFilter{})
	assert.True(t, apierr.Is(err, apierr.KindUnexpectedShape))
}

func TestDecodeList(t *testing.T) {
	items, err := DecodeList[models.Category]([]byte(`[{"id":1,"name":"Go"}]`))
	require.NoError(t, err)
	assert.Equal(t, "Go", items[0].Name)

	items, err = DecodeList[models.Category]([]byte(`{"results":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	for _, body := range []string{``, `null`, `"x"`, `{"count":0}`, `{"results":{"id":1}}`} {
		_, err := DecodeList[models.Category]([]byte(body))
		assert.True(t, apierr.Is(err, apierr.KindUnexpectedShape), "body %q", body)
	}
}

func TestMultipartReplayAfterRefresh(t *testing.T) {
	tokens := &memTokens{access: "old", refresh: "R1"}
	var uploads []string
	var mu sync.Mutex
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == refreshPath {
			writeJSON(w, 200, map[string]string{"access": "new"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(401)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, 400, map[string]string{"file": "missing"})
			return
		}
		data, _ := io.ReadAll(file)
		mu.Lock()
		uploads = append(uploads, fmt.Sprintf("%s|%s", r.FormValue("title"), data))
		mu.Unlock()
		writeJSON(w, 201, map[string]interface{}{"id": 9, "title": r.FormValue("title")})
	}, tokens)

	pdf, err := AdminCreate[models.PDF](context.Background(), client, ResourcePDFs, Payload{
		Fields: map[string]interface{}{"title": "Notes", "course": uint(2)},
		Files:  []FileUpload{{Field: "file", Filename: "notes.pdf", Content: []byte("%PDF-1.4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), pdf.ID)
	assert.Equal(t, []string{"Notes|%PDF-1.4"}, uploads)
}
