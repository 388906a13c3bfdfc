package views

import (
	"bytes"
	"strings"
	"testing"

	"coursefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPagesParse(t *testing.T) {
	e := New("https://api.example.com/media/")
	require.NoError(t, e.Load())

	for _, page := range []string{"home", "courses", "course", "certificate", "profile", "login", "register", "dashboard", "admin_list", "admin_form", "confirm_delete", "not_found", "error"} {
		assert.Contains(t, e.pages, page)
	}
}

func TestRenderNotFound(t *testing.T) {
	e := New("")
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "not_found", map[string]interface{}{"Title": "Error"}))
	assert.Contains(t, buf.String(), "does not exist")
	assert.Contains(t, buf.String(), "<title>Error | Courses</title>")

	assert.Error(t, e.Render(&buf, "missing", nil))
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	e := New("")
	out := string(e.markdown("**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.False(t, strings.Contains(out, "<script>"))
}

func TestCell(t *testing.T) {
	row := map[string]interface{}{
		"id":     float64(3),
		"price":  12.5,
		"ok":     true,
		"course": map[string]interface{}{"id": float64(1), "title": "Go"},
	}
	assert.Equal(t, "3", cell(row, "id"))
	assert.Equal(t, "12.50", cell(row, "price"))
	assert.Equal(t, "yes", cell(row, "ok"))
	assert.Equal(t, "Go", cell(row, "course"))
	assert.Equal(t, "", cell(row, "missing"))
}

func TestCourseCardUsesMediaBase(t *testing.T) {
	e := New("https://api.example.com/media/")
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	err := e.Render(&buf, "courses", map[string]interface{}{
		"Courses": []models.Course{{ID: 1, Title: "Go", Thumbnail: "thumbs/go.png"}},
		"Secure":  true,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `src="https://api.example.com/media/thumbs/go.png"`)
	assert.Contains(t, buf.String(), "Free")
}
