package learning

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedURL(t *testing.T) {
	playable := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s":        "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ":            "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                         "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":                  "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":            "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":           "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"  https://www.youtube.com/watch?v=dQw4w9WgXcQ  ":      "https://www.youtube.com/embed/dQw4w9WgXcQ",
	}
	for in, want := range playable {
		got, ok := EmbedURL(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{
		"",
		"not a url",
		"https://vimeo.com/123456",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/channel/UC123456",
		"https://example.com/video.mp4",
		"https://youtu.be/",
	} {
		_, ok := EmbedURL(in)
		assert.False(t, ok, in)
	}
}

func TestMediaURL(t *testing.T) {
	base := "http://api.example.com"

	assert.Equal(t, "", MediaURL("", base, true))
	assert.Equal(t, "", MediaURL("   ", base, false))
	assert.Equal(t, "http://api.example.com/media/a.png", MediaURL("/media/a.png", base, false))
	assert.Equal(t, "https://api.example.com/media/a.png", MediaURL("/media/a.png", base, true))
	assert.Equal(t, "https://api.example.com/media/a.png", MediaURL("media/a.png", base+"/", true))
	assert.Equal(t, "https://cdn.example.com/x.jpg", MediaURL("http://cdn.example.com/x.jpg", base, true))
	assert.Equal(t, "https://cdn.example.com/x.jpg", MediaURL("https://cdn.example.com/x.jpg", base, false))
	assert.Equal(t, "https://cdn.example.com/x.jpg", MediaURL("//cdn.example.com/x.jpg", base, true))
	assert.Equal(t, "", MediaURL("javascript:alert(1)", base, true))
	assert.Equal(t, "", MediaURL("/media/a.png", "", true))
}

func TestMediaURLIsEmptyOrAbsolute(t *testing.T) {
	inputs := []string{"", "/a", "b/c", "http://x/y", "https://x/y", "//x/y", "ftp://x/y", "data:image/png;base64,xx", "%zz"}
	for _, secure := range []bool{true, false} {
		for _, in := range inputs {
			out := MediaURL(in, "http://media.example.com", secure)
			if out == "" {
				continue
			}
			u, err := url.Parse(out)
			assert.NoError(t, err)
			assert.True(t, u.IsAbs(), out)
			if secure {
				assert.Equal(t, "https", u.Scheme, out)
			}
		}
	}
}

func TestPurchaseLink(t *testing.T) {
	link := PurchaseLink("https://wa.me/15550001", "Go & Rust: Systems 101")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/15550001?text="))
	assert.Contains(t, link, "Go%20%26%20Rust%3A%20Systems%20101")
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	assert.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "Go & Rust: Systems 101")

	assert.Contains(t, PurchaseLink("https://chat.example.com/?to=1", "X"), "?to=1&text=")
}
