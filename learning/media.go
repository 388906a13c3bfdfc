package learning

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// EmbedURL rewrites recognized YouTube links to their embeddable form.
// The second result is false when the link cannot be played inline.
func EmbedURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live"):
			id = segments[1]
		}
	}

	if !youtubeID.MatchString(id) {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id, true
}

// MediaURL makes an API media reference absolute. Relative paths are
// resolved against mediaBase; on secure pages http is upgraded to https.
// The result is either empty or absolute.
func MediaURL(raw, mediaBase string, secure bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var u *url.URL
	switch {
	case strings.HasPrefix(raw, "//"):
		scheme := "http"
		if secure {
			scheme = "https"
		}
		parsed, err := url.Parse(scheme + ":" + raw)
		if err != nil {
			return ""
		}
		u = parsed
	default:
		parsed, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		if !parsed.IsAbs() {
			base, err := url.Parse(strings.TrimRight(mediaBase, "/") + "/")
			if err != nil || !base.IsAbs() {
				return ""
			}
			parsed = base.ResolveReference(parsed)
		}
		u = parsed
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	if secure && u.Scheme == "http" {
		u.Scheme = "https"
	}
	return u.String()
}

// PurchaseLink builds the out-of-band messaging link for a paid course.
// The title is escaped the way encodeURIComponent would.
func PurchaseLink(base, courseTitle string) string {
	text := "Hello! I would like to enroll in the course: " + courseTitle
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "text=" + escaped
}
