package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseID parses a positive numeric path or form value.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}

// LoginRedirect builds the login URL that comes back to next.
func LoginRedirect(next string) string {
	return "/login?next=" + url.QueryEscape(SafeNext(next))
}

func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
