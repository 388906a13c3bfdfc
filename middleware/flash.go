package middleware

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "lf_flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot toast shown on the next rendered page
type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

func SetFlash(c *fiber.Ctx, kind, message string) {
	raw, _ := json.Marshal(Flash{Kind: kind, Message: message})
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ConsumeFlash returns the pending toast, if any, and clears it
func ConsumeFlash(c *fiber.Ctx) *Flash {
	value := c.Cookies(flashCookie)
	if value == "" {
		return nil
	}
	c.ClearCookie(flashCookie)
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
