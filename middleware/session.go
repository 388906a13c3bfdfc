package middleware

import (
	"fmt"
	"time"

	"coursefront/logger"
	"coursefront/session"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	SessionCookie  = "lf_session"
	sessionKey     = "session"
	// how often a sliding cookie also marks the stored state as active
	keepAliveEvery = time.Hour
)

type SessionConfig struct {
	Secret  []byte
	TTL     time.Duration
	Secure  bool
	Manager *session.Manager
	Log     *logger.Logger
}

// GenerateSessionToken signs the browser session id into the cookie value
func GenerateSessionToken(sid string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken returns the session id of a valid cookie value
func ParseSessionToken(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session payload")
	}
	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", fmt.Errorf("invalid session id")
	}
	return sid, nil
}

// BrowserSession attaches the browser's session to the request, creating a
// new one when the cookie is missing or invalid. The cookie slides on every
// request.
func BrowserSession(cfg SessionConfig) fiber.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		sid, err := ParseSessionToken(c.Cookies(SessionCookie), cfg.Secret)
		if err != nil {
			sid = uuid.NewString()
		}

		ctx := c.UserContext()
		sess, err := cfg.Manager.Open(ctx, sid)
		if err != nil {
			return err
		}
		if err := sess.Restore(ctx); err != nil {
			log.Warn("session restore failed", "error", err)
		}
		if err := sess.KeepAlive(ctx, keepAliveEvery); err != nil {
			log.Warn("session keep-alive failed", "error", err)
		}

		token, err := GenerateSessionToken(sid, cfg.Secret, cfg.TTL)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session attached by BrowserSession
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}
