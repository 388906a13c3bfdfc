package middleware

import (
	"coursefront/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth sends anonymous visitors to the login page
func RequireAuth(c *fiber.Ctx) error {
	sess := CurrentSession(c)
	if sess == nil || !sess.IsAuthenticated() {
		return c.Redirect(utils.LoginRedirect(c.OriginalURL()), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireStaff lets only staff users through
func RequireStaff(c *fiber.Ctx) error {
	sess := CurrentSession(c)
	if sess == nil || !sess.IsAuthenticated() {
		return c.Redirect(utils.LoginRedirect(c.OriginalURL()), fiber.StatusSeeOther)
	}
	if !sess.IsStaff() {
		SetFlash(c, FlashError, "You are not authorized to view that page.")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Next()
}
