package authValidator

import (
	"strings"

	"coursefront/middleware"
	"coursefront/validators"

	"github.com/gofiber/fiber/v2"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type RegisterForm struct {
	Email     string `form:"email" validate:"required,email"`
	Password  string `form:"password" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Next      string `form:"next"`
}

type ProfileForm struct {
	FirstName string `form:"first_name" validate:"required,max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
}

type PasswordForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword  string `form:"new_password" validate:"required,min=8"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginForm)
		if err := c.BodyParser(reqData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Email = strings.TrimSpace(reqData.Email)

		middleware.SetFormErrors(c, validators.Struct(reqData))
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterForm)
		if err := c.BodyParser(reqData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Email = strings.TrimSpace(reqData.Email)
		reqData.FirstName = strings.TrimSpace(reqData.FirstName)
		reqData.LastName = strings.TrimSpace(reqData.LastName)

		middleware.SetFormErrors(c, validators.Struct(reqData))
		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProfileForm)
		if err := c.BodyParser(reqData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.FirstName = strings.TrimSpace(reqData.FirstName)
		reqData.LastName = strings.TrimSpace(reqData.LastName)

		middleware.SetFormErrors(c, validators.Struct(reqData))
		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PasswordForm)
		if err := c.BodyParser(reqData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := validators.Struct(reqData)
		if errors == nil && reqData.OldPassword == reqData.NewPassword {
			errors = map[string]string{"new_password": "New password must differ from the current one!"}
		}
		middleware.SetFormErrors(c, errors)
		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}
