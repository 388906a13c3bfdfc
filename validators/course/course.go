package courseValidator

import (
	"strconv"
	"strings"

	"coursefront/utils"

	"github.com/gofiber/fiber/v2"
)

// CourseParams checks the :id route parameter and, when present, :videoId.
func CourseParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := utils.ParseID(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Course not found!")
		}
		c.Locals("courseID", courseID)

		if raw := c.Params("videoId"); raw != "" {
			videoID, err := utils.ParseID(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Video not found!")
			}
			c.Locals("videoID", videoID)
		}

		// ?video= is only a selection hint, bad values fall back to the default
		if raw := c.Query("video"); raw != "" {
			if videoID, err := utils.ParseID(raw); err == nil {
				c.Locals("requestedVideo", videoID)
			}
		}
		return c.Next()
	}
}

type CatalogQuery struct {
	Category uint
	Search   string
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := &CatalogQuery{Search: strings.TrimSpace(c.Query("search"))}
		if raw := c.Query("category"); raw != "" {
			if id, err := utils.ParseID(raw); err == nil {
				q.Category = id
			}
		}
		c.Locals("validatedList", q)
		return c.Next()
	}
}

type CertificateForm struct {
	Name string `form:"name"`
}

// Certificate only parses; the dialog decides what an empty name means.
func Certificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CertificateForm)
		if err := c.BodyParser(reqData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body!")
		}
		c.Locals("validatedCertificate", reqData)
		return c.Next()
	}
}

type FeedbackForm struct {
	Rating  int
	Comment string
}

// Feedback parses the form. An unparsable rating counts as unset.
func Feedback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rating, err := strconv.Atoi(strings.TrimSpace(c.FormValue("rating")))
		if err != nil {
			rating = 0
		}
		c.Locals("validatedFeedback", &FeedbackForm{Rating: rating, Comment: c.FormValue("comment")})
		return c.Next()
	}
}
