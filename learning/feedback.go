package learning

import (
	"strings"
	"unicode/utf8"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 10
)

// ValidateFeedback checks a feedback form before anything is sent.
// A zero rating means the user never picked one.
func ValidateFeedback(rating int, comment string) map[string]string {
	errors := make(map[string]string)

	if rating == 0 {
		errors["rating"] = "Please select a rating!"
	} else if rating < MinRating || rating > MaxRating {
		errors["rating"] = "Rating must be between 1 and 5!"
	}

	if utf8.RuneCountInString(strings.TrimSpace(comment)) < MinCommentLength {
		errors["comment"] = "Comment must be at least 10 characters long!"
	}

	if len(errors) == 0 {
		return nil
	}
	return errors
}
