package services

import (
	"context"
	"strings"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/learning"
	"coursefront/logger"
	"coursefront/models"
)

type FeedbackAPI interface {
	MyFeedback(ctx context.Context, courseID uint) ([]models.Feedback, error)
	SubmitFeedback(ctx context.Context, in apiclient.FeedbackRequest) (*models.Feedback, error)
}

type FeedbackHints interface {
	HasSubmittedFeedback(courseID uint) bool
	MarkSubmittedFeedback(ctx context.Context, courseID uint) error
}

type FeedbackForm struct {
	log *logger.Logger
}

func NewFeedbackForm(log *logger.Logger) *FeedbackForm {
	if log == nil {
		log = logger.Nop()
	}
	return &FeedbackForm{log: log.With("flow", "feedback")}
}

// AlreadySubmitted asks the API first and only consults the local hint
// when the API cannot be reached.
func (f *FeedbackForm) AlreadySubmitted(ctx context.Context, api FeedbackAPI, hints FeedbackHints, courseID uint) (bool, error) {
	items, err := api.MyFeedback(ctx, courseID)
	if err != nil {
		if apierr.Is(err, apierr.KindNetwork) {
			f.log.Warn("feedback check fell back to local hint", "course", courseID)
			return hints.HasSubmittedFeedback(courseID), nil
		}
		return false, err
	}
	for _, fb := range items {
		if fb.Course.ID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// Submit validates locally before any request is made.
func (f *FeedbackForm) Submit(ctx context.Context, api FeedbackAPI, hints FeedbackHints, courseID uint, rating int, comment string) (*models.Feedback, error) {
	if errs := learning.ValidateFeedback(rating, comment); errs != nil {
		return nil, &FormError{Fields: errs}
	}

	done, err := f.AlreadySubmitted(ctx, api, hints, courseID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, formError("comment", "You have already left feedback for this course.")
	}

	fb, err := api.SubmitFeedback(ctx, apiclient.FeedbackRequest{
		Course:  courseID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	})
	if err != nil {
		if apiErr, ok := apierr.As(err); ok && apiErr.Kind == apierr.KindValidation {
			return nil, formError("comment", apiErr.Message)
		}
		return nil, err
	}

	if err := hints.MarkSubmittedFeedback(ctx, courseID); err != nil {
		f.log.Warn("could not remember submitted feedback", "course", courseID, "error", err)
	}
	return fb, nil
}
