package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"coursefront/models"
)

type FeedbackRequest struct {
	Course  uint   `json:"course"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// MyFeedback lists the current user's feedback, optionally for one course
func (c *Client) MyFeedback(ctx context.Context, courseID uint) ([]models.Feedback, error) {
	var query map[string]string
	if courseID != 0 {
		query = map[string]string{"course": strconv.FormatUint(uint64(courseID), 10)}
	}
	return getList[models.Feedback](ctx, c, "/feedback/", query)
}

func (c *Client) SubmitFeedback(ctx context.Context, in FeedbackRequest) (*models.Feedback, error) {
	var fb models.Feedback
	if err := c.sendJSON(ctx, http.MethodPost, "/feedback/", in, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}
