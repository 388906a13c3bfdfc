package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"coursefront/models"
)

type ProgressUpdate struct {
	Progress         float64 `json:"progress"`
	LastWatchedVideo *uint   `json:"last_watched_video,omitempty"`
}

func (c *Client) Enrollments(ctx context.Context) ([]models.Enrollment, error) {
	return getList[models.Enrollment](ctx, c, "/enrollments/", nil)
}

func (c *Client) CreateEnrollment(ctx context.Context, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	in := map[string]interface{}{"course": courseID, "progress": 0}
	if err := c.sendJSON(ctx, http.MethodPost, "/enrollments/create/", in, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (c *Client) UpdateEnrollment(ctx context.Context, id uint, in ProgressUpdate) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/enrollments/%d/update/", id), in, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
