package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"coursefront/models"
)

// CourseFilter narrows the public catalog
type CourseFilter struct {
	Category uint
	Search   string
}

func (f CourseFilter) query() map[string]string {
	q := map[string]string{}
	if f.Category != 0 {
		q["category"] = strconv.FormatUint(uint64(f.Category), 10)
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	return q
}

func (c *Client) Courses(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	return getList[models.Course](ctx, c, "/courses/", filter.query())
}

func (c *Client) Course(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/", id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CourseVideos(ctx context.Context, id uint) ([]models.Video, error) {
	return getList[models.Video](ctx, c, fmt.Sprintf("/courses/%d/videos/", id), nil)
}

func (c *Client) CoursePDFs(ctx context.Context, id uint) ([]models.PDF, error) {
	return getList[models.PDF](ctx, c, fmt.Sprintf("/courses/%d/pdfs/", id), nil)
}

func (c *Client) Enroll(ctx context.Context, courseID uint) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/courses/%d/enroll/", courseID), body: map[string]interface{}{}})
	return err
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return getList[models.Category](ctx, c, "/categories/", nil)
}

// ReviewPhotos lists the public homepage photos
func (c *Client) ReviewPhotos(ctx context.Context) ([]models.ReviewPhoto, error) {
	return getList[models.ReviewPhoto](ctx, c, "/review-photos/", nil)
}
