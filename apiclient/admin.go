package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"coursefront/models"
)

// Resource names an admin collection under /admin/
type Resource string

const (
	ResourceCourses      Resource = "courses"
	ResourceVideos       Resource = "videos"
	ResourcePDFs         Resource = "pdfs"
	ResourceUsers        Resource = "users"
	ResourceCertificates Resource = "certificates"
	ResourceReviewPhotos Resource = "review-photos"
)

func (r Resource) path() string {
	return fmt.Sprintf("/admin/%s/", r)
}

func (r Resource) itemPath(id uint) string {
	return fmt.Sprintf("/admin/%s/%d/", r, id)
}

// Payload is a create/update body. Without files it is sent as JSON;
// with files it becomes multipart form data.
type Payload struct {
	Fields map[string]interface{}
	Files  []FileUpload
}

func (p Payload) request(method, path string) request {
	req := request{method: method, path: path}
	if len(p.Files) == 0 {
		fields := p.Fields
		if fields == nil {
			fields = map[string]interface{}{}
		}
		req.body = fields
		return req
	}
	req.files = p.Files
	req.form = map[string]string{}
	for k, v := range p.Fields {
		switch t := v.(type) {
		case nil:
			continue
		case *float64:
			if t == nil {
				continue
			}
			req.form[k] = strconv.FormatFloat(*t, 'f', -1, 64)
		case *uint:
			if t == nil {
				continue
			}
			req.form[k] = strconv.FormatUint(uint64(*t), 10)
		default:
			req.form[k] = fmt.Sprint(t)
		}
	}
	return req
}

// AdminFilter restricts a list, e.g. videos of one course
type AdminFilter struct {
	Course uint
}

func (f AdminFilter) query() map[string]string {
	if f.Course == 0 {
		return nil
	}
	return map[string]string{"course": strconv.FormatUint(uint64(f.Course), 10)}
}

func AdminList[T any](ctx context.Context, c *Client, res Resource, filter AdminFilter) ([]T, error) {
	return getList[T](ctx, c, res.path(), filter.query())
}

func AdminGet[T any](ctx context.Context, c *Client, res Resource, id uint) (*T, error) {
	var item T
	if err := c.getJSON(ctx, res.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func AdminCreate[T any](ctx context.Context, c *Client, res Resource, p Payload) (*T, error) {
	body, err := c.do(ctx, p.request(http.MethodPost, res.path()))
	if err != nil {
		return nil, err
	}
	var item T
	if err := decodeObject(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func AdminUpdate[T any](ctx context.Context, c *Client, res Resource, id uint, p Payload) (*T, error) {
	body, err := c.do(ctx, p.request(http.MethodPatch, res.itemPath(id)))
	if err != nil {
		return nil, err
	}
	var item T
	if err := decodeObject(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) AdminDelete(ctx context.Context, res Resource, id uint) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: res.itemPath(id)})
	return err
}

// Typed shorthands used by the panels

func (c *Client) AdminCourses(ctx context.Context) ([]models.Course, error) {
	return AdminList[models.Course](ctx, c, ResourceCourses, AdminFilter{})
}

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	return AdminList[models.User](ctx, c, ResourceUsers, AdminFilter{})
}
