package apiclient

import (
	"context"
	"net/http"

	"coursefront/models"
)

func (c *Client) Certificates(ctx context.Context) ([]models.Certificate, error) {
	return getList[models.Certificate](ctx, c, "/certificates/", nil)
}

// IssueCertificate records an issued certificate so other sessions see it
func (c *Client) IssueCertificate(ctx context.Context, in models.IssueCertificate) (*models.Certificate, error) {
	var cert models.Certificate
	if err := c.sendJSON(ctx, http.MethodPost, "/admin/certificates/create/", in, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}
