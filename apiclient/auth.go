package apiclient

import (
	"context"
	"net/http"

	"coursefront/models"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) error {
	if in.Password2 == "" {
		in.Password2 = in.Password
	}
	_, err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register/", body: in, public: true})
	return err
}

// Login exchanges credentials for a token pair. It does not store them.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login/",
		body:   map[string]string{"email": email, "password": password},
		public: true,
	})
	if err != nil {
		return nil, err
	}
	var pair models.TokenPair
	if err := decodeObject(body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.sendJSON(ctx, http.MethodPatch, "/auth/profile/", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, in ChangePasswordRequest) error {
	return c.sendJSON(ctx, http.MethodPut, "/auth/change-password/", in, nil)
}
