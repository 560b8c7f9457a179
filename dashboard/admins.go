package dashboard

import (
	"context"
	"fmt"
	"net/url"

	"github.com/adspay/console/session"
)

// Admin is a console administrator account.
type Admin struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Enabled  bool     `json:"enabled"`
	Roles    []string `json:"roles"`
}

type profileData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    struct {
		Roles []string `json:"roles"`
	} `json:"roles"`
}

// Profile returns the authenticated operator's own profile. The exchange
// flow uses this to enrich the session user with email and roles.
func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var data profileData
	if err := c.get(ctx, "/api/web/admin/profile", nil, &data); err != nil {
		return nil, err
	}
	return &session.User{
		Username: data.Username,
		Email:    data.Email,
		Roles:    data.Roles.Roles,
	}, nil
}

func (c *Client) ListAdmins(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	if err := c.get(ctx, "/api/web/admin", nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (c *Client) CreateAdmin(ctx context.Context, username, email, password string) (string, error) {
	return c.sendJSON(ctx, "POST", "/api/web/admin", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) UpdateAdmin(ctx context.Context, username, email string) (string, error) {
	return c.sendJSON(ctx, "PUT", adminPath(username), map[string]string{"email": email})
}

func (c *Client) ActivateAdmin(ctx context.Context, username string) (string, error) {
	return c.sendJSON(ctx, "POST", adminPath(username)+"/activate", nil)
}

func (c *Client) DeactivateAdmin(ctx context.Context, username string) (string, error) {
	return c.sendJSON(ctx, "POST", adminPath(username)+"/deactivate", nil)
}

func (c *Client) ResetAdminPassword(ctx context.Context, username, newPassword string) (string, error) {
	return c.sendJSON(ctx, "POST", adminPath(username)+"/reset-password", map[string]string{
		"newPassword": newPassword,
	})
}

func adminPath(username string) string {
	return fmt.Sprintf("/api/web/admin/%s", url.PathEscape(username))
}
