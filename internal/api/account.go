package api

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/model"
)

// Login exchanges credentials for a user and access token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	return payload[model.AuthResult](ctx, c, request{method: http.MethodPost, path: "/api/login", body: creds})
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error) {
	return payload[model.AuthResult](ctx, c, request{method: http.MethodPost, path: "/api/register", body: reg})
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	return exec(ctx, c, request{method: http.MethodPost, path: "/api/logout"})
}

// Dashboard returns the admin counters.
func (c *Client) Dashboard(ctx context.Context) (*model.DashboardData, error) {
	return payload[model.DashboardData](ctx, c, request{method: http.MethodGet, path: "/api/admin/dashboard"})
}

// ListUsers lists every account.
func (c *Client) ListUsers(ctx context.Context) (*model.UserList, error) {
	return payload[model.UserList](ctx, c, request{method: http.MethodGet, path: "/api/admin/users"})
}

// DeleteUser deletes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return exec(ctx, c, request{method: http.MethodDelete, path: "/api/admin/users/" + strconv.FormatInt(id, 10)})
}

// SubmitContact sends the public contact form.
func (c *Client) SubmitContact(ctx context.Context, msg model.ContactMessage) (*model.Contact, error) {
	return payload[model.Contact](ctx, c, request{method: http.MethodPost, path: "/api/contact/", body: msg})
}

// ListContacts lists contact messages.
func (c *Client) ListContacts(ctx context.Context) (*model.ContactList, error) {
	return payload[model.ContactList](ctx, c, request{method: http.MethodGet, path: "/api/contact/"})
}

// DeleteContact deletes a contact message.
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return exec(ctx, c, request{method: http.MethodDelete, path: "/api/contact/" + strconv.FormatInt(id, 10)})
}

// GetRestaurant returns the restaurant settings.
func (c *Client) GetRestaurant(ctx context.Context) (*model.RestaurantData, error) {
	return payload[model.RestaurantData](ctx, c, request{method: http.MethodGet, path: "/api/my-restaurant"})
}

// UpdateRestaurant changes the restaurant settings.
func (c *Client) UpdateRestaurant(ctx context.Context, id int64, upd model.RestaurantUpdate) (*model.RestaurantData, error) {
	return payload[model.RestaurantData](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/my-restaurant/" + strconv.FormatInt(id, 10),
		body:   upd,
	})
}
