package api

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/model"
)

func (c *Client) ListCategories(ctx context.Context) (*model.CategoryList, error) {
	return payload[model.CategoryList](ctx, c, request{method: http.MethodGet, path: "/api/categories"})
}

func (c *Client) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	return payload[model.Category](ctx, c, request{method: http.MethodPost, path: "/api/categories", body: in})
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error) {
	return payload[model.Category](ctx, c, request{
		method: http.MethodPatch,
		path:   "/api/categories/" + strconv.FormatInt(id, 10),
		body:   in,
	})
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return exec(ctx, c, request{method: http.MethodDelete, path: "/api/categories/" + strconv.FormatInt(id, 10)})
}

func (c *Client) ListCities(ctx context.Context) (*model.CityList, error) {
	return payload[model.CityList](ctx, c, request{method: http.MethodGet, path: "/api/cities"})
}

func (c *Client) CreateCity(ctx context.Context, in model.City) (*model.City, error) {
	return payload[model.City](ctx, c, request{method: http.MethodPost, path: "/api/cities", body: in})
}

func (c *Client) UpdateCity(ctx context.Context, id int64, in model.City) (*model.City, error) {
	return payload[model.City](ctx, c, request{
		method: http.MethodPatch,
		path:   "/api/cities/" + strconv.FormatInt(id, 10),
		body:   in,
	})
}

func (c *Client) DeleteCity(ctx context.Context, id int64) error {
	return exec(ctx, c, request{method: http.MethodDelete, path: "/api/cities/" + strconv.FormatInt(id, 10)})
}
