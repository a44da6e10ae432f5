package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

// Default order listing page.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

func orderPath(id int64) string {
	return "/api/orders/" + strconv.FormatInt(id, 10)
}

// CreateOrder places an order for a cart.
func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest, idempotencyKey string) (*model.Order, error) {
	r := request{
		method: http.MethodPost,
		path:   "/api/orders",
		body:   req,
	}
	if idempotencyKey != "" {
		r.header = http.Header{HeaderIdempotencyKey: []string{idempotencyKey}}
	}
	return payload[model.Order](ctx, c, r)
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return payload[model.Order](ctx, c, request{
		method: http.MethodGet,
		path:   orderPath(id),
	})
}

// OrdersParams returns the query of an order listing with defaults applied.
func OrdersParams(q model.OrdersQuery) url.Values {
	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	return params
}

// ListOrders returns a page of orders. Requires an admin token.
func (c *Client) ListOrders(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error) {
	return payload[model.OrdersPage](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/orders",
		query:  OrdersParams(q),
	})
}

// UpdateOrderStatus submits a status transition. Requires an admin token.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, req model.UpdateOrderStatusRequest) (*model.Order, error) {
	return payload[model.Order](ctx, c, request{
		method: http.MethodPut,
		path:   orderPath(id),
		body:   req,
	})
}
