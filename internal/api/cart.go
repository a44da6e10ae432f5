package api

import (
	"context"
	"net/http"

	"storefront/internal/identity"
	"storefront/internal/model"
)

// GetCart returns the cart of owner. user_id takes priority over guest_id.
func (c *Client) GetCart(ctx context.Context, owner identity.Identity) (*model.Cart, error) {
	if owner.IsZero() {
		return nil, model.ErrNoIdentity
	}
	return payload[model.Cart](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/cart/",
		query:  owner.Query(),
	})
}

// AddToCart posts items to the cart.
func (c *Client) AddToCart(ctx context.Context, req model.AddToCartRequest) (*model.Cart, error) {
	return payload[model.Cart](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/cart/",
		body:   req,
	})
}

// UpdateQuantity sets the quantity of a line.
func (c *Client) UpdateQuantity(ctx context.Context, req model.UpdateQuantityRequest) (*model.Cart, error) {
	return payload[model.Cart](ctx, c, request{
		method: http.MethodPut,
		path:   "/api/cart/update-quantity/",
		body:   req,
	})
}

// RemoveItem deletes a line identified by item and price id.
func (c *Client) RemoveItem(ctx context.Context, req model.DeleteCartItemRequest) error {
	return exec(ctx, c, request{
		method: http.MethodDelete,
		path:   "/api/cart/item/",
		body:   req,
	})
}

// ApplyDiscount applies a coupon code to the cart.
func (c *Client) ApplyDiscount(ctx context.Context, req model.ApplyDiscountRequest) (*model.Cart, error) {
	return payload[model.Cart](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/cart/apply-discount",
		body:   req,
	})
}

// AdminCarts lists every cart.
func (c *Client) AdminCarts(ctx context.Context) (*model.AdminCarts, error) {
	return payload[model.AdminCarts](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/admin/carts",
	})
}
