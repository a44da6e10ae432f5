package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/model"
)

func itemPath(id int64) string {
	return "/api/items/" + strconv.FormatInt(id, 10)
}

func pricesPath(itemID int64) string {
	return itemPath(itemID) + "/prices"
}

// ListMenu lists menu items.
func (c *Client) ListMenu(ctx context.Context, q model.MenuQuery) (*model.MenuList, error) {
	params := url.Values{}
	if q.CategoryID > 0 {
		params.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.HasPrice {
		params.Set("has_price", "1")
	}
	if q.IsSpecial {
		params.Set("isSpecial", "true")
	}

	return payload[model.MenuList](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/items",
		query:  params,
	})
}

// CategorisedMenu returns the storefront menu grouped by category.
func (c *Client) CategorisedMenu(ctx context.Context, hasPrice bool, search string) (*model.CategorisedMenu, error) {
	params := url.Values{}
	if hasPrice {
		params.Set("has_price", "1")
	} else {
		params.Set("has_price", "0")
	}
	if s := strings.TrimSpace(search); s != "" {
		params.Set("search", s)
	}

	return payload[model.CategorisedMenu](ctx, c, request{
		method: http.MethodGet,
		path:   "/api/items/by-category",
		query:  params,
	})
}

func menuItemForm(in model.MenuItemInput) *multipartForm {
	special := "0"
	if in.IsSpecial {
		special = "1"
	}
	return &multipartForm{
		fields: [][2]string{
			{"name", in.Name},
			{"details", in.Details},
			{"category_id", strconv.FormatInt(in.CategoryID, 10)},
			{"status", in.Status},
			{"isSpecial", special},
		},
		fileField: "thumbnail",
		filePath:  in.ThumbnailPath,
	}
}

// CreateMenuItem uploads a new menu item.
func (c *Client) CreateMenuItem(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error) {
	return payload[model.MenuItem](ctx, c, request{
		method: http.MethodPost,
		path:   "/api/items",
		form:   menuItemForm(in),
	})
}

// UpdateMenuItem replaces a menu item. The API takes updates as a multipart POST.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, in model.MenuItemInput) (*model.MenuItem, error) {
	return payload[model.MenuItem](ctx, c, request{
		method: http.MethodPost,
		path:   itemPath(id),
		form:   menuItemForm(in),
	})
}

// DeleteMenuItem deletes a menu item.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return exec(ctx, c, request{
		method: http.MethodDelete,
		path:   itemPath(id),
	})
}

// CreatePrice adds a price variant to an item.
func (c *Client) CreatePrice(ctx context.Context, itemID int64, in model.PriceInput) (*model.PriceList, error) {
	return payload[model.PriceList](ctx, c, request{
		method: http.MethodPost,
		path:   pricesPath(itemID),
		body:   in,
	})
}

// UpdatePrice changes a price variant.
func (c *Client) UpdatePrice(ctx context.Context, itemID, priceID int64, in model.PriceInput) (*model.PriceList, error) {
	return payload[model.PriceList](ctx, c, request{
		method: http.MethodPut,
		path:   pricesPath(itemID) + "/" + strconv.FormatInt(priceID, 10),
		body:   in,
	})
}

// DeletePrice removes a price variant.
func (c *Client) DeletePrice(ctx context.Context, itemID, priceID int64) error {
	return exec(ctx, c, request{
		method: http.MethodDelete,
		path:   pricesPath(itemID) + "/" + strconv.FormatInt(priceID, 10),
	})
}
