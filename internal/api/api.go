// Package api is the REST client of the restaurant API.
package api

import (
	"context"

	"storefront/internal/identity"
	"storefront/internal/model"
)

// CartAPI defines the cart endpoints.
type CartAPI interface {
	// GetCart returns the cart of the given owner.
	GetCart(ctx context.Context, owner identity.Identity) (*model.Cart, error)

	// AddToCart adds items to the owner's cart, creating it if needed.
	AddToCart(ctx context.Context, req model.AddToCartRequest) (*model.Cart, error)

	// UpdateQuantity sets the quantity of a cart line.
	UpdateQuantity(ctx context.Context, req model.UpdateQuantityRequest) (*model.Cart, error)

	// RemoveItem deletes a cart line.
	RemoveItem(ctx context.Context, req model.DeleteCartItemRequest) error

	// ApplyDiscount applies a coupon code.
	ApplyDiscount(ctx context.Context, req model.ApplyDiscountRequest) (*model.Cart, error)

	// AdminCarts lists every cart. Requires an admin token.
	AdminCarts(ctx context.Context) (*model.AdminCarts, error)
}

// OrderAPI defines the order endpoints.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest, idempotencyKey string) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error)
	UpdateOrderStatus(ctx context.Context, id int64, req model.UpdateOrderStatusRequest) (*model.Order, error)
}

// VisitorAPI defines the visitor analytics endpoints.
type VisitorAPI interface {
	CreateVisitor(ctx context.Context, req model.CreateVisitorRequest) (*model.Visitor, error)
	UpdateVisitor(ctx context.Context, visitorID string, req model.UpdateVisitorRequest) (*model.Visitor, error)
	GetVisitor(ctx context.Context, visitorID string) (*model.Visitor, error)
	ListVisitors(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error)
	VisitorAnalytics(ctx context.Context) (*model.VisitorAnalytics, error)
}

// MenuAPI defines the menu item and price endpoints.
type MenuAPI interface {
	ListMenu(ctx context.Context, q model.MenuQuery) (*model.MenuList, error)
	CategorisedMenu(ctx context.Context, hasPrice bool, search string) (*model.CategorisedMenu, error)
	CreateMenuItem(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, in model.MenuItemInput) (*model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
	CreatePrice(ctx context.Context, itemID int64, in model.PriceInput) (*model.PriceList, error)
	UpdatePrice(ctx context.Context, itemID, priceID int64, in model.PriceInput) (*model.PriceList, error)
	DeletePrice(ctx context.Context, itemID, priceID int64) error
}

// CatalogAPI defines the category and city endpoints.
type CatalogAPI interface {
	ListCategories(ctx context.Context) (*model.CategoryList, error)
	CreateCategory(ctx context.Context, in model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCities(ctx context.Context) (*model.CityList, error)
	CreateCity(ctx context.Context, in model.City) (*model.City, error)
	UpdateCity(ctx context.Context, id int64, in model.City) (*model.City, error)
	DeleteCity(ctx context.Context, id int64) error
}

// AuthAPI defines the account endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error)
	Logout(ctx context.Context) error
}

// AdminAPI defines the admin dashboard endpoints.
type AdminAPI interface {
	Dashboard(ctx context.Context) (*model.DashboardData, error)
	ListUsers(ctx context.Context) (*model.UserList, error)
	DeleteUser(ctx context.Context, id int64) error
	SubmitContact(ctx context.Context, msg model.ContactMessage) (*model.Contact, error)
	ListContacts(ctx context.Context) (*model.ContactList, error)
	DeleteContact(ctx context.Context, id int64) error
	GetRestaurant(ctx context.Context) (*model.RestaurantData, error)
	UpdateRestaurant(ctx context.Context, id int64, upd model.RestaurantUpdate) (*model.RestaurantData, error)
}

// API is the full endpoint surface; *Client implements it.
type API interface {
	CartAPI
	OrderAPI
	VisitorAPI
	MenuAPI
	CatalogAPI
	AuthAPI
	AdminAPI
}

var _ API = (*Client)(nil)
