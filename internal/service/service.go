package service

import (
	"context"
	"time"

	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/state"
	"storefront/internal/validate"
)

// OrderService drives the order status workflow.
type OrderService interface {
	// Propose returns the single legal next step for order.
	Propose(order *model.Order) orderflow.Proposal

	// Advance submits next as the step after current. It is rejected before
	// any network call unless next is exactly the stage after current.
	Advance(ctx context.Context, current model.OrderStatus, orderID int64, next model.OrderStatus, payment model.PaymentStatus) (*model.Order, error)

	// AdvanceOrder proposes and submits the next step of order. A terminal
	// order is left untouched and reported as not advanced.
	AdvanceOrder(ctx context.Context, order *model.Order) (*model.Order, bool, error)

	// Get returns an order by id.
	Get(ctx context.Context, id int64) (*model.Order, error)

	// Track returns the order referenced by a tracking token.
	Track(ctx context.Context, token string) (*model.Order, error)

	// List returns a page of orders. Requires a signed-in admin.
	List(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error)

	// Watch polls an order every interval and calls fn whenever its status
	// changes, until it is delivered or ctx is done.
	Watch(ctx context.Context, id int64, interval time.Duration, fn func(*model.Order)) error
}

// CartService composes the cart of the active identity.
type CartService interface {
	// Cart returns the current cart and syncs local quantities with it.
	Cart(ctx context.Context) (*model.Cart, error)

	// Add puts qty of the given price variant of item into the cart.
	Add(ctx context.Context, item *model.MenuItem, priceID int64, qty int) (*model.Cart, error)

	// AddStaged sends every staged item to the cart and clears the staging list.
	AddStaged(ctx context.Context) (*model.Cart, error)

	// ChangeQuantity moves the local quantity of line by delta, never below
	// one, and schedules the debounced update. It returns the new quantity
	// and whether it changed.
	ChangeQuantity(ctx context.Context, line model.CartLine, delta int) (int, bool, error)

	// Quantity returns the local quantity of a line.
	Quantity(lineID int64) (int, bool)

	// Flush sends every pending quantity update now and returns how many
	// were sent along with the updates that failed.
	Flush() (int, error)

	// Close drops pending quantity updates.
	Close()

	// Remove deletes a line from the cart.
	Remove(ctx context.Context, line model.CartLine) error

	// ApplyDiscount applies a coupon once per cart.
	ApplyDiscount(ctx context.Context, code string) (*model.Cart, error)

	// DiscountApplied reports whether the cart already has a discount.
	DiscountApplied() bool

	// Checkout converts the cart into an order.
	Checkout(ctx context.Context, form validate.CheckoutForm) (*CheckoutResult, error)
}

// CheckoutResult is a placed order and the token that tracks it.
type CheckoutResult struct {
	Order         *model.Order
	TrackingToken string
}

// VisitorService is the visitor session beacon plus the admin visitor views.
type VisitorService interface {
	// Track records a visitor session once per guest. Failures are logged,
	// never returned. It reports whether a session was created by this call.
	Track(ctx context.Context) bool

	// Status returns the beacon state.
	Status() BeaconStatus

	// Sections returns a dwell tracker for the current guest.
	Sections(ctx context.Context) *SectionTracker

	List(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error)
	Analytics(ctx context.Context) (*model.VisitorAnalytics, error)
	Get(ctx context.Context, visitorID string) (*model.Visitor, error)
}

// AccountService signs users in and out.
type AccountService interface {
	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	Logout(ctx context.Context) error
	Me() *model.User
}

// CatalogService manages the menu, categories and cities.
type CatalogService interface {
	Menu(ctx context.Context, q model.MenuQuery) (*model.MenuList, error)
	CategorisedMenu(ctx context.Context, search string) (*model.CategorisedMenu, error)
	MenuItem(ctx context.Context, id int64) (*model.MenuItem, error)
	CreateItem(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error)
	UpdateItem(ctx context.Context, id int64, in model.MenuItemInput) (*model.MenuItem, error)
	DeleteItem(ctx context.Context, id int64) error
	CreatePrice(ctx context.Context, itemID int64, in model.PriceInput) (*model.PriceList, error)
	UpdatePrice(ctx context.Context, itemID, priceID int64, in model.PriceInput) (*model.PriceList, error)
	DeletePrice(ctx context.Context, itemID, priceID int64) error

	Categories(ctx context.Context) (*model.CategoryList, error)
	CreateCategory(ctx context.Context, in model.Category) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Cities(ctx context.Context) (*model.CityList, error)
	CreateCity(ctx context.Context, in model.City) (*model.City, error)
	UpdateCity(ctx context.Context, id int64, in model.City) (*model.City, error)
	DeleteCity(ctx context.Context, id int64) error
}

// AdminService backs the admin dashboard.
type AdminService interface {
	// Dashboard fetches the counters, latest orders and visitor analytics
	// concurrently.
	Dashboard(ctx context.Context) (*DashboardSnapshot, error)

	Users(ctx context.Context) (*model.UserList, error)
	DeleteUser(ctx context.Context, id int64) error
	Carts(ctx context.Context) (*model.AdminCarts, error)
	Contacts(ctx context.Context) (*model.ContactList, error)
	DeleteContact(ctx context.Context, id int64) error
	SubmitContact(ctx context.Context, msg model.ContactMessage) (*model.Contact, error)
	Restaurant(ctx context.Context) (*model.Restaurant, error)
	UpdateRestaurant(ctx context.Context, upd model.RestaurantUpdate) (*model.Restaurant, error)
}

// DashboardSnapshot is everything the admin landing page shows.
type DashboardSnapshot struct {
	Stats     model.DashboardStats
	Orders    *model.OrdersPage
	Analytics *model.VisitorAnalytics
}

// requireToken fails with model.ErrAuthRequired when nobody is signed in.
func requireToken(st *state.State, n feedback.Notifier) error {
	if st.Token() == "" {
		return feedback.Fail(n, model.ErrAuthRequired, "")
	}
	return nil
}
