package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/feedback"
	"storefront/internal/identity"
	"storefront/internal/model"
	"storefront/internal/state"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of api.API.
type MockAPI struct {
	mock.Mock
}

var _ api.API = (*MockAPI)(nil)

// ret returns the first result as T, or the zero value when it is nil.
func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

func (m *MockAPI) GetCart(ctx context.Context, owner identity.Identity) (*model.Cart, error) {
	args := m.Called(ctx, owner)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockAPI) AddToCart(ctx context.Context, req model.AddToCartRequest) (*model.Cart, error) {
	args := m.Called(ctx, req)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateQuantity(ctx context.Context, req model.UpdateQuantityRequest) (*model.Cart, error) {
	args := m.Called(ctx, req)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockAPI) RemoveItem(ctx context.Context, req model.DeleteCartItemRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAPI) ApplyDiscount(ctx context.Context, req model.ApplyDiscountRequest) (*model.Cart, error) {
	args := m.Called(ctx, req)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockAPI) AdminCarts(ctx context.Context) (*model.AdminCarts, error) {
	args := m.Called(ctx)
	return ret[*model.AdminCarts](args, 0), args.Error(1)
}

func (m *MockAPI) CreateOrder(ctx context.Context, req model.CreateOrderRequest, idempotencyKey string) (*model.Order, error) {
	args := m.Called(ctx, req, idempotencyKey)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockAPI) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockAPI) ListOrders(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error) {
	args := m.Called(ctx, q)
	return ret[*model.OrdersPage](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateOrderStatus(ctx context.Context, id int64, req model.UpdateOrderStatusRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockAPI) CreateVisitor(ctx context.Context, req model.CreateVisitorRequest) (*model.Visitor, error) {
	args := m.Called(ctx, req)
	return ret[*model.Visitor](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateVisitor(ctx context.Context, visitorID string, req model.UpdateVisitorRequest) (*model.Visitor, error) {
	args := m.Called(ctx, visitorID, req)
	return ret[*model.Visitor](args, 0), args.Error(1)
}

func (m *MockAPI) GetVisitor(ctx context.Context, visitorID string) (*model.Visitor, error) {
	args := m.Called(ctx, visitorID)
	return ret[*model.Visitor](args, 0), args.Error(1)
}

func (m *MockAPI) ListVisitors(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error) {
	args := m.Called(ctx, q)
	return ret[*model.VisitorsPage](args, 0), args.Error(1)
}

func (m *MockAPI) VisitorAnalytics(ctx context.Context) (*model.VisitorAnalytics, error) {
	args := m.Called(ctx)
	return ret[*model.VisitorAnalytics](args, 0), args.Error(1)
}

func (m *MockAPI) ListMenu(ctx context.Context, q model.MenuQuery) (*model.MenuList, error) {
	args := m.Called(ctx, q)
	return ret[*model.MenuList](args, 0), args.Error(1)
}

func (m *MockAPI) CategorisedMenu(ctx context.Context, hasPrice bool, search string) (*model.CategorisedMenu, error) {
	args := m.Called(ctx, hasPrice, search)
	return ret[*model.CategorisedMenu](args, 0), args.Error(1)
}

func (m *MockAPI) CreateMenuItem(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error) {
	args := m.Called(ctx, in)
	return ret[*model.MenuItem](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateMenuItem(ctx context.Context, id int64, in model.MenuItemInput) (*model.MenuItem, error) {
	args := m.Called(ctx, id, in)
	return ret[*model.MenuItem](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteMenuItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) CreatePrice(ctx context.Context, itemID int64, in model.PriceInput) (*model.PriceList, error) {
	args := m.Called(ctx, itemID, in)
	return ret[*model.PriceList](args, 0), args.Error(1)
}

func (m *MockAPI) UpdatePrice(ctx context.Context, itemID, priceID int64, in model.PriceInput) (*model.PriceList, error) {
	args := m.Called(ctx, itemID, priceID, in)
	return ret[*model.PriceList](args, 0), args.Error(1)
}

func (m *MockAPI) DeletePrice(ctx context.Context, itemID, priceID int64) error {
	return m.Called(ctx, itemID, priceID).Error(0)
}

func (m *MockAPI) ListCategories(ctx context.Context) (*model.CategoryList, error) {
	args := m.Called(ctx)
	return ret[*model.CategoryList](args, 0), args.Error(1)
}

func (m *MockAPI) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	args := m.Called(ctx, in)
	return ret[*model.Category](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error) {
	args := m.Called(ctx, id, in)
	return ret[*model.Category](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ListCities(ctx context.Context) (*model.CityList, error) {
	args := m.Called(ctx)
	return ret[*model.CityList](args, 0), args.Error(1)
}

func (m *MockAPI) CreateCity(ctx context.Context, in model.City) (*model.City, error) {
	args := m.Called(ctx, in)
	return ret[*model.City](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateCity(ctx context.Context, id int64, in model.City) (*model.City, error) {
	args := m.Called(ctx, id, in)
	return ret[*model.City](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteCity(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	args := m.Called(ctx, creds)
	return ret[*model.AuthResult](args, 0), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error) {
	args := m.Called(ctx, reg)
	return ret[*model.AuthResult](args, 0), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAPI) Dashboard(ctx context.Context) (*model.DashboardData, error) {
	args := m.Called(ctx)
	return ret[*model.DashboardData](args, 0), args.Error(1)
}

func (m *MockAPI) ListUsers(ctx context.Context) (*model.UserList, error) {
	args := m.Called(ctx)
	return ret[*model.UserList](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) SubmitContact(ctx context.Context, msg model.ContactMessage) (*model.Contact, error) {
	args := m.Called(ctx, msg)
	return ret[*model.Contact](args, 0), args.Error(1)
}

func (m *MockAPI) ListContacts(ctx context.Context) (*model.ContactList, error) {
	args := m.Called(ctx)
	return ret[*model.ContactList](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteContact(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) GetRestaurant(ctx context.Context) (*model.RestaurantData, error) {
	args := m.Called(ctx)
	return ret[*model.RestaurantData](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateRestaurant(ctx context.Context, id int64, upd model.RestaurantUpdate) (*model.RestaurantData, error) {
	args := m.Called(ctx, id, upd)
	return ret[*model.RestaurantData](args, 0), args.Error(1)
}

// fixture bundles the collaborators every service needs.
type fixture struct {
	api      *MockAPI
	state    *state.State
	backend  storage.Backend
	cache    *cache.Cache
	notifier *feedback.Recorder
	logger   zerolog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := storage.NewMemoryBackend()
	st := state.New(backend, zerolog.Nop())
	require.NoError(t, st.Hydrate(context.Background()))

	return &fixture{
		api:      &MockAPI{},
		state:    st,
		backend:  backend,
		cache:    cache.New(time.Minute),
		notifier: &feedback.Recorder{},
		logger:   zerolog.Nop(),
	}
}

// signIn stores a session for user id with an opaque token.
func (f *fixture) signIn(t *testing.T, id int64, role string) {
	t.Helper()
	require.NoError(t, f.state.SetAuth(context.Background(), model.User{ID: id, Role: role}, "test-token"))
}
