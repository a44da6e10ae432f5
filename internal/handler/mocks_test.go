package handler

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/service"
	"storefront/internal/validate"

	"github.com/stretchr/testify/mock"
)

func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Cart(ctx context.Context) (*model.Cart, error) {
	args := m.Called(ctx)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, item *model.MenuItem, priceID int64, qty int) (*model.Cart, error) {
	args := m.Called(ctx, item, priceID, qty)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockCartService) AddStaged(ctx context.Context) (*model.Cart, error) {
	args := m.Called(ctx)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockCartService) ChangeQuantity(ctx context.Context, line model.CartLine, delta int) (int, bool, error) {
	args := m.Called(ctx, line, delta)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCartService) Quantity(lineID int64) (int, bool) {
	args := m.Called(lineID)
	return args.Int(0), args.Bool(1)
}

func (m *MockCartService) Flush() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) Close() {
	m.Called()
}

func (m *MockCartService) Remove(ctx context.Context, line model.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockCartService) ApplyDiscount(ctx context.Context, code string) (*model.Cart, error) {
	args := m.Called(ctx, code)
	return ret[*model.Cart](args, 0), args.Error(1)
}

func (m *MockCartService) DiscountApplied() bool {
	return m.Called().Bool(0)
}

func (m *MockCartService) Checkout(ctx context.Context, form validate.CheckoutForm) (*service.CheckoutResult, error) {
	args := m.Called(ctx, form)
	return ret[*service.CheckoutResult](args, 0), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Propose(order *model.Order) orderflow.Proposal {
	return orderflow.Propose(order)
}

func (m *MockOrderService) Advance(ctx context.Context, current model.OrderStatus, orderID int64, next model.OrderStatus, payment model.PaymentStatus) (*model.Order, error) {
	args := m.Called(ctx, current, orderID, next, payment)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) AdvanceOrder(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	args := m.Called(ctx, order)
	return ret[*model.Order](args, 0), args.Bool(1), args.Error(2)
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) Track(ctx context.Context, token string) (*model.Order, error) {
	args := m.Called(ctx, token)
	return ret[*model.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error) {
	args := m.Called(ctx, q)
	return ret[*model.OrdersPage](args, 0), args.Error(1)
}

func (m *MockOrderService) Watch(ctx context.Context, id int64, interval time.Duration, fn func(*model.Order)) error {
	args := m.Called(ctx, id, interval, fn)
	return args.Error(0)
}

// MockCatalogService implements the part of service.CatalogService the cart
// commands use.
type MockCatalogService struct {
	service.CatalogService
	mock.Mock
}

func (m *MockCatalogService) MenuItem(ctx context.Context, id int64) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	return ret[*model.MenuItem](args, 0), args.Error(1)
}

// MockVisitorService implements the part of service.VisitorService the
// export command uses.
type MockVisitorService struct {
	service.VisitorService
	mock.Mock
}

func (m *MockVisitorService) List(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error) {
	args := m.Called(ctx, q)
	return ret[*model.VisitorsPage](args, 0), args.Error(1)
}

func (m *MockVisitorService) Get(ctx context.Context, visitorID string) (*model.Visitor, error) {
	args := m.Called(ctx, visitorID)
	return ret[*model.Visitor](args, 0), args.Error(1)
}
