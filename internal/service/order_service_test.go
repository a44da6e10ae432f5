package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/orderflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(f *fixture) OrderService {
	return NewOrderService(f.api, f.state, f.cache, f.notifier, f.logger)
}

func TestOrderService_Advance_InvalidatesOrderCaches(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, 1, model.RoleAdmin)
	svc := newOrderService(f)

	f.cache.Set([]string{cache.KeyOrders, "page=1"}, "stale")
	f.cache.Set([]string{cache.KeyOrderByID, "42"}, "stale")
	f.cache.Set([]string{cache.KeyOrderByID, "7"}, "other")

	f.api.On("UpdateOrderStatus", mock.Anything, int64(42), model.UpdateOrderStatusRequest{
		Status:        model.OrderStatusCooking,
		PaymentStatus: model.PaymentStatusUnpaid,
	}).Return(&model.Order{ID: 42, Status: model.OrderStatusCooking}, nil).Once()

	order := &model.Order{ID: 42, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid}
	p := svc.Propose(order)
	assert.Equal(t, model.OrderStatusCooking, p.Next)

	updated, err := svc.Advance(context.Background(), p.Current, 42, p.Next, p.PaymentStatus)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCooking, updated.Status)

	assert.False(t, f.cache.Has(cache.KeyOrders))
	assert.False(t, f.cache.Has(cache.KeyOrderByID, "42"))
	assert.True(t, f.cache.Has(cache.KeyOrderByID, "7"))
	assert.Equal(t, []string{"Order status updated to cooking"}, f.notifier.Successes())
	f.api.AssertExpectations(t)
}

func TestOrderService_Advance_RejectedBeforeNetwork(t *testing.T) {
	tests := []struct {
		name        string
		signedIn    bool
		orderID     int64
		current     model.OrderStatus
		next        model.OrderStatus
		payment     model.PaymentStatus
		expectedErr error
		expectedMsg string
	}{
		{
			name:        "Delivered while unpaid",
			signedIn:    true,
			orderID:     1,
			current:     model.OrderStatusOnTheWay,
			next:        model.OrderStatusDelivered,
			payment:     model.PaymentStatusUnpaid,
			expectedMsg: "payment_status - Payment must be marked as paid before delivery",
		},
		{
			name:        "Delivered without payment status",
			signedIn:    true,
			orderID:     1,
			current:     model.OrderStatusOnTheWay,
			next:        model.OrderStatusDelivered,
			expectedMsg: "payment_status - Mark payment as paid before delivering",
		},
		{
			name:        "Unknown status",
			signedIn:    true,
			orderID:     1,
			next:        "refunded",
			expectedMsg: "status - Select a valid status",
		},
		{
			name:        "Skipping to delivered",
			signedIn:    true,
			orderID:     1,
			current:     model.OrderStatusPending,
			next:        model.OrderStatusDelivered,
			payment:     model.PaymentStatusPaid,
			expectedErr: model.ErrInvalidTransition,
		},
		{
			name:        "Missing order id",
			signedIn:    true,
			next:        model.OrderStatusCooking,
			expectedErr: model.ErrOrderIDRequired,
		},
		{
			name:        "Not signed in",
			orderID:     1,
			next:        model.OrderStatusCooking,
			expectedErr: model.ErrAuthRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.signedIn {
				f.signIn(t, 1, model.RoleAdmin)
			}
			svc := newOrderService(f)

			_, err := svc.Advance(context.Background(), tt.current, tt.orderID, tt.next, tt.payment)
			require.Error(t, err)
			assert.True(t, feedback.IsReported(err))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.expectedMsg != "" {
				assert.Contains(t, f.notifier.Errors(), tt.expectedMsg)
			}
			f.api.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_Advance_APIErrorsFanOut(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, 1, model.RoleAdmin)
	svc := newOrderService(f)

	f.api.On("UpdateOrderStatus", mock.Anything, int64(5), mock.Anything).Return(nil, &api.Error{
		StatusCode: 422,
		Errors: []model.FieldError{
			{Attr: "status", Detail: "cannot move backwards"},
			{Attr: "payment_status", Detail: "is locked"},
		},
	})
	f.cache.Set([]string{cache.KeyOrderByID, "5"}, "cached")

	_, err := svc.Advance(context.Background(), model.OrderStatusPending, 5, model.OrderStatusCooking, model.PaymentStatusUnpaid)
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, 422))
	assert.Equal(t, []string{"status - cannot move backwards", "payment_status - is locked"}, f.notifier.Errors())
	assert.True(t, f.cache.Has(cache.KeyOrderByID, "5"), "failed update must not invalidate")
}

func TestOrderService_Advance_NeverSkips(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, 1, model.RoleAdmin)
	svc := newOrderService(f)

	_, err := svc.Advance(context.Background(), model.OrderStatusPending, 3, model.OrderStatusOnTheWay, model.PaymentStatusUnpaid)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.Advance(context.Background(), model.OrderStatusCooking, 3, model.OrderStatusPending, model.PaymentStatusUnpaid)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.Advance(context.Background(), model.OrderStatusDelivered, 3, model.OrderStatusDelivered, model.PaymentStatusPaid)
	assert.ErrorIs(t, err, model.ErrOrderTerminal)

	f.api.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AdvanceOrder_OneStepAtATime(t *testing.T) {
	tests := []struct {
		current         model.OrderStatus
		payment         model.PaymentStatus
		expectedNext    model.OrderStatus
		expectedPayment model.PaymentStatus
	}{
		{model.OrderStatusPending, model.PaymentStatusUnpaid, model.OrderStatusCooking, model.PaymentStatusUnpaid},
		{model.OrderStatusCooking, model.PaymentStatusPaid, model.OrderStatusOnTheWay, model.PaymentStatusPaid},
		{model.OrderStatusOnTheWay, model.PaymentStatusUnpaid, model.OrderStatusDelivered, model.PaymentStatusPaid},
		{"garbage", model.PaymentStatusPending, model.OrderStatusCooking, model.PaymentStatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			f := newFixture(t)
			f.signIn(t, 1, model.RoleAdmin)
			svc := newOrderService(f)

			f.api.On("UpdateOrderStatus", mock.Anything, int64(9), model.UpdateOrderStatusRequest{
				Status:        tt.expectedNext,
				PaymentStatus: tt.expectedPayment,
			}).Return(&model.Order{ID: 9, Status: tt.expectedNext, PaymentStatus: tt.expectedPayment}, nil).Once()

			updated, advanced, err := svc.AdvanceOrder(context.Background(), &model.Order{ID: 9, Status: tt.current, PaymentStatus: tt.payment})
			require.NoError(t, err)
			assert.True(t, advanced)
			assert.Equal(t, tt.expectedNext, updated.Status)
			assert.Equal(t, orderflow.Index(orderflow.Normalize(string(tt.current)))+1, orderflow.Index(updated.Status))
			f.api.AssertExpectations(t)
		})
	}
}

func TestOrderService_AdvanceOrder_TerminalIsNoop(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, 1, model.RoleAdmin)
	svc := newOrderService(f)

	order := &model.Order{ID: 4, Status: model.OrderStatusDelivered, PaymentStatus: model.PaymentStatusPaid}
	got, advanced, err := svc.AdvanceOrder(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Same(t, order, got)
	assert.Empty(t, f.notifier.Errors())
	f.api.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Get_Cached(t *testing.T) {
	f := newFixture(t)
	svc := newOrderService(f)

	f.api.On("GetOrder", mock.Anything, int64(12)).Return(&model.Order{ID: 12, Status: model.OrderStatusPending}, nil).Once()

	for range 3 {
		order, err := svc.Get(context.Background(), 12)
		require.NoError(t, err)
		assert.Equal(t, int64(12), order.ID)
	}
	f.api.AssertExpectations(t)
}

func TestOrderService_Track(t *testing.T) {
	f := newFixture(t)
	svc := newOrderService(f)

	token, err := orderflow.EncodeTrackingToken(orderflow.TrackingRef{ID: 31})
	require.NoError(t, err)

	f.api.On("GetOrder", mock.Anything, int64(31)).Return(&model.Order{ID: 31}, nil).Once()

	order, err := svc.Track(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(31), order.ID)

	_, err = svc.Track(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, model.ErrTrackingToken)
	assert.Equal(t, []string{"Invalid order tracking token"}, f.notifier.Errors())
}

func TestOrderService_List(t *testing.T) {
	f := newFixture(t)
	svc := newOrderService(f)

	_, err := svc.List(context.Background(), model.OrdersQuery{})
	assert.ErrorIs(t, err, model.ErrAuthRequired)

	f.signIn(t, 1, model.RoleAdmin)
	q := model.OrdersQuery{Status: model.OrderStatusCooking, Page: 2}
	f.api.On("ListOrders", mock.Anything, q).Return(&model.OrdersPage{
		Orders:     []model.Order{{ID: 1}, {ID: 2}},
		Pagination: model.Pagination{CurrentPage: 2},
	}, nil).Once()

	page, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)

	_, err = svc.List(context.Background(), q)
	require.NoError(t, err)
	f.api.AssertExpectations(t)
}

func TestOrderService_Watch(t *testing.T) {
	f := newFixture(t)
	svc := newOrderService(f)

	f.api.On("GetOrder", mock.Anything, int64(8)).Return(&model.Order{ID: 8, Status: model.OrderStatusCooking}, nil).Twice()
	f.api.On("GetOrder", mock.Anything, int64(8)).Return(&model.Order{ID: 8, Status: model.OrderStatusDelivered}, nil).Once()

	var seen []model.OrderStatus
	err := svc.Watch(context.Background(), 8, time.Millisecond, func(o *model.Order) {
		seen = append(seen, o.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, []model.OrderStatus{model.OrderStatusCooking, model.OrderStatusDelivered}, seen)
	f.api.AssertExpectations(t)
}

func TestOrderService_Watch_StopsOnError(t *testing.T) {
	f := newFixture(t)
	svc := newOrderService(f)

	f.api.On("GetOrder", mock.Anything, int64(8)).Return(nil, errors.New("connection refused"))

	err := svc.Watch(context.Background(), 8, time.Millisecond, func(*model.Order) {})
	assert.Error(t, err)
}
