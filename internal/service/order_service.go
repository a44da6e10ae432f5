package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/state"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orders   api.OrderAPI
	state    *state.State
	cache    *cache.Cache
	notifier feedback.Notifier
	logger   zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders api.OrderAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		state:    st,
		cache:    c,
		notifier: notifier,
		logger:   logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) Propose(order *model.Order) orderflow.Proposal {
	return orderflow.Propose(order)
}

// Advance submits next as the step after current. The form rules and the
// one-step rule are both checked before any network call.
func (s *orderService) Advance(
	ctx context.Context,
	current model.OrderStatus,
	orderID int64,
	next model.OrderStatus,
	payment model.PaymentStatus,
) (*model.Order, error) {
	if orderID <= 0 {
		return nil, feedback.Fail(s.notifier, model.ErrOrderIDRequired, "")
	}

	t := orderflow.Transition{Status: next, PaymentStatus: payment}
	if err := validate.StatusUpdate(t); err != nil {
		s.logger.Warn().
			Int64("order_id", orderID).
			Str("status", string(next)).
			Str("payment_status", string(payment)).
			Err(err).
			Msg("rejected status update")
		return nil, feedback.Fail(s.notifier, err, "Invalid status update")
	}

	if err := orderflow.Check(orderflow.Normalize(string(current)), t); err != nil {
		s.logger.Warn().
			Int64("order_id", orderID).
			Str("current", string(current)).
			Str("status", string(next)).
			Err(err).
			Msg("rejected status transition")
		return nil, feedback.Fail(s.notifier, err, "")
	}

	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	return s.submit(ctx, orderID, t)
}

func (s *orderService) submit(ctx context.Context, orderID int64, t orderflow.Transition) (*model.Order, error) {
	order, err := s.orders.UpdateOrderStatus(ctx, orderID, model.UpdateOrderStatusRequest{
		Status:        t.Status,
		PaymentStatus: t.PaymentStatus,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Str("status", string(t.Status)).Msg("failed to update order status")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to update order status: %w", err), "Failed to update order status")
	}

	s.cache.Invalidate(cache.KeyOrders)
	s.cache.Invalidate(cache.KeyOrderByID, strconv.FormatInt(orderID, 10))

	s.logger.Info().
		Int64("order_id", orderID).
		Str("status", string(t.Status)).
		Str("payment_status", string(t.PaymentStatus)).
		Msg("order status updated")
	s.notifier.Success("Order status updated to " + orderflow.Label(t.Status))

	return order, nil
}

// AdvanceOrder moves order one step forward.
func (s *orderService) AdvanceOrder(ctx context.Context, order *model.Order) (*model.Order, bool, error) {
	if order == nil {
		return nil, false, feedback.Fail(s.notifier, model.ErrOrderIDRequired, "")
	}

	p := orderflow.Propose(order)
	t, ok := p.Transition()
	if !ok {
		s.logger.Debug().Int64("order_id", order.ID).Msg("order already delivered")
		return order, false, nil
	}

	updated, err := s.Advance(ctx, p.Current, order.ID, t.Status, t.PaymentStatus)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// Get returns an order by id.
func (s *orderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	if id <= 0 {
		return nil, model.ErrOrderIDRequired
	}

	key := []string{cache.KeyOrderByID, strconv.FormatInt(id, 10)}
	order, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*model.Order, error) {
		return s.orders.GetOrder(ctx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to get order: %w", err), "Failed to load order")
	}
	return order, nil
}

// Track decodes a tracking token and loads its order.
func (s *orderService) Track(ctx context.Context, token string) (*model.Order, error) {
	ref, err := orderflow.DecodeTrackingToken(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("invalid tracking token")
		return nil, feedback.Fail(s.notifier, err, "")
	}
	return s.Get(ctx, ref.ID)
}

// List returns a page of orders.
func (s *orderService) List(ctx context.Context, q model.OrdersQuery) (*model.OrdersPage, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	key := []string{cache.KeyOrders, api.OrdersParams(q).Encode()}
	page, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*model.OrdersPage, error) {
		return s.orders.ListOrders(ctx, q)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(q.Status)).Int("page", q.Page).Msg("failed to list orders")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to list orders: %w", err), "Failed to load orders")
	}

	s.logger.Debug().Int("count", len(page.Orders)).Int("page", page.Pagination.CurrentPage).Msg("retrieved orders")
	return page, nil
}

// Watch polls an order until it is delivered.
func (s *orderService) Watch(ctx context.Context, id int64, interval time.Duration, fn func(*model.Order)) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last model.OrderStatus
	for {
		s.cache.Invalidate(cache.KeyOrderByID, strconv.FormatInt(id, 10))
		order, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != last {
			fn(order)
			last = order.Status
		}
		if orderflow.Terminal(order.Status) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
