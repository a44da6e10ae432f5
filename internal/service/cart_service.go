package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/debounce"
	"storefront/internal/feedback"
	"storefront/internal/identity"
	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/state"
	"storefront/internal/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts     api.CartAPI
	orders    api.OrderAPI
	state     *state.State
	cache     *cache.Cache
	notifier  feedback.Notifier
	debouncer *debounce.Debouncer
	logger    zerolog.Logger

	mu              sync.Mutex
	local           map[int64]int // line id -> quantity shown to the user
	server          map[int64]int // line id -> last quantity the server confirmed
	failed          []error       // quantity updates that failed since the last Flush
	discountApplied bool
}

// NewCartService creates a new cart service.
func NewCartService(
	carts api.CartAPI,
	orders api.OrderAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	cfg config.CartConfig,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		carts:     carts,
		orders:    orders,
		state:     st,
		cache:     c,
		notifier:  notifier,
		debouncer: debounce.New(cfg.QuantityDebounce),
		logger:    logger.With().Str("service", "cart").Logger(),
		local:     make(map[int64]int),
		server:    make(map[int64]int),
	}
}

func (s *cartService) identity() (identity.Identity, error) {
	id, err := s.state.Identity()
	if err != nil {
		return identity.Identity{}, feedback.Fail(s.notifier, err, "")
	}
	return id, nil
}

// Cart returns the cart of the active identity.
func (s *cartService) Cart(ctx context.Context) (*model.Cart, error) {
	id, err := s.identity()
	if err != nil {
		return nil, err
	}

	cart, err := cache.Fetch(ctx, s.cache, []string{cache.KeyCartList, id.String()}, func(ctx context.Context) (*model.Cart, error) {
		return s.carts.GetCart(ctx, id)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("owner", id.String()).Msg("failed to get cart")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to get cart: %w", err), "Failed to load cart")
	}

	s.sync(cart)
	return cart, nil
}

// sync keeps local quantities of known lines, takes the server value for new
// lines and forgets lines the server no longer has.
func (s *cartService) sync(cart *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(cart.Items))
	for _, line := range cart.Items {
		seen[line.ID] = true
		s.server[line.ID] = line.Quantity
		if _, ok := s.local[line.ID]; !ok {
			s.local[line.ID] = line.Quantity
		}
	}
	for id := range s.local {
		if !seen[id] {
			delete(s.local, id)
			delete(s.server, id)
		}
	}

	s.discountApplied = cart.Discount.Active()
}

// Add validates the selection and posts it to the cart.
func (s *cartService) Add(ctx context.Context, item *model.MenuItem, priceID int64, qty int) (*model.Cart, error) {
	if err := validate.AddToCart(item, priceID, qty); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	return s.post(ctx, []model.CartItemRequest{{ItemID: item.ID, ItemPriceID: priceID, Quantity: qty}})
}

// AddStaged posts the staged items in one request.
func (s *cartService) AddStaged(ctx context.Context) (*model.Cart, error) {
	staged := s.state.Staging()
	if len(staged) == 0 {
		return nil, feedback.Fail(s.notifier, model.ErrCartEmpty, "")
	}

	items := make([]model.CartItemRequest, len(staged))
	for i, it := range staged {
		items[i] = model.CartItemRequest{ItemID: it.ID, ItemPriceID: it.PriceID, Quantity: it.Quantity}
	}

	cart, err := s.post(ctx, items)
	if err != nil {
		return nil, err
	}

	if err := s.state.StageClear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear staged items")
	}
	return cart, nil
}

func (s *cartService) post(ctx context.Context, items []model.CartItemRequest) (*model.Cart, error) {
	id, err := s.identity()
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.AddToCart(ctx, model.AddToCartRequest{Owner: id.Owner(), Items: items})
	if err != nil {
		s.logger.Error().Err(err).Str("owner", id.String()).Int("item_count", len(items)).Msg("failed to add to cart")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to add to cart: %w", err), "Failed to add item to cart")
	}

	s.cache.Invalidate(cache.KeyCartList)

	s.logger.Info().Str("owner", id.String()).Int("item_count", len(items)).Msg("added to cart")
	s.notifier.Success("Item added to cart")
	return cart, nil
}

func lineKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ChangeQuantity updates the local quantity now and the server later.
func (s *cartService) ChangeQuantity(ctx context.Context, line model.CartLine, delta int) (int, bool, error) {
	id, err := s.identity()
	if err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	current, ok := s.local[line.ID]
	if !ok || current < 1 {
		current = line.Quantity
	}
	if _, ok := s.server[line.ID]; !ok {
		s.server[line.ID] = line.Quantity
	}
	next := max(1, current+delta)
	if next == current {
		s.mu.Unlock()
		return current, false, nil
	}
	s.local[line.ID] = next
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	s.debouncer.Schedule(lineKey(line.ID), func() {
		s.persistQuantity(bg, id, line, next)
	})

	s.logger.Debug().Int64("line_id", line.ID).Int("quantity", next).Msg("quantity update scheduled")
	return next, true, nil
}

func (s *cartService) persistQuantity(ctx context.Context, id identity.Identity, line model.CartLine, qty int) {
	_, err := s.carts.UpdateQuantity(ctx, model.UpdateQuantityRequest{
		Owner:       id.Owner(),
		ItemID:      line.MenuItemID(),
		ItemPriceID: line.Price.ID,
		Quantity:    qty,
	})

	s.mu.Lock()
	if err != nil {
		// A newer edit for this line is already queued; let it win.
		if !s.debouncer.IsPending(lineKey(line.ID)) {
			s.local[line.ID] = s.server[line.ID]
		}
		s.failed = append(s.failed, fmt.Errorf("failed to update quantity of line %d: %w", line.ID, err))
	} else {
		s.server[line.ID] = qty
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Int64("line_id", line.ID).Int("quantity", qty).Msg("failed to update quantity")
		feedback.Report(s.notifier, err, "Failed to update quantity. Please try again.")
		return
	}

	s.cache.Invalidate(cache.KeyCartList)
	s.logger.Info().Int64("line_id", line.ID).Int("quantity", qty).Msg("quantity updated")
}

// Quantity returns the local quantity of a line.
func (s *cartService) Quantity(lineID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.local[lineID]
	return q, ok
}

// Flush sends every pending quantity update now. The error joins the updates
// that failed since the previous Flush; they have already been shown to the
// user and rolled back.
func (s *cartService) Flush() (int, error) {
	n := s.debouncer.Flush()

	s.mu.Lock()
	failed := s.failed
	s.failed = nil
	s.mu.Unlock()

	if len(failed) == 0 {
		return n, nil
	}
	return n, feedback.Reported(errors.Join(failed...))
}

func (s *cartService) Close() {
	s.debouncer.Stop()
}

// Remove deletes a line. Local state only changes once the server agrees.
func (s *cartService) Remove(ctx context.Context, line model.CartLine) error {
	id, err := s.identity()
	if err != nil {
		return err
	}

	err = s.carts.RemoveItem(ctx, model.DeleteCartItemRequest{
		Owner:       id.Owner(),
		ItemID:      line.MenuItemID(),
		ItemPriceID: line.Price.ID,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("line_id", line.ID).Msg("failed to remove cart item")
		return feedback.Fail(s.notifier, fmt.Errorf("failed to remove cart item: %w", err), "Failed to remove item. Please try again.")
	}

	s.debouncer.Cancel(lineKey(line.ID))
	s.mu.Lock()
	delete(s.local, line.ID)
	delete(s.server, line.ID)
	s.mu.Unlock()

	s.cache.Invalidate(cache.KeyCartList)

	s.logger.Info().Int64("line_id", line.ID).Msg("cart item removed")
	s.notifier.Success("Item removed from cart")
	return nil
}

// DiscountApplied reports whether a discount is active on the known cart.
func (s *cartService) DiscountApplied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discountApplied
}

// ApplyDiscount applies code unless a discount is already active.
func (s *cartService) ApplyDiscount(ctx context.Context, code string) (*model.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, feedback.Fail(s.notifier, model.ErrEmptyCoupon, "")
	}

	id, err := s.identity()
	if err != nil {
		return nil, err
	}

	applied := s.DiscountApplied()
	if !applied {
		// The guard needs the server's view of the cart; a fresh process has none.
		current, err := s.Cart(ctx)
		if err != nil {
			return nil, err
		}
		applied = current.Discount.Active()
	}
	if applied {
		s.logger.Debug().Str("owner", id.String()).Msg("discount already applied")
		return nil, feedback.Fail(s.notifier, model.ErrDiscountApplied, "")
	}

	cart, err := s.carts.ApplyDiscount(ctx, model.ApplyDiscountRequest{Owner: id.Owner(), Code: code})
	if err != nil {
		s.logger.Error().Err(err).Str("coupon", code).Msg("failed to apply coupon")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to apply coupon: %w", err), "Failed to apply coupon. Please try again.")
	}

	s.mu.Lock()
	s.discountApplied = true
	s.mu.Unlock()
	s.cache.Invalidate(cache.KeyCartList)

	s.logger.Info().Str("coupon", code).Str("owner", id.String()).Msg("coupon applied")
	s.notifier.Success("Coupon applied successfully")
	return cart, nil
}

// Checkout places an order for the current cart.
func (s *cartService) Checkout(ctx context.Context, form validate.CheckoutForm) (*CheckoutResult, error) {
	form = form.Normalize()
	if err := validate.Checkout(form); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	id, err := s.identity()
	if err != nil {
		return nil, err
	}

	// Pending quantity edits must reach the server before it prices the order.
	if _, err := s.Flush(); err != nil {
		return nil, err
	}

	cart, err := s.Cart(ctx)
	if err != nil {
		return nil, err
	}
	if cart.ID <= 0 {
		return nil, feedback.Fail(s.notifier, model.ErrCartNotFound, "")
	}
	if len(cart.Items) == 0 {
		return nil, feedback.Fail(s.notifier, model.ErrCartEmpty, "")
	}

	key := uuid.NewString()
	order, err := s.orders.CreateOrder(ctx, model.CreateOrderRequest{
		Owner:         id.Owner(),
		CartID:        cart.ID,
		CityID:        form.CityID,
		State:         form.State,
		ZipCode:       form.ZipCode,
		StreetAddress: form.StreetAddress,
		Phone:         form.Phone,
		Email:         form.Email,
		Notes:         form.Notes,
	}, key)
	if err != nil {
		s.logger.Error().Err(err).Int64("cart_id", cart.ID).Str("idempotency_key", key).Msg("failed to place order")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to place order: %w", err), "Failed to place order. Please try again.")
	}

	s.cache.Invalidate(cache.KeyOrders)
	s.cache.Invalidate(cache.KeyOrderList)
	s.cache.Invalidate(cache.KeyCartList)

	s.mu.Lock()
	s.local = make(map[int64]int)
	s.server = make(map[int64]int)
	s.discountApplied = false
	s.mu.Unlock()

	if err := s.state.SetAddress(ctx, state.Address{
		CityID:        form.CityID,
		State:         form.State,
		ZipCode:       form.ZipCode,
		StreetAddress: form.StreetAddress,
		Phone:         form.Phone,
		Email:         form.Email,
		Notes:         form.Notes,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save delivery address")
	}

	token, err := orderflow.EncodeTrackingToken(orderflow.TrackingRef{ID: order.ID})
	if err != nil {
		s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to build tracking token")
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("cart_id", cart.ID).
		Float64("total_amount", order.TotalAmount).
		Msg("order placed")
	s.notifier.Success("Order placed successfully")

	return &CheckoutResult{Order: order, TrackingToken: token}, nil
}
