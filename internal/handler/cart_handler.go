package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/state"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// CartHandler handles cart and checkout commands.
type CartHandler struct {
	cart    service.CartService
	catalog service.CatalogService
	state   *state.State
	out     io.Writer
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(
	cart service.CartService,
	catalog service.CatalogService,
	st *state.State,
	out io.Writer,
	logger zerolog.Logger,
) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		state:   st,
		out:     out,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type cartView struct {
	*model.Cart
	Total           float64 `json:"total"`
	DiscountApplied bool    `json:"discount_applied"`
}

func (h *CartHandler) writeCart(c *model.Cart) error {
	return writeJSON(h.out, cartView{Cart: c, Total: c.DisplayTotal(), DiscountApplied: h.cart.DiscountApplied()})
}

// Show handles "cart".
func (h *CartHandler) Show(ctx context.Context, args []string) error {
	c, err := h.cart.Cart(ctx)
	if err != nil {
		return err
	}
	return h.writeCart(c)
}

// Add handles "cart-add -item id -price id [-qty n]", or "cart-add -staged"
// to push the staged items.
func (h *CartHandler) Add(ctx context.Context, args []string) error {
	fs := newFlags("cart-add")
	itemID := fs.Int64("item", 0, "menu item id")
	priceID := fs.Int64("price", 0, "price variant id")
	qty := fs.Int("qty", 1, "quantity")
	staged := fs.Bool("staged", false, "add the staged items instead")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *staged {
		c, err := h.cart.AddStaged(ctx)
		if err != nil {
			return err
		}
		return h.writeCart(c)
	}

	if *itemID <= 0 {
		return usagef("cart-add", "-item is required")
	}
	item, err := h.catalog.MenuItem(ctx, *itemID)
	if err != nil {
		return err
	}

	c, err := h.cart.Add(ctx, item, *priceID, *qty)
	if err != nil {
		return err
	}
	return h.writeCart(c)
}

// Quantity handles "cart-qty <line> <delta>". The change goes through the
// same debounced path as interactive clicks and is flushed before exit.
func (h *CartHandler) Quantity(ctx context.Context, args []string) error {
	fs := newFlags("cart-qty")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	lineID, err := argID(fs, 0, "line id")
	if err != nil {
		return err
	}
	delta, err := parseDelta(fs.Arg(1))
	if err != nil {
		return usagef("cart-qty", "%v", err)
	}

	c, err := h.cart.Cart(ctx)
	if err != nil {
		return err
	}
	line, ok := c.Line(lineID)
	if !ok {
		return usagef("cart-qty", "no line %d in cart", lineID)
	}

	qty, changed, err := h.cart.ChangeQuantity(ctx, line, delta)
	if err != nil {
		return err
	}
	if changed {
		if _, err := h.cart.Flush(); err != nil {
			return err
		}
		if q, ok := h.cart.Quantity(lineID); ok {
			qty = q
		}
	}

	return writeJSON(h.out, map[string]any{"line_id": lineID, "quantity": qty, "changed": changed})
}

// Remove handles "cart-remove <line>".
func (h *CartHandler) Remove(ctx context.Context, args []string) error {
	fs := newFlags("cart-remove")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	lineID, err := argID(fs, 0, "line id")
	if err != nil {
		return err
	}

	c, err := h.cart.Cart(ctx)
	if err != nil {
		return err
	}
	line, ok := c.Line(lineID)
	if !ok {
		return usagef("cart-remove", "no line %d in cart", lineID)
	}
	return h.cart.Remove(ctx, line)
}

// Coupon handles "coupon <code>".
func (h *CartHandler) Coupon(ctx context.Context, args []string) error {
	fs := newFlags("coupon")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	c, err := h.cart.ApplyDiscount(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return h.writeCart(c)
}

// Address handles "address [-clear]": shows or forgets the saved delivery
// address.
func (h *CartHandler) Address(ctx context.Context, args []string) error {
	fs := newFlags("address")
	forget := fs.Bool("clear", false, "forget the saved address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *forget {
		return h.state.ClearAddress(ctx)
	}
	addr, ok := h.state.Address()
	if !ok {
		return writeJSON(h.out, nil)
	}
	return writeJSON(h.out, addr)
}

// Checkout handles "checkout". Flags left empty are taken from the saved
// address.
func (h *CartHandler) Checkout(ctx context.Context, args []string) error {
	saved, _ := h.state.Address()
	if u := h.state.User(); u != nil && saved.Email == "" {
		saved.Email = u.Email
	}

	fs := newFlags("checkout")
	var form validate.CheckoutForm
	fs.StringVar(&form.Email, "email", saved.Email, "contact email")
	fs.StringVar(&form.Phone, "phone", saved.Phone, "contact phone")
	fs.Int64Var(&form.CityID, "city", saved.CityID, "delivery city id")
	fs.StringVar(&form.State, "state", saved.State, "state")
	fs.StringVar(&form.ZipCode, "zip", saved.ZipCode, "zip code")
	fs.StringVar(&form.StreetAddress, "street", saved.StreetAddress, "street address")
	fs.StringVar(&form.Notes, "notes", saved.Notes, "delivery notes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	res, err := h.cart.Checkout(ctx, form)
	if err != nil {
		return err
	}
	return writeJSON(h.out, map[string]any{
		"order_id":       res.Order.ID,
		"status":         res.Order.Status,
		"total":          res.Order.TotalAmount,
		"tracking_token": res.TrackingToken,
	})
}

func parseDelta(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "+", "inc":
		return 1, nil
	case "-", "dec":
		return -1, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid quantity change %q", raw)
	}
	return n, nil
}
