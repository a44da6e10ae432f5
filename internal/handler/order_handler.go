package handler

import (
	"context"
	"io"
	"time"

	"storefront/internal/model"
	"storefront/internal/orderflow"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order tracking and the admin status workflow.
type OrderHandler struct {
	service service.OrderService
	out     io.Writer
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, out io.Writer, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		out:     out,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Track handles "track <token> [-watch] [-interval d]".
func (h *OrderHandler) Track(ctx context.Context, args []string) error {
	fs := newFlags("track")
	watch := fs.Bool("watch", false, "keep polling until delivered")
	interval := fs.Duration("interval", 10*time.Second, "polling interval")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	token := fs.Arg(0)
	if token == "" {
		return usagef("track", "tracking token is required")
	}

	order, err := h.service.Track(ctx, token)
	if err != nil {
		return err
	}
	if !*watch || orderflow.Terminal(orderflow.Normalize(string(order.Status))) {
		return writeJSON(h.out, order)
	}

	return h.service.Watch(ctx, order.ID, *interval, func(o *model.Order) {
		if err := writeJSON(h.out, statusLine(o)); err != nil {
			h.logger.Warn().Err(err).Msg("failed to print status")
		}
	})
}

// List handles "orders [-status s] [-page n] [-per-page n]".
func (h *OrderHandler) List(ctx context.Context, args []string) error {
	fs := newFlags("orders")
	status := fs.String("status", "", "only orders in this status")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 20, "orders per page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	q := model.OrdersQuery{Page: *page, PerPage: *perPage}
	if *status != "" {
		q.Status = model.OrderStatus(*status)
		if !orderflow.Valid(q.Status) {
			return usagef("orders", "unknown status %q", *status)
		}
	}

	res, err := h.service.List(ctx, q)
	if err != nil {
		return err
	}
	return writeJSON(h.out, res)
}

// Get handles "order <id>".
func (h *OrderHandler) Get(ctx context.Context, args []string) error {
	fs := newFlags("order")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, 0, "order id")
	if err != nil {
		return err
	}

	order, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}
	return writeJSON(h.out, order)
}

// Advance handles "advance <id> [-dry-run] [-to status -payment status]".
// Without -to the order is moved one stage along the flow, the way the
// dashboard's confirm button does it. With -to the target must still be the
// stage right after the order's current one.
func (h *OrderHandler) Advance(ctx context.Context, args []string) error {
	fs := newFlags("advance")
	to := fs.String("to", "", "explicit target status")
	payment := fs.String("payment", "", "payment status to submit with -to")
	dryRun := fs.Bool("dry-run", false, "only show the proposed step")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	id, err := argID(fs, 0, "order id")
	if err != nil {
		return err
	}

	order, err := h.service.Get(ctx, id)
	if err != nil {
		return err
	}

	if *dryRun {
		return writeJSON(h.out, proposalView(h.service.Propose(order)))
	}

	if *to != "" {
		updated, err := h.service.Advance(ctx, order.Status, id, model.OrderStatus(*to), model.PaymentStatus(*payment))
		if err != nil {
			return err
		}
		return writeJSON(h.out, statusLine(updated))
	}

	updated, advanced, err := h.service.AdvanceOrder(ctx, order)
	if err != nil {
		return err
	}
	if !advanced {
		h.logger.Info().Int64("order_id", id).Str("status", string(order.Status)).Msg("order already delivered")
	}
	return writeJSON(h.out, statusLine(updated))
}

type orderStatus struct {
	ID            int64               `json:"id"`
	Status        model.OrderStatus   `json:"status"`
	Label         string              `json:"label"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

func statusLine(o *model.Order) orderStatus {
	status := orderflow.Normalize(string(o.Status))
	return orderStatus{ID: o.ID, Status: status, Label: orderflow.Label(status), PaymentStatus: o.PaymentStatus}
}

type proposal struct {
	Current       model.OrderStatus   `json:"current"`
	Next          model.OrderStatus   `json:"next,omitempty"`
	CanAdvance    bool                `json:"can_advance"`
	PaymentStatus model.PaymentStatus `json:"payment_status,omitempty"`
	MarksPaid     bool                `json:"marks_paid"`
}

func proposalView(p orderflow.Proposal) proposal {
	return proposal{
		Current:       p.Current,
		Next:          p.Next,
		CanAdvance:    p.CanAdvance,
		PaymentStatus: p.PaymentStatus,
		MarksPaid:     p.MarksPaid,
	}
}
