package handler

import (
	"context"
	"fmt"
	"io"
	"os"

	"storefront/internal/export"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// exportPageSize is the page size used to walk a listing for export.
const exportPageSize = 100

// AdminHandler handles the dashboard and exports.
type AdminHandler struct {
	admin    service.AdminService
	orders   service.OrderService
	visitors service.VisitorService
	out      io.Writer
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	admin service.AdminService,
	orders service.OrderService,
	visitors service.VisitorService,
	out io.Writer,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		orders:   orders,
		visitors: visitors,
		out:      out,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles "dashboard".
func (h *AdminHandler) Dashboard(ctx context.Context, args []string) error {
	snap, err := h.admin.Dashboard(ctx)
	if err != nil {
		return err
	}
	return writeJSON(h.out, map[string]any{
		"stats":     snap.Stats,
		"orders":    snap.Orders,
		"analytics": snap.Analytics,
	})
}

// Export handles "export orders|visitors -out file.xlsx".
func (h *AdminHandler) Export(ctx context.Context, args []string) error {
	fs := newFlags("export")
	out := fs.String("out", "", "destination .xlsx file")
	status := fs.String("status", "", "orders only: filter by status")
	from := fs.String("from", "", "visitors only: first day, YYYY-MM-DD")
	to := fs.String("to", "", "visitors only: last day, YYYY-MM-DD")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	kind := fs.Arg(0)
	if *out == "" {
		*out = kind + ".xlsx"
	}

	var write func(io.Writer) error
	var rows int
	switch kind {
	case "orders":
		orders, err := h.allOrders(ctx, model.OrderStatus(*status))
		if err != nil {
			return err
		}
		rows = len(orders)
		write = func(w io.Writer) error { return export.Orders(w, orders) }
	case "visitors":
		visitors, err := h.allVisitors(ctx, *from, *to)
		if err != nil {
			return err
		}
		rows = len(visitors)
		write = func(w io.Writer) error { return export.Visitors(w, visitors) }
	default:
		return usagef("export", "want orders or visitors, got %q", kind)
	}

	if err := writeFile(*out, write); err != nil {
		return err
	}

	h.logger.Info().Str("kind", kind).Str("file", *out).Int("rows", rows).Msg("export written")
	return writeJSON(h.out, map[string]any{"file": *out, "rows": rows})
}

func (h *AdminHandler) allOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var all []model.Order
	for page := 1; ; page++ {
		res, err := h.orders.List(ctx, model.OrdersQuery{Status: status, Page: page, PerPage: exportPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Orders...)
		if len(res.Orders) == 0 || page >= res.Pagination.LastPage {
			return all, nil
		}
	}
}

func (h *AdminHandler) allVisitors(ctx context.Context, from, to string) ([]model.Visitor, error) {
	var all []model.Visitor
	for page := 1; ; page++ {
		res, err := h.visitors.List(ctx, model.VisitorsQuery{Page: page, PerPage: exportPageSize, GteDate: from, LteDate: to})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Visitors...)
		if len(res.Visitors) == 0 || res.Meta == nil || page >= res.Meta.LastPage {
			return all, nil
		}
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
