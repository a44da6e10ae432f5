package handler

import (
	"context"
	"io"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// VisitorHandler handles the visitor beacon and visitor reports.
type VisitorHandler struct {
	service service.VisitorService
	out     io.Writer
	logger  zerolog.Logger
}

// NewVisitorHandler creates a new visitor handler.
func NewVisitorHandler(service service.VisitorService, out io.Writer, logger zerolog.Logger) *VisitorHandler {
	return &VisitorHandler{
		service: service,
		out:     out,
		logger:  logger.With().Str("handler", "visitor").Logger(),
	}
}

// Visit handles "visit [-path page/section,...] [-dwell d]": records the
// visitor session, then walks the given sections, staying dwell on each.
func (h *VisitorHandler) Visit(ctx context.Context, args []string) error {
	fs := newFlags("visit")
	path := fs.String("path", "", "comma separated page/section list")
	dwell := fs.Duration("dwell", time.Second, "time spent on each section")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	stops, err := parsePath(*path)
	if err != nil {
		return err
	}

	created := h.service.Track(ctx)

	tracker := h.service.Sections(ctx)
	defer tracker.Close()

	for _, s := range stops {
		tracker.Enter(s.page, s.section)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(*dwell):
		}
	}

	return writeJSON(h.out, map[string]any{
		"created": created,
		"beacon":  h.service.Status().String(),
		"visited": len(stops),
	})
}

type stop struct {
	page    string
	section string
}

func parsePath(raw string) ([]stop, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var stops []stop
	for _, part := range strings.Split(raw, ",") {
		page, section, ok := strings.Cut(strings.TrimSpace(part), "/")
		if !ok || page == "" || section == "" {
			return nil, usagef("visit", "invalid stop %q, want page/section", part)
		}
		stops = append(stops, stop{page: page, section: section})
	}
	return stops, nil
}

// List handles "visitors [-page n] [-per-page n] [-from date] [-to date]".
func (h *VisitorHandler) List(ctx context.Context, args []string) error {
	fs := newFlags("visitors")
	var q model.VisitorsQuery
	fs.IntVar(&q.Page, "page", 1, "page number")
	fs.IntVar(&q.PerPage, "per-page", 20, "visitors per page")
	fs.StringVar(&q.GteDate, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&q.LteDate, "to", "", "last day, YYYY-MM-DD")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if id := fs.Arg(0); id != "" {
		v, err := h.service.Get(ctx, id)
		if err != nil {
			return err
		}
		return writeJSON(h.out, v)
	}

	page, err := h.service.List(ctx, q)
	if err != nil {
		return err
	}
	return writeJSON(h.out, page)
}

// Analytics handles "analytics".
func (h *VisitorHandler) Analytics(ctx context.Context, args []string) error {
	report, err := h.service.Analytics(ctx)
	if err != nil {
		return err
	}
	return writeJSON(h.out, report)
}
