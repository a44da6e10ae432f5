package handler

import (
	"context"
	"io"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CatalogHandler handles menu browsing commands.
type CatalogHandler struct {
	service service.CatalogService
	out     io.Writer
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, out io.Writer, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		out:     out,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Menu handles "menu [-category id] [-special] [-all] [-grouped] [-search text]".
// By default only items with a price are listed.
func (h *CatalogHandler) Menu(ctx context.Context, args []string) error {
	fs := newFlags("menu")
	categoryID := fs.Int64("category", 0, "only items of this category")
	special := fs.Bool("special", false, "only today's specials")
	all := fs.Bool("all", false, "include items without a price")
	grouped := fs.Bool("grouped", false, "group the menu by category")
	search := fs.String("search", "", "filter the grouped menu by name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *grouped || *search != "" {
		menu, err := h.service.CategorisedMenu(ctx, *search)
		if err != nil {
			return err
		}
		return writeJSON(h.out, menu)
	}

	list, err := h.service.Menu(ctx, model.MenuQuery{
		CategoryID: *categoryID,
		HasPrice:   !*all,
		IsSpecial:  *special,
	})
	if err != nil {
		return err
	}
	return writeJSON(h.out, list)
}

// Categories handles "categories".
func (h *CatalogHandler) Categories(ctx context.Context, args []string) error {
	list, err := h.service.Categories(ctx)
	if err != nil {
		return err
	}
	return writeJSON(h.out, list)
}

// Cities handles "cities": the published delivery cities.
func (h *CatalogHandler) Cities(ctx context.Context, args []string) error {
	list, err := h.service.Cities(ctx)
	if err != nil {
		return err
	}
	return writeJSON(h.out, list.Published())
}
