package service

import (
	"context"
	"fmt"
	"strconv"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/state"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	menu     api.MenuAPI
	catalog  api.CatalogAPI
	state    *state.State
	cache    *cache.Cache
	notifier feedback.Notifier
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	menu api.MenuAPI,
	catalog api.CatalogAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		menu:     menu,
		catalog:  catalog,
		state:    st,
		cache:    c,
		notifier: notifier,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// Menu lists menu items.
func (s *catalogService) Menu(ctx context.Context, q model.MenuQuery) (*model.MenuList, error) {
	key := []string{
		cache.KeyMenuList,
		strconv.FormatInt(q.CategoryID, 10),
		strconv.FormatBool(q.HasPrice),
		strconv.FormatBool(q.IsSpecial),
	}
	list, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*model.MenuList, error) {
		return s.menu.ListMenu(ctx, q)
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("category_id", q.CategoryID).Msg("failed to list menu")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to list menu: %w", err), "Failed to load menu")
	}

	s.logger.Debug().Int("count", len(list.Items)).Msg("retrieved menu")
	return list, nil
}

// CategorisedMenu returns the priced menu grouped by category.
func (s *catalogService) CategorisedMenu(ctx context.Context, search string) (*model.CategorisedMenu, error) {
	key := []string{cache.KeyMenuList, "categorised", search}
	menu, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*model.CategorisedMenu, error) {
		return s.menu.CategorisedMenu(ctx, true, search)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("search", search).Msg("failed to load categorised menu")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to load menu: %w", err), "Failed to load menu")
	}
	return menu, nil
}

// MenuItem finds a priced menu item by id.
func (s *catalogService) MenuItem(ctx context.Context, id int64) (*model.MenuItem, error) {
	list, err := s.Menu(ctx, model.MenuQuery{HasPrice: true})
	if err != nil {
		return nil, err
	}
	for i := range list.Items {
		if list.Items[i].ID == id {
			return &list.Items[i], nil
		}
	}
	return nil, feedback.Fail(s.notifier, model.ErrInvalidItem, "")
}

// mutate runs an admin mutation: token check, the call, then invalidation
// of the given list key.
func mutate[T any](s *catalogService, listKey, what string, call func() (T, error)) (T, error) {
	var zero T
	if err := requireToken(s.state, s.notifier); err != nil {
		return zero, err
	}

	v, err := call()
	if err != nil {
		s.logger.Error().Err(err).Str("operation", what).Msg("catalog mutation failed")
		return zero, feedback.Fail(s.notifier, fmt.Errorf("failed to %s: %w", what, err), "Failed to "+what)
	}

	s.cache.Invalidate(listKey)
	s.logger.Info().Str("operation", what).Msg("catalog updated")
	return v, nil
}

func (s *catalogService) CreateItem(ctx context.Context, in model.MenuItemInput) (*model.MenuItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	item, err := mutate(s, cache.KeyMenuList, "create menu item", func() (*model.MenuItem, error) {
		return s.menu.CreateMenuItem(ctx, in)
	})
	if err == nil {
		s.notifier.Success("Menu item created")
	}
	return item, err
}

func (s *catalogService) UpdateItem(ctx context.Context, id int64, in model.MenuItemInput) (*model.MenuItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	item, err := mutate(s, cache.KeyMenuList, "update menu item", func() (*model.MenuItem, error) {
		return s.menu.UpdateMenuItem(ctx, id, in)
	})
	if err == nil {
		s.notifier.Success("Menu item updated")
	}
	return item, err
}

func (s *catalogService) DeleteItem(ctx context.Context, id int64) error {
	_, err := mutate(s, cache.KeyMenuList, "delete menu item", func() (struct{}, error) {
		return struct{}{}, s.menu.DeleteMenuItem(ctx, id)
	})
	if err == nil {
		s.notifier.Success("Menu item deleted")
	}
	return err
}

func (s *catalogService) CreatePrice(ctx context.Context, itemID int64, in model.PriceInput) (*model.PriceList, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	prices, err := mutate(s, cache.KeyMenuList, "add price", func() (*model.PriceList, error) {
		return s.menu.CreatePrice(ctx, itemID, in)
	})
	if err == nil {
		s.notifier.Success("Price added")
	}
	return prices, err
}

func (s *catalogService) UpdatePrice(ctx context.Context, itemID, priceID int64, in model.PriceInput) (*model.PriceList, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	prices, err := mutate(s, cache.KeyMenuList, "update price", func() (*model.PriceList, error) {
		return s.menu.UpdatePrice(ctx, itemID, priceID, in)
	})
	if err == nil {
		s.notifier.Success("Price updated")
	}
	return prices, err
}

func (s *catalogService) DeletePrice(ctx context.Context, itemID, priceID int64) error {
	_, err := mutate(s, cache.KeyMenuList, "delete price", func() (struct{}, error) {
		return struct{}{}, s.menu.DeletePrice(ctx, itemID, priceID)
	})
	if err == nil {
		s.notifier.Success("Price deleted")
	}
	return err
}

// Categories lists menu categories.
func (s *catalogService) Categories(ctx context.Context) (*model.CategoryList, error) {
	list, err := cache.Fetch(ctx, s.cache, []string{cache.KeyCategoryList}, s.catalog.ListCategories)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to list categories: %w", err), "Failed to load categories")
	}
	return list, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	c, err := mutate(s, cache.KeyCategoryList, "create category", func() (*model.Category, error) {
		return s.catalog.CreateCategory(ctx, in)
	})
	if err == nil {
		s.notifier.Success("Category created")
	}
	return c, err
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	c, err := mutate(s, cache.KeyCategoryList, "update category", func() (*model.Category, error) {
		return s.catalog.UpdateCategory(ctx, id, in)
	})
	if err == nil {
		s.notifier.Success("Category updated")
	}
	return c, err
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	_, err := mutate(s, cache.KeyCategoryList, "delete category", func() (struct{}, error) {
		return struct{}{}, s.catalog.DeleteCategory(ctx, id)
	})
	if err == nil {
		s.notifier.Success("Category deleted")
	}
	return err
}

// Cities lists delivery cities.
func (s *catalogService) Cities(ctx context.Context) (*model.CityList, error) {
	list, err := cache.Fetch(ctx, s.cache, []string{cache.KeyCityList}, s.catalog.ListCities)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list cities")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to list cities: %w", err), "Failed to load cities")
	}
	return list, nil
}

func (s *catalogService) CreateCity(ctx context.Context, in model.City) (*model.City, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	c, err := mutate(s, cache.KeyCityList, "create city", func() (*model.City, error) {
		return s.catalog.CreateCity(ctx, in)
	})
	if err == nil {
		s.notifier.Success("City created")
	}
	return c, err
}

func (s *catalogService) UpdateCity(ctx context.Context, id int64, in model.City) (*model.City, error) {
	if err := validate.Struct(in); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}
	c, err := mutate(s, cache.KeyCityList, "update city", func() (*model.City, error) {
		return s.catalog.UpdateCity(ctx, id, in)
	})
	if err == nil {
		s.notifier.Success("City updated")
	}
	return c, err
}

func (s *catalogService) DeleteCity(ctx context.Context, id int64) error {
	_, err := mutate(s, cache.KeyCityList, "delete city", func() (struct{}, error) {
		return struct{}{}, s.catalog.DeleteCity(ctx, id)
	})
	if err == nil {
		s.notifier.Success("City deleted")
	}
	return err
}
