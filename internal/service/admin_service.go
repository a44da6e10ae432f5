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
	"golang.org/x/sync/errgroup"
)

// adminService implements AdminService.
type adminService struct {
	admin    api.AdminAPI
	carts    api.CartAPI
	orders   api.OrderAPI
	visitors api.VisitorAPI
	state    *state.State
	cache    *cache.Cache
	notifier feedback.Notifier
	logger   zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	admin api.AdminAPI,
	carts api.CartAPI,
	orders api.OrderAPI,
	visitors api.VisitorAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		admin:    admin,
		carts:    carts,
		orders:   orders,
		visitors: visitors,
		state:    st,
		cache:    c,
		notifier: notifier,
		logger:   logger.With().Str("service", "admin").Logger(),
	}
}

// Dashboard loads the landing page data in parallel. Any failure fails the
// whole snapshot.
func (s *adminService) Dashboard(ctx context.Context) (*DashboardSnapshot, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	snap := &DashboardSnapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := cache.Fetch(gctx, s.cache, []string{cache.KeyDashboard}, s.admin.Dashboard)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		snap.Stats = data.Stats
		return nil
	})
	g.Go(func() error {
		q := model.OrdersQuery{Page: 1, PerPage: 5}
		page, err := cache.Fetch(gctx, s.cache, []string{cache.KeyOrders, api.OrdersParams(q).Encode()}, func(ctx context.Context) (*model.OrdersPage, error) {
			return s.orders.ListOrders(ctx, q)
		})
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		snap.Orders = page
		return nil
	})
	g.Go(func() error {
		report, err := cache.Fetch(gctx, s.cache, []string{cache.KeyVisitors, "analytics"}, s.visitors.VisitorAnalytics)
		if err != nil {
			return fmt.Errorf("analytics: %w", err)
		}
		snap.Analytics = report
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load dashboard")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to load dashboard: %w", err), "Failed to load dashboard")
	}
	return snap, nil
}

// fetch is a token-guarded cached read.
func fetch[T any](ctx context.Context, s *adminService, key []string, what string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := requireToken(s.state, s.notifier); err != nil {
		return zero, err
	}
	v, err := cache.Fetch(ctx, s.cache, key, load)
	if err != nil {
		s.logger.Error().Err(err).Str("operation", what).Msg("admin read failed")
		return zero, feedback.Fail(s.notifier, fmt.Errorf("failed to load %s: %w", what, err), "Failed to load "+what)
	}
	return v, nil
}

// remove is a token-guarded delete followed by invalidation.
func (s *adminService) remove(ctx context.Context, listKey, what string, id int64, call func(context.Context, int64) error) error {
	if err := requireToken(s.state, s.notifier); err != nil {
		return err
	}
	if err := call(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Str("operation", what).Msg("admin delete failed")
		return feedback.Fail(s.notifier, fmt.Errorf("failed to delete %s: %w", what, err), "Failed to delete "+what)
	}
	s.cache.Invalidate(listKey)
	s.logger.Info().Int64("id", id).Str("operation", what).Msg("deleted")
	s.notifier.Success("Deleted " + what + " " + strconv.FormatInt(id, 10))
	return nil
}

func (s *adminService) Users(ctx context.Context) (*model.UserList, error) {
	return fetch(ctx, s, []string{cache.KeyAdminUsers}, "users", s.admin.ListUsers)
}

func (s *adminService) DeleteUser(ctx context.Context, id int64) error {
	return s.remove(ctx, cache.KeyAdminUsers, "user", id, s.admin.DeleteUser)
}

func (s *adminService) Carts(ctx context.Context) (*model.AdminCarts, error) {
	return fetch(ctx, s, []string{cache.KeyAdminCarts}, "carts", s.carts.AdminCarts)
}

func (s *adminService) Contacts(ctx context.Context) (*model.ContactList, error) {
	return fetch(ctx, s, []string{cache.KeyContactsList}, "contacts", s.admin.ListContacts)
}

func (s *adminService) DeleteContact(ctx context.Context, id int64) error {
	return s.remove(ctx, cache.KeyContactsList, "contact", id, s.admin.DeleteContact)
}

// SubmitContact sends the public contact form. No sign-in is needed.
func (s *adminService) SubmitContact(ctx context.Context, msg model.ContactMessage) (*model.Contact, error) {
	if err := validate.Struct(msg); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	c, err := s.admin.SubmitContact(ctx, msg)
	if err != nil {
		s.logger.Error().Err(err).Str("email", msg.Email).Msg("failed to submit contact form")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to submit contact form: %w", err), "Failed to send message. Please try again.")
	}

	s.cache.Invalidate(cache.KeyContactsList)
	s.notifier.Success("Message sent successfully")
	return c, nil
}

func (s *adminService) Restaurant(ctx context.Context) (*model.Restaurant, error) {
	data, err := cache.Fetch(ctx, s.cache, []string{cache.KeyMyRestaurant}, s.admin.GetRestaurant)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load restaurant settings")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to load restaurant settings: %w", err), "Failed to load restaurant settings")
	}
	return &data.Restaurant, nil
}

// UpdateRestaurant changes the settings of the restaurant returned by Restaurant.
func (s *adminService) UpdateRestaurant(ctx context.Context, upd model.RestaurantUpdate) (*model.Restaurant, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}
	if err := validate.Struct(upd); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	current, err := s.Restaurant(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.admin.UpdateRestaurant(ctx, current.ID, upd)
	if err != nil {
		s.logger.Error().Err(err).Int64("restaurant_id", current.ID).Msg("failed to update restaurant settings")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to update restaurant settings: %w", err), "Failed to update restaurant settings")
	}

	s.cache.Invalidate(cache.KeyMyRestaurant)
	s.notifier.Success("Restaurant settings updated")
	return &data.Restaurant, nil
}
