package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/state"
	"storefront/internal/validate"

	"github.com/rs/zerolog"
)

// accountService implements AccountService.
type accountService struct {
	auth     api.AuthAPI
	state    *state.State
	cache    *cache.Cache
	notifier feedback.Notifier
	logger   zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	auth api.AuthAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		auth:     auth,
		state:    st,
		cache:    c,
		notifier: notifier,
		logger:   logger.With().Str("service", "account").Logger(),
	}
}

// Login signs in and stores the session.
func (s *accountService) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Struct(creds); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", creds.Email).Msg("login failed")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to log in: %w", err), "Login failed. Please try again.")
	}

	if err := s.signIn(ctx, res); err != nil {
		return nil, err
	}
	s.notifier.Success("Logged in successfully")
	return &res.User, nil
}

// Register creates an account and stores the session.
func (s *accountService) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := validate.Struct(reg); err != nil {
		return nil, feedback.Fail(s.notifier, err, "")
	}

	res, err := s.auth.Register(ctx, reg)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", reg.Email).Msg("registration failed")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to register: %w", err), "Registration failed. Please try again.")
	}

	if err := s.signIn(ctx, res); err != nil {
		return nil, err
	}
	s.notifier.Success("Account created successfully")
	return &res.User, nil
}

func (s *accountService) signIn(ctx context.Context, res *model.AuthResult) error {
	if res.AccessToken == "" {
		return feedback.Fail(s.notifier, fmt.Errorf("login response carries no access token"), "Login failed. Please try again.")
	}
	if err := s.state.SetAuth(ctx, res.User, res.AccessToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to store session")
		return feedback.Fail(s.notifier, err, "Failed to save session")
	}

	// Cart queries are keyed by identity, which just changed.
	s.cache.Invalidate()

	s.logger.Info().Int64("user_id", res.User.ID).Str("role", res.User.Role).Msg("signed in")
	return nil
}

// Logout revokes the token remotely when possible and always forgets it
// locally.
func (s *accountService) Logout(ctx context.Context) error {
	if s.state.Token() != "" {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("remote logout failed")
		}
	}

	if err := s.state.ClearAuth(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
		return feedback.Fail(s.notifier, err, "Failed to log out")
	}
	s.cache.Invalidate()

	s.logger.Info().Msg("signed out")
	s.notifier.Success("Logged out successfully")
	return nil
}

func (s *accountService) Me() *model.User {
	return s.state.User()
}
