package handler

import (
	"context"
	"io"

	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/state"

	"github.com/rs/zerolog"
)

// AccountHandler handles identity commands.
type AccountHandler struct {
	service service.AccountService
	state   *state.State
	out     io.Writer
	logger  zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service service.AccountService, st *state.State, out io.Writer, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		state:   st,
		out:     out,
		logger:  logger.With().Str("handler", "account").Logger(),
	}
}

type whoami struct {
	GuestID string      `json:"guest_id"`
	User    *model.User `json:"user,omitempty"`
	Active  string      `json:"active"`
}

// Guest handles "guest": shows the guest id and the active identity.
func (h *AccountHandler) Guest(ctx context.Context, args []string) error {
	fs := newFlags("guest")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	id, err := h.state.Identity()
	if err != nil {
		return err
	}
	return writeJSON(h.out, whoami{
		GuestID: h.state.GuestID(),
		User:    h.service.Me(),
		Active:  id.String(),
	})
}

// Login handles "login -email -password".
func (h *AccountHandler) Login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	var creds model.Credentials
	fs.StringVar(&creds.Email, "email", "", "account email")
	fs.StringVar(&creds.Password, "password", "", "account password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	user, err := h.service.Login(ctx, creds)
	if err != nil {
		return err
	}
	return writeJSON(h.out, user)
}

// Register handles "register -name -email -password".
func (h *AccountHandler) Register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	var reg model.Registration
	fs.StringVar(&reg.Name, "name", "", "display name")
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Password, "password", "", "account password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	user, err := h.service.Register(ctx, reg)
	if err != nil {
		return err
	}
	return writeJSON(h.out, user)
}

// Logout handles "logout".
func (h *AccountHandler) Logout(ctx context.Context, args []string) error {
	return h.service.Logout(ctx)
}
