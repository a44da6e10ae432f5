// Package state is the client's application context: who is signed in, the
// guest id, the delivery address draft, the staged cart and the visitor flags.
// Every mutation goes through a named setter and is persisted immediately.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/identity"
	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

// Storage keys.
const (
	KeyAuth    = "auth-storage"
	KeyGuest   = "guest-storage"
	KeyAddress = "address-storage"
	KeyStaging = "cart-store"

	visitorTrackedPrefix = "visitor_tracked_"
)

// VisitorTrackedKey is the dedup flag key for a guest.
func VisitorTrackedKey(guestID string) string {
	return visitorTrackedPrefix + guestID
}

// Auth is the persisted sign-in.
type Auth struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Guest is the persisted guest identity.
type Guest struct {
	GuestID string `json:"guest_id"`
}

// Address is the delivery details draft kept between checkouts.
type Address struct {
	CityID        int64  `json:"city_id"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	StreetAddress string `json:"street_address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Notes         string `json:"notes,omitempty"`
}

// State holds the client context. It is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	backend  storage.Backend
	logger   zerolog.Logger
	now      func() time.Time
	hydrated bool

	auth    Auth
	guest   Guest
	address *Address
	staging []StagedItem
}

// New creates an empty, unhydrated state over backend.
func New(backend storage.Backend, logger zerolog.Logger) *State {
	return &State{
		backend: backend,
		logger:  logger.With().Str("component", "state").Logger(),
		now:     time.Now,
	}
}

// Hydrate loads every store from the backend. A guest id is generated and
// persisted on first run and reused afterwards.
func (s *State) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx, KeyAuth, &s.auth); err != nil {
		return err
	}
	if err := s.load(ctx, KeyGuest, &s.guest); err != nil {
		return err
	}

	var address Address
	switch err := s.load(ctx, KeyAddress, &address); {
	case err != nil:
		return err
	case address != (Address{}):
		s.address = &address
	}

	if err := s.load(ctx, KeyStaging, &s.staging); err != nil {
		return err
	}

	if !identity.ValidGuestID(s.guest.GuestID) {
		if s.guest.GuestID != "" {
			s.logger.Warn().Str("guest_id", s.guest.GuestID).Msg("discarding malformed guest id")
		}
		s.guest.GuestID = identity.NewGuestID(s.now())
		if err := s.save(ctx, KeyGuest, s.guest); err != nil {
			return err
		}
		s.logger.Info().Str("guest_id", s.guest.GuestID).Msg("generated guest id")
	}

	if s.auth.Token != "" && TokenExpired(s.auth.Token, s.now()) {
		s.logger.Info().Msg("stored session expired, signing out")
		s.auth = Auth{}
		if err := s.backend.Delete(ctx, KeyAuth); err != nil {
			return fmt.Errorf("failed to clear expired session: %w", err)
		}
	}

	s.hydrated = true
	return nil
}

// load decodes key into v. A missing key leaves v untouched; an undecodable
// value is logged and ignored.
func (s *State) load(ctx context.Context, key string, v any) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("ignoring corrupt state entry")
	}
	return nil
}

func (s *State) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Hydrated reports whether Hydrate has completed.
func (s *State) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// GuestID returns the guest id, empty before hydration.
func (s *State) GuestID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guest.GuestID
}

// User returns the signed-in user, or nil.
func (s *State) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth.User == nil {
		return nil
	}
	u := *s.auth.User
	return &u
}

// Token returns the bearer token, empty when signed out.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Token
}

// Identity resolves the active owner: the signed-in user wins over the guest.
func (s *State) Identity() (identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return identity.Resolve(s.auth.User, s.guest.GuestID)
}

// SetAuth stores a successful sign-in.
func (s *State) SetAuth(ctx context.Context, user model.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auth := Auth{User: &user, Token: token}
	if err := s.save(ctx, KeyAuth, auth); err != nil {
		return err
	}
	s.auth = auth
	return nil
}

// ClearAuth signs out locally.
func (s *State) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, KeyAuth); err != nil {
		return fmt.Errorf("failed to clear %s: %w", KeyAuth, err)
	}
	s.auth = Auth{}
	return nil
}

// Address returns the saved delivery details draft.
func (s *State) Address() (Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.address == nil {
		return Address{}, false
	}
	return *s.address, true
}

// SetAddress replaces the delivery details draft.
func (s *State) SetAddress(ctx context.Context, a Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, KeyAddress, a); err != nil {
		return err
	}
	s.address = &a
	return nil
}

// ClearAddress drops the delivery details draft.
func (s *State) ClearAddress(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, KeyAddress); err != nil {
		return fmt.Errorf("failed to clear %s: %w", KeyAddress, err)
	}
	s.address = nil
	return nil
}

// VisitorTracked reports whether the visit of guestID was already recorded.
func (s *State) VisitorTracked(ctx context.Context, guestID string) (bool, error) {
	_, err := s.backend.Get(ctx, VisitorTrackedKey(guestID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read visitor flag: %w", err)
	}
	return true, nil
}

// MarkVisitorTracked sets the visitor dedup flag for guestID.
func (s *State) MarkVisitorTracked(ctx context.Context, guestID string) error {
	if err := s.backend.Set(ctx, VisitorTrackedKey(guestID), []byte("true")); err != nil {
		return fmt.Errorf("failed to set visitor flag: %w", err)
	}
	return nil
}
