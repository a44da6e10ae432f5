package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/device"
	"storefront/internal/feedback"
	"storefront/internal/model"
	"storefront/internal/state"

	"github.com/rs/zerolog"
)

// RefDirect is the referrer of a visit that did not come from a link.
const RefDirect = "direct"

// BeaconStatus is the state of the visitor beacon.
type BeaconStatus int

const (
	BeaconUninitialized BeaconStatus = iota
	BeaconTracked
)

func (b BeaconStatus) String() string {
	if b == BeaconTracked {
		return "tracked"
	}
	return "uninitialized"
}

// visitorService implements VisitorService.
type visitorService struct {
	visitors api.VisitorAPI
	state    *state.State
	cache    *cache.Cache
	notifier feedback.Notifier
	device   device.Info
	cfg      config.TrackingConfig
	logger   zerolog.Logger

	mu         sync.Mutex
	trackedFor string // guest id the beacon fired for
	inProgress bool
}

// NewVisitorService creates the visitor beacon for the given device.
func NewVisitorService(
	visitors api.VisitorAPI,
	st *state.State,
	c *cache.Cache,
	notifier feedback.Notifier,
	dev device.Info,
	cfg config.TrackingConfig,
	logger zerolog.Logger,
) VisitorService {
	return &visitorService{
		visitors: visitors,
		state:    st,
		cache:    c,
		notifier: notifier,
		device:   dev,
		cfg:      cfg,
		logger:   logger.With().Str("service", "visitor").Logger(),
	}
}

func (s *visitorService) Status() BeaconStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trackedFor != "" && s.trackedFor == s.state.GuestID() {
		return BeaconTracked
	}
	return BeaconUninitialized
}

// Track creates the visitor session for the current guest at most once.
func (s *visitorService) Track(ctx context.Context) bool {
	if !s.cfg.Enabled {
		return false
	}
	if !s.state.Hydrated() {
		s.logger.Debug().Msg("state not hydrated, skipping visitor tracking")
		return false
	}
	guestID := s.state.GuestID()
	if guestID == "" {
		return false
	}
	if !s.device.Trackable() {
		s.logger.Debug().Str("device_type", s.device.DeviceType).Msg("device not trackable")
		return false
	}

	s.mu.Lock()
	if s.trackedFor == guestID || s.inProgress {
		s.mu.Unlock()
		return false
	}
	s.inProgress = true
	s.mu.Unlock()

	created := s.track(ctx, guestID)

	s.mu.Lock()
	s.inProgress = false
	s.mu.Unlock()
	return created
}

func (s *visitorService) track(ctx context.Context, guestID string) bool {
	log := s.logger.With().Str("guest_id", guestID).Logger()

	tracked, err := s.state.VisitorTracked(ctx, guestID)
	if err != nil {
		log.Error().Err(err).Msg("failed to read visitor flag")
		return false
	}
	if tracked {
		s.markTracked(guestID)
		return false
	}

	req := model.CreateVisitorRequest{
		VisitorID:  guestID,
		DeviceType: s.device.DeviceType,
		Browser:    s.device.Browser,
	}
	if s.cfg.Ref != "" && s.cfg.Ref != RefDirect {
		req.Ref = s.cfg.Ref
	}

	if _, err := s.visitors.CreateVisitor(ctx, req); err != nil {
		log.Error().Err(err).Msg("failed to track visitor")
		return false
	}

	if err := s.state.MarkVisitorTracked(ctx, guestID); err != nil {
		log.Error().Err(err).Msg("failed to persist visitor flag")
	}
	s.markTracked(guestID)

	log.Info().
		Str("device_type", req.DeviceType).
		Str("browser", req.Browser).
		Str("ref", req.Ref).
		Msg("visitor session created")
	return true
}

func (s *visitorService) markTracked(guestID string) {
	s.mu.Lock()
	s.trackedFor = guestID
	s.mu.Unlock()
}

// Sections returns a dwell tracker reporting for the current guest.
func (s *visitorService) Sections(ctx context.Context) *SectionTracker {
	guestID := ""
	if s.cfg.Enabled {
		guestID = s.state.GuestID()
	}
	return NewSectionTracker(ctx, s.visitors, guestID, s.cfg.SectionDebounce, s.logger)
}

// List returns a page of visitor sessions.
func (s *visitorService) List(ctx context.Context, q model.VisitorsQuery) (*model.VisitorsPage, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	key := []string{cache.KeyVisitors, strconv.Itoa(q.Page), strconv.Itoa(q.PerPage), q.GteDate, q.LteDate}
	page, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (*model.VisitorsPage, error) {
		return s.visitors.ListVisitors(ctx, q)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list visitors")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to list visitors: %w", err), "Failed to load visitors")
	}
	return page, nil
}

// Analytics returns the aggregated visitor report.
func (s *visitorService) Analytics(ctx context.Context) (*model.VisitorAnalytics, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	report, err := cache.Fetch(ctx, s.cache, []string{cache.KeyVisitors, "analytics"}, s.visitors.VisitorAnalytics)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load visitor analytics")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to load visitor analytics: %w", err), "Failed to load analytics")
	}
	return report, nil
}

// Get returns one visitor with its page visits.
func (s *visitorService) Get(ctx context.Context, visitorID string) (*model.Visitor, error) {
	if err := requireToken(s.state, s.notifier); err != nil {
		return nil, err
	}

	v, err := s.visitors.GetVisitor(ctx, visitorID)
	if err != nil {
		s.logger.Error().Err(err).Str("visitor_id", visitorID).Msg("failed to get visitor")
		return nil, feedback.Fail(s.notifier, fmt.Errorf("failed to get visitor: %w", err), "Failed to load visitor")
	}
	return v, nil
}
