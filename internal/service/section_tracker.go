package service

import (
	"context"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/debounce"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

const sectionKey = "section"

type activeSection struct {
	page    string
	section string
	in      time.Time
}

// SectionTracker records how long a visitor dwells on each page section.
// Section enters are debounced so fast scrolling only counts the section the
// visitor settles on. Update failures are logged and dropped.
type SectionTracker struct {
	visitors  api.VisitorAPI
	guestID   string
	ctx       context.Context
	debouncer *debounce.Debouncer
	now       func() time.Time
	logger    zerolog.Logger

	mu     sync.Mutex
	active *activeSection
	closed bool
}

// NewSectionTracker creates a tracker for guestID. An empty guestID yields a
// tracker that records nothing.
func NewSectionTracker(
	ctx context.Context,
	visitors api.VisitorAPI,
	guestID string,
	delay time.Duration,
	logger zerolog.Logger,
) *SectionTracker {
	return &SectionTracker{
		visitors:  visitors,
		guestID:   guestID,
		ctx:       context.WithoutCancel(ctx),
		debouncer: debounce.New(delay),
		now:       time.Now,
		logger:    logger.With().Str("component", "section_tracker").Str("guest_id", guestID).Logger(),
	}
}

// Enter signals that page/section became visible.
func (t *SectionTracker) Enter(page, section string) {
	if t.guestID == "" || page == "" || section == "" {
		return
	}
	t.debouncer.Schedule(sectionKey, func() { t.settle(page, section) })
}

// Active returns the section currently being timed.
func (t *SectionTracker) Active() (page, section string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return "", "", false
	}
	return t.active.page, t.active.section, true
}

func (t *SectionTracker) settle(page, section string) {
	now := t.now()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	prev := t.active
	if prev != nil && prev.page == page && prev.section == section {
		t.mu.Unlock()
		return
	}
	t.active = &activeSection{page: page, section: section, in: now}
	t.mu.Unlock()

	if prev != nil {
		t.send(*prev, now)
	}
}

// Close drops an unsettled enter and reports the active interval.
func (t *SectionTracker) Close() {
	t.debouncer.Stop()

	t.mu.Lock()
	prev := t.active
	t.active = nil
	t.closed = true
	t.mu.Unlock()

	if prev != nil {
		t.send(*prev, t.now())
	}
}

func (t *SectionTracker) send(s activeSection, out time.Time) {
	visit := model.PageVisit{
		PageName:    s.page,
		SectionName: s.section,
		InTime:      s.in.Format(model.VisitTimeLayout),
		OutTime:     out.Format(model.VisitTimeLayout),
	}

	_, err := t.visitors.UpdateVisitor(t.ctx, t.guestID, model.UpdateVisitorRequest{
		PageVisits: []model.PageVisit{visit},
	})
	if err != nil {
		t.logger.Error().Err(err).Str("page", s.page).Str("section", s.section).Msg("failed to track page visit")
		return
	}

	t.logger.Debug().
		Str("page", s.page).
		Str("section", s.section).
		Dur("dwell", out.Sub(s.in)).
		Msg("page visit tracked")
}
