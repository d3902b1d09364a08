package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/services"
	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

// DefaultWidenDays is how far an empty search is extended when widening is requested.
const DefaultWidenDays = 14

// SlotComputer is the engine surface the handler needs.
type SlotComputer interface {
	ComputeSlots(req domain.SchedulingRequest) (*domain.SchedulingResult, error)
	EffectiveWindow(req domain.SchedulingRequest) (domain.TimeWindow, bool, error)
	Config() services.EngineConfig
}

// ComputeSlotsQuery asks for candidate slots on behalf of a user.
type ComputeSlotsQuery struct {
	// UserID selects the stored profile and calendar. uuid.Nil skips the profile.
	UserID  uuid.UUID
	Request domain.SchedulingRequest
	// WidenOnEmpty retries once with a longer horizon when nothing fits and
	// the constraint does not pin the search.
	WidenOnEmpty bool
	// WidenDays defaults to DefaultWidenDays.
	WidenDays int
	// SkipCalendar disables the busy-event provider for this query.
	SkipCalendar bool
}

// ComputeSlotsResult is the engine result plus how it was obtained.
type ComputeSlotsResult struct {
	*domain.SchedulingResult
	Widened        bool `json:"widened"`
	CalendarEvents int  `json:"calendar_events"`
	ProfileApplied bool `json:"profile_applied"`
}

// ComputeSlotsHandler merges the user's profile and calendar into a request
// and runs the slot engine.
type ComputeSlotsHandler struct {
	engine   SlotComputer
	profiles profileDomain.Repository
	provider calendarApp.BusyEventProvider
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewComputeSlotsHandler creates a handler. profiles and provider may be nil.
func NewComputeSlotsHandler(
	engine SlotComputer,
	profiles profileDomain.Repository,
	provider calendarApp.BusyEventProvider,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ComputeSlotsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ComputeSlotsHandler{
		engine:   engine,
		profiles: profiles,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle executes the query.
func (h *ComputeSlotsHandler) Handle(ctx context.Context, q ComputeSlotsQuery) (*ComputeSlotsResult, error) {
	logger := observability.LogOperation(h.logger, "compute_slots", observability.UserIDKey, q.UserID.String())
	return observability.TimeOperationResult(ctx, logger, h.metrics, "compute_slots", func() (*ComputeSlotsResult, error) {
		return h.handle(ctx, q)
	})
}

func (h *ComputeSlotsHandler) handle(ctx context.Context, q ComputeSlotsQuery) (*ComputeSlotsResult, error) {
	out := &ComputeSlotsResult{}
	req := q.Request

	applied, err := h.applyProfile(ctx, q.UserID, &req)
	if err != nil {
		return nil, err
	}
	out.ProfileApplied = applied

	fetchCalendar := h.provider != nil && !q.SkipCalendar && len(req.BusyEvents) == 0
	if fetchCalendar {
		if out.CalendarEvents, err = h.loadBusyEvents(ctx, q.UserID, &req); err != nil {
			return nil, err
		}
	}

	result, err := h.engine.ComputeSlots(req)
	if err != nil {
		return nil, err
	}

	if result.Status == domain.StatusNoCandidates && q.WidenOnEmpty && widenable(req.TemporalConstraint) {
		if widened, ok := h.widen(req, result, q.WidenDays); ok {
			if fetchCalendar {
				widened.BusyEvents = nil
				if out.CalendarEvents, err = h.loadBusyEvents(ctx, q.UserID, &widened); err != nil {
					return nil, err
				}
			}
			retry, err := h.engine.ComputeSlots(widened)
			if err != nil {
				return nil, err
			}
			result = retry
			out.Widened = true
			h.metrics.Counter(observability.MetricSlotWidened, 1)
		}
	}

	out.SchedulingResult = result
	h.record(result)
	return out, nil
}

// applyProfile fills request gaps from the stored profile. Request values win
// except for recurring constraints, which are combined.
func (h *ComputeSlotsHandler) applyProfile(ctx context.Context, userID uuid.UUID, req *domain.SchedulingRequest) (bool, error) {
	if h.profiles == nil || userID == uuid.Nil {
		return false, nil
	}
	profile, err := h.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, profileDomain.ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}

	req.RecurringConstraints = append(profile.Constraints(), req.RecurringConstraints...)
	if len(req.EnergyFavorablePeriods) == 0 {
		req.EnergyFavorablePeriods = profile.EnergyPeriods()
	}
	if req.Mood == "" {
		req.Mood = profile.DefaultMood()
	}
	if req.Location == nil && profile.Timezone() != "" {
		loc, err := profile.Location()
		if err != nil {
			return false, err
		}
		req.Location = loc
	}
	return true, nil
}

func (h *ComputeSlotsHandler) loadBusyEvents(ctx context.Context, userID uuid.UUID, req *domain.SchedulingRequest) (int, error) {
	window, ok, err := h.engine.EffectiveWindow(*req)
	if err != nil || !ok {
		// the engine reports the same condition itself
		return 0, nil
	}

	events, err := h.provider.BusyEvents(ctx, userID, window.Start(), window.End())
	if err != nil {
		return 0, fmt.Errorf("load calendar: %w", err)
	}
	req.BusyEvents = events
	h.logger.DebugContext(ctx, "calendar events merged", "events", len(events), "window", window.String())
	return len(events), nil
}

// widen extends the search end by days, capped at the maximum horizon from
// the effective start.
func (h *ComputeSlotsHandler) widen(req domain.SchedulingRequest, result *domain.SchedulingResult, days int) (domain.SchedulingRequest, bool) {
	if days <= 0 {
		days = DefaultWidenDays
	}
	if result.EffectiveStart.IsZero() || result.EffectiveEnd.IsZero() {
		return req, false
	}

	start := result.EffectiveStart
	end := result.EffectiveEnd.AddDate(0, 0, days)
	if limit := start.Add(h.engine.Config().MaxHorizon); end.After(limit) {
		end = limit
	}
	if !end.After(result.EffectiveEnd) {
		return req, false
	}

	req.SearchStart = start
	req.SearchEnd = end
	return req, true
}

// widenable reports whether a longer horizon can change the outcome: pinned
// days and deadlines bound the search themselves.
func widenable(tc domain.TemporalConstraint) bool {
	switch tc.(type) {
	case nil, domain.NoConstraint, domain.Asap, domain.StartDate:
		return true
	default:
		return false
	}
}

func (h *ComputeSlotsHandler) record(result *domain.SchedulingResult) {
	status := observability.T(observability.StatusKey, string(result.Status))
	h.metrics.Counter(observability.MetricSlotRequests, 1, status)
	h.metrics.Histogram(observability.MetricSlotCandidates, float64(len(result.Candidates)))
	h.metrics.Histogram(observability.MetricSlotEvaluated, float64(result.Evaluated))
	if len(result.Candidates) == 0 {
		h.metrics.Counter(observability.MetricSlotEmpty, 1, status)
	}
	if sc := result.ServiceConstraint; sc != nil {
		h.metrics.Counter(observability.MetricServiceInferred, 1, observability.T("category", string(sc.Category)))
	}
}
