package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// EngineConfig configures the slot engine.
type EngineConfig struct {
	DefaultHorizon    time.Duration // search length when the caller gives no end
	MaxHorizon        time.Duration // longest accepted search range
	Granularity       time.Duration
	Grace             time.Duration // tolerance for "now" falling inside a window
	ShortlistSize     int
	SameDaySeparation time.Duration
	Availability      AvailabilityConfig
	Weights           ScoringWeights
	ServiceRules      []ServiceRule
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultHorizon:    7 * 24 * time.Hour,
		MaxHorizon:        90 * 24 * time.Hour,
		Granularity:       15 * time.Minute,
		Grace:             5 * time.Minute,
		ShortlistSize:     3,
		SameDaySeparation: 2 * time.Hour,
		Availability:      DefaultAvailabilityConfig(),
		Weights:           DefaultScoringWeights(),
		ServiceRules:      DefaultServiceRules(),
	}
}

// SlotEngine computes ranked, diversified slot shortlists. It holds no
// per-request state and is safe for concurrent use.
type SlotEngine struct {
	config       EngineConfig
	inference    *ServiceInference
	availability *AvailabilityCalculator
	resolver     *TemporalResolver
	generator    *CandidateGenerator
	scoring      *ScoringEngine
	selector     *DiversifiedSelector
	clock        func() time.Time
	logger       *slog.Logger
}

// NewSlotEngine wires the pipeline stages from config.
func NewSlotEngine(config EngineConfig, logger *slog.Logger) *SlotEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ShortlistSize <= 0 {
		config.ShortlistSize = 3
	}
	return &SlotEngine{
		config:       config,
		inference:    NewServiceInference(config.ServiceRules),
		availability: NewAvailabilityCalculator(config.Availability),
		resolver:     NewTemporalResolver(config.DefaultHorizon, config.MaxHorizon),
		generator:    NewCandidateGenerator(config.Granularity, config.Grace),
		scoring:      NewScoringEngine(config.Weights),
		selector:     NewDiversifiedSelector(config.SameDaySeparation),
		clock:        time.Now,
		logger:       logger,
	}
}

// WithClock replaces the clock used when a request carries no Now.
func (e *SlotEngine) WithClock(clock func() time.Time) *SlotEngine {
	e.clock = clock
	return e
}

// Config returns the engine configuration.
func (e *SlotEngine) Config() EngineConfig {
	return e.config
}

// searchPlan is the resolved time context of one computation.
type searchPlan struct {
	now        time.Time
	loc        *time.Location
	resolution Resolution
}

func (e *SlotEngine) plan(req domain.SchedulingRequest) (searchPlan, error) {
	if err := req.Validate(); err != nil {
		return searchPlan{}, err
	}

	now := req.Now
	if now.IsZero() {
		now = e.clock()
	}
	loc := req.Location
	if loc == nil {
		if !req.SearchStart.IsZero() {
			loc = req.SearchStart.Location()
		} else {
			loc = now.Location()
		}
	}
	now = now.In(loc)

	bounds := SearchBounds{Start: req.SearchStart, End: req.SearchEnd}
	if bounds.Start.IsZero() {
		bounds.Start = now
	}
	if bounds.End.IsZero() {
		bounds.End = bounds.Start.Add(e.config.DefaultHorizon)
		bounds.EndDefaulted = true
	}
	bounds.Start, bounds.End = bounds.Start.In(loc), bounds.End.In(loc)
	if bounds.End.Before(bounds.Start) {
		return searchPlan{}, domain.ErrInvalidSearchRange
	}
	if bounds.End.Sub(bounds.Start) > e.config.MaxHorizon {
		return searchPlan{}, fmt.Errorf("%w: %s > %s", domain.ErrSearchRangeTooLarge,
			bounds.End.Sub(bounds.Start), e.config.MaxHorizon)
	}

	resolution := e.resolver.Resolve(req.TemporalConstraint, bounds, now, loc)
	if !resolution.Expired && !resolution.Empty && resolution.Window.Duration() > e.config.MaxHorizon {
		return searchPlan{}, fmt.Errorf("%w: constraint spans %s", domain.ErrSearchRangeTooLarge, resolution.Window.Duration())
	}
	return searchPlan{now: now, loc: loc, resolution: resolution}, nil
}

// EffectiveWindow returns the range ComputeSlots would search for req, so
// callers can fetch calendar data for exactly that range. ok is false when the
// constraint leaves nothing to search.
func (e *SlotEngine) EffectiveWindow(req domain.SchedulingRequest) (window domain.TimeWindow, ok bool, err error) {
	p, err := e.plan(req)
	if err != nil {
		return domain.TimeWindow{}, false, err
	}
	if p.resolution.Expired || p.resolution.Empty {
		return domain.TimeWindow{}, false, nil
	}
	return p.resolution.Window, true, nil
}

// ComputeSlots runs inference, resolution, availability, generation, scoring
// and selection in that order. An expired deadline or a fully booked range is
// a normal empty result; only malformed requests return an error.
func (e *SlotEngine) ComputeSlots(req domain.SchedulingRequest) (*domain.SchedulingResult, error) {
	p, err := e.plan(req)
	if err != nil {
		return nil, err
	}
	now, loc, resolution := p.now, p.loc, p.resolution

	result := &domain.SchedulingResult{Candidates: []domain.TimeSlot{}}
	result.ServiceConstraint = e.inference.Infer(req.TaskContent)

	if resolution.Expired {
		result.Status = domain.StatusDeadlineExpired
		result.Reason = resolution.Reason
		return result, nil
	}
	if resolution.Empty {
		result.Status = domain.StatusNoCandidates
		result.Reason = resolution.Reason
		return result, nil
	}
	result.EffectiveStart = resolution.Window.Start()
	result.EffectiveEnd = resolution.Window.End()

	days := e.availability.FreeWindows(req.RecurringConstraints, req.BusyEvents, resolution.Window, loc)
	free := Flatten(days)
	if sc := result.ServiceConstraint; sc != nil {
		free = domain.Intersect(resolution.Window, free, sc.OpenHours.Windows(resolution.Window, loc))
	}

	candidates := e.generator.Generate(free, req.Duration(), now)
	result.Evaluated = len(candidates)

	scored := e.scoring.Score(candidates, ScoringContext{
		Mood:           req.Mood,
		EnergyPeriods:  req.EnergyFavorablePeriods,
		PreferredAt:    resolution.PreferredAt,
		ApplyProximity: resolution.PreferEarliest || !resolution.Pinned,
	})
	picked := e.selector.Select(scored, e.config.ShortlistSize)

	e.logger.Debug("computed slots",
		"constraint", kindOf(req.TemporalConstraint),
		"days", len(days),
		"free_windows", len(free),
		"candidates", len(candidates),
		"selected", len(picked),
	)

	for _, c := range picked {
		result.Candidates = append(result.Candidates, toTimeSlot(c, req.DurationMinutes))
	}
	if len(result.Candidates) == 0 {
		result.Status = domain.StatusNoCandidates
		result.Reason = fmt.Sprintf("no free %d-minute slot between %s and %s",
			req.DurationMinutes, result.EffectiveStart.Format(time.RFC3339), result.EffectiveEnd.Format(time.RFC3339))
		return result, nil
	}
	result.Status = domain.StatusOK
	return result, nil
}

func toTimeSlot(c Candidate, minutes int) domain.TimeSlot {
	return domain.TimeSlot{
		Date:            domain.StartOfDay(c.Start),
		StartTime:       c.Start,
		EndTime:         c.End,
		DurationMinutes: minutes,
		Score:           c.Score,
		Reason:          Reason(c),
	}
}

func kindOf(tc domain.TemporalConstraint) domain.TemporalConstraintKind {
	if tc == nil {
		return domain.KindNone
	}
	return tc.Kind()
}
