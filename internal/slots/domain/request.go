package domain

import (
	"fmt"
	"time"
)

// SchedulingRequest is everything the engine needs for one computation.
type SchedulingRequest struct {
	DurationMinutes        int
	RecurringConstraints   []RecurringConstraint
	BusyEvents             []CalendarBusyEvent
	SearchStart            time.Time
	SearchEnd              time.Time
	EnergyFavorablePeriods []EnergyPeriod
	Mood                   Mood
	TemporalConstraint     TemporalConstraint
	TaskContent            string

	// Now is the reference instant. Zero means the engine clock.
	Now time.Time
	// Location is the user's time zone for day boundaries. Nil falls back to
	// SearchStart's location.
	Location *time.Location
}

// Duration returns the requested slot length.
func (r SchedulingRequest) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// Validate checks the request shape. Range limits are checked by the engine,
// which knows the configured horizon.
func (r SchedulingRequest) Validate() error {
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: got %d minutes", ErrInvalidDuration, r.DurationMinutes)
	}
	if !r.SearchStart.IsZero() && !r.SearchEnd.IsZero() && r.SearchEnd.Before(r.SearchStart) {
		return ErrInvalidSearchRange
	}
	for i, c := range r.RecurringConstraints {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("recurring constraint %d: %w", i, err)
		}
	}
	for _, p := range r.EnergyFavorablePeriods {
		if _, err := ParseEnergyPeriod(string(p)); err != nil {
			return err
		}
	}
	if _, err := ParseMood(string(r.Mood)); err != nil {
		return err
	}
	if tr, ok := r.TemporalConstraint.(TimeRange); ok && tr.Window.IsZero() {
		return fmt.Errorf("%w: time range without window", ErrInvalidTimeWindow)
	}
	return nil
}

// ResultStatus summarises why a result has or lacks candidates.
type ResultStatus string

const (
	StatusOK              ResultStatus = "ok"
	StatusNoCandidates    ResultStatus = "no_candidates"
	StatusDeadlineExpired ResultStatus = "deadline_expired"
)

// SchedulingResult is the engine output. Candidates are sorted by score
// descending, ties by earliest start.
type SchedulingResult struct {
	Candidates        []TimeSlot         `json:"candidates"`
	ServiceConstraint *ServiceConstraint `json:"service_constraint"`
	Status            ResultStatus       `json:"status"`
	Reason            string             `json:"reason,omitempty"`
	EffectiveStart    time.Time          `json:"effective_start"`
	EffectiveEnd      time.Time          `json:"effective_end"`
	Evaluated         int                `json:"evaluated"`
}
