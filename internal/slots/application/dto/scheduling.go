// Package dto holds the JSON wire shapes for scheduling requests and results.
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

const dateLayout = "2006-01-02"

// SchedulingRequest is the JSON body of a slot computation.
type SchedulingRequest struct {
	DurationMinutes        int                   `json:"duration_minutes"`
	RecurringConstraints   []RecurringConstraint `json:"recurring_constraints,omitempty"`
	BusyEvents             []BusyEvent           `json:"busy_events,omitempty"`
	SearchStart            *time.Time            `json:"search_start,omitempty"`
	SearchEnd              *time.Time            `json:"search_end,omitempty"`
	EnergyFavorablePeriods []string              `json:"energy_favorable_periods,omitempty"`
	Mood                   string                `json:"mood,omitempty"`
	TemporalConstraint     *TemporalConstraint   `json:"temporal_constraint,omitempty"`
	TaskContent            string                `json:"task_content,omitempty"`
	Timezone               string                `json:"timezone,omitempty"`
	Now                    *time.Time            `json:"now,omitempty"`
}

// RecurringConstraint is the wire form of a weekly unavailability block.
type RecurringConstraint struct {
	Label            string   `json:"label,omitempty"`
	DaysOfWeek       []string `json:"days_of_week"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
	AllowMidDayBreak bool     `json:"allow_mid_day_break,omitempty"`
}

// BusyEvent is the wire form of a calendar event.
type BusyEvent struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Status  string    `json:"status,omitempty"`
	Summary string    `json:"summary,omitempty"`
}

// TemporalConstraint is a tagged object; Type selects which other fields apply.
type TemporalConstraint struct {
	Type    string     `json:"type"`
	At      *time.Time `json:"at,omitempty"`
	HasTime bool       `json:"has_time,omitempty"`
	Date    string     `json:"date,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	Before  *time.Time `json:"before,omitempty"`
	After   *time.Time `json:"after,omitempty"`
}

// ToDomain converts and validates the wire request. Without a timezone the
// request carries no location, so a stored profile's zone can apply; date-only
// constraint fields are then read as UTC.
func (r SchedulingRequest) ToDomain() (domain.SchedulingRequest, error) {
	req := domain.SchedulingRequest{
		DurationMinutes: r.DurationMinutes,
		TaskContent:     r.TaskContent,
	}

	loc := time.UTC
	if r.Timezone != "" {
		l, err := time.LoadLocation(r.Timezone)
		if err != nil {
			return domain.SchedulingRequest{}, fmt.Errorf("%w: timezone %q", domain.ErrValidation, r.Timezone)
		}
		loc = l
		req.Location = l
	}
	if r.SearchStart != nil {
		req.SearchStart = *r.SearchStart
	}
	if r.SearchEnd != nil {
		req.SearchEnd = *r.SearchEnd
	}
	if r.Now != nil {
		req.Now = *r.Now
	}

	// an absent mood stays empty so a stored default can apply
	if r.Mood != "" {
		mood, err := domain.ParseMood(r.Mood)
		if err != nil {
			return domain.SchedulingRequest{}, err
		}
		req.Mood = mood
	}

	for _, p := range r.EnergyFavorablePeriods {
		period, err := domain.ParseEnergyPeriod(p)
		if err != nil {
			return domain.SchedulingRequest{}, err
		}
		req.EnergyFavorablePeriods = append(req.EnergyFavorablePeriods, period)
	}

	for i, c := range r.RecurringConstraints {
		rc, err := c.ToDomain()
		if err != nil {
			return domain.SchedulingRequest{}, fmt.Errorf("recurring_constraints[%d]: %w", i, err)
		}
		req.RecurringConstraints = append(req.RecurringConstraints, rc)
	}

	for i, e := range r.BusyEvents {
		ev, err := e.ToDomain()
		if err != nil {
			return domain.SchedulingRequest{}, fmt.Errorf("busy_events[%d]: %w", i, err)
		}
		req.BusyEvents = append(req.BusyEvents, ev)
	}

	if r.TemporalConstraint != nil {
		tc, err := r.TemporalConstraint.ToDomain(loc)
		if err != nil {
			return domain.SchedulingRequest{}, err
		}
		req.TemporalConstraint = tc
	}
	return req, nil
}

// ToDomain converts a wire constraint.
func (c RecurringConstraint) ToDomain() (domain.RecurringConstraint, error) {
	start, err := domain.ParseTimeOfDay(c.StartTime)
	if err != nil {
		return domain.RecurringConstraint{}, err
	}
	end, err := domain.ParseTimeOfDay(c.EndTime)
	if err != nil {
		return domain.RecurringConstraint{}, err
	}
	days := make([]time.Weekday, 0, len(c.DaysOfWeek))
	for _, d := range c.DaysOfWeek {
		wd, err := ParseWeekday(d)
		if err != nil {
			return domain.RecurringConstraint{}, err
		}
		days = append(days, wd)
	}
	rc := domain.RecurringConstraint{
		Label:            c.Label,
		DaysOfWeek:       days,
		StartTime:        start,
		EndTime:          end,
		AllowMidDayBreak: c.AllowMidDayBreak,
	}
	return rc, rc.Validate()
}

// FromRecurringConstraint converts a domain constraint to its wire form.
func FromRecurringConstraint(c domain.RecurringConstraint) RecurringConstraint {
	days := make([]string, 0, len(c.DaysOfWeek))
	for _, d := range c.DaysOfWeek {
		days = append(days, strings.ToLower(d.String()[:3]))
	}
	return RecurringConstraint{
		Label:            c.Label,
		DaysOfWeek:       days,
		StartTime:        c.StartTime.String(),
		EndTime:          c.EndTime.String(),
		AllowMidDayBreak: c.AllowMidDayBreak,
	}
}

// ToDomain converts a wire event.
func (e BusyEvent) ToDomain() (domain.CalendarBusyEvent, error) {
	w, err := domain.NewTimeWindow(e.Start, e.End)
	if err != nil {
		return domain.CalendarBusyEvent{}, err
	}
	status, err := domain.ParseEventStatus(e.Status)
	if err != nil {
		return domain.CalendarBusyEvent{}, err
	}
	return domain.CalendarBusyEvent{Window: w, Status: status, Summary: e.Summary}, nil
}

// FromBusyEvent converts a domain event to its wire form.
func FromBusyEvent(e domain.CalendarBusyEvent) BusyEvent {
	return BusyEvent{Start: e.Window.Start(), End: e.Window.End(), Status: string(e.Status), Summary: e.Summary}
}

// ToDomain converts the tagged object into its variant. Dates without a time
// are interpreted in loc.
func (c TemporalConstraint) ToDomain(loc *time.Location) (domain.TemporalConstraint, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s constraint requires %q", domain.ErrUnknownTemporalConstraint, c.Type, field)
	}

	switch domain.TemporalConstraintKind(strings.ToLower(c.Type)) {
	case domain.KindFixedDate:
		if c.At != nil {
			return domain.FixedDate{At: *c.At, HasTime: c.HasTime}, nil
		}
		if c.Date == "" {
			return nil, missing("at")
		}
		day, err := time.ParseInLocation(dateLayout, c.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", domain.ErrValidation, c.Date)
		}
		return domain.FixedDate{At: day}, nil
	case domain.KindFixedDay:
		if c.Date == "" {
			return nil, missing("date")
		}
		day, err := time.ParseInLocation(dateLayout, c.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", domain.ErrValidation, c.Date)
		}
		return domain.FixedDay{Date: day}, nil
	case domain.KindTimeRange:
		if c.Start == nil || c.End == nil {
			return nil, missing("start and end")
		}
		w, err := domain.NewTimeWindow(*c.Start, *c.End)
		if err != nil {
			return nil, err
		}
		return domain.TimeRange{Window: w}, nil
	case domain.KindDeadline:
		if c.Before == nil {
			return nil, missing("before")
		}
		return domain.Deadline{Before: *c.Before}, nil
	case domain.KindStartDate:
		if c.After == nil {
			return nil, missing("after")
		}
		return domain.StartDate{After: *c.After}, nil
	case domain.KindAsap:
		return domain.Asap{}, nil
	case domain.KindNone, "":
		return domain.NoConstraint{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTemporalConstraint, c.Type)
	}
}

// FromTemporalConstraint renders a variant as its tagged object.
func FromTemporalConstraint(tc domain.TemporalConstraint) TemporalConstraint {
	if tc == nil {
		return TemporalConstraint{Type: string(domain.KindNone)}
	}
	enc := &encoder{}
	tc.Accept(enc)
	enc.out.Type = string(tc.Kind())
	return enc.out
}

type encoder struct{ out TemporalConstraint }

func (e *encoder) VisitFixedDate(c domain.FixedDate) {
	at := c.At
	e.out.At, e.out.HasTime = &at, c.HasTime
}

func (e *encoder) VisitFixedDay(c domain.FixedDay) { e.out.Date = c.Date.Format(dateLayout) }

func (e *encoder) VisitTimeRange(c domain.TimeRange) {
	start, end := c.Window.Start(), c.Window.End()
	e.out.Start, e.out.End = &start, &end
}

func (e *encoder) VisitDeadline(c domain.Deadline)   { before := c.Before; e.out.Before = &before }
func (e *encoder) VisitStartDate(c domain.StartDate) { after := c.After; e.out.After = &after }
func (e *encoder) VisitAsap(domain.Asap)             {}
func (e *encoder) VisitNone(domain.NoConstraint)     {}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday, "dim": time.Sunday, "dimanche": time.Sunday,
	"mon": time.Monday, "monday": time.Monday, "lun": time.Monday, "lundi": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "mar": time.Tuesday, "mardi": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "mer": time.Wednesday, "mercredi": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "jeu": time.Thursday, "jeudi": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "ven": time.Friday, "vendredi": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "sam": time.Saturday, "samedi": time.Saturday,
}

// ParseWeekday accepts English or French day names and abbreviations.
func ParseWeekday(s string) (time.Weekday, error) {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wd, nil
	}
	return 0, fmt.Errorf("%w: weekday %q", domain.ErrValidation, s)
}

// TimeSlot is the wire form of a candidate.
type TimeSlot struct {
	Date            string    `json:"date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Score           int       `json:"score"`
	Reason          string    `json:"reason"`
}

// ServiceConstraint is the wire form of an inferred business-hours restriction.
type ServiceConstraint struct {
	Category       string `json:"category"`
	OpenHours      string `json:"open_hours"`
	Reason         string `json:"reason"`
	MatchedKeyword string `json:"matched_keyword"`
}

// SchedulingResult is the JSON response of a slot computation.
type SchedulingResult struct {
	Candidates        []TimeSlot         `json:"candidates"`
	ServiceConstraint *ServiceConstraint `json:"service_constraint"`
	Status            string             `json:"status"`
	Reason            string             `json:"reason,omitempty"`
	EffectiveStart    *time.Time         `json:"effective_start,omitempty"`
	EffectiveEnd      *time.Time         `json:"effective_end,omitempty"`
	Evaluated         int                `json:"evaluated"`
}

// FromResult converts an engine result to its wire form.
func FromResult(r *domain.SchedulingResult) SchedulingResult {
	out := SchedulingResult{
		Candidates: make([]TimeSlot, 0, len(r.Candidates)),
		Status:     string(r.Status),
		Reason:     r.Reason,
		Evaluated:  r.Evaluated,
	}
	for _, c := range r.Candidates {
		out.Candidates = append(out.Candidates, TimeSlot{
			Date:            c.Date.Format(dateLayout),
			StartTime:       c.StartTime,
			EndTime:         c.EndTime,
			DurationMinutes: c.DurationMinutes,
			Score:           c.Score,
			Reason:          c.Reason,
		})
	}
	if sc := r.ServiceConstraint; sc != nil {
		out.ServiceConstraint = &ServiceConstraint{
			Category:       string(sc.Category),
			OpenHours:      sc.OpenHours.String(),
			Reason:         sc.Reason,
			MatchedKeyword: sc.MatchedKeyword,
		}
	}
	if !r.EffectiveStart.IsZero() {
		start, end := r.EffectiveStart, r.EffectiveEnd
		out.EffectiveStart, out.EffectiveEnd = &start, &end
	}
	return out
}
