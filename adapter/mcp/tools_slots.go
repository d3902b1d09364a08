package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/queries"
)

type computeSlotsInput struct {
	DurationMinutes int      `json:"duration_minutes" jsonschema:"required"`
	Task            string   `json:"task,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Energy          []string `json:"energy,omitempty"`
	Timezone        string   `json:"timezone,omitempty"`
	From            string   `json:"from,omitempty"`
	To              string   `json:"to,omitempty"`
	On              string   `json:"on,omitempty"`
	At              string   `json:"at,omitempty"`
	Before          string   `json:"before,omitempty"`
	After           string   `json:"after,omitempty"`
	Asap            bool     `json:"asap,omitempty"`
	Widen           bool     `json:"widen,omitempty"`
	SkipCalendar    bool     `json:"skip_calendar,omitempty"`
	Now             string   `json:"now,omitempty"`
}

type slotsResult struct {
	dto.SchedulingResult
	Widened        bool `json:"widened"`
	CalendarEvents int  `json:"calendar_events"`
	ProfileApplied bool `json:"profile_applied"`
}

func registerSlotTools(srv *mcp.Server, t toolset) {
	srv.Tool("compute_slots").
		Description("Suggest up to three time slots for a task, spread over different days. " +
			"Set at most one of on, at, before, after and asap. Times without an offset are read in timezone, " +
			"or the server's local zone when timezone is empty.").
		Handler(t.computeSlots)
}

func (t toolset) computeSlots(ctx context.Context, input computeSlotsInput) (*slotsResult, error) {
	if t.app.ComputeSlotsHandler == nil {
		return nil, errors.New("slot computation is not available")
	}
	wire, err := input.toRequest()
	if err != nil {
		return nil, err
	}
	req, err := wire.ToDomain()
	if err != nil {
		return nil, err
	}

	res, err := t.app.ComputeSlotsHandler.Handle(ctx, queries.ComputeSlotsQuery{
		UserID:       t.app.CurrentUserID,
		Request:      req,
		WidenOnEmpty: input.Widen,
		WidenDays:    t.app.WidenDays,
		SkipCalendar: input.SkipCalendar,
	})
	if err != nil {
		return nil, err
	}
	return &slotsResult{
		SchedulingResult: dto.FromResult(res.SchedulingResult),
		Widened:          res.Widened,
		CalendarEvents:   res.CalendarEvents,
		ProfileApplied:   res.ProfileApplied,
	}, nil
}

func (in computeSlotsInput) toRequest() (dto.SchedulingRequest, error) {
	req := dto.SchedulingRequest{
		DurationMinutes:        in.DurationMinutes,
		TaskContent:            in.Task,
		Mood:                   in.Mood,
		EnergyFavorablePeriods: in.Energy,
		Timezone:               in.Timezone,
	}

	loc := time.Local
	if in.Timezone != "" {
		l, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return req, fmt.Errorf("invalid timezone %q: %w", in.Timezone, err)
		}
		loc = l
	}

	if in.Now != "" {
		now, err := time.Parse(time.RFC3339, in.Now)
		if err != nil {
			return req, fmt.Errorf("now: %w", err)
		}
		req.Now = &now
	}
	if in.From != "" {
		from, _, err := parseWhen("from", in.From, loc)
		if err != nil {
			return req, err
		}
		req.SearchStart = &from
	}
	if in.To != "" {
		to, _, err := parseWhen("to", in.To, loc)
		if err != nil {
			return req, err
		}
		req.SearchEnd = &to
	}

	tc, err := in.temporalConstraint(loc)
	if err != nil {
		return req, err
	}
	req.TemporalConstraint = tc
	return req, nil
}

func (in computeSlotsInput) temporalConstraint(loc *time.Location) (*dto.TemporalConstraint, error) {
	set := 0
	for _, v := range []string{in.On, in.At, in.Before, in.After} {
		if v != "" {
			set++
		}
	}
	if in.Asap {
		set++
	}
	if set > 1 {
		return nil, errors.New("set at most one of on, at, before, after and asap")
	}

	switch {
	case in.On != "":
		day, _, err := parseWhen("on", in.On, loc)
		if err != nil {
			return nil, err
		}
		return &dto.TemporalConstraint{Type: "fixed_day", Date: day.Format(dateLayout)}, nil
	case in.At != "":
		at, hasTime, err := parseWhen("at", in.At, loc)
		if err != nil {
			return nil, err
		}
		return &dto.TemporalConstraint{Type: "fixed_date", At: &at, HasTime: hasTime}, nil
	case in.Before != "":
		before, _, err := parseWhen("before", in.Before, loc)
		if err != nil {
			return nil, err
		}
		return &dto.TemporalConstraint{Type: "deadline", Before: &before}, nil
	case in.After != "":
		after, _, err := parseWhen("after", in.After, loc)
		if err != nil {
			return nil, err
		}
		return &dto.TemporalConstraint{Type: "start_date", After: &after}, nil
	case in.Asap:
		return &dto.TemporalConstraint{Type: "asap"}, nil
	}
	return nil, nil
}
