package suggest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/application/dto"
)

// options are the request-shaping flags of the suggest command.
type options struct {
	duration    int
	requestFile string
	task        string
	mood        string
	energy      []string
	timezone    string
	from        string
	to          string
	on          string
	at          string
	before      string
	after       string
	asap        bool
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen reads a flag time in loc. hasTime is false for a bare date.
func parseWhen(s string, loc *time.Location) (t time.Time, hasTime bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, layout != "2006-01-02", nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid time %q, use YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339", s)
}

// buildRequest assembles the wire request from a JSON file or from flags.
func buildRequest(o options) (dto.SchedulingRequest, error) {
	if o.requestFile != "" {
		return readRequestFile(o.requestFile, o.duration)
	}
	if o.duration <= 0 {
		return dto.SchedulingRequest{}, fmt.Errorf("--duration is required")
	}

	loc := time.Local
	if o.timezone != "" {
		l, err := time.LoadLocation(o.timezone)
		if err != nil {
			return dto.SchedulingRequest{}, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
		}
		loc = l
	}

	req := dto.SchedulingRequest{
		DurationMinutes:        o.duration,
		TaskContent:            o.task,
		Mood:                   o.mood,
		EnergyFavorablePeriods: o.energy,
		Timezone:               o.timezone,
	}

	if o.from != "" {
		t, _, err := parseWhen(o.from, loc)
		if err != nil {
			return req, fmt.Errorf("--from: %w", err)
		}
		req.SearchStart = &t
	}
	if o.to != "" {
		t, _, err := parseWhen(o.to, loc)
		if err != nil {
			return req, fmt.Errorf("--to: %w", err)
		}
		req.SearchEnd = &t
	}

	tc, err := temporalConstraint(o, loc)
	if err != nil {
		return req, err
	}
	req.TemporalConstraint = tc
	return req, nil
}

func temporalConstraint(o options, loc *time.Location) (*dto.TemporalConstraint, error) {
	switch {
	case o.on != "":
		t, _, err := parseWhen(o.on, loc)
		if err != nil {
			return nil, fmt.Errorf("--on: %w", err)
		}
		return &dto.TemporalConstraint{Type: "fixed_day", Date: t.Format("2006-01-02")}, nil
	case o.at != "":
		t, hasTime, err := parseWhen(o.at, loc)
		if err != nil {
			return nil, fmt.Errorf("--at: %w", err)
		}
		return &dto.TemporalConstraint{Type: "fixed_date", At: &t, HasTime: hasTime}, nil
	case o.before != "":
		t, _, err := parseWhen(o.before, loc)
		if err != nil {
			return nil, fmt.Errorf("--before: %w", err)
		}
		return &dto.TemporalConstraint{Type: "deadline", Before: &t}, nil
	case o.after != "":
		t, _, err := parseWhen(o.after, loc)
		if err != nil {
			return nil, fmt.Errorf("--after: %w", err)
		}
		return &dto.TemporalConstraint{Type: "start_date", After: &t}, nil
	case o.asap:
		return &dto.TemporalConstraint{Type: "asap"}, nil
	default:
		return nil, nil
	}
}

// readRequestFile loads a JSON request; a positive duration flag overrides the file.
func readRequestFile(path string, duration int) (dto.SchedulingRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dto.SchedulingRequest{}, fmt.Errorf("read request file: %w", err)
	}
	var req dto.SchedulingRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return dto.SchedulingRequest{}, fmt.Errorf("parse request file: %w", err)
	}
	if duration > 0 {
		req.DurationMinutes = duration
	}
	return req, nil
}
