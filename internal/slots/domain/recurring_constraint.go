package domain

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultMidDayBreak is the lunch window kept free inside constraints that allow it.
var DefaultMidDayBreak = DailyWindow{Start: ClockTime(12, 0), End: ClockTime(14, 0)}

// RecurringConstraint is a weekly block of personal unavailability, such as work hours.
// An EndTime at or before StartTime means the block runs past midnight into the next day.
type RecurringConstraint struct {
	Label            string         `json:"label,omitempty"`
	DaysOfWeek       []time.Weekday `json:"days_of_week"`
	StartTime        TimeOfDay      `json:"start_time"`
	EndTime          TimeOfDay      `json:"end_time"`
	AllowMidDayBreak bool           `json:"allow_mid_day_break"`
}

// Validate checks the constraint is usable.
func (c RecurringConstraint) Validate() error {
	if c.StartTime == c.EndTime {
		return fmt.Errorf("%w: %s", ErrInvalidRecurring, c.StartTime)
	}
	if c.StartTime < 0 || c.StartTime >= MinutesPerDay || c.EndTime < 0 || c.EndTime > MinutesPerDay {
		return ErrInvalidTimeOfDay
	}
	for _, d := range c.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d", ErrValidation, d)
		}
	}
	return nil
}

// SpansMidnight reports whether each occurrence ends on the following day.
func (c RecurringConstraint) SpansMidnight() bool {
	return c.EndTime <= c.StartTime
}

// AppliesOn reports whether an occurrence starts on the given weekday.
func (c RecurringConstraint) AppliesOn(day time.Weekday) bool {
	for _, d := range c.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// Occurrences expands the weekly rule into concrete blocked windows touching
// within, evaluated in loc. When AllowMidDayBreak is set, midDayBreak is left
// free inside each occurrence.
func (c RecurringConstraint) Occurrences(within TimeWindow, loc *time.Location, midDayBreak DailyWindow) []TimeWindow {
	if len(c.DaysOfWeek) == 0 {
		return nil
	}

	// Start one day early so an overnight block from the previous evening is seen.
	first := StartOfDay(within.start.In(loc)).AddDate(0, 0, -1)
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   c.StartTime.On(first),
		Byweekday: toRRuleWeekdays(c.DaysOfWeek),
		Until:     within.end.In(loc),
	})
	if err != nil {
		panic(fmt.Sprintf("recurring constraint %q: %v", c.Label, err))
	}

	var blocks []TimeWindow
	for _, start := range rule.Between(first, within.end.In(loc), true) {
		endDay := start
		if c.SpansMidnight() {
			endDay = start.AddDate(0, 0, 1)
		}
		block, err := NewTimeWindow(start, c.EndTime.On(endDay))
		if err != nil {
			// A DST gap can collapse a short block; nothing to block then.
			continue
		}
		parts := []TimeWindow{block}
		if c.AllowMidDayBreak {
			for _, day := range DaysIn(block, loc) {
				if lunch, ok := midDayBreak.On(day); ok {
					parts = Subtract(block, parts, []TimeWindow{lunch})
				}
			}
		}
		blocks = append(blocks, ClipTo(parts, within)...)
	}
	return Normalize(blocks)
}

func toRRuleWeekdays(days []time.Weekday) []rrule.Weekday {
	lookup := map[time.Weekday]rrule.Weekday{
		time.Monday:    rrule.MO,
		time.Tuesday:   rrule.TU,
		time.Wednesday: rrule.WE,
		time.Thursday:  rrule.TH,
		time.Friday:    rrule.FR,
		time.Saturday:  rrule.SA,
		time.Sunday:    rrule.SU,
	}
	out := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, lookup[d])
	}
	return out
}
