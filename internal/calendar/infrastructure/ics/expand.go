package ics

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// Expand converts the VEVENTs of cal into busy events overlapping [start, end).
// Recurring events are expanded; RECURRENCE-ID instances replace the
// occurrence they override. Transparent and zero-length events are skipped.
// Floating times are read in loc.
func Expand(cal *ical.Calendar, start, end time.Time, loc *time.Location) []slots.CalendarBusyEvent {
	if loc == nil {
		loc = time.UTC
	}

	type key struct {
		uid string
		at  int64
	}
	overridden := make(map[key]bool)
	var singles, occurrences []expanded

	for _, ev := range cal.Events() {
		parsed, ok := parseEvent(ev, loc)
		if !ok {
			continue
		}
		if parsed.recurrenceID != nil {
			overridden[key{parsed.uid, parsed.recurrenceID.Unix()}] = true
			singles = append(singles, parsed)
			continue
		}

		set, err := ev.RecurrenceSet(loc)
		if err != nil || set == nil {
			singles = append(singles, parsed)
			continue
		}
		for _, ex := range exceptionDates(ev, loc) {
			set.ExDate(ex)
		}
		for _, at := range set.Between(start.Add(-parsed.duration), end, true) {
			occ := parsed
			occ.start = at
			occurrences = append(occurrences, occ)
		}
	}

	out := make([]slots.CalendarBusyEvent, 0, len(singles)+len(occurrences))
	for _, occ := range occurrences {
		if overridden[key{occ.uid, occ.start.Unix()}] {
			continue
		}
		if e, ok := occ.busyEvent(start, end); ok {
			out = append(out, e)
		}
	}
	for _, s := range singles {
		if e, ok := s.busyEvent(start, end); ok {
			out = append(out, e)
		}
	}
	return out
}

type expanded struct {
	uid          string
	summary      string
	status       slots.EventStatus
	start        time.Time
	duration     time.Duration
	recurrenceID *time.Time
}

func (e expanded) busyEvent(start, end time.Time) (slots.CalendarBusyEvent, bool) {
	stop := e.start.Add(e.duration)
	if !e.start.Before(end) || !stop.After(start) {
		return slots.CalendarBusyEvent{}, false
	}
	w, err := slots.NewTimeWindow(e.start, stop)
	if err != nil {
		return slots.CalendarBusyEvent{}, false
	}
	return slots.CalendarBusyEvent{Window: w, Status: e.status, Summary: e.summary}, true
}

func parseEvent(ev ical.Event, loc *time.Location) (expanded, bool) {
	if p := ev.Props.Get(ical.PropTransparency); p != nil && strings.EqualFold(p.Value, "TRANSPARENT") {
		return expanded{}, false
	}

	dtstart, err := ev.DateTimeStart(loc)
	if err != nil || dtstart.IsZero() {
		return expanded{}, false
	}
	dtend, err := ev.DateTimeEnd(loc)
	if err != nil || !dtend.After(dtstart) {
		return expanded{}, false
	}

	out := expanded{start: dtstart, duration: dtend.Sub(dtstart), status: slots.EventStatusConfirmed}
	if p := ev.Props.Get(ical.PropUID); p != nil {
		out.uid = p.Value
	}
	if summary, err := ev.Props.Text(ical.PropSummary); err == nil {
		out.summary = summary
	}
	if p := ev.Props.Get(ical.PropStatus); p != nil {
		if st, err := slots.ParseEventStatus(p.Value); err == nil {
			out.status = st
		}
	}
	if p := ev.Props.Get(ical.PropRecurrenceID); p != nil {
		if rid, err := p.DateTime(loc); err == nil {
			out.recurrenceID = &rid
		}
	}
	return out, true
}

var exdateLayouts = []string{"20060102T150405Z", "20060102T150405", "20060102"}

// exceptionDates reads every EXDATE value, including comma-separated lists.
func exceptionDates(ev ical.Event, loc *time.Location) []time.Time {
	var out []time.Time
	for _, p := range ev.Props[ical.PropExceptionDates] {
		zone := loc
		if tzid := p.Params.Get(ical.ParamTimezoneID); tzid != "" {
			if l, err := time.LoadLocation(tzid); err == nil {
				zone = l
			}
		}
		for _, raw := range strings.Split(p.Value, ",") {
			raw = strings.TrimSpace(raw)
			for _, layout := range exdateLayouts {
				var t time.Time
				var err error
				if strings.HasSuffix(layout, "Z") {
					t, err = time.Parse(layout, raw)
				} else {
					t, err = time.ParseInLocation(layout, raw, zone)
				}
				if err == nil {
					out = append(out, t)
					break
				}
			}
		}
	}
	return out
}
