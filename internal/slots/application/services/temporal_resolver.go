package services

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// FixedDateTolerance is how far around a fixed instant the search extends.
const FixedDateTolerance = time.Hour

// SearchBounds is the caller's search range after defaults were applied.
type SearchBounds struct {
	Start time.Time
	End   time.Time
	// EndDefaulted is set when the caller gave no end and the default horizon was used.
	EndDefaulted bool
}

// Resolution is the narrowed search range for a temporal constraint.
type Resolution struct {
	Window         domain.TimeWindow
	PreferredAt    *time.Time
	PreferEarliest bool
	Pinned         bool
	Expired        bool
	Empty          bool
	Reason         string
}

// TemporalResolver narrows the search range according to a temporal constraint.
type TemporalResolver struct {
	defaultHorizon time.Duration
	maxHorizon     time.Duration
}

// NewTemporalResolver creates a resolver.
func NewTemporalResolver(defaultHorizon, maxHorizon time.Duration) *TemporalResolver {
	return &TemporalResolver{defaultHorizon: defaultHorizon, maxHorizon: maxHorizon}
}

// Resolve applies tc to bounds. A nil constraint behaves like NoConstraint.
func (r *TemporalResolver) Resolve(tc domain.TemporalConstraint, bounds SearchBounds, now time.Time, loc *time.Location) Resolution {
	if tc == nil {
		tc = domain.NoConstraint{}
	}
	v := &resolveVisitor{resolver: r, bounds: bounds, now: now, loc: loc}
	tc.Accept(v)
	return v.result
}

type resolveVisitor struct {
	resolver *TemporalResolver
	bounds   SearchBounds
	now      time.Time
	loc      *time.Location
	result   Resolution
}

func (v *resolveVisitor) VisitFixedDate(c domain.FixedDate) {
	if !c.HasTime {
		v.calendarDay(c.At)
		return
	}
	at := c.At.In(v.loc)
	v.set(at.Add(-FixedDateTolerance), at.Add(FixedDateTolerance))
	v.result.Pinned = true
	v.result.PreferredAt = &at
}

func (v *resolveVisitor) VisitFixedDay(c domain.FixedDay) {
	v.calendarDay(c.Date)
}

func (v *resolveVisitor) VisitTimeRange(c domain.TimeRange) {
	w := c.Window.In(v.loc)
	v.set(w.Start(), w.End())
	v.result.Pinned = true
}

func (v *resolveVisitor) VisitDeadline(c domain.Deadline) {
	if !c.Before.After(v.now) {
		v.result.Expired = true
		v.result.Empty = true
		v.result.Reason = fmt.Sprintf("deadline %s has already passed", c.Before.In(v.loc).Format(time.RFC3339))
		return
	}
	start := latest(v.now, v.bounds.Start)
	end := c.Before.In(v.loc)
	if limit := start.Add(v.resolver.maxHorizon); end.After(limit) {
		end = limit
	}
	v.set(start, end)
}

func (v *resolveVisitor) VisitStartDate(c domain.StartDate) {
	start := latest(v.now, c.After.In(v.loc))
	end := v.bounds.End
	if v.bounds.EndDefaulted {
		end = start.Add(v.resolver.defaultHorizon)
	}
	v.set(start, end)
}

func (v *resolveVisitor) VisitAsap(domain.Asap) {
	v.set(v.bounds.Start, v.bounds.End)
	v.result.PreferEarliest = true
}

func (v *resolveVisitor) VisitNone(domain.NoConstraint) {
	v.set(v.bounds.Start, v.bounds.End)
}

// calendarDay pins the search to the date t names, read as a calendar date in
// the resolved location rather than converted from t's own zone.
func (v *resolveVisitor) calendarDay(t time.Time) {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, v.loc)
	v.set(day, day.AddDate(0, 0, 1))
	v.result.Pinned = true
}

func (v *resolveVisitor) set(start, end time.Time) {
	w, err := domain.NewTimeWindow(start.In(v.loc), end.In(v.loc))
	if err != nil {
		v.result.Empty = true
		v.result.Reason = "constraint leaves no time to search"
		return
	}
	v.result.Window = w
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
