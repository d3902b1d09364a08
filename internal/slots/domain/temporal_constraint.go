package domain

import (
	"time"
)

// TemporalConstraintKind names a TemporalConstraint variant on the wire.
type TemporalConstraintKind string

const (
	KindFixedDate TemporalConstraintKind = "fixed_date"
	KindFixedDay  TemporalConstraintKind = "fixed_day"
	KindTimeRange TemporalConstraintKind = "time_range"
	KindDeadline  TemporalConstraintKind = "deadline"
	KindStartDate TemporalConstraintKind = "start_date"
	KindAsap      TemporalConstraintKind = "asap"
	KindNone      TemporalConstraintKind = "none"
)

// TemporalConstraint describes when a task may take place. The set of
// variants is closed: consumers handle them through TemporalConstraintVisitor,
// so a new variant breaks every consumer until it is handled.
type TemporalConstraint interface {
	Kind() TemporalConstraintKind
	Accept(v TemporalConstraintVisitor)
	temporalConstraint()
}

// TemporalConstraintVisitor has one method per variant.
type TemporalConstraintVisitor interface {
	VisitFixedDate(FixedDate)
	VisitFixedDay(FixedDay)
	VisitTimeRange(TimeRange)
	VisitDeadline(Deadline)
	VisitStartDate(StartDate)
	VisitAsap(Asap)
	VisitNone(NoConstraint)
}

// FixedDate pins the task at or near At. Without HasTime only the calendar day counts.
type FixedDate struct {
	At      time.Time
	HasTime bool
}

// FixedDay pins the task to a calendar day.
type FixedDay struct {
	Date time.Time
}

// TimeRange pins the task inside an explicit window.
type TimeRange struct {
	Window TimeWindow
}

// Deadline requires the task to finish strictly before Before.
type Deadline struct {
	Before time.Time
}

// StartDate requires the task to start at or after After.
type StartDate struct {
	After time.Time
}

// Asap biases scoring toward the earliest slots.
type Asap struct{}

// NoConstraint leaves the default horizon untouched.
type NoConstraint struct{}

func (FixedDate) Kind() TemporalConstraintKind    { return KindFixedDate }
func (FixedDay) Kind() TemporalConstraintKind     { return KindFixedDay }
func (TimeRange) Kind() TemporalConstraintKind    { return KindTimeRange }
func (Deadline) Kind() TemporalConstraintKind     { return KindDeadline }
func (StartDate) Kind() TemporalConstraintKind    { return KindStartDate }
func (Asap) Kind() TemporalConstraintKind         { return KindAsap }
func (NoConstraint) Kind() TemporalConstraintKind { return KindNone }

func (c FixedDate) Accept(v TemporalConstraintVisitor)    { v.VisitFixedDate(c) }
func (c FixedDay) Accept(v TemporalConstraintVisitor)     { v.VisitFixedDay(c) }
func (c TimeRange) Accept(v TemporalConstraintVisitor)    { v.VisitTimeRange(c) }
func (c Deadline) Accept(v TemporalConstraintVisitor)     { v.VisitDeadline(c) }
func (c StartDate) Accept(v TemporalConstraintVisitor)    { v.VisitStartDate(c) }
func (c Asap) Accept(v TemporalConstraintVisitor)         { v.VisitAsap(c) }
func (c NoConstraint) Accept(v TemporalConstraintVisitor) { v.VisitNone(c) }

func (FixedDate) temporalConstraint()    {}
func (FixedDay) temporalConstraint()     {}
func (TimeRange) temporalConstraint()    {}
func (Deadline) temporalConstraint()     {}
func (StartDate) temporalConstraint()    {}
func (Asap) temporalConstraint()         {}
func (NoConstraint) temporalConstraint() {}

// PinsDay reports whether the constraint fixes the task to a specific day.
// Proximity scoring only applies when it does not.
func PinsDay(c TemporalConstraint) bool {
	if c == nil {
		return false
	}
	p := &pinVisitor{}
	c.Accept(p)
	return p.pinned
}

type pinVisitor struct{ pinned bool }

func (p *pinVisitor) VisitFixedDate(FixedDate) { p.pinned = true }
func (p *pinVisitor) VisitFixedDay(FixedDay)   { p.pinned = true }
func (p *pinVisitor) VisitTimeRange(TimeRange) { p.pinned = true }
func (p *pinVisitor) VisitDeadline(Deadline)   { p.pinned = false }
func (p *pinVisitor) VisitStartDate(StartDate) { p.pinned = false }
func (p *pinVisitor) VisitAsap(Asap)           { p.pinned = false }
func (p *pinVisitor) VisitNone(NoConstraint)   { p.pinned = false }
