package services

import (
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// Candidate is a slot under evaluation, carrying the free window it came from.
type Candidate struct {
	Start      time.Time
	End        time.Time
	FreeWindow domain.TimeWindow
	Score      int
	Reasons    []string
}

// Window returns the candidate's own span.
func (c Candidate) Window() domain.TimeWindow {
	return domain.MustTimeWindow(c.Start, c.End)
}

// CandidateGenerator walks free windows at a fixed step.
type CandidateGenerator struct {
	granularity time.Duration
	grace       time.Duration
}

// NewCandidateGenerator creates a generator. Non-positive granularity falls back to 15 minutes.
func NewCandidateGenerator(granularity, grace time.Duration) *CandidateGenerator {
	if granularity <= 0 {
		granularity = 15 * time.Minute
	}
	return &CandidateGenerator{granularity: granularity, grace: grace}
}

// Generate emits candidates of the given duration starting on the clock grid
// inside each window, with start+duration never past the window end.
// Anything starting before now minus the grace period is skipped.
func (g *CandidateGenerator) Generate(windows []domain.TimeWindow, duration time.Duration, now time.Time) []Candidate {
	cutoff := now.Add(-g.grace)
	var out []Candidate
	for _, w := range windows {
		if w.Duration() < duration || !w.End().After(cutoff) {
			continue
		}
		for start := g.alignUp(w.Start()); !start.Add(duration).After(w.End()); start = start.Add(g.granularity) {
			if start.Before(cutoff) {
				continue
			}
			out = append(out, Candidate{
				Start:      start,
				End:        start.Add(duration),
				FreeWindow: w,
			})
		}
	}
	return out
}

// alignUp rounds t up to the next granularity boundary counted from local midnight.
func (g *CandidateGenerator) alignUp(t time.Time) time.Time {
	midnight := domain.StartOfDay(t)
	offset := t.Sub(midnight)
	if rem := offset % g.granularity; rem != 0 {
		offset += g.granularity - rem
	}
	return midnight.Add(offset)
}
