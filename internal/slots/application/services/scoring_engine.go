package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// ScoringWeights are the point buckets of the additive score. They are a
// calibration, not a derived formula, so every bucket is configurable.
type ScoringWeights struct {
	Base            int
	EnergyAlignment int
	MoodAlignment   int

	// ProximityBonus goes to the first ProximityDays distinct days, then
	// drops by ProximityDecay per further day until it reaches zero.
	ProximityBonus int
	ProximityDays  int
	ProximityDecay int

	// ExactMatch is granted within ExactMatchFull of the preferred time and
	// fades linearly to zero at ExactMatchFade.
	ExactMatch     int
	ExactMatchFull time.Duration
	ExactMatchFade time.Duration
}

// DefaultScoringWeights returns the 50/20/10/15/25 calibration.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Base:            50,
		EnergyAlignment: 20,
		MoodAlignment:   10,
		ProximityBonus:  15,
		ProximityDays:   3,
		ProximityDecay:  5,
		ExactMatch:      25,
		ExactMatchFull:  15 * time.Minute,
		ExactMatchFade:  time.Hour,
	}
}

var (
	energeticHours = domain.DailyWindow{Start: domain.ClockTime(0, 0), End: domain.ClockTime(12, 0)}
	tiredHours     = domain.DailyWindow{Start: domain.ClockTime(10, 0), End: domain.ClockTime(15, 0)}
)

// ScoringContext carries the soft signals for one request.
type ScoringContext struct {
	Mood           domain.Mood
	EnergyPeriods  []domain.EnergyPeriod
	PreferredAt    *time.Time
	ApplyProximity bool
}

// ScoringEngine ranks candidates.
type ScoringEngine struct {
	weights ScoringWeights
}

// NewScoringEngine creates a scoring engine.
func NewScoringEngine(weights ScoringWeights) *ScoringEngine {
	return &ScoringEngine{weights: weights}
}

// Score returns scored copies of the candidates, best first.
func (s *ScoringEngine) Score(candidates []Candidate, sc ScoringContext) []Candidate {
	dayRank := rankDays(candidates)

	scored := make([]Candidate, len(candidates))
	for i, c := range candidates {
		score := s.weights.Base
		var reasons []string

		if pts, why := s.energyPoints(c, sc.EnergyPeriods); pts != 0 {
			score += pts
			reasons = append(reasons, why)
		}
		if pts, why := s.moodPoints(c, sc.Mood); pts != 0 {
			score += pts
			reasons = append(reasons, why)
		}
		if sc.ApplyProximity {
			if pts := s.proximityPoints(dayRank[dayKey(c.Start)]); pts != 0 {
				score += pts
				reasons = append(reasons, "one of the earliest available days")
			}
		}
		if sc.PreferredAt != nil {
			if pts := s.exactMatchPoints(c.Start, *sc.PreferredAt); pts != 0 {
				score += pts
				reasons = append(reasons, "close to the requested time")
			}
		}

		c.Score = clamp(score, 0, 100)
		c.Reasons = reasons
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return midpointDistance(a) < midpointDistance(b)
	})
	return scored
}

func (s *ScoringEngine) energyPoints(c Candidate, periods []domain.EnergyPeriod) (int, string) {
	for _, p := range periods {
		if p.Contains(c.Start) {
			return s.weights.EnergyAlignment, "in your " + string(p) + " energy period"
		}
	}
	return 0, ""
}

func (s *ScoringEngine) moodPoints(c Candidate, mood domain.Mood) (int, string) {
	tod := domain.TimeOfDayOf(c.Start)
	switch mood {
	case domain.MoodEnergetic:
		if tod >= energeticHours.Start && tod < energeticHours.End {
			return s.weights.MoodAlignment, "morning slot suits an energetic day"
		}
	case domain.MoodTired:
		if tod >= tiredHours.Start && tod < tiredHours.End {
			return s.weights.MoodAlignment, "lighter midday slot suits a tired day"
		}
	}
	return 0, ""
}

func (s *ScoringEngine) proximityPoints(rank int) int {
	if rank < s.weights.ProximityDays {
		return s.weights.ProximityBonus
	}
	pts := s.weights.ProximityBonus - s.weights.ProximityDecay*(rank-s.weights.ProximityDays+1)
	if pts < 0 {
		return 0
	}
	return pts
}

func (s *ScoringEngine) exactMatchPoints(start, preferred time.Time) int {
	d := start.Sub(preferred)
	if d < 0 {
		d = -d
	}
	switch {
	case d <= s.weights.ExactMatchFull:
		return s.weights.ExactMatch
	case d >= s.weights.ExactMatchFade:
		return 0
	}
	span := float64(s.weights.ExactMatchFade - s.weights.ExactMatchFull)
	remaining := float64(s.weights.ExactMatchFade - d)
	return int(math.Round(float64(s.weights.ExactMatch) * remaining / span))
}

// Reason renders a candidate's contributing factors.
func Reason(c Candidate) string {
	if len(c.Reasons) == 0 {
		return "free slot"
	}
	return strings.Join(c.Reasons, "; ")
}

// rankDays maps each distinct calendar day to its position in chronological order.
func rankDays(candidates []Candidate) map[string]int {
	keys := make([]string, 0)
	seen := make(map[string]bool)
	for _, c := range candidates {
		k := dayKey(c.Start)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	ranks := make(map[string]int, len(keys))
	for i, k := range keys {
		ranks[k] = i
	}
	return ranks
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func midpointDistance(c Candidate) time.Duration {
	d := c.Start.Add(c.End.Sub(c.Start) / 2).Sub(c.FreeWindow.Midpoint())
	if d < 0 {
		return -d
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
