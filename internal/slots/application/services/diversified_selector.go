package services

import (
	"slices"
	"time"
)

// DiversifiedSelector trims a ranked list to a short, spread-out shortlist.
type DiversifiedSelector struct {
	minSeparation time.Duration
}

// NewDiversifiedSelector creates a selector. Same-day picks must be at least
// minSeparation apart when the candidates cover too few days.
func NewDiversifiedSelector(minSeparation time.Duration) *DiversifiedSelector {
	return &DiversifiedSelector{minSeparation: minSeparation}
}

// selection is the fold accumulator: what has been picked so far and the rule in force.
type selection struct {
	target        int
	distinctDates bool
	minSeparation time.Duration
	picked        []Candidate
}

// Select folds over the sorted candidates and returns at most target picks.
func (s *DiversifiedSelector) Select(sorted []Candidate, target int) []Candidate {
	if target <= 0 || len(sorted) == 0 {
		return nil
	}
	initial := selection{
		target:        target,
		distinctDates: countDays(sorted) >= target,
		minSeparation: s.minSeparation,
	}
	return fold(sorted, initial, selection.take).picked
}

// take is the reducer step. It never mutates the incoming accumulator.
func (acc selection) take(c Candidate) selection {
	if len(acc.picked) >= acc.target || !acc.admits(c) {
		return acc
	}
	acc.picked = append(slices.Clip(acc.picked), c)
	return acc
}

func (acc selection) admits(c Candidate) bool {
	for _, p := range acc.picked {
		if dayKey(p.Start) != dayKey(c.Start) {
			continue
		}
		if acc.distinctDates {
			return false
		}
		gap := c.Start.Sub(p.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap < acc.minSeparation {
			return false
		}
	}
	return true
}

func fold[T, A any](items []T, acc A, step func(A, T) A) A {
	for _, item := range items {
		acc = step(acc, item)
	}
	return acc
}

func countDays(candidates []Candidate) int {
	return len(rankDays(candidates))
}
