package domain

import (
	"fmt"
	"strings"
	"time"
)

// Mood is the user's self-reported energy for the day.
type Mood string

const (
	MoodEnergetic Mood = "energetic"
	MoodNeutral   Mood = "neutral"
	MoodTired     Mood = "tired"
)

// ParseMood parses a mood; empty means neutral.
func ParseMood(s string) (Mood, error) {
	switch Mood(strings.ToLower(strings.TrimSpace(s))) {
	case "", MoodNeutral:
		return MoodNeutral, nil
	case MoodEnergetic:
		return MoodEnergetic, nil
	case MoodTired:
		return MoodTired, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
}

// EnergyPeriod is a coarse part of the day the user tends to work well in.
type EnergyPeriod string

const (
	EnergyPeriodMorning   EnergyPeriod = "morning"
	EnergyPeriodAfternoon EnergyPeriod = "afternoon"
	EnergyPeriodEvening   EnergyPeriod = "evening"
	EnergyPeriodNight     EnergyPeriod = "night"
)

var energyPeriodHours = map[EnergyPeriod]DailyWindow{
	EnergyPeriodMorning:   {Start: ClockTime(6, 0), End: ClockTime(12, 0)},
	EnergyPeriodAfternoon: {Start: ClockTime(12, 0), End: ClockTime(17, 0)},
	EnergyPeriodEvening:   {Start: ClockTime(17, 0), End: ClockTime(21, 0)},
	EnergyPeriodNight:     {Start: ClockTime(21, 0), End: ClockTime(24, 0)},
}

// ParseEnergyPeriod parses a period name.
func ParseEnergyPeriod(s string) (EnergyPeriod, error) {
	p := EnergyPeriod(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := energyPeriodHours[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEnergyPeriod, s)
	}
	return p, nil
}

// Hours returns the wall-clock range covered by the period.
func (p EnergyPeriod) Hours() DailyWindow {
	return energyPeriodHours[p]
}

// Contains reports whether t's wall-clock time falls in the period.
func (p EnergyPeriod) Contains(t time.Time) bool {
	h, ok := energyPeriodHours[p]
	if !ok {
		return false
	}
	tod := TimeOfDayOf(t)
	return tod >= h.Start && tod < h.End
}
