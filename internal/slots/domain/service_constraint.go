package domain

import (
	"strings"
	"time"
)

// ServiceCategory groups tasks that depend on a third party's opening hours.
type ServiceCategory string

const (
	ServiceCategoryMedical        ServiceCategory = "medical"
	ServiceCategoryBanking        ServiceCategory = "banking"
	ServiceCategoryAdministrative ServiceCategory = "administrative"
	ServiceCategoryCommerce       ServiceCategory = "commerce"
)

// OpenHours is a weekly opening schedule.
type OpenHours struct {
	Days  []time.Weekday `json:"days"`
	Hours DailyWindow    `json:"hours"`
}

// OpenOn reports whether the service opens on the weekday.
func (o OpenHours) OpenOn(day time.Weekday) bool {
	for _, d := range o.Days {
		if d == day {
			return true
		}
	}
	return false
}

// String renders the schedule as e.g. "Mon-Sat 09:00-16:30".
func (o OpenHours) String() string {
	var open [7]bool
	for _, d := range o.Days {
		open[(int(d)+6)%7] = true // Monday first
	}
	var runs []string
	for i := 0; i < 7; i++ {
		if !open[i] {
			continue
		}
		j := i
		for j+1 < 7 && open[j+1] {
			j++
		}
		first := time.Weekday((i + 1) % 7).String()[:3]
		if j == i {
			runs = append(runs, first)
		} else {
			runs = append(runs, first+"-"+time.Weekday((j+1)%7).String()[:3])
		}
		i = j
	}
	return strings.Join(runs, ",") + " " + o.Hours.String()
}

// Windows returns the concrete opening windows inside within, in loc.
func (o OpenHours) Windows(within TimeWindow, loc *time.Location) []TimeWindow {
	var out []TimeWindow
	for _, day := range DaysIn(within, loc) {
		if !o.OpenOn(day.Weekday()) {
			continue
		}
		if w, ok := o.Hours.On(day); ok {
			out = append(out, w)
		}
	}
	return ClipTo(out, within)
}

// ServiceConstraint is an implicit business-hours restriction inferred from task text.
type ServiceConstraint struct {
	Category       ServiceCategory `json:"category"`
	OpenHours      OpenHours       `json:"open_hours"`
	Reason         string          `json:"reason"`
	MatchedKeyword string          `json:"matched_keyword"`
}
