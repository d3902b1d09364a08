package domain

import (
	"sort"
	"time"
)

// Normalize sorts windows by start and merges any that overlap or touch.
// The input slice is not modified.
func Normalize(windows []TimeWindow) []TimeWindow {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]TimeWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start.Equal(sorted[j].start) {
			return sorted[i].end.Before(sorted[j].end)
		}
		return sorted[i].start.Before(sorted[j].start)
	})

	merged := []TimeWindow{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !w.start.After(last.end) {
			if w.end.After(last.end) {
				last.end = w.end
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// Union returns the normalized union of both sets clipped to outer.
func Union(outer TimeWindow, a, b []TimeWindow) []TimeWindow {
	all := make([]TimeWindow, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return ClipTo(Normalize(all), outer)
}

// Intersect returns every instant inside outer covered by both sets.
func Intersect(outer TimeWindow, a, b []TimeWindow) []TimeWindow {
	left := ClipTo(Normalize(a), outer)
	right := ClipTo(Normalize(b), outer)

	var out []TimeWindow
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if w, ok := left[i].Intersect(right[j]); ok {
			out = append(out, w)
		}
		if left[i].end.Before(right[j].end) {
			i++
		} else {
			j++
		}
	}
	return out
}

// SubtractOne removes busy from free. The result has zero, one or two windows.
func SubtractOne(free, busy TimeWindow) []TimeWindow {
	if !free.Overlaps(busy) {
		return []TimeWindow{free}
	}

	var out []TimeWindow
	if busy.start.After(free.start) {
		out = append(out, TimeWindow{start: free.start, end: busy.start})
	}
	if busy.end.Before(free.end) {
		out = append(out, TimeWindow{start: busy.end, end: free.end})
	}
	return out
}

// Subtract removes every busy window from the free set inside outer.
func Subtract(outer TimeWindow, free, busy []TimeWindow) []TimeWindow {
	remaining := ClipTo(Normalize(free), outer)
	for _, b := range Normalize(busy) {
		if len(remaining) == 0 {
			break
		}
		next := make([]TimeWindow, 0, len(remaining)+1)
		for _, f := range remaining {
			next = append(next, SubtractOne(f, b)...)
		}
		remaining = next
	}
	return remaining
}

// Complement returns the parts of outer not covered by windows.
func Complement(outer TimeWindow, windows []TimeWindow) []TimeWindow {
	return Subtract(outer, []TimeWindow{outer}, windows)
}

// ClipTo trims each window to outer, dropping the ones that fall outside.
func ClipTo(windows []TimeWindow, outer TimeWindow) []TimeWindow {
	var out []TimeWindow
	for _, w := range windows {
		if clipped, ok := w.Intersect(outer); ok {
			out = append(out, clipped)
		}
	}
	return out
}

// TotalDuration sums the length of all windows.
func TotalDuration(windows []TimeWindow) (total time.Duration) {
	for _, w := range windows {
		total += w.Duration()
	}
	return total
}
