// Package interval provides half-open time interval arithmetic. An interval
// [start, end) includes its start and excludes its end, so two intervals that
// merely touch at an endpoint do not overlap.
package interval

import (
	"sort"
	"time"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// This is the single source of truth for "do two bookings conflict".
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Merge sorts the given intervals by start time and coalesces overlapping or
// adjacent intervals into maximal runs. The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract returns the ordered gaps inside window that are not covered by any
// busy interval. Busy intervals are merged first so that overlapping bookings
// never leave a phantom gap between them; portions outside the window are
// ignored.
func Subtract(window Interval, busy []Interval) []Interval {
	if !window.Start.Before(window.End) {
		return nil
	}

	var gaps []Interval
	cursor := window.Start

	for _, iv := range Merge(busy) {
		if !iv.End.After(window.Start) || !iv.Start.Before(window.End) {
			continue
		}
		if iv.Start.After(cursor) {
			gaps = append(gaps, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}

	if cursor.Before(window.End) {
		gaps = append(gaps, Interval{Start: cursor, End: window.End})
	}
	return gaps
}

// Slots enumerates back-to-back intervals of exactly d within each gap,
// anchored at the gap's start to bias toward earlier availability. Gaps
// shorter than d yield nothing.
func Slots(gaps []Interval, d time.Duration) []Interval {
	if d <= 0 {
		return nil
	}

	var slots []Interval
	for _, gap := range gaps {
		for t := gap.Start; !t.Add(d).After(gap.End); t = t.Add(d) {
			slots = append(slots, Interval{Start: t, End: t.Add(d)})
		}
	}
	return slots
}
