package gcalendar

import (
	"sort"
	"time"
)

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// FreeSlots returns the gaps inside window not covered by busy that last at
// least minLength. Busy intervals may overlap and arrive in any order.
func FreeSlots(busy []Interval, window Interval, minLength time.Duration) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.End.After(window.Start) && b.Start.Before(window.End) {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var free []Interval
	cursor := window.Start
	for _, b := range sorted {
		if b.Start.After(cursor) {
			free = appendSlot(free, Interval{Start: cursor, End: b.Start}, minLength)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(window.End) {
			return free
		}
	}
	return appendSlot(free, Interval{Start: cursor, End: window.End}, minLength)
}

func appendSlot(free []Interval, slot Interval, minLength time.Duration) []Interval {
	if slot.Duration() > 0 && slot.Duration() >= minLength {
		return append(free, slot)
	}
	return free
}
