// Package format holds the display helpers shared by the dashboard API and
// the agent's replies.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout     = "Mon 2 Jan 2006"
	shortLayout    = "2 Jan"
	timeLayout     = "3:04pm"
	dateTimeLayout = "Mon 2 Jan 2006, 3:04pm"
)

// Date renders t as "Tue 1 Jul 2025" in loc.
func Date(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

// ShortDate renders t as "1 Jul", adding the year when it differs from now's.
func ShortDate(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(loc)
	if t.Year() != now.In(loc).Year() {
		return t.Format(shortLayout + " 2006")
	}
	return t.Format(shortLayout)
}

func Time(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func DateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateTimeLayout)
}

// TimeRange renders an event span. All-day events render as the date only;
// same-day spans share the date prefix.
func TimeRange(start, end time.Time, allDay bool, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	if allDay {
		return Date(start, loc)
	}
	if SameDay(start, end) {
		return fmt.Sprintf("%s, %s–%s", start.Format(dateLayout), start.Format(timeLayout), end.Format(timeLayout))
	}
	return fmt.Sprintf("%s – %s", start.Format(dateTimeLayout), end.Format(dateTimeLayout))
}

// Relative renders t against now: "just now", "5 min ago", "in 3 hours",
// "yesterday", "tomorrow", "4 days ago", falling back to Date beyond 30 days.
func Relative(t, now time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "never"
	}
	d := t.Sub(now)
	future := d > 0
	abs := time.Duration(math.Abs(float64(d)))

	switch {
	case abs < time.Minute:
		return "just now"
	case abs < time.Hour:
		return relativeUnit(int(abs/time.Minute), "min", future)
	case abs < 24*time.Hour && SameDay(t.In(loc), now.In(loc)):
		return relativeUnit(int(abs/time.Hour), "hour", future)
	}

	days := DaysBetween(now, t, loc)
	switch {
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days == 0:
		return relativeUnit(int(abs/time.Hour), "hour", future)
	case days > -30 && days < 30:
		return relativeUnit(absInt(days), "day", future)
	}
	return Date(t, loc)
}

func relativeUnit(n int, unit string, future bool) string {
	if n != 1 && unit != "min" {
		unit += "s"
	}
	if future {
		return fmt.Sprintf("in %d %s", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// DaysBetween counts calendar days from a to b in loc, negative when b is earlier.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Currency renders cents as Australian dollars: "$1,234.56", "-$12.00".
func Currency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), frac)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
