// Package dates normalizes the mixed date representations coming out of the
// spreadsheet feed into a single canonical DD/MM/YYYY form and classifies
// canonical dates relative to a fixed reference day.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const canonicalLayout = "02/01/2006"

// gvizDatePattern matches the tagged serialization the feed uses for date
// cells, e.g. "Date(2025,6,4)". The month component is zero-based.
var gvizDatePattern = regexp.MustCompile(`^Date\((\d+),(\d+),(\d+)`)

// genericLayouts are tried, in order, for values that are neither tagged nor
// slash-delimited.
var genericLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Normalize converts a raw cell value to canonical DD/MM/YYYY form. Values
// that cannot be interpreted as a date are returned unchanged; callers must
// tolerate the passthrough rather than treat it as an error.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := gvizDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		// zero-based month in the feed
		return fmt.Sprintf("%02d/%02d/%04d", day, month+1, year)
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
			month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
			if errD == nil && errM == nil && errY == nil {
				if year < 100 {
					year += 2000
				}
				return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
			}
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalLayout)
		}
	}

	return raw
}

// ParseCanonical parses a canonical DD/MM/YYYY string. The second return
// value reports whether the value was a valid canonical date.
func ParseCanonical(s string) (time.Time, bool) {
	t, err := time.Parse(canonicalLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day is a reference day captured once at the start of an aggregation or
// filtering pass, so every comparison within the pass sees the same "today".
type Day struct {
	t time.Time
}

func Today() Day {
	return DayOf(time.Now())
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) Day {
	return Day{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Day) Time() time.Time {
	return d.t
}

// Canonical returns the day itself in canonical form.
func (d Day) Canonical() string {
	return d.t.Format(canonicalLayout)
}

// Month returns the abbreviated month name of the day, e.g. "Jul".
func (d Day) Month() string {
	return d.t.Format("Jan")
}

// IsPast reports whether the canonical date falls strictly before the day.
func (d Day) IsPast(canonical string) bool {
	t, ok := ParseCanonical(canonical)
	return ok && t.Before(d.t)
}

// IsToday reports whether the canonical date is the day itself.
func (d Day) IsToday(canonical string) bool {
	t, ok := ParseCanonical(canonical)
	return ok && t.Equal(d.t)
}

// IsTomorrow reports whether the canonical date is exactly one day ahead.
func (d Day) IsTomorrow(canonical string) bool {
	t, ok := ParseCanonical(canonical)
	return ok && t.Equal(d.t.AddDate(0, 0, 1))
}

// IsFuture reports whether the canonical date falls strictly after the day.
// Tomorrow is a future day; the checklist "upcoming" view narrows to
// IsTomorrow while the delegation view uses IsFuture.
func (d Day) IsFuture(canonical string) bool {
	t, ok := ParseCanonical(canonical)
	return ok && t.After(d.t)
}

// MonthOf returns the abbreviated month name of a canonical date, falling
// back to the reference day's month when the value is not a valid date.
func (d Day) MonthOf(canonical string) string {
	t, ok := ParseCanonical(canonical)
	if !ok {
		return d.Month()
	}
	return t.Format("Jan")
}
