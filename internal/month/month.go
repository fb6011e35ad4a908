// Package month provides a calendar-month value type used throughout
// the forecasting engine. Forecast ranges and ledger values are
// month-granular; the day component of any backing time.Time is
// always the first of the month.
package month

import (
	"fmt"
	"time"
)

// Month identifies a single calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// New returns the month for the given year and calendar month.
func New(year int, m time.Month) Month {
	return Month{Year: year, Month: m}
}

// FromTime truncates t to its calendar month.
func FromTime(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Parse parses a month in "2006-01" form.
func Parse(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as "2006-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Compare returns -1, 0, or 1 as m is before, equal to, or after o.
func (m Month) Compare(o Month) int {
	a := m.Year*12 + int(m.Month)
	b := o.Year*12 + int(o.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is strictly before o.
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

// After reports whether m is strictly after o.
func (m Month) After(o Month) bool { return m.Compare(o) > 0 }

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + n
	return Month{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Next returns the month immediately after m.
func (m Month) Next() Month { return m.Add(1) }

// Span returns the inclusive number of months from start to end,
// or 0 when end is before start.
func Span(start, end Month) int {
	if end.Before(start) {
		return 0
	}
	return end.Year*12 + int(end.Month) - start.Year*12 - int(start.Month) + 1
}

// Range returns every month from start to end inclusive, in order.
func Range(start, end Month) []Month {
	n := Span(start, end)
	out := make([]Month, 0, n)
	for m := start; !m.After(end); m = m.Next() {
		out = append(out, m)
	}
	return out
}

// Overlaps reports whether the inclusive ranges [s1, e1] and [s2, e2]
// share at least one month.
func Overlaps(s1, e1, s2, e2 Month) bool {
	return s1.Compare(e2) <= 0 && s2.Compare(e1) <= 0
}
