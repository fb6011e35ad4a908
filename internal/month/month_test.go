package month

import (
	"testing"
	"time"
)

func TestParseAndString(t *testing.T) {
	m, err := Parse("2025-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Year != 2025 || m.Month != time.July {
		t.Errorf("expected 2025-07, got %v", m)
	}
	if m.String() != "2025-07" {
		t.Errorf("expected string 2025-07, got %s", m.String())
	}

	if _, err := Parse("2025-13"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestAddAcrossYearBoundary(t *testing.T) {
	m := New(2025, time.November)

	next := m.Add(3)
	if next.Year != 2026 || next.Month != time.February {
		t.Errorf("expected 2026-02, got %v", next)
	}

	prev := m.Add(-11)
	if prev.Year != 2024 || prev.Month != time.December {
		t.Errorf("expected 2024-12, got %v", prev)
	}
}

func TestCompare(t *testing.T) {
	a := New(2025, time.March)
	b := New(2025, time.April)
	c := New(2026, time.January)

	if !a.Before(b) || !b.Before(c) {
		t.Error("expected ordering a < b < c")
	}
	if a.Compare(a) != 0 {
		t.Error("expected equal months to compare as 0")
	}
	if !c.After(a) {
		t.Error("expected c after a")
	}
}

func TestSpanAndRange(t *testing.T) {
	start := New(2025, time.November)
	end := New(2026, time.February)

	if got := Span(start, end); got != 4 {
		t.Errorf("expected span 4, got %d", got)
	}
	if got := Span(start, start); got != 1 {
		t.Errorf("expected span 1 for same month, got %d", got)
	}
	if got := Span(end, start); got != 0 {
		t.Errorf("expected span 0 for inverted range, got %d", got)
	}

	months := Range(start, end)
	if len(months) != 4 {
		t.Fatalf("expected 4 months, got %d", len(months))
	}
	if months[0] != start || months[3] != end {
		t.Errorf("unexpected range endpoints: %v .. %v", months[0], months[3])
	}
}

func TestOverlaps(t *testing.T) {
	jan := New(2025, time.January)
	mar := New(2025, time.March)
	jun := New(2025, time.June)
	dec := New(2025, time.December)

	tests := []struct {
		name           string
		s1, e1, s2, e2 Month
		want           bool
	}{
		{"disjoint", jan, mar, jun, dec, false},
		{"touching_endpoint", jan, jun, jun, dec, true},
		{"contained", jan, dec, mar, jun, true},
		{"identical", mar, jun, mar, jun, true},
		{"single_month_inside", mar, mar, jan, jun, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%v,%v,%v,%v) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			// Overlap is symmetric in the two ranges.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps not symmetric for %s", tt.name)
			}
		})
	}
}
