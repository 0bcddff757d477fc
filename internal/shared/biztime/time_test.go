package biztime

import (
	"testing"
	"time"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"plain month", "2026-01-15", 1, "2026-02-15"},
		{"end of January clamps", "2026-01-31", 1, "2026-02-28"},
		{"leap year February", "2024-01-31", 1, "2024-02-29"},
		{"clamp does not stick", "2026-01-31", 2, "2026-03-31"},
		{"twelve months", "2026-03-01", 12, "2027-03-01"},
		{"year boundary", "2026-11-30", 3, "2027-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tt.start)
			if err != nil {
				t.Fatal(err)
			}
			got := AddMonths(start, tt.months)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.start, tt.months, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	start := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	got := AddYears(start, 1)
	want := time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("AddYears(2024-02-29, 1) = %v, want %v", got, want)
	}
}

func TestDaysUntil(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := DaysUntil(from, from.AddDate(0, 0, 10)); got != 10 {
		t.Errorf("DaysUntil 10 days = %d, want 10", got)
	}
	if got := DaysUntil(from, from.Add(36*time.Hour)); got != 2 {
		t.Errorf("DaysUntil partial day = %d, want 2", got)
	}
	if got := DaysUntil(from, from.Add(-time.Hour)); got != 0 {
		t.Errorf("DaysUntil past time = %d, want 0", got)
	}
}
