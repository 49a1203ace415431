package simulation

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddWorkingDaysSkipsSunday(t *testing.T) {
	// 2025-06-02 is a Monday.
	monday := date(2025, time.June, 2)

	cases := []struct {
		name        string
		start       time.Time
		workingDays int
		want        time.Time
	}{
		{"within the same week", monday, 3, date(2025, time.June, 5)},
		{"lands on saturday", monday, 5, date(2025, time.June, 7)},
		{"crosses one sunday", monday, 6, date(2025, time.June, 9)},
		{"crosses two sundays", monday, 12, date(2025, time.June, 16)},
		{"starts on saturday", date(2025, time.June, 7), 1, date(2025, time.June, 9)},
		{"zero days is identity", monday, 0, monday},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AddWorkingDays(tc.start, tc.workingDays)
			if !got.Equal(tc.want) {
				t.Errorf("AddWorkingDays(%s, %d) = %s, want %s",
					tc.start.Format("2006-01-02"), tc.workingDays,
					got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
			if got.Weekday() == NonWorkingDay && tc.workingDays > 0 {
				t.Errorf("arrival date %s falls on the non-working day", got.Format("2006-01-02"))
			}
		})
	}
}

func TestHorizonInclusiveNoGaps(t *testing.T) {
	start := date(2025, time.June, 2)
	end := date(2025, time.June, 11)

	horizon := Horizon(start, end)
	if len(horizon) != 10 {
		t.Fatalf("expected 10 dates, got %d", len(horizon))
	}
	for i, d := range horizon {
		want := start.AddDate(0, 0, i)
		if !d.Equal(want) {
			t.Errorf("horizon[%d] = %s, want %s", i, d.Format("2006-01-02"), want.Format("2006-01-02"))
		}
	}
}

func TestHorizonInvertedRangeIsEmpty(t *testing.T) {
	horizon := Horizon(date(2025, time.June, 11), date(2025, time.June, 2))
	if len(horizon) != 0 {
		t.Errorf("expected empty horizon, got %d dates", len(horizon))
	}
}

func TestHorizonNormalizesToMidnightUTC(t *testing.T) {
	start := time.Date(2025, time.June, 2, 15, 30, 0, 0, time.UTC)
	horizon := Horizon(start, start)
	if len(horizon) != 1 {
		t.Fatalf("expected 1 date, got %d", len(horizon))
	}
	if !horizon[0].Equal(date(2025, time.June, 2)) {
		t.Errorf("expected midnight UTC, got %s", horizon[0])
	}
}
