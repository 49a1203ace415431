package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/simulation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Two weeks starting Monday 2025-06-02; Sundays fall on the 8th and 15th.
func twoWeekHorizon() []time.Time {
	return simulation.Horizon(date(2025, time.June, 2), date(2025, time.June, 15))
}

func arrival(d time.Time, sku string) domain.DailyRecord {
	return domain.DailyRecord{Date: d, SKUCode: sku, StockReceived: 42, DOI: 10}
}

func testScenarioData() *simulation.ScenarioData {
	return &simulation.ScenarioData{
		Key: domain.ScenarioKey{ReorderThreshold: 10, TargetDOI: 20},
		Records: []domain.DailyRecord{
			// Tuesday 3rd: two SKUs arrive. Tuesday 10th: one.
			arrival(date(2025, time.June, 3), "SKU-A"),
			arrival(date(2025, time.June, 3), "SKU-B"),
			arrival(date(2025, time.June, 10), "SKU-A"),
			{Date: date(2025, time.June, 2), SKUCode: "SKU-A", OrderPlaced: true, OrderQuantity: 42, DOI: 10},
			{Date: date(2025, time.June, 5), SKUCode: "SKU-B", OrderPlaced: true, OrderQuantity: 42, DOI: 10},
		},
	}
}

func TestAggregateDailySeriesCoversFullHorizon(t *testing.T) {
	horizon := twoWeekHorizon()
	_, series := Aggregate(testScenarioData(), horizon, Config{DailyCapacity: 1, TotalCapacity: 10})

	if len(series) != len(horizon) {
		t.Fatalf("series has %d rows, want one per horizon date (%d)", len(series), len(horizon))
	}
	for i, row := range series {
		if !row.Date.Equal(horizon[i]) {
			t.Errorf("row %d date %s, want %s", i, row.Date.Format("2006-01-02"), horizon[i].Format("2006-01-02"))
		}
		if row.DayOfWeek != horizon[i].Weekday().String() {
			t.Errorf("row %d weekday %s, want %s", i, row.DayOfWeek, horizon[i].Weekday().String())
		}
	}

	// Arrival counts are distinct SKUs per date; quiet dates are explicit zeros.
	if series[1].UniqueSKUsArrived != 2 {
		t.Errorf("June 3 count = %d, want 2", series[1].UniqueSKUsArrived)
	}
	if series[8].UniqueSKUsArrived != 1 {
		t.Errorf("June 10 count = %d, want 1", series[8].UniqueSKUsArrived)
	}
	zeros := 0
	for _, row := range series {
		if row.UniqueSKUsArrived == 0 {
			zeros++
		}
	}
	if zeros != 12 {
		t.Errorf("expected 12 zero-arrival rows, got %d", zeros)
	}
}

func TestAggregateOverloadIsStrictlyGreater(t *testing.T) {
	horizon := twoWeekHorizon()
	metrics, series := Aggregate(testScenarioData(), horizon, Config{DailyCapacity: 1, TotalCapacity: 10})

	// Count 2 > capacity 1 overloads; count 1 == capacity does not.
	if metrics.DaysOverCapacity != 1 {
		t.Errorf("days over capacity = %d, want 1", metrics.DaysOverCapacity)
	}
	if !series[1].IsOverload {
		t.Error("June 3 (count 2) should be flagged overloaded")
	}
	if series[8].IsOverload {
		t.Error("June 10 (count 1, at capacity) must not be flagged")
	}

	if got := metrics.OverloadByDay["Tuesday"]; got != 1 {
		t.Errorf("Tuesday overloads = %d, want 1", got)
	}
	for _, day := range simulation.DayOrder {
		if day == "Tuesday" {
			continue
		}
		if got, ok := metrics.OverloadByDay[day]; !ok || got != 0 {
			t.Errorf("%s overloads = %d (present %v), want explicit 0", day, got, ok)
		}
	}
}

func TestAggregateMetrics(t *testing.T) {
	horizon := twoWeekHorizon()
	metrics, _ := Aggregate(testScenarioData(), horizon, Config{DailyCapacity: 1, TotalCapacity: 10})

	wantAvg := 3.0 / 14.0
	if math.Abs(metrics.AvgDailySKUs-wantAvg) > 1e-12 {
		t.Errorf("avg daily SKUs = %v, want %v", metrics.AvgDailySKUs, wantAvg)
	}
	if metrics.MaxDailySKUs != 2 {
		t.Errorf("max daily SKUs = %d, want 2", metrics.MaxDailySKUs)
	}
	if metrics.MedianDailySKUs != 0 {
		t.Errorf("median daily SKUs = %v, want 0", metrics.MedianDailySKUs)
	}
	if math.Abs(metrics.StdDailySKUs-0.5789342) > 1e-4 {
		t.Errorf("std daily SKUs = %v, want ≈0.57893", metrics.StdDailySKUs)
	}

	if metrics.TotalUniqueSKUsArrived != 2 {
		t.Errorf("total unique SKUs = %d, want 2", metrics.TotalUniqueSKUsArrived)
	}
	if math.Abs(metrics.TotalCapacityUtilizationPct-20) > 1e-12 {
		t.Errorf("total capacity utilization = %v, want 20", metrics.TotalCapacityUtilizationPct)
	}
	if metrics.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", metrics.TotalOrders)
	}
	if math.Abs(metrics.AvgDOI-10) > 1e-12 {
		t.Errorf("avg DOI = %v, want 10", metrics.AvgDOI)
	}
	wantPct := 1.0 / 14.0 * 100
	if math.Abs(metrics.PctDaysOverCapacity-wantPct) > 1e-12 {
		t.Errorf("pct days over capacity = %v, want %v", metrics.PctDaysOverCapacity, wantPct)
	}

	// Tuesdays average (2+1)/2; every other weekday averages 0.
	if got := metrics.AvgArrivalsByDay["Tuesday"]; math.Abs(got-1.5) > 1e-12 {
		t.Errorf("Tuesday average = %v, want 1.5", got)
	}
	if got := metrics.AvgArrivalsByDay["Sunday"]; got != 0 {
		t.Errorf("Sunday average = %v, want 0", got)
	}
}

func TestAggregateBinsExcludeNonWorkingDays(t *testing.T) {
	horizon := twoWeekHorizon()
	metrics, _ := Aggregate(testScenarioData(), horizon, Config{DailyCapacity: 1, TotalCapacity: 10})

	total := 0
	for _, label := range BinLabels {
		total += metrics.BinDistribution[label]
	}
	// 14 calendar days minus 2 Sundays.
	if total != 12 {
		t.Errorf("binned days = %d, want 12", total)
	}
	if metrics.BinDistribution["0-30"] != 12 {
		t.Errorf("0-30 bin = %d, want 12", metrics.BinDistribution["0-30"])
	}
}

func TestBinLabelBoundaries(t *testing.T) {
	cases := map[int]string{
		0:   "0-30",
		30:  "0-30",
		31:  "31-90",
		90:  "31-90",
		181: "181-270",
		720: "541-720",
		721: "720+",
	}
	for count, want := range cases {
		if got := binLabel(count); got != want {
			t.Errorf("binLabel(%d) = %s, want %s", count, got, want)
		}
	}
}

func TestAggregateEmptyHorizon(t *testing.T) {
	metrics, series := Aggregate(&simulation.ScenarioData{}, nil, Config{DailyCapacity: 1, TotalCapacity: 10})
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d rows", len(series))
	}
	if metrics.PctDaysOverCapacity != 0 {
		t.Errorf("pct days over capacity = %v, want 0", metrics.PctDaysOverCapacity)
	}
}
