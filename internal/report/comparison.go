// internal/report/comparison.go
package report

import (
	"sort"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/sweep"
)

// Comparison is the cross-scenario summary handed to the presentation layer:
// one flattened row per completed scenario plus the winning row.
type Comparison struct {
	Rows []domain.ComparisonRow
	Best *domain.ComparisonRow
}

// BuildComparison flattens every scenario's metrics into the comparison
// table, sorted ascending by (reorder_threshold, target_doi). The best
// scenario minimizes days over capacity; ties resolve to the earliest row in
// sort order, i.e. lowest threshold then lowest target DOI.
func BuildComparison(scenarios []*sweep.ScenarioResult) *Comparison {
	rows := make([]domain.ComparisonRow, 0, len(scenarios))
	for _, s := range scenarios {
		rows = append(rows, flattenMetrics(s.Metrics))
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key().Less(rows[j].Key())
	})

	cmp := &Comparison{Rows: rows}
	for i := range rows {
		if cmp.Best == nil || rows[i].DaysOverCapacity < cmp.Best.DaysOverCapacity {
			cmp.Best = &rows[i]
		}
	}
	return cmp
}

func flattenMetrics(m *domain.ScenarioMetrics) domain.ComparisonRow {
	return domain.ComparisonRow{
		Scenario:         m.Key.Label(),
		ReorderThreshold: m.Key.ReorderThreshold,
		TargetDOI:        m.Key.TargetDOI,

		AvgDailySKUs:    m.AvgDailySKUs,
		MaxDailySKUs:    m.MaxDailySKUs,
		MedianDailySKUs: m.MedianDailySKUs,
		StdDailySKUs:    m.StdDailySKUs,

		DaysOverCapacity:       m.DaysOverCapacity,
		PctDaysOverCapacity:    m.PctDaysOverCapacity,
		CapacityUtilizationPct: m.CapacityUtilizationPct,

		TotalUniqueSKUsArrived:      m.TotalUniqueSKUsArrived,
		TotalCapacityUtilizationPct: m.TotalCapacityUtilizationPct,

		TotalOrders: m.TotalOrders,
		AvgDOI:      m.AvgDOI,

		OverloadMonday:    m.OverloadByDay["Monday"],
		OverloadTuesday:   m.OverloadByDay["Tuesday"],
		OverloadWednesday: m.OverloadByDay["Wednesday"],
		OverloadThursday:  m.OverloadByDay["Thursday"],
		OverloadFriday:    m.OverloadByDay["Friday"],
		OverloadSaturday:  m.OverloadByDay["Saturday"],
		OverloadSunday:    m.OverloadByDay["Sunday"],

		AvgMonday:    m.AvgArrivalsByDay["Monday"],
		AvgTuesday:   m.AvgArrivalsByDay["Tuesday"],
		AvgWednesday: m.AvgArrivalsByDay["Wednesday"],
		AvgThursday:  m.AvgArrivalsByDay["Thursday"],
		AvgFriday:    m.AvgArrivalsByDay["Friday"],
		AvgSaturday:  m.AvgArrivalsByDay["Saturday"],
		AvgSunday:    m.AvgArrivalsByDay["Sunday"],
	}
}
