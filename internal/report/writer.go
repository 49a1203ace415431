// internal/report/writer.go
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/sweep"
)

// Writer persists sweep artifacts as CSV files: one detailed file and one
// daily-arrivals file per scenario, plus a single comparison summary per
// run. File naming follows the scenario label so runs remain greppable.
type Writer struct {
	OutputDir string
	RunID     string
}

// NewWriter creates a writer rooted at outputDir. runID tags the comparison
// summary so repeated sweeps never overwrite each other.
func NewWriter(outputDir, runID string) *Writer {
	return &Writer{OutputDir: outputDir, RunID: runID}
}

// WriteAll writes every artifact of a sweep and returns the created paths.
func (w *Writer) WriteAll(result *sweep.Result, cmp *Comparison) ([]string, error) {
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.OutputDir, err)
	}

	paths := make([]string, 0, len(result.Scenarios)*2+1)
	for _, scenario := range result.Scenarios {
		detailPath, err := w.WriteScenarioDetail(scenario.Key, scenario.Records)
		if err != nil {
			return nil, err
		}
		dailyPath, err := w.WriteScenarioDaily(scenario.Key, scenario.DailyArrivals)
		if err != nil {
			return nil, err
		}
		paths = append(paths, detailPath, dailyPath)
	}

	cmpPath, err := w.WriteComparison(cmp.Rows)
	if err != nil {
		return nil, err
	}
	paths = append(paths, cmpPath)

	log.Info().Int("files", len(paths)).Str("dir", w.OutputDir).Msg("sweep artifacts written")
	return paths, nil
}

// WriteScenarioDetail writes the full daily records of one scenario.
func (w *Writer) WriteScenarioDetail(key domain.ScenarioKey, records []domain.DailyRecord) (string, error) {
	path := filepath.Join(w.OutputDir, fmt.Sprintf("scenario_%s_detailed.csv", key.Label()))

	headers := []string{
		"date",
		"sku_code",
		"product_name",
		"lead_time_days",
		"stock_beginning",
		"sales",
		"stock_received",
		"stock_ending",
		"doi",
		"order_placed",
		"order_quantity",
		"orders_in_transit_qty",
		"orders_in_transit_count",
	}

	err := writeCSV(path, headers, len(records), func(i int) []string {
		r := records[i]
		return []string{
			r.Date.Format("2006-01-02"),
			r.SKUCode,
			r.ProductName,
			strconv.Itoa(r.LeadTimeDays),
			formatFloat(r.StockBeginning),
			formatFloat(r.Sales),
			formatFloat(r.StockReceived),
			formatFloat(r.StockEnding),
			formatFloat(r.DOI),
			strconv.FormatBool(r.OrderPlaced),
			formatFloat(r.OrderQuantity),
			formatFloat(r.OrdersInTransitQty),
			strconv.Itoa(r.OrdersInTransitCount),
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to write scenario detail %s: %w", path, err)
	}
	return path, nil
}

// WriteScenarioDaily writes one scenario's daily-arrivals series.
func (w *Writer) WriteScenarioDaily(key domain.ScenarioKey, arrivals []domain.DailyArrival) (string, error) {
	path := filepath.Join(w.OutputDir, fmt.Sprintf("scenario_%s_daily.csv", key.Label()))

	headers := []string{"date", "unique_skus_arrived", "day_of_week", "is_overload"}
	err := writeCSV(path, headers, len(arrivals), func(i int) []string {
		a := arrivals[i]
		return []string{
			a.Date.Format("2006-01-02"),
			strconv.Itoa(a.UniqueSKUsArrived),
			a.DayOfWeek,
			strconv.FormatBool(a.IsOverload),
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to write scenario daily %s: %w", path, err)
	}
	return path, nil
}

// WriteComparison writes the cross-scenario summary table.
func (w *Writer) WriteComparison(rows []domain.ComparisonRow) (string, error) {
	path := filepath.Join(w.OutputDir, fmt.Sprintf("scenario_comparison_summary_%s.csv", w.RunID))

	headers := []string{
		"scenario",
		"reorder_threshold",
		"target_doi",
		"avg_daily_skus",
		"max_daily_skus",
		"median_daily_skus",
		"stdev_daily_skus",
		"days_over_capacity",
		"pct_days_over_capacity",
		"capacity_utilization_pct",
		"total_unique_skus_arrived",
		"total_capacity_utilization_pct",
		"total_orders",
		"avg_doi",
		"overload_monday",
		"overload_tuesday",
		"overload_wednesday",
		"overload_thursday",
		"overload_friday",
		"overload_saturday",
		"overload_sunday",
		"avg_monday",
		"avg_tuesday",
		"avg_wednesday",
		"avg_thursday",
		"avg_friday",
		"avg_saturday",
		"avg_sunday",
	}

	err := writeCSV(path, headers, len(rows), func(i int) []string {
		r := rows[i]
		return []string{
			r.Scenario,
			strconv.Itoa(r.ReorderThreshold),
			strconv.Itoa(r.TargetDOI),
			formatFloat(r.AvgDailySKUs),
			strconv.Itoa(r.MaxDailySKUs),
			formatFloat(r.MedianDailySKUs),
			formatFloat(r.StdDailySKUs),
			strconv.Itoa(r.DaysOverCapacity),
			formatFloat(r.PctDaysOverCapacity),
			formatFloat(r.CapacityUtilizationPct),
			strconv.Itoa(r.TotalUniqueSKUsArrived),
			formatFloat(r.TotalCapacityUtilizationPct),
			strconv.Itoa(r.TotalOrders),
			formatFloat(r.AvgDOI),
			strconv.Itoa(r.OverloadMonday),
			strconv.Itoa(r.OverloadTuesday),
			strconv.Itoa(r.OverloadWednesday),
			strconv.Itoa(r.OverloadThursday),
			strconv.Itoa(r.OverloadFriday),
			strconv.Itoa(r.OverloadSaturday),
			strconv.Itoa(r.OverloadSunday),
			formatFloat(r.AvgMonday),
			formatFloat(r.AvgTuesday),
			formatFloat(r.AvgWednesday),
			formatFloat(r.AvgThursday),
			formatFloat(r.AvgFriday),
			formatFloat(r.AvgSaturday),
			formatFloat(r.AvgSunday),
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to write comparison summary %s: %w", path, err)
	}
	return path, nil
}

func writeCSV(path string, headers []string, rowCount int, row func(i int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return err
	}
	for i := 0; i < rowCount; i++ {
		if err := writer.Write(row(i)); err != nil {
			return err
		}
	}
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
