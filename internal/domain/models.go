// internal/domain/models.go
package domain

import (
	"fmt"
	"time"
)

// SKU is one row of the resolved starting table: the state a SKU begins the
// simulation with. The table arrives fully reconciled (lead times resolved),
// so every field is expected to be populated.
type SKU struct {
	Code         string  `json:"sku_code" db:"sku_code"`
	ProductName  string  `json:"product_name" db:"product_name"`
	Stock        float64 `json:"stock" db:"stock"`
	QPD          float64 `json:"qpd" db:"qpd"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time_days"`
}

// OutstandingOrder is a replenishment order that has been placed but not yet
// received. A SKU carries at most one of these at any time.
type OutstandingOrder struct {
	ArrivalDate time.Time
	Quantity    float64
}

// DailyRecord captures one SKU's state for one simulated day. Records are
// created by the trajectory simulator and never mutated afterwards.
// StockEnding may go negative: unmet demand accumulates as backorder debt
// rather than lost sales, and must not be clamped to zero.
type DailyRecord struct {
	Date                 time.Time `json:"date"`
	SKUCode              string    `json:"sku_code"`
	ProductName          string    `json:"product_name"`
	LeadTimeDays         int       `json:"lead_time_days"`
	StockBeginning       float64   `json:"stock_beginning"`
	Sales                float64   `json:"sales"`
	StockReceived        float64   `json:"stock_received"`
	StockEnding          float64   `json:"stock_ending"`
	DOI                  float64   `json:"doi"`
	OrderPlaced          bool      `json:"order_placed"`
	OrderQuantity        float64   `json:"order_quantity"`
	OrdersInTransitQty   float64   `json:"orders_in_transit_qty"`
	OrdersInTransitCount int       `json:"orders_in_transit_count"`
}

// ScenarioKey identifies one policy combination in a sweep.
type ScenarioKey struct {
	ReorderThreshold int `json:"reorder_threshold" db:"reorder_threshold"`
	TargetDOI        int `json:"target_doi" db:"target_doi"`
}

// Label returns the canonical scenario name used in filenames and reports,
// e.g. "RT15_DOI30".
func (k ScenarioKey) Label() string {
	return fmt.Sprintf("RT%d_DOI%d", k.ReorderThreshold, k.TargetDOI)
}

// Less orders keys by reorder threshold, then target DOI.
func (k ScenarioKey) Less(other ScenarioKey) bool {
	if k.ReorderThreshold != other.ReorderThreshold {
		return k.ReorderThreshold < other.ReorderThreshold
	}
	return k.TargetDOI < other.TargetDOI
}

// DailyArrival is one day of a scenario's arrival series. The series covers
// every calendar date of the horizon; days without receipts appear with a
// zero count rather than being absent.
type DailyArrival struct {
	Date              time.Time `json:"date" db:"date"`
	UniqueSKUsArrived int       `json:"unique_skus_arrived" db:"unique_skus_arrived"`
	DayOfWeek         string    `json:"day_of_week" db:"day_of_week"`
	IsOverload        bool      `json:"is_overload" db:"is_overload"`
}

// ScenarioMetrics is the fixed-shape reduction of one scenario's daily
// records. Every scenario produces exactly this structure so the comparison
// table can be statically typed.
type ScenarioMetrics struct {
	Key ScenarioKey `json:"key"`

	AvgDailySKUs    float64 `json:"avg_daily_skus"`
	MaxDailySKUs    int     `json:"max_daily_skus"`
	MedianDailySKUs float64 `json:"median_daily_skus"`
	StdDailySKUs    float64 `json:"std_daily_skus"`

	DaysOverCapacity       int     `json:"days_over_capacity"`
	PctDaysOverCapacity    float64 `json:"pct_days_over_capacity"`
	CapacityUtilizationPct float64 `json:"capacity_utilization_pct"`

	TotalUniqueSKUsArrived      int     `json:"total_unique_skus_arrived"`
	TotalCapacityUtilizationPct float64 `json:"total_capacity_utilization_pct"`

	TotalOrders int     `json:"total_orders"`
	AvgDOI      float64 `json:"avg_doi"`

	OverloadByDay    map[string]int     `json:"overload_by_day"`
	AvgArrivalsByDay map[string]float64 `json:"avg_arrivals_by_day"`
	BinDistribution  map[string]int     `json:"bin_distribution"`
}

// ComparisonRow is one scenario flattened into a row of the cross-scenario
// comparison table. The per-weekday maps of ScenarioMetrics become explicit
// columns so the table serializes with a stable shape.
type ComparisonRow struct {
	Scenario         string `json:"scenario" db:"scenario"`
	ReorderThreshold int    `json:"reorder_threshold" db:"reorder_threshold"`
	TargetDOI        int    `json:"target_doi" db:"target_doi"`

	AvgDailySKUs    float64 `json:"avg_daily_skus" db:"avg_daily_skus"`
	MaxDailySKUs    int     `json:"max_daily_skus" db:"max_daily_skus"`
	MedianDailySKUs float64 `json:"median_daily_skus" db:"median_daily_skus"`
	StdDailySKUs    float64 `json:"std_daily_skus" db:"std_daily_skus"`

	DaysOverCapacity       int     `json:"days_over_capacity" db:"days_over_capacity"`
	PctDaysOverCapacity    float64 `json:"pct_days_over_capacity" db:"pct_days_over_capacity"`
	CapacityUtilizationPct float64 `json:"capacity_utilization_pct" db:"capacity_utilization_pct"`

	TotalUniqueSKUsArrived      int     `json:"total_unique_skus_arrived" db:"total_unique_skus_arrived"`
	TotalCapacityUtilizationPct float64 `json:"total_capacity_utilization_pct" db:"total_capacity_utilization_pct"`

	TotalOrders int     `json:"total_orders" db:"total_orders"`
	AvgDOI      float64 `json:"avg_doi" db:"avg_doi"`

	OverloadMonday    int `json:"overload_monday" db:"overload_monday"`
	OverloadTuesday   int `json:"overload_tuesday" db:"overload_tuesday"`
	OverloadWednesday int `json:"overload_wednesday" db:"overload_wednesday"`
	OverloadThursday  int `json:"overload_thursday" db:"overload_thursday"`
	OverloadFriday    int `json:"overload_friday" db:"overload_friday"`
	OverloadSaturday  int `json:"overload_saturday" db:"overload_saturday"`
	OverloadSunday    int `json:"overload_sunday" db:"overload_sunday"`

	AvgMonday    float64 `json:"avg_monday" db:"avg_monday"`
	AvgTuesday   float64 `json:"avg_tuesday" db:"avg_tuesday"`
	AvgWednesday float64 `json:"avg_wednesday" db:"avg_wednesday"`
	AvgThursday  float64 `json:"avg_thursday" db:"avg_thursday"`
	AvgFriday    float64 `json:"avg_friday" db:"avg_friday"`
	AvgSaturday  float64 `json:"avg_saturday" db:"avg_saturday"`
	AvgSunday    float64 `json:"avg_sunday" db:"avg_sunday"`
}

// Key reconstructs the scenario identity of a comparison row.
func (r ComparisonRow) Key() ScenarioKey {
	return ScenarioKey{ReorderThreshold: r.ReorderThreshold, TargetDOI: r.TargetDOI}
}

// SweepRun tracks a single execution of a full parameter sweep.
type SweepRun struct {
	ID             int64      `json:"id" db:"id"`
	RunID          string     `json:"run_id" db:"run_id"`
	StartDate      time.Time  `json:"start_date" db:"start_date"`
	EndDate        time.Time  `json:"end_date" db:"end_date"`
	DailyCapacity  int        `json:"daily_capacity" db:"daily_capacity"`
	TotalCapacity  int        `json:"total_capacity" db:"total_capacity"`
	SKUCount       int        `json:"sku_count" db:"sku_count"`
	TotalScenarios int        `json:"total_scenarios" db:"total_scenarios"`
	FailedCount    int        `json:"failed_count" db:"failed_count"`
	Status         string     `json:"status" db:"status"`
	ErrorMessage   string     `json:"error_message" db:"error_message"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
}

// SweepRun status values.
const (
	SweepStatusRunning   = "running"
	SweepStatusCompleted = "completed"
	SweepStatusFailed    = "failed"
)

// FailedScenario records a scenario that could not be simulated. Failed
// scenarios are excluded from the comparison table but remain enumerable
// after the sweep completes.
type FailedScenario struct {
	Key     ScenarioKey `json:"key"`
	Message string      `json:"message" db:"message"`
}
