package simulation

import (
	"fmt"
	"sort"
	"time"
)

// Params holds the knobs of one sweep. Values arrive from CLI flags or the
// API and must pass Validate before any scenario runs; a bad field fails the
// whole sweep up front rather than partway through.
type Params struct {
	ReorderThresholds []int     `json:"reorder_thresholds"`
	TargetDOIs        []int     `json:"target_dois"`
	DailyCapacity     int       `json:"daily_capacity"`
	TotalCapacity     int       `json:"total_capacity"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

// Validate checks every field and names the offending one on failure.
func (p Params) Validate() error {
	if len(p.ReorderThresholds) == 0 {
		return fmt.Errorf("invalid params: reorder_thresholds is empty")
	}
	if len(p.TargetDOIs) == 0 {
		return fmt.Errorf("invalid params: target_dois is empty")
	}
	if p.DailyCapacity <= 0 {
		return fmt.Errorf("invalid params: daily_capacity must be positive, got %d", p.DailyCapacity)
	}
	if p.TotalCapacity <= 0 {
		return fmt.Errorf("invalid params: total_capacity must be positive, got %d", p.TotalCapacity)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("invalid params: start_date is not set")
	}
	if p.EndDate.IsZero() {
		return fmt.Errorf("invalid params: end_date is not set")
	}
	if !Midnight(p.EndDate).After(Midnight(p.StartDate)) {
		return fmt.Errorf("invalid params: end_date %s must be after start_date %s",
			p.EndDate.Format("2006-01-02"), p.StartDate.Format("2006-01-02"))
	}
	return nil
}

// Normalize sorts and deduplicates both parameter sequences so scenario
// enumeration is deterministic regardless of how the values were supplied.
func (p *Params) Normalize() {
	p.ReorderThresholds = dedupeSorted(p.ReorderThresholds)
	p.TargetDOIs = dedupeSorted(p.TargetDOIs)
}

// Horizon materializes the inclusive date range of the sweep.
func (p Params) Horizon() []time.Time {
	return Horizon(p.StartDate, p.EndDate)
}

func dedupeSorted(values []int) []int {
	if len(values) == 0 {
		return values
	}
	out := make([]int, len(values))
	copy(out, values)
	sort.Ints(out)

	result := out[:1]
	for _, v := range out[1:] {
		if v != result[len(result)-1] {
			result = append(result, v)
		}
	}
	return result
}

// IntRange expands an inclusive [lo, hi] range into the ordered value set
// used for thresholds or target DOIs.
func IntRange(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	values := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		values = append(values, v)
	}
	return values
}
