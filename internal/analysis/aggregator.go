// internal/analysis/aggregator.go
package analysis

import (
	"time"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/simulation"
)

// BinLabels names the arrival-count bands of the distribution, in order.
var BinLabels = []string{"0-30", "31-90", "91-180", "181-270", "271-360", "361-540", "541-720", "720+"}

// binUppers holds the inclusive upper bound of each band except the last,
// which is open-ended.
var binUppers = []int{30, 90, 180, 270, 360, 540, 720}

// Config carries the warehouse capacity limits the metrics are judged
// against.
type Config struct {
	DailyCapacity int
	TotalCapacity int
}

// Aggregate reduces one scenario's daily records into its fixed-shape
// metrics plus the complete daily-arrivals series.
//
// Arrivals are counted as distinct SKUs receiving stock per date, reindexed
// over the full horizon so dates with zero arrivals contribute explicit zero
// rows to every downstream statistic. The band distribution covers working
// days only, mirroring the receiving schedule.
func Aggregate(data *simulation.ScenarioData, horizon []time.Time, cfg Config) (*domain.ScenarioMetrics, []domain.DailyArrival) {
	arrivalsByDate := make(map[time.Time]map[string]struct{})
	uniqueArrived := make(map[string]struct{})
	totalOrders := 0
	doiSum := 0.0

	for _, rec := range data.Records {
		if rec.StockReceived > 0 {
			byDate, ok := arrivalsByDate[rec.Date]
			if !ok {
				byDate = make(map[string]struct{})
				arrivalsByDate[rec.Date] = byDate
			}
			byDate[rec.SKUCode] = struct{}{}
			uniqueArrived[rec.SKUCode] = struct{}{}
		}
		if rec.OrderPlaced {
			totalOrders++
		}
		doiSum += rec.DOI
	}

	series := make([]domain.DailyArrival, 0, len(horizon))
	counts := make([]float64, 0, len(horizon))
	maxDaily := 0
	daysOver := 0
	overloadByDay := make(map[string]int, len(simulation.DayOrder))
	sumByDay := make(map[string]float64, len(simulation.DayOrder))
	countByDay := make(map[string]int, len(simulation.DayOrder))
	binCounts := make(map[string]int, len(BinLabels))
	for _, label := range BinLabels {
		binCounts[label] = 0
	}
	for _, day := range simulation.DayOrder {
		overloadByDay[day] = 0
	}

	for _, date := range horizon {
		count := len(arrivalsByDate[date])
		weekday := date.Weekday().String()
		overload := count > cfg.DailyCapacity

		series = append(series, domain.DailyArrival{
			Date:              date,
			UniqueSKUsArrived: count,
			DayOfWeek:         weekday,
			IsOverload:        overload,
		})

		counts = append(counts, float64(count))
		if count > maxDaily {
			maxDaily = count
		}
		if overload {
			daysOver++
			overloadByDay[weekday]++
		}
		sumByDay[weekday] += float64(count)
		countByDay[weekday]++

		if date.Weekday() != simulation.NonWorkingDay {
			binCounts[binLabel(count)]++
		}
	}

	avgArrivalsByDay := make(map[string]float64, len(countByDay))
	for day, n := range countByDay {
		avgArrivalsByDay[day] = sumByDay[day] / float64(n)
	}

	avg := mean(counts)
	metrics := &domain.ScenarioMetrics{
		Key:             data.Key,
		AvgDailySKUs:    avg,
		MaxDailySKUs:    maxDaily,
		MedianDailySKUs: median(counts),
		StdDailySKUs:    stddev(counts, avg),

		DaysOverCapacity:       daysOver,
		CapacityUtilizationPct: avg / float64(cfg.DailyCapacity) * 100,

		TotalUniqueSKUsArrived:      len(uniqueArrived),
		TotalCapacityUtilizationPct: float64(len(uniqueArrived)) / float64(cfg.TotalCapacity) * 100,

		TotalOrders: totalOrders,

		OverloadByDay:    overloadByDay,
		AvgArrivalsByDay: avgArrivalsByDay,
		BinDistribution:  binCounts,
	}
	if len(horizon) > 0 {
		metrics.PctDaysOverCapacity = float64(daysOver) / float64(len(horizon)) * 100
	}
	if len(data.Records) > 0 {
		metrics.AvgDOI = doiSum / float64(len(data.Records))
	}

	return metrics, series
}

func binLabel(count int) string {
	for i, upper := range binUppers {
		if count <= upper {
			return BinLabels[i]
		}
	}
	return BinLabels[len(BinLabels)-1]
}
