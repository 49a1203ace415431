package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/simulation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSKUs() []domain.SKU {
	return []domain.SKU{
		{Code: "SKU-A", Stock: 100, QPD: 10, LeadTimeDays: 3},
		{Code: "SKU-B", Stock: 40, QPD: 4, LeadTimeDays: 5},
		{Code: "SKU-C", Stock: 250, QPD: 2, LeadTimeDays: 7},
	}
}

func testParams() simulation.Params {
	return simulation.Params{
		ReorderThresholds: []int{10, 15},
		TargetDOIs:        []int{20, 30},
		DailyCapacity:     2,
		TotalCapacity:     100,
		StartDate:         date(2025, time.June, 2),
		EndDate:           date(2025, time.June, 30),
	}
}

func TestCombinationsThresholdMajorOrder(t *testing.T) {
	keys := Combinations([]int{5, 10}, []int{20, 30, 40})

	require.Len(t, keys, 6)
	want := []domain.ScenarioKey{
		{ReorderThreshold: 5, TargetDOI: 20},
		{ReorderThreshold: 5, TargetDOI: 30},
		{ReorderThreshold: 5, TargetDOI: 40},
		{ReorderThreshold: 10, TargetDOI: 20},
		{ReorderThreshold: 10, TargetDOI: 30},
		{ReorderThreshold: 10, TargetDOI: 40},
	}
	assert.Equal(t, want, keys)
}

func TestRunCoversFullGrid(t *testing.T) {
	orch := NewOrchestrator(2, 2)
	result, err := orch.Run(context.Background(), testSKUs(), testParams())

	require.NoError(t, err)
	require.Len(t, result.Scenarios, 4)
	assert.Empty(t, result.Failed)

	for i, scenario := range result.Scenarios {
		require.NotNil(t, scenario.Metrics, "scenario %s has no metrics", scenario.Key.Label())
		assert.Len(t, scenario.DailyArrivals, 29, "one arrival row per horizon date")
		assert.Len(t, scenario.Records, 3*29, "one record per SKU per date")
		if i > 0 {
			assert.True(t, result.Scenarios[i-1].Key.Less(scenario.Key),
				"scenarios not sorted: %s before %s", result.Scenarios[i-1].Key.Label(), scenario.Key.Label())
		}
	}
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	serial, err := NewOrchestrator(1, 1).Run(context.Background(), testSKUs(), testParams())
	require.NoError(t, err)

	parallel, err := NewOrchestrator(8, 4).Run(context.Background(), testSKUs(), testParams())
	require.NoError(t, err)

	require.Len(t, parallel.Scenarios, len(serial.Scenarios))
	for i := range serial.Scenarios {
		assert.Equal(t, serial.Scenarios[i].Key, parallel.Scenarios[i].Key)
		assert.Equal(t, serial.Scenarios[i].Metrics, parallel.Scenarios[i].Metrics)
		assert.Equal(t, serial.Scenarios[i].Records, parallel.Scenarios[i].Records)
	}
}

func TestRunNormalizesParameterSequences(t *testing.T) {
	params := testParams()
	params.ReorderThresholds = []int{15, 10, 15}
	params.TargetDOIs = []int{30, 20, 20}

	result, err := NewOrchestrator(2, 2).Run(context.Background(), testSKUs(), params)
	require.NoError(t, err)
	assert.Len(t, result.Scenarios, 4, "duplicates must collapse before enumeration")
}

func TestRunRejectsInvalidParams(t *testing.T) {
	params := testParams()
	params.DailyCapacity = 0

	result, err := NewOrchestrator(2, 2).Run(context.Background(), testSKUs(), params)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "daily_capacity")
}

func TestRunCanceledBeforeDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewOrchestrator(1, 1).Run(ctx, testSKUs(), testParams())
	require.Error(t, err)
	require.NotNil(t, result, "partial result should be returned on cancellation")
	assert.ErrorIs(t, err, context.Canceled)
}
