package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/sweep"
)

func scenarioWith(rt, doi, daysOver int) *sweep.ScenarioResult {
	key := domain.ScenarioKey{ReorderThreshold: rt, TargetDOI: doi}
	return &sweep.ScenarioResult{
		Key: key,
		Metrics: &domain.ScenarioMetrics{
			Key:              key,
			DaysOverCapacity: daysOver,
			OverloadByDay:    map[string]int{"Monday": daysOver},
			AvgArrivalsByDay: map[string]float64{"Monday": 1.5},
		},
	}
}

func TestBuildComparisonSortsByThresholdThenDOI(t *testing.T) {
	cmp := BuildComparison([]*sweep.ScenarioResult{
		scenarioWith(15, 20, 3),
		scenarioWith(5, 40, 4),
		scenarioWith(15, 40, 2),
		scenarioWith(5, 20, 5),
	})

	require.Len(t, cmp.Rows, 4)
	want := []string{"RT5_DOI20", "RT5_DOI40", "RT15_DOI20", "RT15_DOI40"}
	for i, row := range cmp.Rows {
		assert.Equal(t, want[i], row.Scenario, "row %d out of order", i)
	}
}

func TestBuildComparisonBestMinimizesDaysOverCapacity(t *testing.T) {
	cmp := BuildComparison([]*sweep.ScenarioResult{
		scenarioWith(5, 20, 7),
		scenarioWith(5, 30, 2),
		scenarioWith(10, 20, 4),
	})

	require.NotNil(t, cmp.Best)
	assert.Equal(t, "RT5_DOI30", cmp.Best.Scenario)
	assert.Equal(t, 2, cmp.Best.DaysOverCapacity)
}

func TestBuildComparisonBestTieBreaksToLowestKey(t *testing.T) {
	cmp := BuildComparison([]*sweep.ScenarioResult{
		scenarioWith(10, 40, 3),
		scenarioWith(5, 30, 3),
		scenarioWith(5, 20, 3),
	})

	require.NotNil(t, cmp.Best)
	assert.Equal(t, "RT5_DOI20", cmp.Best.Scenario, "tie must resolve to lowest threshold then lowest target DOI")
}

func TestBuildComparisonFlattensWeekdayColumns(t *testing.T) {
	cmp := BuildComparison([]*sweep.ScenarioResult{scenarioWith(5, 20, 3)})

	require.Len(t, cmp.Rows, 1)
	row := cmp.Rows[0]
	assert.Equal(t, 3, row.OverloadMonday)
	assert.Equal(t, 0, row.OverloadSunday)
	assert.Equal(t, 1.5, row.AvgMonday)
	assert.Equal(t, 0.0, row.AvgTuesday)
}

func TestBuildComparisonEmpty(t *testing.T) {
	cmp := BuildComparison(nil)
	assert.Empty(t, cmp.Rows)
	assert.Nil(t, cmp.Best)
}
