// internal/sweep/orchestrator.go
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/autopo-sim/internal/analysis"
	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/simulation"
)

// ScenarioResult bundles everything one scenario produced: its metrics, the
// raw daily records, the reindexed arrival series, and any per-SKU partial
// failures.
type ScenarioResult struct {
	Key           domain.ScenarioKey
	Metrics       *domain.ScenarioMetrics
	Records       []domain.DailyRecord
	DailyArrivals []domain.DailyArrival
	SKUErrors     []simulation.SKUError
}

// Result is the outcome of a full sweep. Scenarios are sorted by
// (reorder_threshold, target_doi) regardless of execution order; failed
// scenarios are listed separately and never appear in Scenarios.
type Result struct {
	Params    simulation.Params
	Scenarios []*ScenarioResult
	Failed    []domain.FailedScenario
}

// Orchestrator enumerates the policy grid and runs scenarios in parallel.
// Scenarios share nothing but the read-only SKU table and horizon, so the
// only coordination is the semaphore bounding concurrency and the mutex
// guarding result collection.
type Orchestrator struct {
	scenarioWorkers int64
	skuWorkers      int
}

// NewOrchestrator sizes the worker pools. Values below 1 fall back to the
// machine's CPU count for scenarios and a small fixed pool per scenario.
func NewOrchestrator(scenarioWorkers, skuWorkers int) *Orchestrator {
	if scenarioWorkers < 1 {
		scenarioWorkers = runtime.NumCPU()
	}
	if skuWorkers < 1 {
		skuWorkers = 4
	}
	return &Orchestrator{
		scenarioWorkers: int64(scenarioWorkers),
		skuWorkers:      skuWorkers,
	}
}

// Combinations expands the cartesian product of the two value sequences in
// threshold-major order.
func Combinations(thresholds, targetDOIs []int) []domain.ScenarioKey {
	keys := make([]domain.ScenarioKey, 0, len(thresholds)*len(targetDOIs))
	for _, rt := range thresholds {
		for _, doi := range targetDOIs {
			keys = append(keys, domain.ScenarioKey{ReorderThreshold: rt, TargetDOI: doi})
		}
	}
	return keys
}

// Run validates the parameters, then simulates and aggregates every scenario
// of the grid. Cancellation is cooperative at scenario granularity: in-flight
// scenarios finish, no new scenario is dispatched, and the partial result is
// returned alongside the context error.
func (o *Orchestrator) Run(ctx context.Context, skus []domain.SKU, params simulation.Params) (*Result, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	horizon := params.Horizon()
	keys := Combinations(params.ReorderThresholds, params.TargetDOIs)
	aggCfg := analysis.Config{
		DailyCapacity: params.DailyCapacity,
		TotalCapacity: params.TotalCapacity,
	}

	log.Info().
		Int("scenarios", len(keys)).
		Int("skus", len(skus)).
		Int("horizon_days", len(horizon)).
		Msg("starting sweep")

	result := &Result{Params: params}
	sem := semaphore.NewWeighted(o.scenarioWorkers)
	var mu sync.Mutex
	var wg sync.WaitGroup

	var dispatchErr error
	for _, key := range keys {
		if err := sem.Acquire(ctx, 1); err != nil {
			dispatchErr = err
			break
		}

		wg.Add(1)
		go func(key domain.ScenarioKey) {
			defer wg.Done()
			defer sem.Release(1)

			scenario, err := o.runScenario(ctx, skus, horizon, key, aggCfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, domain.FailedScenario{
					Key:     key,
					Message: err.Error(),
				})
				log.Error().Str("scenario", key.Label()).Err(err).Msg("scenario failed")
				return
			}
			result.Scenarios = append(result.Scenarios, scenario)
		}(key)
	}
	wg.Wait()

	sort.Slice(result.Scenarios, func(i, j int) bool {
		return result.Scenarios[i].Key.Less(result.Scenarios[j].Key)
	})
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Key.Less(result.Failed[j].Key)
	})

	log.Info().
		Int("completed", len(result.Scenarios)).
		Int("failed", len(result.Failed)).
		Msg("sweep finished")

	if dispatchErr != nil {
		return result, fmt.Errorf("sweep canceled after %d scenarios: %w", len(result.Scenarios), dispatchErr)
	}
	return result, nil
}

// runScenario executes one scenario end to end, converting a panic anywhere
// in the simulate/aggregate path into a scenario-level failure so the rest
// of the sweep keeps going.
func (o *Orchestrator) runScenario(ctx context.Context, skus []domain.SKU, horizon []time.Time, key domain.ScenarioKey, aggCfg analysis.Config) (scenario *ScenarioResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			scenario = nil
			err = fmt.Errorf("scenario %s panicked: %v", key.Label(), r)
		}
	}()

	data, err := simulation.RunScenario(ctx, skus, horizon, key, o.skuWorkers)
	if err != nil {
		return nil, err
	}

	metrics, series := analysis.Aggregate(data, horizon, aggCfg)
	return &ScenarioResult{
		Key:           key,
		Metrics:       metrics,
		Records:       data.Records,
		DailyArrivals: series,
		SKUErrors:     data.SKUErrors,
	}, nil
}
