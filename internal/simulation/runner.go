package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/autopo-sim/internal/domain"
)

// SKUError records one SKU whose simulation failed inside a scenario. The
// scenario proceeds with the remaining SKUs; the error stays enumerable.
type SKUError struct {
	SKUCode string `json:"sku_code"`
	Message string `json:"message"`
}

// ScenarioData is the raw outcome of simulating every eligible SKU under one
// policy setting.
type ScenarioData struct {
	Key       domain.ScenarioKey
	Records   []domain.DailyRecord
	SKUErrors []SKUError
}

// RunScenario drives SimulateSKU across every eligible SKU for one policy
// pair. SKUs are independent, so they run on a pool of workers; each worker
// writes into its own slot of the results slice, keeping the concatenated
// output in input order regardless of scheduling. SKUs with no demand are
// skipped silently (dead stock never reorders); a SKU whose simulation
// panics is reported as a partial failure without corrupting the rest.
func RunScenario(ctx context.Context, skus []domain.SKU, horizon []time.Time, key domain.ScenarioKey, workerCount int) (*ScenarioData, error) {
	if workerCount < 1 {
		workerCount = 1
	}

	eligible := make([]domain.SKU, 0, len(skus))
	for _, sku := range skus {
		if sku.QPD > 0 {
			eligible = append(eligible, sku)
		}
	}

	perSKU := make([][]domain.DailyRecord, len(eligible))
	errsBySlot := make([]*SKUError, len(eligible))

	jobChan := make(chan int, len(eligible))
	var wg sync.WaitGroup

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				simulateSlot(eligible[idx], horizon, key, idx, perSKU, errsBySlot)
			}
		}()
	}

	enqueued := 0
dispatch:
	for i := range eligible {
		select {
		case <-ctx.Done():
			break dispatch
		case jobChan <- i:
			enqueued++
		}
	}
	close(jobChan)
	wg.Wait()

	if err := ctx.Err(); err != nil && enqueued < len(eligible) {
		return nil, fmt.Errorf("scenario %s canceled: %w", key.Label(), err)
	}

	data := &ScenarioData{Key: key}
	for i, records := range perSKU {
		if errsBySlot[i] != nil {
			data.SKUErrors = append(data.SKUErrors, *errsBySlot[i])
			continue
		}
		data.Records = append(data.Records, records...)
	}

	for _, skuErr := range data.SKUErrors {
		log.Warn().
			Str("scenario", key.Label()).
			Str("sku", skuErr.SKUCode).
			Str("error", skuErr.Message).
			Msg("SKU simulation failed, continuing without it")
	}

	return data, nil
}

// simulateSlot runs one SKU and converts a panic into a recorded SKUError so
// a malformed row cannot take down the whole scenario.
func simulateSlot(sku domain.SKU, horizon []time.Time, key domain.ScenarioKey, idx int, out [][]domain.DailyRecord, errs []*SKUError) {
	defer func() {
		if r := recover(); r != nil {
			errs[idx] = &SKUError{
				SKUCode: sku.Code,
				Message: fmt.Sprintf("simulation panic: %v", r),
			}
		}
	}()
	out[idx] = SimulateSKU(sku, horizon, key)
}
