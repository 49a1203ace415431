package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/autopo-sim/internal/cache"
	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/repository"
)

// SweepService serves persisted sweep results to the API, with a
// cache-aside layer in front of the comparison table.
type SweepService struct {
	repo  repository.SweepRepository
	cache cache.ComparisonCache
}

func NewSweepService(repo repository.SweepRepository, comparisonCache cache.ComparisonCache) *SweepService {
	if comparisonCache == nil {
		comparisonCache = cache.NewNoopComparisonCache()
	}
	return &SweepService{
		repo:  repo,
		cache: comparisonCache,
	}
}

func (s *SweepService) ListSweepRuns(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	return s.repo.ListSweepRuns(ctx, limit)
}

func (s *SweepService) GetSweepRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	return s.repo.GetSweepRun(ctx, runID)
}

// GetComparison returns the scenario comparison table for a run. Cache errors
// are logged and ignored so a flaky redis never blocks reads.
func (s *SweepService) GetComparison(ctx context.Context, runID string) ([]domain.ComparisonRow, error) {
	run, err := s.repo.GetSweepRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}

	rows, found, err := s.cache.GetComparison(ctx, run.ID)
	if err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("comparison cache read failed")
	}
	if found {
		return rows, nil
	}

	rows, err = s.repo.GetComparison(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comparison for run %s: %w", runID, err)
	}

	if err := s.cache.SetComparison(ctx, run.ID, rows); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("comparison cache write failed")
	}

	return rows, nil
}

func (s *SweepService) GetDailyArrivals(ctx context.Context, runID string, key domain.ScenarioKey) ([]domain.DailyArrival, error) {
	run, err := s.repo.GetSweepRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.repo.GetDailyArrivals(ctx, run.ID, key)
}

func (s *SweepService) ListFailedScenarios(ctx context.Context, runID string) ([]domain.FailedScenario, error) {
	run, err := s.repo.GetSweepRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	return s.repo.ListFailedScenarios(ctx, run.ID)
}
