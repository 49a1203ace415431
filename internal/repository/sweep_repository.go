package repository

import (
	"context"

	"github.com/andresuchdata/autopo-sim/internal/domain"
)

// SweepRepository persists sweep runs and their derived results so the API
// can serve them after the fact. Raw daily records are file artifacts, not
// rows; only run metadata, scenario metrics, daily-arrival series, and
// failures land in the database.
type SweepRepository interface {
	CreateSweepRun(ctx context.Context, run *domain.SweepRun) error
	UpdateSweepRun(ctx context.Context, run *domain.SweepRun) error
	GetSweepRun(ctx context.Context, runID string) (*domain.SweepRun, error)
	ListSweepRuns(ctx context.Context, limit int) ([]domain.SweepRun, error)

	InsertComparisonRows(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error
	GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, error)

	InsertDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey, arrivals []domain.DailyArrival) error
	GetDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey) ([]domain.DailyArrival, error)

	InsertFailedScenarios(ctx context.Context, sweepRunID int64, failed []domain.FailedScenario) error
	ListFailedScenarios(ctx context.Context, sweepRunID int64) ([]domain.FailedScenario, error)
}
