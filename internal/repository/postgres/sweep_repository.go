package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/repository"
)

// SweepRepository is the Postgres implementation of
// repository.SweepRepository.
type SweepRepository struct {
	db *DB
}

func NewSweepRepository(db *DB) *SweepRepository {
	return &SweepRepository{db: db}
}

var _ repository.SweepRepository = (*SweepRepository)(nil)

// EnsureSchema creates the result tables if they do not exist. The sweep CLI
// calls this before persisting so a fresh database needs no migration step.
func (r *SweepRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sweep_runs (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL UNIQUE,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			daily_capacity INT NOT NULL,
			total_capacity INT NOT NULL,
			sku_count INT NOT NULL DEFAULT 0,
			total_scenarios INT NOT NULL DEFAULT 0,
			failed_count INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS scenario_metrics (
			id BIGSERIAL PRIMARY KEY,
			sweep_run_id BIGINT NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
			scenario TEXT NOT NULL,
			reorder_threshold INT NOT NULL,
			target_doi INT NOT NULL,
			avg_daily_skus DOUBLE PRECISION NOT NULL,
			max_daily_skus INT NOT NULL,
			median_daily_skus DOUBLE PRECISION NOT NULL,
			stdev_daily_skus DOUBLE PRECISION NOT NULL,
			days_over_capacity INT NOT NULL,
			pct_days_over_capacity DOUBLE PRECISION NOT NULL,
			capacity_utilization_pct DOUBLE PRECISION NOT NULL,
			total_unique_skus_arrived INT NOT NULL,
			total_capacity_utilization_pct DOUBLE PRECISION NOT NULL,
			total_orders INT NOT NULL,
			avg_doi DOUBLE PRECISION NOT NULL,
			overload_monday INT NOT NULL,
			overload_tuesday INT NOT NULL,
			overload_wednesday INT NOT NULL,
			overload_thursday INT NOT NULL,
			overload_friday INT NOT NULL,
			overload_saturday INT NOT NULL,
			overload_sunday INT NOT NULL,
			avg_monday DOUBLE PRECISION NOT NULL,
			avg_tuesday DOUBLE PRECISION NOT NULL,
			avg_wednesday DOUBLE PRECISION NOT NULL,
			avg_thursday DOUBLE PRECISION NOT NULL,
			avg_friday DOUBLE PRECISION NOT NULL,
			avg_saturday DOUBLE PRECISION NOT NULL,
			avg_sunday DOUBLE PRECISION NOT NULL,
			UNIQUE (sweep_run_id, reorder_threshold, target_doi)
		)`,
		`CREATE TABLE IF NOT EXISTS scenario_daily_arrivals (
			id BIGSERIAL PRIMARY KEY,
			sweep_run_id BIGINT NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
			reorder_threshold INT NOT NULL,
			target_doi INT NOT NULL,
			date DATE NOT NULL,
			unique_skus_arrived INT NOT NULL,
			day_of_week TEXT NOT NULL,
			is_overload BOOLEAN NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_arrivals_scenario
			ON scenario_daily_arrivals (sweep_run_id, reorder_threshold, target_doi)`,
		`CREATE TABLE IF NOT EXISTS failed_scenarios (
			id BIGSERIAL PRIMARY KEY,
			sweep_run_id BIGINT NOT NULL REFERENCES sweep_runs(id) ON DELETE CASCADE,
			reorder_threshold INT NOT NULL,
			target_doi INT NOT NULL,
			message TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (r *SweepRepository) CreateSweepRun(ctx context.Context, run *domain.SweepRun) error {
	query := `
		INSERT INTO sweep_runs (
			run_id, start_date, end_date, daily_capacity, total_capacity,
			sku_count, total_scenarios, failed_count, status, error_message, started_at
		) VALUES (
			:run_id, :start_date, :end_date, :daily_capacity, :total_capacity,
			:sku_count, :total_scenarios, :failed_count, :status, :error_message, :started_at
		) RETURNING id`

	rows, err := r.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("failed to create sweep run: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&run.ID); err != nil {
			return fmt.Errorf("failed to scan sweep run id: %w", err)
		}
	}
	return rows.Err()
}

func (r *SweepRepository) UpdateSweepRun(ctx context.Context, run *domain.SweepRun) error {
	query := `
		UPDATE sweep_runs SET
			sku_count = :sku_count,
			total_scenarios = :total_scenarios,
			failed_count = :failed_count,
			status = :status,
			error_message = :error_message,
			completed_at = :completed_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to update sweep run %d: %w", run.ID, err)
	}
	return nil
}

func (r *SweepRepository) GetSweepRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	var run domain.SweepRun
	err := r.db.GetContext(ctx, &run,
		`SELECT * FROM sweep_runs WHERE run_id = $1`, runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep run %s: %w", runID, err)
	}
	return &run, nil
}

func (r *SweepRepository) ListSweepRuns(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	if limit <= 0 {
		limit = 50
	}
	runs := make([]domain.SweepRun, 0)
	err := r.db.SelectContext(ctx, &runs,
		`SELECT * FROM sweep_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweep runs: %w", err)
	}
	return runs, nil
}

// comparisonRowRecord attaches the owning run to a comparison row for named
// inserts.
type comparisonRowRecord struct {
	SweepRunID int64 `db:"sweep_run_id"`
	domain.ComparisonRow
}

func (r *SweepRepository) InsertComparisonRows(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO scenario_metrics (
			sweep_run_id, scenario, reorder_threshold, target_doi,
			avg_daily_skus, max_daily_skus, median_daily_skus, stdev_daily_skus,
			days_over_capacity, pct_days_over_capacity, capacity_utilization_pct,
			total_unique_skus_arrived, total_capacity_utilization_pct,
			total_orders, avg_doi,
			overload_monday, overload_tuesday, overload_wednesday, overload_thursday,
			overload_friday, overload_saturday, overload_sunday,
			avg_monday, avg_tuesday, avg_wednesday, avg_thursday,
			avg_friday, avg_saturday, avg_sunday
		) VALUES (
			:sweep_run_id, :scenario, :reorder_threshold, :target_doi,
			:avg_daily_skus, :max_daily_skus, :median_daily_skus, :stdev_daily_skus,
			:days_over_capacity, :pct_days_over_capacity, :capacity_utilization_pct,
			:total_unique_skus_arrived, :total_capacity_utilization_pct,
			:total_orders, :avg_doi,
			:overload_monday, :overload_tuesday, :overload_wednesday, :overload_thursday,
			:overload_friday, :overload_saturday, :overload_sunday,
			:avg_monday, :avg_tuesday, :avg_wednesday, :avg_thursday,
			:avg_friday, :avg_saturday, :avg_sunday
		)`

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, row := range rows {
			rec := comparisonRowRecord{SweepRunID: sweepRunID, ComparisonRow: row}
			if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
				return fmt.Errorf("failed to insert scenario metrics %s: %w", row.Scenario, err)
			}
		}
		return nil
	})
}

func (r *SweepRepository) GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, error) {
	rows := make([]domain.ComparisonRow, 0)
	err := r.db.SelectContext(ctx, &rows, `
		SELECT scenario, reorder_threshold, target_doi,
			avg_daily_skus, max_daily_skus, median_daily_skus, stdev_daily_skus AS std_daily_skus,
			days_over_capacity, pct_days_over_capacity, capacity_utilization_pct,
			total_unique_skus_arrived, total_capacity_utilization_pct,
			total_orders, avg_doi,
			overload_monday, overload_tuesday, overload_wednesday, overload_thursday,
			overload_friday, overload_saturday, overload_sunday,
			avg_monday, avg_tuesday, avg_wednesday, avg_thursday,
			avg_friday, avg_saturday, avg_sunday
		FROM scenario_metrics
		WHERE sweep_run_id = $1
		ORDER BY reorder_threshold, target_doi`, sweepRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison for run %d: %w", sweepRunID, err)
	}
	return rows, nil
}

type dailyArrivalRecord struct {
	SweepRunID       int64 `db:"sweep_run_id"`
	ReorderThreshold int   `db:"reorder_threshold"`
	TargetDOI        int   `db:"target_doi"`
	domain.DailyArrival
}

func (r *SweepRepository) InsertDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey, arrivals []domain.DailyArrival) error {
	if len(arrivals) == 0 {
		return nil
	}

	query := `
		INSERT INTO scenario_daily_arrivals (
			sweep_run_id, reorder_threshold, target_doi,
			date, unique_skus_arrived, day_of_week, is_overload
		) VALUES (
			:sweep_run_id, :reorder_threshold, :target_doi,
			:date, :unique_skus_arrived, :day_of_week, :is_overload
		)`

	records := make([]dailyArrivalRecord, 0, len(arrivals))
	for _, a := range arrivals {
		records = append(records, dailyArrivalRecord{
			SweepRunID:       sweepRunID,
			ReorderThreshold: key.ReorderThreshold,
			TargetDOI:        key.TargetDOI,
			DailyArrival:     a,
		})
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
			return fmt.Errorf("failed to insert daily arrivals for %s: %w", key.Label(), err)
		}
		return nil
	})
}

func (r *SweepRepository) GetDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey) ([]domain.DailyArrival, error) {
	arrivals := make([]domain.DailyArrival, 0)
	err := r.db.SelectContext(ctx, &arrivals, `
		SELECT date, unique_skus_arrived, day_of_week, is_overload
		FROM scenario_daily_arrivals
		WHERE sweep_run_id = $1 AND reorder_threshold = $2 AND target_doi = $3
		ORDER BY date`, sweepRunID, key.ReorderThreshold, key.TargetDOI)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily arrivals for %s: %w", key.Label(), err)
	}
	return arrivals, nil
}

type failedScenarioRecord struct {
	SweepRunID       int64  `db:"sweep_run_id"`
	ReorderThreshold int    `db:"reorder_threshold"`
	TargetDOI        int    `db:"target_doi"`
	Message          string `db:"message"`
}

func (r *SweepRepository) InsertFailedScenarios(ctx context.Context, sweepRunID int64, failed []domain.FailedScenario) error {
	if len(failed) == 0 {
		return nil
	}

	query := `
		INSERT INTO failed_scenarios (sweep_run_id, reorder_threshold, target_doi, message)
		VALUES (:sweep_run_id, :reorder_threshold, :target_doi, :message)`

	records := make([]failedScenarioRecord, 0, len(failed))
	for _, f := range failed {
		records = append(records, failedScenarioRecord{
			SweepRunID:       sweepRunID,
			ReorderThreshold: f.Key.ReorderThreshold,
			TargetDOI:        f.Key.TargetDOI,
			Message:          f.Message,
		})
	}

	if _, err := r.db.NamedExecContext(ctx, query, records); err != nil {
		return fmt.Errorf("failed to insert failed scenarios: %w", err)
	}
	return nil
}

func (r *SweepRepository) ListFailedScenarios(ctx context.Context, sweepRunID int64) ([]domain.FailedScenario, error) {
	var records []failedScenarioRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT sweep_run_id, reorder_threshold, target_doi, message
		FROM failed_scenarios
		WHERE sweep_run_id = $1
		ORDER BY reorder_threshold, target_doi`, sweepRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed scenarios for run %d: %w", sweepRunID, err)
	}

	failed := make([]domain.FailedScenario, 0, len(records))
	for _, rec := range records {
		failed = append(failed, domain.FailedScenario{
			Key: domain.ScenarioKey{
				ReorderThreshold: rec.ReorderThreshold,
				TargetDOI:        rec.TargetDOI,
			},
			Message: rec.Message,
		})
	}
	return failed, nil
}
