package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/autopo-sim/internal/config"
	"github.com/andresuchdata/autopo-sim/internal/dataset"
	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/report"
	"github.com/andresuchdata/autopo-sim/internal/repository/postgres"
	"github.com/andresuchdata/autopo-sim/internal/simulation"
	"github.com/andresuchdata/autopo-sim/internal/storage"
	"github.com/andresuchdata/autopo-sim/internal/sweep"
	"github.com/andresuchdata/autopo-sim/pkg/logger"
)

const dateLayout = "2006-01-02"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string; when set, results are persisted",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	app := &cli.App{
		Name:  "sweep",
		Usage: "Run replenishment policy simulations across a parameter grid",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Sweep the (reorder threshold, target DOI) grid over a SKU dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "SKU dataset file (.csv or .xlsx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "start-date",
						Usage:    "Simulation start date (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "end-date",
						Usage:    "Simulation end date (YYYY-MM-DD, inclusive)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "rt-min",
						Usage: "Lowest reorder threshold (DOI days) in the grid",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "rt-max",
						Usage: "Highest reorder threshold (DOI days) in the grid",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "doi-min",
						Usage: "Lowest target DOI in the grid",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "doi-max",
						Usage: "Highest target DOI in the grid",
						Value: 40,
					},
					&cli.IntFlag{
						Name:     "daily-capacity",
						Usage:    "Warehouse inbound capacity in unique SKUs per day",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "total-capacity",
						Usage:    "Total unique-SKU capacity over the horizon",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Usage:   "Directory for CSV artifacts",
						EnvVars: []string{"SIM_OUTPUT_DIR"},
					},
					&cli.IntFlag{
						Name:    "scenario-workers",
						Usage:   "Concurrent scenarios (0 = number of CPUs)",
						EnvVars: []string{"SIM_SCENARIO_WORKERS"},
					},
					&cli.IntFlag{
						Name:    "sku-workers",
						Usage:   "Concurrent SKUs per scenario",
						EnvVars: []string{"SIM_SKU_WORKERS"},
						Value:   4,
					},
					newDBURLFlag(),
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Upload CSV artifacts to object storage after the run",
					},
				},
				Action: runSweep,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSweep(c *cli.Context) error {
	cfg := config.Load()

	startDate, err := time.Parse(dateLayout, c.String("start-date"))
	if err != nil {
		return fmt.Errorf("invalid start-date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, c.String("end-date"))
	if err != nil {
		return fmt.Errorf("invalid end-date: %w", err)
	}

	params := simulation.Params{
		ReorderThresholds: simulation.IntRange(c.Int("rt-min"), c.Int("rt-max")),
		TargetDOIs:        simulation.IntRange(c.Int("doi-min"), c.Int("doi-max")),
		DailyCapacity:     c.Int("daily-capacity"),
		TotalCapacity:     c.Int("total-capacity"),
		StartDate:         startDate,
		EndDate:           endDate,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	skus, excluded, err := dataset.Load(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(skus) == 0 {
		return fmt.Errorf("dataset contains no usable SKUs")
	}

	scenarioWorkers := c.Int("scenario-workers")
	if scenarioWorkers == 0 {
		scenarioWorkers = cfg.Sim.ScenarioWorkers
	}
	skuWorkers := c.Int("sku-workers")

	runID := time.Now().UTC().Format("20060102_150405")
	logger.Log.Info().
		Str("run_id", runID).
		Int("skus", len(skus)).
		Int("excluded", len(excluded)).
		Int("scenarios", len(params.ReorderThresholds)*len(params.TargetDOIs)).
		Msg("Starting sweep")

	var (
		repo *postgres.SweepRepository
		run  *domain.SweepRun
	)
	if dbURL := c.String("db-url"); dbURL != "" {
		db, err := postgres.NewDBFromURL("pgx", dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repo = postgres.NewSweepRepository(db)
		if err := repo.EnsureSchema(c.Context); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}

		run = &domain.SweepRun{
			RunID:          runID,
			StartDate:      startDate,
			EndDate:        endDate,
			DailyCapacity:  params.DailyCapacity,
			TotalCapacity:  params.TotalCapacity,
			SKUCount:       len(skus),
			TotalScenarios: len(params.ReorderThresholds) * len(params.TargetDOIs),
			Status:         domain.SweepStatusRunning,
			StartedAt:      time.Now().UTC(),
		}
		if err := repo.CreateSweepRun(c.Context, run); err != nil {
			return err
		}
	}

	orch := sweep.NewOrchestrator(scenarioWorkers, skuWorkers)
	result, err := orch.Run(c.Context, skus, params)
	if err != nil {
		if repo != nil && run != nil {
			markFailed(c.Context, repo, run, err)
		}
		return err
	}

	cmp := report.BuildComparison(result.Scenarios)
	if cmp.Best != nil {
		logger.Log.Info().
			Str("scenario", cmp.Best.Scenario).
			Int("days_over_capacity", cmp.Best.DaysOverCapacity).
			Msg("Best scenario")
	}

	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = cfg.Sim.OutputDir
	}
	writer := report.NewWriter(outputDir, runID)
	paths, err := writer.WriteAll(result, cmp)
	if err != nil {
		if repo != nil && run != nil {
			markFailed(c.Context, repo, run, err)
		}
		return fmt.Errorf("failed to write artifacts: %w", err)
	}

	if repo != nil && run != nil {
		if err := persistResults(c.Context, repo, run, result, cmp); err != nil {
			markFailed(c.Context, repo, run, err)
			return err
		}
	}

	if c.Bool("upload") {
		if err := uploadArtifacts(c.Context, cfg.Storage, runID, paths); err != nil {
			return fmt.Errorf("failed to upload artifacts: %w", err)
		}
	}

	logger.Log.Info().
		Str("run_id", runID).
		Int("scenarios", len(result.Scenarios)).
		Int("failed", len(result.Failed)).
		Int("files", len(paths)).
		Msg("Sweep completed")
	return nil
}

func persistResults(ctx context.Context, repo *postgres.SweepRepository, run *domain.SweepRun, result *sweep.Result, cmp *report.Comparison) error {
	if err := repo.InsertComparisonRows(ctx, run.ID, cmp.Rows); err != nil {
		return err
	}
	for _, scenario := range result.Scenarios {
		if err := repo.InsertDailyArrivals(ctx, run.ID, scenario.Key, scenario.DailyArrivals); err != nil {
			return err
		}
	}
	if err := repo.InsertFailedScenarios(ctx, run.ID, result.Failed); err != nil {
		return err
	}

	now := time.Now().UTC()
	run.Status = domain.SweepStatusCompleted
	run.FailedCount = len(result.Failed)
	run.CompletedAt = &now
	return repo.UpdateSweepRun(ctx, run)
}

func markFailed(ctx context.Context, repo *postgres.SweepRepository, run *domain.SweepRun, cause error) {
	now := time.Now().UTC()
	run.Status = domain.SweepStatusFailed
	run.ErrorMessage = cause.Error()
	run.CompletedAt = &now
	if err := repo.UpdateSweepRun(ctx, run); err != nil {
		logger.Log.Error().Err(err).Str("run_id", run.RunID).Msg("Failed to mark sweep run as failed")
	}
}

func uploadArtifacts(ctx context.Context, cfg config.StorageConfig, runID string, paths []string) error {
	client, err := storage.NewS3Client(cfg)
	if err != nil {
		return err
	}

	for _, path := range paths {
		key := filepath.Join(runID, filepath.Base(path))
		if err := client.UploadFile(ctx, key, path); err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Msg("Artifact uploaded")
	}
	return nil
}
