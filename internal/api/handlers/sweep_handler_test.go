package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/autopo-sim/internal/cache"
	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/service"
)

type stubRepo struct {
	run *domain.SweepRun
}

func (s *stubRepo) CreateSweepRun(ctx context.Context, run *domain.SweepRun) error { return nil }
func (s *stubRepo) UpdateSweepRun(ctx context.Context, run *domain.SweepRun) error { return nil }

func (s *stubRepo) GetSweepRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	if s.run != nil && s.run.RunID == runID {
		return s.run, nil
	}
	return nil, nil
}

func (s *stubRepo) ListSweepRuns(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	if s.run == nil {
		return []domain.SweepRun{}, nil
	}
	return []domain.SweepRun{*s.run}, nil
}

func (s *stubRepo) InsertComparisonRows(ctx context.Context, sweepRunID int64, rows []domain.ComparisonRow) error {
	return nil
}

func (s *stubRepo) GetComparison(ctx context.Context, sweepRunID int64) ([]domain.ComparisonRow, error) {
	return []domain.ComparisonRow{{Scenario: "RT5_DOI20", ReorderThreshold: 5, TargetDOI: 20}}, nil
}

func (s *stubRepo) InsertDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey, arrivals []domain.DailyArrival) error {
	return nil
}

func (s *stubRepo) GetDailyArrivals(ctx context.Context, sweepRunID int64, key domain.ScenarioKey) ([]domain.DailyArrival, error) {
	return []domain.DailyArrival{{UniqueSKUsArrived: 2, DayOfWeek: "Monday"}}, nil
}

func (s *stubRepo) InsertFailedScenarios(ctx context.Context, sweepRunID int64, failed []domain.FailedScenario) error {
	return nil
}

func (s *stubRepo) ListFailedScenarios(ctx context.Context, sweepRunID int64) ([]domain.FailedScenario, error) {
	return []domain.FailedScenario{}, nil
}

func testRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewSweepService(repo, cache.NewNoopComparisonCache())
	handler := NewSweepHandler(svc)

	router := gin.New()
	router.GET("/sweeps", handler.ListSweepRuns)
	router.GET("/sweeps/:run_id", handler.GetSweepRun)
	router.GET("/sweeps/:run_id/comparison", handler.GetComparison)
	router.GET("/sweeps/:run_id/daily_arrivals", handler.GetDailyArrivals)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetSweepRunFound(t *testing.T) {
	router := testRouter(&stubRepo{run: &domain.SweepRun{ID: 1, RunID: "abc", Status: domain.SweepStatusCompleted}})

	rec := doRequest(t, router, "/sweeps/abc")
	require.Equal(t, http.StatusOK, rec.Code)

	var run domain.SweepRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "abc", run.RunID)
}

func TestGetSweepRunNotFound(t *testing.T) {
	router := testRouter(&stubRepo{})

	rec := doRequest(t, router, "/sweeps/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetComparisonReturnsRows(t *testing.T) {
	router := testRouter(&stubRepo{run: &domain.SweepRun{ID: 1, RunID: "abc"}})

	rec := doRequest(t, router, "/sweeps/abc/comparison")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RunID     string                 `json:"run_id"`
		Scenarios []domain.ComparisonRow `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc", body.RunID)
	require.Len(t, body.Scenarios, 1)
	assert.Equal(t, "RT5_DOI20", body.Scenarios[0].Scenario)
}

func TestGetDailyArrivalsValidatesScenarioKey(t *testing.T) {
	router := testRouter(&stubRepo{run: &domain.SweepRun{ID: 1, RunID: "abc"}})

	rec := doRequest(t, router, "/sweeps/abc/daily_arrivals")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, "/sweeps/abc/daily_arrivals?reorder_threshold=5&target_doi=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, "/sweeps/abc/daily_arrivals?reorder_threshold=5&target_doi=20")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListSweepRuns(t *testing.T) {
	router := testRouter(&stubRepo{run: &domain.SweepRun{ID: 1, RunID: "abc"}})

	rec := doRequest(t, router, "/sweeps?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs  []domain.SweepRun `json:"runs"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}
