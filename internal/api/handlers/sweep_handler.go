package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/autopo-sim/internal/domain"
	"github.com/andresuchdata/autopo-sim/internal/service"
)

type SweepHandler struct {
	service *service.SweepService
}

func NewSweepHandler(service *service.SweepService) *SweepHandler {
	return &SweepHandler{service: service}
}

func (h *SweepHandler) ListSweepRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}

	runs, err := h.service.ListSweepRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sweep runs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

func (h *SweepHandler) GetSweepRun(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))

	run, err := h.service.GetSweepRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sweep run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sweep run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *SweepHandler) GetComparison(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))

	run, err := h.service.GetSweepRun(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sweep run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sweep run not found"})
		return
	}

	rows, err := h.service.GetComparison(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comparison", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":    runID,
		"scenarios": rows,
	})
}

func (h *SweepHandler) GetDailyArrivals(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))

	key, ok := h.parseScenarioKey(c)
	if !ok {
		return
	}

	arrivals, err := h.service.GetDailyArrivals(c.Request.Context(), runID, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch daily arrivals", "details": err.Error()})
		return
	}
	if arrivals == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sweep run not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":            runID,
		"reorder_threshold": key.ReorderThreshold,
		"target_doi":        key.TargetDOI,
		"daily_arrivals":    arrivals,
	})
}

func (h *SweepHandler) ListFailedScenarios(c *gin.Context) {
	runID := strings.TrimSpace(c.Param("run_id"))

	failed, err := h.service.ListFailedScenarios(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch failed scenarios", "details": err.Error()})
		return
	}
	if failed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sweep run not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"failed": failed,
	})
}

func (h *SweepHandler) parseScenarioKey(c *gin.Context) (domain.ScenarioKey, bool) {
	threshold, err := strconv.Atoi(strings.TrimSpace(c.Query("reorder_threshold")))
	if err != nil || threshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reorder_threshold must be a non-negative integer"})
		return domain.ScenarioKey{}, false
	}

	targetDOI, err := strconv.Atoi(strings.TrimSpace(c.Query("target_doi")))
	if err != nil || targetDOI < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_doi must be a non-negative integer"})
		return domain.ScenarioKey{}, false
	}

	return domain.ScenarioKey{ReorderThreshold: threshold, TargetDOI: targetDOI}, true
}
