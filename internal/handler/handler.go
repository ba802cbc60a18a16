package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Felipwz/dataops-governance-lab-TF/internal/domain"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/dto"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/report"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/repository"
	"github.com/Felipwz/dataops-governance-lab-TF/internal/service"
)

type Handler struct {
	pipeline       service.PipelineServicer
	metricsHandler http.Handler
	router         *gin.Engine
	log            *zap.Logger
}

// NewHandler wires the HTTP routes. metricsHandler is the prometheus
// exposition handler; pass nil to disable the /metrics route.
func NewHandler(pipeline service.PipelineServicer, metricsHandler http.Handler, log *zap.Logger) *Handler {
	h := &Handler{
		pipeline:       pipeline,
		metricsHandler: metricsHandler,
		router:         gin.Default(),
		log:            log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/runs", h.triggerRun)
	h.router.GET("/alerts", h.listAlerts)
	h.router.GET("/dashboard", h.dashboard)
	if h.metricsHandler != nil {
		h.router.GET("/metrics", gin.WrapH(h.metricsHandler))
	}
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.pipeline.Ping(c.Request.Context()); err != nil {
		h.log.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// triggerRun handles POST /runs: it executes one synchronous pipeline run
// and returns the full outcome.
func (h *Handler) triggerRun(c *gin.Context) {
	run, err := h.pipeline.RunPipeline(c.Request.Context())
	if err != nil {
		h.log.Error("Pipeline run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "pipeline_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Pipeline run triggered via API",
		zap.String("run_id", run.RunID),
		zap.Int("alerts", len(run.Alerts.Alerts)))

	c.JSON(http.StatusOK, buildRunResponse(run))
}

// listAlerts handles GET /alerts
func (h *Handler) listAlerts(c *gin.Context) {
	var req dto.ListAlertsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid alert listing request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	alerts, err := h.pipeline.ListAlerts(c.Request.Context(), repository.AlertQuery{
		Dataset:  req.Dataset,
		Severity: req.Severity,
		Status:   req.Status,
		Limit:    req.Limit,
	})
	if err != nil {
		h.log.Error("Failed to list alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ListAlertsResponse{
		Count:  len(alerts),
		Alerts: alerts,
	})
}

// dashboard handles GET /dashboard
func (h *Handler) dashboard(c *gin.Context) {
	counts, err := h.pipeline.AlertCounts(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	response := dto.DashboardResponse{
		Counts: make([]dto.SeverityCountData, 0, len(counts)),
	}
	for _, count := range counts {
		response.Total += count.Count
		response.Counts = append(response.Counts, dto.SeverityCountData{
			Severity: count.Severity,
			Count:    count.Count,
		})
	}

	c.JSON(http.StatusOK, response)
}

func buildRunResponse(run *report.Run) dto.RunResponse {
	response := dto.RunResponse{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		FinishedAt: run.FinishedAt.Format(time.RFC3339),
		Datasets: map[string]dto.DatasetSummary{
			domain.DatasetCustomers: {
				Kept:    len(run.Cleaning.Customers.Cleaned),
				Dropped: len(run.Cleaning.Customers.Dropped),
			},
			domain.DatasetProducts: {
				Kept:    len(run.Cleaning.Products.Cleaned),
				Dropped: len(run.Cleaning.Products.Dropped),
			},
			domain.DatasetSales: {
				Kept:    len(run.Cleaning.Sales.Cleaned),
				Dropped: len(run.Cleaning.Sales.Dropped),
			},
			domain.DatasetShipments: {
				Kept:    len(run.Cleaning.Shipments.Cleaned),
				Dropped: len(run.Cleaning.Shipments.Dropped),
				Flagged: len(run.Cleaning.Shipments.Flagged),
			},
		},
		Corrections: len(run.Cleaning.Corrections),
		Quality: dto.QualitySummary{
			Total:       run.Quality.Summary.Total,
			Passed:      run.Quality.Summary.Successful,
			Failed:      run.Quality.Summary.Failed,
			SuccessRate: run.Quality.Summary.SuccessRate,
			Level:       report.QualityLevel(run.Quality.Summary.SuccessRate),
		},
		Alerts:      run.Alerts.Alerts,
		Escalations: run.Alerts.Escalations,
		Report:      report.Render(*run),
	}

	if len(run.LoadErrors) > 0 {
		response.LoadErrors = make(map[string]string, len(run.LoadErrors))
		for dataset, err := range run.LoadErrors {
			response.LoadErrors[dataset] = err.Error()
		}
	}

	return response
}
