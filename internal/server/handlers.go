package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solofarma/alerts/internal/metrics"
	"github.com/solofarma/alerts/internal/models"
	"github.com/solofarma/alerts/internal/repository"
)

type runResponse struct {
	Message string `json:"message"`
	models.Report
}

// runHandler triggers one evaluation pass. Per-alert failures are reported
// inline with a 200; only a failure loading the candidate set itself maps to
// a 500.
func (s *Server) runHandler(c *gin.Context) {
	report, err := s.evaluator.Run(c.Request.Context())
	if err != nil {
		metrics.EvaluationRuns.WithLabelValues("failed").Inc()
		s.log.Error("Evaluation run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "evaluation run failed",
			"error":   err.Error(),
		})
		return
	}
	metrics.EvaluationRuns.WithLabelValues("ok").Inc()

	msg := "evaluation complete"
	if report.TotalAlerts == 0 {
		msg = "no active alerts to process"
	}

	c.JSON(http.StatusOK, runResponse{Message: msg, Report: *report})
}

type toggleRequest struct {
	UserID     int64  `json:"userId"     binding:"required"`
	ProductID  int64  `json:"productId"  binding:"required"`
	ArmedPrice string `json:"armedPrice"`
	Active     *bool  `json:"active"     binding:"required"`
}

// toggleHandler arms or disarms a single (user, product) alert. Arming
// requires the price to arm against; disarming only needs the pair.
func (s *Server) toggleHandler(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": err.Error()})
		return
	}
	if *req.Active && req.ArmedPrice == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "armedPrice is required when activating an alert"})
		return
	}

	alert, err := s.store.SetAlertState(c.Request.Context(), req.UserID, req.ProductID, *req.Active, req.ArmedPrice)
	if err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "no alert exists for this user and product"})
			return
		}
		s.log.Error("Failed to toggle alert", "user_id", req.UserID, "product_id", req.ProductID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update alert", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports readiness based on store connectivity.
func (s *Server) readyHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "store_not_ready", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
