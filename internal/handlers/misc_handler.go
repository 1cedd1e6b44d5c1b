package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthkonnect/healthkonnect-api/internal/services"
)

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.StartedAt).Round(time.Second).String(),
	})
}

type SymptomAnalysisRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

// AnalyzeSymptoms runs the rule-based symptom-to-recommendation mock.
func (h *Handler) AnalyzeSymptoms(c *gin.Context) {
	var req SymptomAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondData(c, http.StatusOK, services.AnalyzeSymptoms(req.Symptoms))
}
