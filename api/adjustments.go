package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/healthymeal/backend/adjustment"
	"github.com/healthymeal/backend/errors"
	"github.com/healthymeal/backend/logger"
	"github.com/healthymeal/backend/server"
)

// AdjustmentService is the orchestrator surface the handlers need.
type AdjustmentService interface {
	Start(ctx context.Context, userID, recipeID string, cmd adjustment.StartCommand) (*adjustment.Result, error)
}

// AdjustmentHandler serves the AI adjustment endpoints.
type AdjustmentHandler struct {
	svc  AdjustmentService
	jobs adjustment.Store
	log  *logger.Logger
}

// NewAdjustmentHandler wires the adjustment endpoints.
func NewAdjustmentHandler(svc AdjustmentService, jobs adjustment.Store, log *logger.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{svc: svc, jobs: jobs, log: log.WithComponent("api")}
}

// Start handles POST /api/recipes/:id/ai-adjustments. The adjustment runs
// synchronously; the response carries the completed job and the adjusted
// recipe.
func (h *AdjustmentHandler) Start(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var cmd adjustment.StartCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", "request body must be valid JSON"))
		return
	}

	result, err := h.svc.Start(c.Request.Context(), userID, c.Param("id"), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	server.RespondOK(c, result)
}

// GetJob handles GET /api/recipes/:id/ai-adjustments/:jobId.
func (h *AdjustmentHandler) GetJob(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), userID, c.Param("jobId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if job.OriginalRecipeID != c.Param("id") {
		respondError(c, errors.NotFound("adjustment job", c.Param("jobId")))
		return
	}

	server.RespondOK(c, job)
}
