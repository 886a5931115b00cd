package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/storage"
)

// StatsHandler exposes query-log statistics for cost monitoring.
type StatsHandler struct {
	queryRepo storage.QueryRepository
	logger    *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(queryRepo storage.QueryRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		queryRepo: queryRepo,
		logger:    logger,
	}
}

// Stats returns outbound call counts.
// Route: GET /api/v1/stats
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.queryRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	succeeded, err := h.queryRepo.CountBySuccess(ctx, true)
	if err != nil {
		h.logger.Error("counting successful queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	failed, err := h.queryRepo.CountBySuccess(ctx, false)
	if err != nil {
		h.logger.Error("counting failed queries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"succeeded": succeeded,
		"failed":    failed,
	})
}
