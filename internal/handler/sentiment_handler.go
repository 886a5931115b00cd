package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/model"
)

// SentimentAnalyzer is what the handler needs from the service layer.
// Declaring the interface where it's consumed (not where it's implemented)
// is idiomatic Go — tests hand the handler a tiny mock.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, ticker string) (*model.SentimentReport, error)
}

// SentimentHandler handles sentiment query requests.
type SentimentHandler struct {
	analyzer SentimentAnalyzer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSentimentHandler creates a new SentimentHandler.
// timeout bounds the outbound LLM call per request.
func NewSentimentHandler(analyzer SentimentAnalyzer, timeout time.Duration, logger *zap.Logger) *SentimentHandler {
	return &SentimentHandler{
		analyzer: analyzer,
		timeout:  timeout,
		logger:   logger,
	}
}

// GetSentiment answers a market sentiment query for one ticker.
// Route: GET /sentiment?ticker=AAPL
//
// The ticker is echoed back exactly as received — no trimming, no upcasing.
// A blank ticker is rejected before any outbound call is made. The sentiment
// field is currently always "Unknown"; the model's reply is returned verbatim
// in the reasoning field.
func (h *SentimentHandler) GetSentiment(c *gin.Context) {
	ticker := c.Query("ticker")
	if strings.TrimSpace(ticker) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing required query parameter: ticker",
		})
		return
	}

	// Derive a deadline from the request context so a cancelled client
	// connection also cancels the upstream call.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	report, err := h.analyzer.Analyze(ctx, ticker)
	if err != nil {
		h.logger.Warn("sentiment query failed",
			zap.String("ticker", ticker),
			zap.Error(err),
		)
		// 502: the failure is upstream, not in this service. The body
		// carries only an error — never partial reasoning.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "sentiment provider unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
