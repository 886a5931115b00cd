// Go HTTP testing: httptest.NewRecorder() captures the response without starting
// a real server. Combined with gin's test mode, this lets you test handlers
// in isolation — fast and without network I/O.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockAnalyzer implements SentimentAnalyzer for handler tests.
// It counts calls so tests can assert that invalid requests never reach
// the outbound path.
type mockAnalyzer struct {
	calls  int
	report *model.SentimentReport
	err    error
}

func (m *mockAnalyzer) Analyze(ctx context.Context, ticker string) (*model.SentimentReport, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	// Echo the ticker like the real service does.
	r := *m.report
	r.Ticker = ticker
	return &r, nil
}

func newTestRouter(analyzer SentimentAnalyzer) *gin.Engine {
	router := gin.New()
	h := NewSentimentHandler(analyzer, 5*time.Second, zap.NewNop())
	router.GET("/sentiment", h.GetSentiment)
	return router
}

func TestGetSentiment_EchoesTickerExactly(t *testing.T) {
	analyzer := &mockAnalyzer{
		report: &model.SentimentReport{
			Sentiment: model.SentimentUnknown,
			Reasoning: "some commentary",
		},
	}
	router := newTestRouter(analyzer)

	// Mixed case on purpose: the handler must not normalize the ticker.
	req := httptest.NewRequest("GET", "/sentiment?ticker=aApL", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if body["ticker"] != "aApL" {
		t.Errorf("expected ticker echoed as %q, got %q", "aApL", body["ticker"])
	}
}

func TestGetSentiment_MissingTicker(t *testing.T) {
	analyzer := &mockAnalyzer{
		report: &model.SentimentReport{Sentiment: model.SentimentUnknown},
	}
	router := newTestRouter(analyzer)

	req := httptest.NewRequest("GET", "/sentiment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	// The whole point of validating first: no outbound call happens.
	if analyzer.calls != 0 {
		t.Errorf("expected zero analyzer calls, got %d", analyzer.calls)
	}
}

func TestGetSentiment_BlankTicker(t *testing.T) {
	analyzer := &mockAnalyzer{
		report: &model.SentimentReport{Sentiment: model.SentimentUnknown},
	}
	router := newTestRouter(analyzer)

	req := httptest.NewRequest("GET", "/sentiment?ticker=%20%20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank ticker, got %d", w.Code)
	}
	if analyzer.calls != 0 {
		t.Errorf("expected zero analyzer calls, got %d", analyzer.calls)
	}
}

func TestGetSentiment_ReasoningIsVerbatim(t *testing.T) {
	reasoning := "Bullish outlook because earnings beat expectations.\nVolume is up."
	analyzer := &mockAnalyzer{
		report: &model.SentimentReport{
			Sentiment: model.SentimentUnknown,
			Reasoning: reasoning,
		},
	}
	router := newTestRouter(analyzer)

	req := httptest.NewRequest("GET", "/sentiment?ticker=MSFT", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if body["reasoning"] != reasoning {
		t.Errorf("expected verbatim reasoning %q, got %q", reasoning, body["reasoning"])
	}
}

func TestGetSentiment_UpstreamFailure(t *testing.T) {
	analyzer := &mockAnalyzer{err: errors.New("connection refused")}
	router := newTestRouter(analyzer)

	req := httptest.NewRequest("GET", "/sentiment?ticker=AAPL", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}

	// The error body must not leak a partial reasoning field.
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if _, ok := body["reasoning"]; ok {
		t.Error("error response must not contain a reasoning field")
	}
	if _, ok := body["error"]; !ok {
		t.Error("error response should contain an error field")
	}
}
