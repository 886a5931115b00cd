package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/model"
)

// testRate is high enough that the limiter never blocks a test.
const testRate = 6000 // per minute

// fakeClient is a hand-rolled llm.Client. Each call either returns the
// canned reply or the canned error.
type fakeClient struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeClient) AnalyzeSentiment(ctx context.Context, ticker string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeClient) ProviderName() string { return f.name }
func (f *fakeClient) ModelName() string    { return f.name + "-test-model" }

// memoryQueryRepo collects records in a slice — no database needed for
// service-level tests.
type memoryQueryRepo struct {
	records []model.QueryRecord
}

func (m *memoryQueryRepo) Create(ctx context.Context, record *model.QueryRecord) error {
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryQueryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

func (m *memoryQueryRepo) CountBySuccess(ctx context.Context, success bool) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.Success == success {
			n++
		}
	}
	return n, nil
}

func (m *memoryQueryRepo) ListRecent(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	return m.records, nil
}

func TestAnalyze_Success(t *testing.T) {
	reply := "Investors remain optimistic due to strong earnings."
	client := &fakeClient{name: "openai", reply: reply}
	repo := &memoryQueryRepo{}
	svc := NewSentimentService([]llm.Client{client}, testRate, repo, zap.NewNop())

	report, err := svc.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("analyzing: %v", err)
	}

	if report.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %q", report.Ticker)
	}
	if report.Reasoning != reply {
		t.Errorf("expected verbatim reasoning %q, got %q", reply, report.Reasoning)
	}
	if report.Sentiment != model.SentimentUnknown {
		t.Errorf("expected placeholder sentiment %q, got %q", model.SentimentUnknown, report.Sentiment)
	}
}

// The sentiment label is a placeholder, full stop. Even if the model reply
// names a label, the service must not parse it out — this pins the current
// behavior so completing the classification is a deliberate change, not an
// accident.
func TestAnalyze_SentimentStaysPlaceholderDespiteLabelInReply(t *testing.T) {
	client := &fakeClient{name: "openai", reply: "Bearish. Weak guidance and heavy insider selling."}
	repo := &memoryQueryRepo{}
	svc := NewSentimentService([]llm.Client{client}, testRate, repo, zap.NewNop())

	report, err := svc.Analyze(context.Background(), "XYZ")
	if err != nil {
		t.Fatalf("analyzing: %v", err)
	}

	if report.Sentiment != model.SentimentUnknown {
		t.Errorf("expected %q even though reply says Bearish, got %q",
			model.SentimentUnknown, report.Sentiment)
	}
	if !strings.Contains(report.Reasoning, "Bearish") {
		t.Errorf("reasoning should still carry the reply verbatim, got %q", report.Reasoning)
	}
}

func TestAnalyze_RecordsSuccessfulCall(t *testing.T) {
	client := &fakeClient{name: "openai", reply: "Neutral overall."}
	repo := &memoryQueryRepo{}
	svc := NewSentimentService([]llm.Client{client}, testRate, repo, zap.NewNop())

	if _, err := svc.Analyze(context.Background(), "TSLA"); err != nil {
		t.Fatalf("analyzing: %v", err)
	}

	if len(repo.records) != 1 {
		t.Fatalf("expected 1 query record, got %d", len(repo.records))
	}
	rec := repo.records[0]
	if rec.Ticker != "TSLA" || rec.Provider != "openai" || !rec.Success {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.DurationMs == nil {
		t.Error("expected duration to be recorded")
	}
}

func TestAnalyze_FallsBackToSecondProvider(t *testing.T) {
	primary := &fakeClient{name: "openai", err: errors.New("rate limited")}
	fallback := &fakeClient{name: "anthropic", reply: "Neutral, range-bound trading."}
	repo := &memoryQueryRepo{}
	svc := NewSentimentService([]llm.Client{primary, fallback}, testRate, repo, zap.NewNop())

	report, err := svc.Analyze(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("analyzing: %v", err)
	}

	if report.Reasoning != fallback.reply {
		t.Errorf("expected fallback reply, got %q", report.Reasoning)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("expected both providers called once, got %d and %d", primary.calls, fallback.calls)
	}

	// Both attempts land in the log: one failure, one success.
	if len(repo.records) != 2 {
		t.Fatalf("expected 2 query records, got %d", len(repo.records))
	}
	if repo.records[0].Success || !repo.records[1].Success {
		t.Errorf("expected failure then success, got %+v", repo.records)
	}
	if repo.records[0].ErrorMessage == nil {
		t.Error("failed record should carry the error message")
	}
}

func TestAnalyze_AllProvidersFail(t *testing.T) {
	a := &fakeClient{name: "openai", err: errors.New("boom")}
	b := &fakeClient{name: "anthropic", err: errors.New("also boom")}
	repo := &memoryQueryRepo{}
	svc := NewSentimentService([]llm.Client{a, b}, testRate, repo, zap.NewNop())

	_, err := svc.Analyze(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if len(repo.records) != 2 {
		t.Errorf("expected both failures recorded, got %d records", len(repo.records))
	}
}

func TestAnalyze_NoProvidersConfigured(t *testing.T) {
	repo := &memoryQueryRepo{}
	svc := NewSentimentService(nil, testRate, repo, zap.NewNop())

	if _, err := svc.Analyze(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error with no providers configured")
	}
	if len(repo.records) != 0 {
		t.Errorf("expected no records, got %d", len(repo.records))
	}
}
