// Package model defines the core data types for the sentiment service.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import "time"

// SentimentLabel is the categorical market judgment for a ticker.
// Go doesn't have enums — we use typed constants with explicit values.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"

	// SentimentUnknown is what the API currently returns for every request.
	// The prompt asks the model to label the sentiment, but the reply is
	// passed through as free-form reasoning and never parsed into a label.
	// TODO: derive the label from the model reply once we settle on a
	// structured output format (tool call or JSON mode) with the providers.
	SentimentUnknown SentimentLabel = "Unknown"
)

// SentimentReport is the response body for GET /sentiment.
// Ticker is echoed back exactly as received — no normalization.
type SentimentReport struct {
	Ticker    string         `json:"ticker"`
	Sentiment SentimentLabel `json:"sentiment"`
	Reasoning string         `json:"reasoning"`
}

// QueryRecord tracks each outbound LLM call for cost monitoring.
// Each field has a `db:` tag for sqlx row scanning and a `json:` tag for
// the stats endpoint and CLI output.
type QueryRecord struct {
	ID           int64     `db:"id" json:"id"`
	Ticker       string    `db:"ticker" json:"ticker"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	Success      bool      `db:"success" json:"success"`
	DurationMs   *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
