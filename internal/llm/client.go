// Package llm provides a provider-agnostic interface for asking a
// chat-completion model about market sentiment. Each provider sends the same
// two-message conversation — a financial-analyst system message plus the
// ticker prompt — and returns the first candidate reply verbatim.
package llm

import (
	"context"
	"fmt"
)

// Client is the interface for chat-completion providers.
// Both OpenAI and Anthropic implement this, allowing the service to fall
// back from one to the other.
//
// Go interface design tip: keep interfaces small. This has one real method —
// that's ideal. The bigger the interface, the harder it is to implement
// and mock. Go proverb: "The bigger the interface, the weaker the abstraction."
type Client interface {
	// AnalyzeSentiment returns the model's free-form sentiment commentary
	// for a ticker. The text is NOT parsed into a label here — callers get
	// the first candidate message exactly as the model produced it.
	AnalyzeSentiment(ctx context.Context, ticker string) (string, error)
	ProviderName() string
	ModelName() string
}

// Params are the fixed sampling parameters sent on every completion call.
type Params struct {
	Temperature float32
	MaxTokens   int
}

// systemPrompt establishes the persona for every conversation.
const systemPrompt = "You are a financial analyst."

// buildPrompt creates the user prompt for the LLM. The template is
// deterministic: same ticker in, same prompt out.
func buildPrompt(ticker string) string {
	return fmt.Sprintf(
		"Analyze current market sentiment for the stock ticker '%s' "+
			"based on general public opinion, recent news, and stock market trends. "+
			"Label the sentiment as 'Bullish', 'Bearish', or 'Neutral', and explain the rationale.",
		ticker,
	)
}
