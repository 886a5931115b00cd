package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements the Client interface using Claude.
// Used as a fallback when OpenAI is unavailable (or first, if the
// configured provider order says so).
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	params Params
}

// NewAnthropicClient creates a new Claude-powered sentiment analyst.
func NewAnthropicClient(apiKey string, model string, params Params) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
		params: params,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) AnalyzeSentiment(ctx context.Context, ticker string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.params.MaxTokens),
		// Anthropic takes the system prompt as a top-level field, not as a
		// message in the conversation like OpenAI does.
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(ticker))),
		},
		Temperature: anthropic.Float(float64(a.params.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	// The reply comes back as content blocks — take the first text block.
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}

	return "", fmt.Errorf("anthropic returned no text content for %s", ticker)
}
