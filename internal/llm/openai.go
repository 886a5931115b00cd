package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the Client interface using OpenAI's chat
// completion API. This is the primary provider.
type OpenAIClient struct {
	client *openai.Client
	model  string
	params Params
}

// NewOpenAIClient creates a new OpenAI-powered sentiment analyst.
// The API key is injected here rather than read from the environment —
// tests construct clients with fake credentials.
func NewOpenAIClient(apiKey string, model string, params Params) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		params: params,
	}
}

func (o *OpenAIClient) ProviderName() string { return "openai" }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) AnalyzeSentiment(ctx context.Context, ticker string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(ticker),
			},
		},
		Temperature: o.params.Temperature,
		MaxTokens:   o.params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}

	// The API returns a list of candidate completions — we take the first.
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices for %s", ticker)
	}

	return resp.Choices[0].Message.Content, nil
}
