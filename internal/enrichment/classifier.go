package enrichment

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Classifier is the single blocking call into the external
// text-classification service. Everything the rest of the system knows
// about response shapes lives in parse.go.
type Classifier interface {
	Classify(ctx context.Context, systemPrompt, userText string) (string, error)
}

// OpenAIClassifier implements Classifier against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier creates a classifier. baseURL may be empty to use the
// public OpenAI endpoint.
func NewOpenAIClassifier(apiKey, baseURL, model string) *OpenAIClassifier {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// Classify sends one system prompt plus the user text and returns the raw
// completion text.
func (c *OpenAIClassifier) Classify(ctx context.Context, systemPrompt, userText string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userText,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
