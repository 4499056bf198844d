package captions

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a creative social media caption generator. " +
	"Generate engaging, Instagram-style captions that are positive, relatable, and include relevant emojis. " +
	"Keep captions under 200 characters."

// Completer turns an image description into a caption.
// Implementations may fail; Generator absorbs the failure.
type Completer interface {
	Complete(ctx context.Context, description string) (string, error)
}

// OpenAICompleter calls the chat completions API
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer for the given key.
// baseURL overrides the API endpoint (empty for the default); model defaults
// to gpt-3.5-turbo.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete requests a single caption
func (c *OpenAICompleter) Complete(ctx context.Context, description string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Generate a creative Instagram caption for: " + description},
		},
		MaxTokens:   100,
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
