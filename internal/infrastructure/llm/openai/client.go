// Package openai provides a Generator implementation using OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/fableforge/fableforge/internal/domain/ports"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
	"github.com/fableforge/fableforge/internal/infrastructure/llm/prompt"
)

const defaultModel = "gpt-4o-mini"

// Client implements the Generator interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI generation client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := defaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// GenerateFields asks the model to produce values for the template's fields.
func (c *Client) GenerateFields(ctx context.Context, req ports.GenerationRequest) (map[string]any, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.Template.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.BuildContext(req),
			},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	return prompt.ParseFieldMap(resp.Choices[0].Message.Content)
}
