// Package anthropic provides a Generator implementation using the
// Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/fableforge/fableforge/internal/domain/ports"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
	"github.com/fableforge/fableforge/internal/infrastructure/llm/prompt"
)

const (
	defaultModel = "claude-3-5-sonnet-20241022"
	maxTokens    = 1024
)

// Client implements the Generator interface using Anthropic.
type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient creates a new Anthropic generation client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	model := defaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: anthropic.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// GenerateFields asks the model to produce values for the template's fields.
func (c *Client) GenerateFields(ctx context.Context, req ports.GenerationRequest) (map[string]any, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: req.Template.SystemPrompt,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt.BuildContext(req)),
				},
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("calling Anthropic: %w", err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return nil, errors.New("no response content from Anthropic")
	}

	return prompt.ParseFieldMap(*resp.Content[0].Text)
}
