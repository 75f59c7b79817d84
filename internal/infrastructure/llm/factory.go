// Package llm selects the generation provider from configuration.
package llm

import (
	"fmt"
	"strings"

	"github.com/fableforge/fableforge/internal/domain/ports"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
	"github.com/fableforge/fableforge/internal/infrastructure/llm/anthropic"
	"github.com/fableforge/fableforge/internal/infrastructure/llm/openai"
)

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(cfg config.LLMConfig) (ports.Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "anthropic":
		return anthropic.NewClient(cfg)
	case "openai":
		return openai.NewClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
