package mocks

import (
	"context"

	"github.com/fableforge/fableforge/internal/domain/ports"
)

// Generator is a mock implementation of ports.Generator.
type Generator struct {
	Fields   map[string]any
	Err      error
	Requests []ports.GenerationRequest
}

// GenerateFields records the request and returns the configured fields or
// error.
func (m *Generator) GenerateFields(_ context.Context, req ports.GenerationRequest) (map[string]any, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fields, nil
}
