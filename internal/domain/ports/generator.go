package ports

import (
	"context"

	"github.com/fableforge/fableforge/internal/domain/entities"
)

// GenerationRequest carries the entity context sent to the model.
type GenerationRequest struct {
	EntityType  string
	Name        string
	Description string
	Attributes  map[string]any
	Template    entities.GenerationTemplate
}

// Generator defines the interface for AI-assisted field generation. The
// call is network-bound and may be slow; callers bound it with a context
// deadline and must not hold a database transaction across it.
type Generator interface {
	// GenerateFields asks the model to produce values for the template's
	// fields. Fails with entities.GenerationError when the response cannot
	// be parsed as a field mapping.
	GenerateFields(ctx context.Context, req GenerationRequest) (map[string]any, error)
}
