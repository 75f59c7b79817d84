package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/ports"
)

func TestBuildContext(t *testing.T) {
	req := ports.GenerationRequest{
		EntityType:  "Character",
		Name:        "Eldrin the Wise",
		Description: "an ancient sage",
		Attributes:  map[string]any{"age": 900},
		Template: entities.GenerationTemplate{
			Fields: []string{"profession", "personality"},
		},
	}

	got := BuildContext(req)

	assert.Contains(t, got, "Entity Type: Character")
	assert.Contains(t, got, "Entity Name: Eldrin the Wise")
	assert.Contains(t, got, "Description: an ancient sage")
	assert.Contains(t, got, `"age":900`)
	assert.Contains(t, got, "Fields to generate: profession, personality")
}

func TestBuildContext_Empty(t *testing.T) {
	got := BuildContext(ports.GenerationRequest{EntityType: "Character", Name: "Eldrin"})

	assert.Contains(t, got, "Description: Not provided")
	assert.Contains(t, got, "Current Attributes: None")
	assert.NotContains(t, got, "Fields to generate")
}

func TestParseFieldMap(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		fields, err := ParseFieldMap(`{"profession": "sage", "personality": "calm"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"profession": "sage", "personality": "calm"}, fields)
	})

	t.Run("markdown fences stripped", func(t *testing.T) {
		fields, err := ParseFieldMap("```json\n{\"profession\": \"sage\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "sage", fields["profession"])
	})

	t.Run("bare fences stripped", func(t *testing.T) {
		fields, err := ParseFieldMap("```\n{\"profession\": \"sage\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "sage", fields["profession"])
	})

	t.Run("non-object fails with GenerationError", func(t *testing.T) {
		_, err := ParseFieldMap("I cannot help with that.")

		var genErr *entities.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Contains(t, genErr.Message, "I cannot help with that.")
	})

	t.Run("array fails with GenerationError", func(t *testing.T) {
		_, err := ParseFieldMap(`["sage", "calm"]`)

		var genErr *entities.GenerationError
		require.ErrorAs(t, err, &genErr)
	})
}
