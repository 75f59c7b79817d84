package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTemplate_EntityOverrideWins(t *testing.T) {
	override := &GenerationTemplate{
		Fields:       []string{"mood"},
		SystemPrompt: "Only generate the mood.",
	}
	entity := &Entity{Name: "Eldrin", GenerationTemplate: override}

	got := ResolveTemplate(entity, "Character")

	assert.Equal(t, *override, got)
}

func TestResolveTemplate_BuiltinByTypeName(t *testing.T) {
	entity := &Entity{Name: "Eldrin"}

	got := ResolveTemplate(entity, "Character")

	assert.Equal(t, []string{"profession", "desires", "appearance", "personality"}, got.Fields)
	assert.Contains(t, got.SystemPrompt, "profession")
}

func TestResolveTemplate_UnknownTypeFallsBack(t *testing.T) {
	got := ResolveTemplate(&Entity{Name: "The Moot"}, "Festival")

	assert.Empty(t, got.Fields)
	assert.Equal(t, FallbackSystemPrompt, got.SystemPrompt)
}

func TestResolveTemplate_NilEntity(t *testing.T) {
	got := ResolveTemplate(nil, "Location")

	assert.Equal(t, []string{"purpose", "atmosphere", "notable_features", "history"}, got.Fields)
}

func TestMergeAttributes_Shallow(t *testing.T) {
	entity := &Entity{
		Attributes: map[string]any{
			"a":      1,
			"b":      1,
			"nested": map[string]any{"x": 1, "y": 2},
		},
	}

	entity.MergeAttributes(map[string]any{
		"a":      2,
		"nested": map[string]any{"x": 9},
	})

	assert.Equal(t, 2, entity.Attributes["a"])
	assert.Equal(t, 1, entity.Attributes["b"])
	// Nested structures are replaced wholesale, not deep-merged.
	assert.Equal(t, map[string]any{"x": 9}, entity.Attributes["nested"])
}

func TestMergeAttributes_NilMap(t *testing.T) {
	entity := &Entity{}

	entity.MergeAttributes(map[string]any{"a": 1})

	assert.Equal(t, map[string]any{"a": 1}, entity.Attributes)
}

func TestIsDefaultType(t *testing.T) {
	assert.True(t, IsDefaultType("Character"))
	assert.True(t, IsDefaultType("Area"))
	assert.False(t, IsDefaultType("character"))
	assert.False(t, IsDefaultType("Festival"))
}
