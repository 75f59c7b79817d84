package entities

import "time"

// Entity represents a named, typed record in a world (a character, an area,
// a location, ...) with an open attribute map and optional parent/child
// links to other entities. Links form a general directed graph: an entity
// can have multiple parents and multiple children, and cycles are not
// prevented.
type Entity struct {
	ID                 string              `json:"id"`
	TypeID             string              `json:"type_id"`
	Name               string              `json:"name"`
	Description        *string             `json:"description,omitempty"`
	Attributes         map[string]any      `json:"attributes"`
	GenerationTemplate *GenerationTemplate `json:"generation_template,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// MergeAttributes applies a shallow merge: top-level keys present in updates
// overwrite the entity's existing keys, all other keys are preserved. Nested
// structures are replaced wholesale, never deep-merged.
func (e *Entity) MergeAttributes(updates map[string]any) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]any, len(updates))
	}
	for k, v := range updates {
		e.Attributes[k] = v
	}
}
