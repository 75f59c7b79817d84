package entities

import "time"

// EntityType is a named category of entities. DefaultFields is a seed list
// of field names entities of this type are expected to carry; it is a
// template, not a constraint enforced at the database level.
type EntityType struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DefaultFields []string  `json:"default_fields"`
	CreatedAt     time.Time `json:"created_at"`
}
