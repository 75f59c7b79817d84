// Package ports defines interfaces for storage and external service
// communication.
package ports

import (
	"context"

	"github.com/fableforge/fableforge/internal/domain/entities"
)

// Store defines the interface for durable entity and entity type storage,
// including parent/child link resolution. Every mutating operation is one
// atomic transaction: implementations must never leave partial writes
// visible.
type Store interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Entity operations

	// GetEntity finds an entity by ID. Returns nil if not found.
	GetEntity(ctx context.Context, id string) (*entities.Entity, error)

	// ListEntities lists all entities, optionally filtered by type.
	ListEntities(ctx context.Context, typeID *string) ([]*entities.Entity, error)

	// CreateEntity inserts an entity and its initial parent links.
	// Fails with NotFoundError if the type or any parent does not exist.
	CreateEntity(ctx context.Context, entity *entities.Entity, parentIDs []string) error

	// UpdateEntity persists an entity row. When replaceParents is true the
	// full parent set is replaced with parentIDs (not an additive union).
	// Fails with NotFoundError if the entity or any new parent is absent.
	UpdateEntity(ctx context.Context, entity *entities.Entity, parentIDs []string, replaceParents bool) error

	// ListParents lists the entities linked as parents of the given entity.
	ListParents(ctx context.Context, entityID string) ([]*entities.Entity, error)

	// ListChildren lists the entities linked as children of the given entity.
	ListChildren(ctx context.Context, entityID string) ([]*entities.Entity, error)

	// Entity type operations

	// GetEntityType finds an entity type by ID. Returns nil if not found.
	GetEntityType(ctx context.Context, id string) (*entities.EntityType, error)

	// GetEntityTypeByName finds an entity type by name. Returns nil if not found.
	GetEntityTypeByName(ctx context.Context, name string) (*entities.EntityType, error)

	// ListEntityTypes lists all entity types.
	ListEntityTypes(ctx context.Context) ([]entities.EntityType, error)

	// CreateEntityType inserts an entity type. Fails with
	// AlreadyExistsError if the name is taken.
	CreateEntityType(ctx context.Context, entityType *entities.EntityType) error

	// UpdateEntityType persists an entity type row. Fails with
	// NotFoundError if absent, AlreadyExistsError on a rename collision.
	UpdateEntityType(ctx context.Context, entityType *entities.EntityType) error

	// DeleteEntityType deletes an entity type. Fails with NotFoundError if
	// absent and ConflictError while any entity still references it.
	DeleteEntityType(ctx context.Context, id string) error

	// CountEntitiesByType returns the number of entities referencing a type.
	CountEntitiesByType(ctx context.Context, typeID string) (int, error)
}
