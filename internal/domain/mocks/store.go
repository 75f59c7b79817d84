// Package mocks provides hand-written mock implementations of the port
// interfaces for testing.
package mocks

import (
	"context"
	"sort"

	"github.com/fableforge/fableforge/internal/domain/entities"
)

// Store is a mock implementation of ports.Store backed by maps. Setting
// Err makes every operation fail with it, simulating storage failures.
type Store struct {
	Entities map[string]*entities.Entity
	Types    map[string]*entities.EntityType
	Parents  map[string][]string // child ID -> parent IDs
	Err      error
}

// NewStore creates a new mock Store.
func NewStore() *Store {
	return &Store{
		Entities: make(map[string]*entities.Entity),
		Types:    make(map[string]*entities.EntityType),
		Parents:  make(map[string][]string),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *Store) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *Store) Close() error {
	return nil
}

// GetEntity finds an entity by ID. Returns nil if not found.
func (m *Store) GetEntity(_ context.Context, id string) (*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.Entities[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

// ListEntities lists all entities, optionally filtered by type.
func (m *Store) ListEntities(_ context.Context, typeID *string) ([]*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*entities.Entity, 0, len(m.Entities))
	for _, e := range m.Entities {
		if typeID != nil && e.TypeID != *typeID {
			continue
		}
		copied := *e
		result = append(result, &copied)
	}
	// Sort by ID for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// CreateEntity inserts an entity and its initial parent links.
func (m *Store) CreateEntity(_ context.Context, entity *entities.Entity, parentIDs []string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Types[entity.TypeID]; !ok {
		return &entities.NotFoundError{Resource: "entity type", ID: entity.TypeID}
	}
	for _, pid := range parentIDs {
		if _, ok := m.Entities[pid]; !ok {
			return &entities.NotFoundError{Resource: "entity", ID: pid}
		}
	}
	copied := *entity
	m.Entities[entity.ID] = &copied
	if len(parentIDs) > 0 {
		m.Parents[entity.ID] = append([]string(nil), parentIDs...)
	}
	return nil
}

// UpdateEntity persists an entity row, optionally replacing its parent set.
func (m *Store) UpdateEntity(_ context.Context, entity *entities.Entity, parentIDs []string, replaceParents bool) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Entities[entity.ID]; !ok {
		return &entities.NotFoundError{Resource: "entity", ID: entity.ID}
	}
	if replaceParents {
		for _, pid := range parentIDs {
			if _, ok := m.Entities[pid]; !ok {
				return &entities.NotFoundError{Resource: "entity", ID: pid}
			}
		}
		m.Parents[entity.ID] = append([]string(nil), parentIDs...)
	}
	copied := *entity
	m.Entities[entity.ID] = &copied
	return nil
}

// ListParents lists the entities linked as parents of the given entity.
func (m *Store) ListParents(_ context.Context, entityID string) ([]*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []*entities.Entity
	for _, pid := range m.Parents[entityID] {
		if e, ok := m.Entities[pid]; ok {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListChildren lists the entities linked as children of the given entity.
func (m *Store) ListChildren(_ context.Context, entityID string) ([]*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var childIDs []string
	for child, parents := range m.Parents {
		for _, pid := range parents {
			if pid == entityID {
				childIDs = append(childIDs, child)
			}
		}
	}
	sort.Strings(childIDs)
	var result []*entities.Entity
	for _, cid := range childIDs {
		if e, ok := m.Entities[cid]; ok {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

// GetEntityType finds an entity type by ID. Returns nil if not found.
func (m *Store) GetEntityType(_ context.Context, id string) (*entities.EntityType, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.Types[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

// GetEntityTypeByName finds an entity type by name. Returns nil if not found.
func (m *Store) GetEntityTypeByName(_ context.Context, name string) (*entities.EntityType, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Types {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

// ListEntityTypes lists all entity types.
func (m *Store) ListEntityTypes(_ context.Context) ([]entities.EntityType, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.EntityType, 0, len(m.Types))
	for _, t := range m.Types {
		result = append(result, *t)
	}
	// Sort by name for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// CreateEntityType inserts an entity type.
func (m *Store) CreateEntityType(_ context.Context, entityType *entities.EntityType) error {
	if m.Err != nil {
		return m.Err
	}
	for _, t := range m.Types {
		if t.Name == entityType.Name {
			return &entities.AlreadyExistsError{Resource: "entity type", Name: entityType.Name}
		}
	}
	copied := *entityType
	m.Types[entityType.ID] = &copied
	return nil
}

// UpdateEntityType persists an entity type row.
func (m *Store) UpdateEntityType(_ context.Context, entityType *entities.EntityType) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Types[entityType.ID]; !ok {
		return &entities.NotFoundError{Resource: "entity type", ID: entityType.ID}
	}
	for id, t := range m.Types {
		if id != entityType.ID && t.Name == entityType.Name {
			return &entities.AlreadyExistsError{Resource: "entity type", Name: entityType.Name}
		}
	}
	copied := *entityType
	m.Types[entityType.ID] = &copied
	return nil
}

// DeleteEntityType deletes an entity type.
func (m *Store) DeleteEntityType(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Types[id]; !ok {
		return &entities.NotFoundError{Resource: "entity type", ID: id}
	}
	for _, e := range m.Entities {
		if e.TypeID == id {
			return &entities.ConflictError{Message: "cannot delete entity type that has existing entities"}
		}
	}
	delete(m.Types, id)
	return nil
}

// CountEntitiesByType returns the number of entities referencing a type.
func (m *Store) CountEntitiesByType(_ context.Context, typeID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, e := range m.Entities {
		if e.TypeID == typeID {
			count++
		}
	}
	return count, nil
}
