// Package services contains the application logic combining storage and
// generation.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// EntityService manages entity operations: creation, partial updates,
// relationship management and AI-assisted field generation.
type EntityService struct {
	store      ports.Store
	generator  ports.Generator
	genTimeout time.Duration
}

// NewEntityService creates a new EntityService. genTimeout bounds each
// generation call; zero disables the bound.
func NewEntityService(store ports.Store, generator ports.Generator, genTimeout time.Duration) *EntityService {
	return &EntityService{
		store:      store,
		generator:  generator,
		genTimeout: genTimeout,
	}
}

// CreateEntityParams holds the fields for entity creation.
type CreateEntityParams struct {
	Name               string
	TypeID             string
	Description        *string
	Attributes         map[string]any
	GenerationTemplate *entities.GenerationTemplate
	ParentIDs          []string
}

// Create validates the entity type, persists a new entity and attaches the
// initial parent links. Fails with NotFoundError if the type is missing.
func (s *EntityService) Create(ctx context.Context, p CreateEntityParams) (*entities.Entity, error) {
	entityType, err := s.store.GetEntityType(ctx, p.TypeID)
	if err != nil {
		return nil, fmt.Errorf("checking entity type: %w", err)
	}
	if entityType == nil {
		return nil, &entities.NotFoundError{Resource: "entity type", ID: p.TypeID}
	}

	now := timeNow().UTC()
	entity := &entities.Entity{
		ID:                 uuid.New().String(),
		TypeID:             p.TypeID,
		Name:               p.Name,
		Description:        p.Description,
		Attributes:         p.Attributes,
		GenerationTemplate: p.GenerationTemplate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if entity.Attributes == nil {
		entity.Attributes = map[string]any{}
	}

	if err := s.store.CreateEntity(ctx, entity, p.ParentIDs); err != nil {
		return nil, err
	}
	return entity, nil
}

// UpdateEntityParams holds the optional fields for a partial entity update.
// Attributes, when set, is shallow-merged into the entity's existing map.
// ParentIDs, when set, replaces the full parent set.
type UpdateEntityParams struct {
	Name               *string
	Description        *string
	Attributes         map[string]any
	GenerationTemplate *entities.GenerationTemplate
	ParentIDs          *[]string
}

// Update applies a partial update and stamps UpdatedAt, even when no field
// is provided. Fails with NotFoundError if the entity is absent.
func (s *EntityService) Update(ctx context.Context, id string, p UpdateEntityParams) (*entities.Entity, error) {
	entity, err := s.store.GetEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading entity: %w", err)
	}
	if entity == nil {
		return nil, &entities.NotFoundError{Resource: "entity", ID: id}
	}

	if p.Name != nil {
		entity.Name = *p.Name
	}
	if p.Description != nil {
		entity.Description = p.Description
	}
	if p.Attributes != nil {
		entity.MergeAttributes(p.Attributes)
	}
	if p.GenerationTemplate != nil {
		entity.GenerationTemplate = p.GenerationTemplate
	}
	entity.UpdatedAt = timeNow().UTC()

	var parentIDs []string
	replaceParents := false
	if p.ParentIDs != nil {
		parentIDs = *p.ParentIDs
		replaceParents = true
	}

	if err := s.store.UpdateEntity(ctx, entity, parentIDs, replaceParents); err != nil {
		return nil, err
	}
	return entity, nil
}

// GenerateAndUpdate asks the generation client to fill in the entity's
// template fields and shallow-merges the result into its attributes, with
// generated values winning over existing keys. No transaction is held
// across the model call; the merge is persisted only after the full result
// parses, so either all generated fields apply or none do.
func (s *EntityService) GenerateAndUpdate(ctx context.Context, id string) (*entities.Entity, error) {
	entity, err := s.store.GetEntity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading entity: %w", err)
	}
	if entity == nil {
		return nil, &entities.NotFoundError{Resource: "entity", ID: id}
	}

	entityType, err := s.store.GetEntityType(ctx, entity.TypeID)
	if err != nil {
		return nil, fmt.Errorf("loading entity type: %w", err)
	}
	if entityType == nil {
		return nil, &entities.NotFoundError{Resource: "entity type", ID: entity.TypeID}
	}

	req := ports.GenerationRequest{
		EntityType: entityType.Name,
		Name:       entity.Name,
		Attributes: entity.Attributes,
		Template:   entities.ResolveTemplate(entity, entityType.Name),
	}
	if entity.Description != nil {
		req.Description = *entity.Description
	}

	genCtx := ctx
	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}

	fields, err := s.generator.GenerateFields(genCtx, req)
	if err != nil {
		var genErr *entities.GenerationError
		if errors.As(err, &genErr) {
			return nil, err
		}
		return nil, &entities.GenerationError{Message: "generation call failed", Err: err}
	}

	entity.MergeAttributes(fields)
	entity.UpdatedAt = timeNow().UTC()

	if err := s.store.UpdateEntity(ctx, entity, nil, false); err != nil {
		return nil, err
	}
	return entity, nil
}

// Get finds an entity by ID. Returns nil if not found.
func (s *EntityService) Get(ctx context.Context, id string) (*entities.Entity, error) {
	return s.store.GetEntity(ctx, id)
}

// List returns all entities, optionally filtered by type.
func (s *EntityService) List(ctx context.Context, typeID *string) ([]*entities.Entity, error) {
	return s.store.ListEntities(ctx, typeID)
}

// Parents returns the entities linked as parents of the given entity.
func (s *EntityService) Parents(ctx context.Context, id string) ([]*entities.Entity, error) {
	return s.store.ListParents(ctx, id)
}

// Children returns the entities linked as children of the given entity.
func (s *EntityService) Children(ctx context.Context, id string) ([]*entities.Entity, error) {
	return s.store.ListChildren(ctx, id)
}
