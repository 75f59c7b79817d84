package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/ports"
)

// EntityTypeService manages entity types.
type EntityTypeService struct {
	store ports.Store
}

// NewEntityTypeService creates a new EntityTypeService.
func NewEntityTypeService(store ports.Store) *EntityTypeService {
	return &EntityTypeService{store: store}
}

// SeedDefaults inserts the built-in entity types that are not yet present.
func (s *EntityTypeService) SeedDefaults(ctx context.Context) error {
	existing, err := s.store.ListEntityTypes(ctx)
	if err != nil {
		return fmt.Errorf("listing entity types: %w", err)
	}

	existingSet := make(map[string]bool, len(existing))
	for _, et := range existing {
		existingSet[et.Name] = true
	}

	for _, et := range entities.DefaultEntityTypes {
		if existingSet[et.Name] {
			continue
		}
		seeded := et
		seeded.ID = uuid.New().String()
		seeded.CreatedAt = timeNow().UTC()
		if err := s.store.CreateEntityType(ctx, &seeded); err != nil {
			return fmt.Errorf("seeding entity type %s: %w", et.Name, err)
		}
	}
	return nil
}

// Create creates a new entity type. Fails with AlreadyExistsError if the
// name is taken.
func (s *EntityTypeService) Create(ctx context.Context, name string, defaultFields []string) (*entities.EntityType, error) {
	existing, err := s.store.GetEntityTypeByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking entity type: %w", err)
	}
	if existing != nil {
		return nil, &entities.AlreadyExistsError{Resource: "entity type", Name: name}
	}

	if defaultFields == nil {
		defaultFields = []string{}
	}
	entityType := &entities.EntityType{
		ID:            uuid.New().String(),
		Name:          name,
		DefaultFields: defaultFields,
		CreatedAt:     timeNow().UTC(),
	}
	if err := s.store.CreateEntityType(ctx, entityType); err != nil {
		return nil, err
	}
	return entityType, nil
}

// UpdateEntityTypeParams holds the optional fields for a partial entity
// type update.
type UpdateEntityTypeParams struct {
	Name          *string
	DefaultFields *[]string
}

// Update applies a partial update. Fails with NotFoundError if the type is
// absent.
func (s *EntityTypeService) Update(ctx context.Context, id string, p UpdateEntityTypeParams) (*entities.EntityType, error) {
	entityType, err := s.store.GetEntityType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading entity type: %w", err)
	}
	if entityType == nil {
		return nil, &entities.NotFoundError{Resource: "entity type", ID: id}
	}

	if p.Name != nil {
		entityType.Name = *p.Name
	}
	if p.DefaultFields != nil {
		entityType.DefaultFields = *p.DefaultFields
	}

	if err := s.store.UpdateEntityType(ctx, entityType); err != nil {
		return nil, err
	}
	return entityType, nil
}

// Delete removes an entity type. Fails with NotFoundError if absent and
// ConflictError while any entity still references it.
func (s *EntityTypeService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteEntityType(ctx, id)
}

// Get finds an entity type by ID. Returns nil if not found.
func (s *EntityTypeService) Get(ctx context.Context, id string) (*entities.EntityType, error) {
	return s.store.GetEntityType(ctx, id)
}

// List returns all entity types.
func (s *EntityTypeService) List(ctx context.Context) ([]entities.EntityType, error) {
	return s.store.ListEntityTypes(ctx)
}
