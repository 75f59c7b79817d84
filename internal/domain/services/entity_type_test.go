package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/mocks"
)

func TestEntityTypeService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := NewEntityTypeService(store)

	require.NoError(t, svc.SeedDefaults(ctx))

	types, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(entities.DefaultEntityTypes))

	// Seeding again inserts nothing new.
	require.NoError(t, svc.SeedDefaults(ctx))
	types, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(entities.DefaultEntityTypes))
}

func TestEntityTypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)

		created, err := svc.Create(ctx, "Faction", []string{"banner", "leader"})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Faction", created.Name)
		assert.Equal(t, []string{"banner", "leader"}, created.DefaultFields)
	})

	t.Run("nil fields become empty list", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)

		created, err := svc.Create(ctx, "Faction", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{}, created.DefaultFields)
	})

	t.Run("duplicate name fails with AlreadyExists and creates no row", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)

		_, err := svc.Create(ctx, "Faction", nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, "Faction", []string{"banner"})

		var exists *entities.AlreadyExistsError
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, "Faction", exists.Name)

		types, listErr := svc.List(ctx)
		require.NoError(t, listErr)
		assert.Len(t, types, 1)
	})
}

func TestEntityTypeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)
		created, err := svc.Create(ctx, "Faction", []string{"banner"})
		require.NoError(t, err)

		fields := []string{"banner", "leader"}
		updated, err := svc.Update(ctx, created.ID, UpdateEntityTypeParams{DefaultFields: &fields})
		require.NoError(t, err)

		assert.Equal(t, "Faction", updated.Name)
		assert.Equal(t, fields, updated.DefaultFields)
	})

	t.Run("missing id fails with NotFound", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)

		_, err := svc.Update(ctx, "ghost", UpdateEntityTypeParams{})

		var notFound *entities.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestEntityTypeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)
		created, err := svc.Create(ctx, "Faction", nil)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing id fails with NotFound", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)

		err := svc.Delete(ctx, "ghost")

		var notFound *entities.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("referenced type fails with Conflict and keeps the row", func(t *testing.T) {
		store := mocks.NewStore()
		svc := NewEntityTypeService(store)
		created, err := svc.Create(ctx, "Faction", nil)
		require.NoError(t, err)

		store.Entities["e1"] = &entities.Entity{
			ID:        "e1",
			TypeID:    created.ID,
			Name:      "The Iron Banner",
			CreatedAt: time.Now().UTC(),
		}

		err = svc.Delete(ctx, created.ID)

		var conflict *entities.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, conflict.Message, "existing entities")

		got, getErr := svc.Get(ctx, created.ID)
		require.NoError(t, getErr)
		assert.NotNil(t, got)
	})
}
