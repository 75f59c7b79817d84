// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
)

// Repository implements ports.Store using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Entity types (named categories with default field lists)
	CREATE TABLE IF NOT EXISTS entity_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		default_fields TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	);

	-- Entities (typed records with open JSON attributes)
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		type_id TEXT NOT NULL REFERENCES entity_types(id),
		name TEXT NOT NULL,
		description TEXT,
		attributes TEXT NOT NULL DEFAULT '{}',
		generation_template TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type_id);

	-- Parent/child links (directed graph, many-to-many)
	CREATE TABLE IF NOT EXISTS entity_links (
		parent_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		child_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		PRIMARY KEY (parent_id, child_id)
	);
	CREATE INDEX IF NOT EXISTS idx_entity_links_child ON entity_links(child_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error exit path.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const entityColumns = "id, type_id, name, description, attributes, generation_template, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*entities.Entity, error) {
	var (
		entity       entities.Entity
		description  sql.NullString
		attributes   string
		templateJSON sql.NullString
	)
	err := row.Scan(
		&entity.ID,
		&entity.TypeID,
		&entity.Name,
		&description,
		&attributes,
		&templateJSON,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		entity.Description = &description.String
	}
	if err := json.Unmarshal([]byte(attributes), &entity.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshaling attributes: %w", err)
	}
	if templateJSON.Valid && templateJSON.String != "" {
		var tmpl entities.GenerationTemplate
		if err := json.Unmarshal([]byte(templateJSON.String), &tmpl); err != nil {
			return nil, fmt.Errorf("unmarshaling generation template: %w", err)
		}
		entity.GenerationTemplate = &tmpl
	}
	return &entity, nil
}

func entityArgs(entity *entities.Entity) (description sql.NullString, attributes string, templateJSON sql.NullString, err error) {
	if entity.Description != nil {
		description = sql.NullString{String: *entity.Description, Valid: true}
	}

	attrs := entity.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return description, "", templateJSON, fmt.Errorf("marshaling attributes: %w", err)
	}
	attributes = string(data)

	if entity.GenerationTemplate != nil {
		data, err := json.Marshal(entity.GenerationTemplate)
		if err != nil {
			return description, attributes, templateJSON, fmt.Errorf("marshaling generation template: %w", err)
		}
		templateJSON = sql.NullString{String: string(data), Valid: true}
	}
	return description, attributes, templateJSON, nil
}

// GetEntity finds an entity by ID. Returns nil if not found.
func (r *Repository) GetEntity(ctx context.Context, id string) (*entities.Entity, error) {
	query := "SELECT " + entityColumns + " FROM entities WHERE id = ?"
	entity, err := scanEntity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding entity: %w", err)
	}
	return entity, nil
}

// ListEntities lists all entities, optionally filtered by type, in
// insertion order.
func (r *Repository) ListEntities(ctx context.Context, typeID *string) ([]*entities.Entity, error) {
	query := "SELECT " + entityColumns + " FROM entities"
	var args []any
	if typeID != nil {
		query += " WHERE type_id = ?"
		args = append(args, *typeID)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var result []*entities.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return result, nil
}

func entityExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM entities WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking entity: %w", err)
	}
	return true, nil
}

func insertLinksTx(ctx context.Context, tx *sql.Tx, childID string, parentIDs []string) error {
	for _, parentID := range parentIDs {
		exists, err := entityExistsTx(ctx, tx, parentID)
		if err != nil {
			return err
		}
		if !exists {
			return &entities.NotFoundError{Resource: "entity", ID: parentID}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO entity_links (parent_id, child_id) VALUES (?, ?)",
			parentID, childID,
		)
		if err != nil {
			return fmt.Errorf("linking parent: %w", err)
		}
	}
	return nil
}

// CreateEntity inserts an entity and its initial parent links in one
// transaction.
func (r *Repository) CreateEntity(ctx context.Context, entity *entities.Entity, parentIDs []string) error {
	description, attributes, templateJSON, err := entityArgs(entity)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM entity_types WHERE id = ?", entity.TypeID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return &entities.NotFoundError{Resource: "entity type", ID: entity.TypeID}
		}
		if err != nil {
			return fmt.Errorf("checking entity type: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO entities (id, type_id, name, description, attributes, generation_template, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entity.ID,
			entity.TypeID,
			entity.Name,
			description,
			attributes,
			templateJSON,
			entity.CreatedAt,
			entity.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting entity: %w", err)
		}

		return insertLinksTx(ctx, tx, entity.ID, parentIDs)
	})
}

// UpdateEntity persists an entity row and, when replaceParents is set,
// replaces the full parent set, all in one transaction.
func (r *Repository) UpdateEntity(ctx context.Context, entity *entities.Entity, parentIDs []string, replaceParents bool) error {
	description, attributes, templateJSON, err := entityArgs(entity)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE entities
			SET name = ?, description = ?, attributes = ?, generation_template = ?, updated_at = ?
			WHERE id = ?`,
			entity.Name,
			description,
			attributes,
			templateJSON,
			entity.UpdatedAt,
			entity.ID,
		)
		if err != nil {
			return fmt.Errorf("updating entity: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			return &entities.NotFoundError{Resource: "entity", ID: entity.ID}
		}

		if !replaceParents {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM entity_links WHERE child_id = ?", entity.ID); err != nil {
			return fmt.Errorf("clearing parent links: %w", err)
		}
		return insertLinksTx(ctx, tx, entity.ID, parentIDs)
	})
}

func (r *Repository) listLinked(ctx context.Context, query, id string) ([]*entities.Entity, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("listing linked entities: %w", err)
	}
	defer rows.Close()

	var result []*entities.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating linked entities: %w", err)
	}
	return result, nil
}

// ListParents lists the entities linked as parents of the given entity.
func (r *Repository) ListParents(ctx context.Context, entityID string) ([]*entities.Entity, error) {
	query := "SELECT " + entityColumns + ` FROM entities
		JOIN entity_links ON entities.id = entity_links.parent_id
		WHERE entity_links.child_id = ?
		ORDER BY entities.created_at, entities.id`
	return r.listLinked(ctx, query, entityID)
}

// ListChildren lists the entities linked as children of the given entity.
func (r *Repository) ListChildren(ctx context.Context, entityID string) ([]*entities.Entity, error) {
	query := "SELECT " + entityColumns + ` FROM entities
		JOIN entity_links ON entities.id = entity_links.child_id
		WHERE entity_links.parent_id = ?
		ORDER BY entities.created_at, entities.id`
	return r.listLinked(ctx, query, entityID)
}

func scanEntityType(row rowScanner) (*entities.EntityType, error) {
	var (
		entityType    entities.EntityType
		defaultFields string
	)
	err := row.Scan(&entityType.ID, &entityType.Name, &defaultFields, &entityType.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(defaultFields), &entityType.DefaultFields); err != nil {
		return nil, fmt.Errorf("unmarshaling default fields: %w", err)
	}
	return &entityType, nil
}

// GetEntityType finds an entity type by ID. Returns nil if not found.
func (r *Repository) GetEntityType(ctx context.Context, id string) (*entities.EntityType, error) {
	query := "SELECT id, name, default_fields, created_at FROM entity_types WHERE id = ?"
	entityType, err := scanEntityType(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding entity type: %w", err)
	}
	return entityType, nil
}

// GetEntityTypeByName finds an entity type by name. Returns nil if not found.
func (r *Repository) GetEntityTypeByName(ctx context.Context, name string) (*entities.EntityType, error) {
	query := "SELECT id, name, default_fields, created_at FROM entity_types WHERE name = ?"
	entityType, err := scanEntityType(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding entity type: %w", err)
	}
	return entityType, nil
}

// ListEntityTypes lists all entity types in insertion order.
func (r *Repository) ListEntityTypes(ctx context.Context) ([]entities.EntityType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, default_fields, created_at FROM entity_types ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("listing entity types: %w", err)
	}
	defer rows.Close()

	var result []entities.EntityType
	for rows.Next() {
		entityType, err := scanEntityType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity type: %w", err)
		}
		result = append(result, *entityType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity types: %w", err)
	}
	return result, nil
}

func marshalDefaultFields(entityType *entities.EntityType) (string, error) {
	fields := entityType.DefaultFields
	if fields == nil {
		fields = []string{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshaling default fields: %w", err)
	}
	return string(data), nil
}

// CreateEntityType inserts an entity type. Fails with AlreadyExistsError
// if the name is taken.
func (r *Repository) CreateEntityType(ctx context.Context, entityType *entities.EntityType) error {
	defaultFields, err := marshalDefaultFields(entityType)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM entity_types WHERE name = ?", entityType.Name).Scan(&one)
		if err == nil {
			return &entities.AlreadyExistsError{Resource: "entity type", Name: entityType.Name}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking entity type name: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO entity_types (id, name, default_fields, created_at) VALUES (?, ?, ?, ?)",
			entityType.ID,
			entityType.Name,
			defaultFields,
			entityType.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting entity type: %w", err)
		}
		return nil
	})
}

// UpdateEntityType persists an entity type row. Fails with NotFoundError
// if absent, AlreadyExistsError on a rename collision.
func (r *Repository) UpdateEntityType(ctx context.Context, entityType *entities.EntityType) error {
	defaultFields, err := marshalDefaultFields(entityType)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var takenBy string
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM entity_types WHERE name = ? AND id != ?",
			entityType.Name, entityType.ID,
		).Scan(&takenBy)
		if err == nil {
			return &entities.AlreadyExistsError{Resource: "entity type", Name: entityType.Name}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking entity type name: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE entity_types SET name = ?, default_fields = ? WHERE id = ?",
			entityType.Name,
			defaultFields,
			entityType.ID,
		)
		if err != nil {
			return fmt.Errorf("updating entity type: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			return &entities.NotFoundError{Resource: "entity type", ID: entityType.ID}
		}
		return nil
	})
}

// DeleteEntityType deletes an entity type. The dependent-entity check and
// the delete run in one transaction so a concurrent create cannot slip in
// between.
func (r *Repository) DeleteEntityType(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM entity_types WHERE id = ?", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return &entities.NotFoundError{Resource: "entity type", ID: id}
		}
		if err != nil {
			return fmt.Errorf("checking entity type: %w", err)
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM entities WHERE type_id = ?", id,
		).Scan(&count); err != nil {
			return fmt.Errorf("counting entities: %w", err)
		}
		if count > 0 {
			return &entities.ConflictError{Message: "cannot delete entity type that has existing entities"}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM entity_types WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting entity type: %w", err)
		}
		return nil
	})
}

// CountEntitiesByType returns the number of entities referencing a type.
func (r *Repository) CountEntitiesByType(ctx context.Context, typeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entities WHERE type_id = ?", typeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}
