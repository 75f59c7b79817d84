package server

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/services"
)

// Resolver is the GraphQL root resolver. All branching logic lives in the
// services; resolvers only translate between GraphQL shapes and domain
// types.
type Resolver struct {
	entities    *services.EntityService
	entityTypes *services.EntityTypeService
}

// NewResolver creates the root resolver.
func NewResolver(entitySvc *services.EntityService, typeSvc *services.EntityTypeService) *Resolver {
	return &Resolver{
		entities:    entitySvc,
		entityTypes: typeSvc,
	}
}

// Query resolvers. Single-item lookups return null for misses, no error.

func (r *Resolver) Entity(ctx context.Context, args struct{ ID graphql.ID }) (*entityResolver, error) {
	entity, err := r.entities.Get(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	return &entityResolver{root: r, entity: entity}, nil
}

func (r *Resolver) Entities(ctx context.Context, args struct{ TypeID *graphql.ID }) ([]*entityResolver, error) {
	var typeID *string
	if args.TypeID != nil {
		id := string(*args.TypeID)
		typeID = &id
	}

	list, err := r.entities.List(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return r.wrapEntities(list), nil
}

func (r *Resolver) EntityType(ctx context.Context, args struct{ ID graphql.ID }) (*entityTypeResolver, error) {
	entityType, err := r.entityTypes.Get(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	if entityType == nil {
		return nil, nil
	}
	return &entityTypeResolver{entityType: entityType}, nil
}

func (r *Resolver) EntityTypes(ctx context.Context) ([]*entityTypeResolver, error) {
	list, err := r.entityTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*entityTypeResolver, 0, len(list))
	for i := range list {
		entityType := list[i]
		result = append(result, &entityTypeResolver{entityType: &entityType})
	}
	return result, nil
}

// Mutation resolvers.

type generationTemplateInput struct {
	Fields       []string
	SystemPrompt string
}

func (in *generationTemplateInput) toDomain() *entities.GenerationTemplate {
	if in == nil {
		return nil
	}
	return &entities.GenerationTemplate{
		Fields:       in.Fields,
		SystemPrompt: in.SystemPrompt,
	}
}

type entityInput struct {
	Name               string
	TypeID             graphql.ID
	Description        *string
	Attributes         *JSONObject
	GenerationTemplate *generationTemplateInput
	ParentIDs          *[]graphql.ID
}

type entityUpdateInput struct {
	Name               *string
	Description        *string
	Attributes         *JSONObject
	GenerationTemplate *generationTemplateInput
	ParentIDs          *[]graphql.ID
}

func idStrings(ids []graphql.ID) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, string(id))
	}
	return result
}

func (r *Resolver) CreateEntity(ctx context.Context, args struct{ Input entityInput }) (*entityResolver, error) {
	params := services.CreateEntityParams{
		Name:               args.Input.Name,
		TypeID:             string(args.Input.TypeID),
		Description:        args.Input.Description,
		GenerationTemplate: args.Input.GenerationTemplate.toDomain(),
	}
	if args.Input.Attributes != nil {
		params.Attributes = *args.Input.Attributes
	}
	if args.Input.ParentIDs != nil {
		params.ParentIDs = idStrings(*args.Input.ParentIDs)
	}

	entity, err := r.entities.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return &entityResolver{root: r, entity: entity}, nil
}

func (r *Resolver) UpdateEntity(ctx context.Context, args struct {
	ID    graphql.ID
	Input entityUpdateInput
}) (*entityResolver, error) {
	params := services.UpdateEntityParams{
		Name:               args.Input.Name,
		Description:        args.Input.Description,
		GenerationTemplate: args.Input.GenerationTemplate.toDomain(),
	}
	if args.Input.Attributes != nil {
		params.Attributes = *args.Input.Attributes
	}
	if args.Input.ParentIDs != nil {
		ids := idStrings(*args.Input.ParentIDs)
		params.ParentIDs = &ids
	}

	entity, err := r.entities.Update(ctx, string(args.ID), params)
	if err != nil {
		return nil, err
	}
	return &entityResolver{root: r, entity: entity}, nil
}

func (r *Resolver) GenerateAndUpdateEntity(ctx context.Context, args struct{ ID graphql.ID }) (*entityResolver, error) {
	entity, err := r.entities.GenerateAndUpdate(ctx, string(args.ID))
	if err != nil {
		return nil, err
	}
	return &entityResolver{root: r, entity: entity}, nil
}

type entityTypeInput struct {
	Name          string
	DefaultFields []string
}

type entityTypeUpdateInput struct {
	Name          *string
	DefaultFields *[]string
}

func (r *Resolver) CreateEntityType(ctx context.Context, args struct{ Input entityTypeInput }) (*entityTypeResolver, error) {
	entityType, err := r.entityTypes.Create(ctx, args.Input.Name, args.Input.DefaultFields)
	if err != nil {
		return nil, err
	}
	return &entityTypeResolver{entityType: entityType}, nil
}

func (r *Resolver) UpdateEntityType(ctx context.Context, args struct {
	ID    graphql.ID
	Input entityTypeUpdateInput
}) (*entityTypeResolver, error) {
	entityType, err := r.entityTypes.Update(ctx, string(args.ID), services.UpdateEntityTypeParams{
		Name:          args.Input.Name,
		DefaultFields: args.Input.DefaultFields,
	})
	if err != nil {
		return nil, err
	}
	return &entityTypeResolver{entityType: entityType}, nil
}

func (r *Resolver) DeleteEntityType(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	if err := r.entityTypes.Delete(ctx, string(args.ID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) wrapEntities(list []*entities.Entity) []*entityResolver {
	result := make([]*entityResolver, 0, len(list))
	for _, entity := range list {
		result = append(result, &entityResolver{root: r, entity: entity})
	}
	return result
}

// entityResolver resolves Entity fields. Type, parents and children are
// loaded lazily per field.
type entityResolver struct {
	root   *Resolver
	entity *entities.Entity
}

func (e *entityResolver) ID() graphql.ID {
	return graphql.ID(e.entity.ID)
}

func (e *entityResolver) Name() string {
	return e.entity.Name
}

func (e *entityResolver) Description() *string {
	return e.entity.Description
}

func (e *entityResolver) Attributes() JSONObject {
	if e.entity.Attributes == nil {
		return JSONObject{}
	}
	return JSONObject(e.entity.Attributes)
}

func (e *entityResolver) GenerationTemplate() *generationTemplateResolver {
	if e.entity.GenerationTemplate == nil {
		return nil
	}
	return &generationTemplateResolver{template: e.entity.GenerationTemplate}
}

func (e *entityResolver) Type(ctx context.Context) (*entityTypeResolver, error) {
	entityType, err := e.root.entityTypes.Get(ctx, e.entity.TypeID)
	if err != nil {
		return nil, err
	}
	if entityType == nil {
		return nil, &entities.NotFoundError{Resource: "entity type", ID: e.entity.TypeID}
	}
	return &entityTypeResolver{entityType: entityType}, nil
}

func (e *entityResolver) Parents(ctx context.Context) ([]*entityResolver, error) {
	parents, err := e.root.entities.Parents(ctx, e.entity.ID)
	if err != nil {
		return nil, err
	}
	return e.root.wrapEntities(parents), nil
}

func (e *entityResolver) Children(ctx context.Context) ([]*entityResolver, error) {
	children, err := e.root.entities.Children(ctx, e.entity.ID)
	if err != nil {
		return nil, err
	}
	return e.root.wrapEntities(children), nil
}

func (e *entityResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: e.entity.CreatedAt}
}

func (e *entityResolver) UpdatedAt() graphql.Time {
	return graphql.Time{Time: e.entity.UpdatedAt}
}

type entityTypeResolver struct {
	entityType *entities.EntityType
}

func (t *entityTypeResolver) ID() graphql.ID {
	return graphql.ID(t.entityType.ID)
}

func (t *entityTypeResolver) Name() string {
	return t.entityType.Name
}

func (t *entityTypeResolver) DefaultFields() []string {
	if t.entityType.DefaultFields == nil {
		return []string{}
	}
	return t.entityType.DefaultFields
}

type generationTemplateResolver struct {
	template *entities.GenerationTemplate
}

func (g *generationTemplateResolver) Fields() []string {
	if g.template.Fields == nil {
		return []string{}
	}
	return g.template.Fields
}

func (g *generationTemplateResolver) SystemPrompt() string {
	return g.template.SystemPrompt
}
