package server

// Schema is the GraphQL schema served at /graphql.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	scalar JSON
	scalar Time

	type EntityType {
		id: ID!
		name: String!
		defaultFields: [String!]!
	}

	type GenerationTemplate {
		fields: [String!]!
		systemPrompt: String!
	}

	type Entity {
		id: ID!
		name: String!
		description: String
		attributes: JSON!
		generationTemplate: GenerationTemplate
		type: EntityType!
		parents: [Entity!]!
		children: [Entity!]!
		createdAt: Time!
		updatedAt: Time!
	}

	input GenerationTemplateInput {
		fields: [String!]!
		systemPrompt: String!
	}

	input EntityInput {
		name: String!
		typeId: ID!
		description: String
		attributes: JSON
		generationTemplate: GenerationTemplateInput
		parentIds: [ID!]
	}

	input EntityUpdateInput {
		name: String
		description: String
		attributes: JSON
		generationTemplate: GenerationTemplateInput
		parentIds: [ID!]
	}

	input EntityTypeInput {
		name: String!
		defaultFields: [String!]!
	}

	input EntityTypeUpdateInput {
		name: String
		defaultFields: [String!]
	}

	type Query {
		entity(id: ID!): Entity
		entities(typeId: ID): [Entity!]!
		entityType(id: ID!): EntityType
		entityTypes: [EntityType!]!
	}

	type Mutation {
		createEntity(input: EntityInput!): Entity!
		updateEntity(id: ID!, input: EntityUpdateInput!): Entity!
		generateAndUpdateEntity(id: ID!): Entity!
		createEntityType(input: EntityTypeInput!): EntityType!
		updateEntityType(id: ID!, input: EntityTypeUpdateInput!): EntityType!
		deleteEntityType(id: ID!): Boolean!
	}
`
