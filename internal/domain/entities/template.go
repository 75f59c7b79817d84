package entities

// GenerationTemplate describes which fields to ask the model to generate
// for an entity and the system prompt used to instruct it.
type GenerationTemplate struct {
	Fields       []string `json:"fields"`
	SystemPrompt string   `json:"system_prompt"`
}

// FallbackSystemPrompt is used when neither the entity nor its type name
// resolves to a template.
const FallbackSystemPrompt = "Generate details for this entity."

const characterPrompt = `Generate detailed character information for a world-building project.
Include the following aspects:
- profession: Their current occupation and role
- desires: Main motivations and goals
- appearance: Detailed physical description
- personality: Key character traits

Return the response as a JSON object with these fields.`

const areaPrompt = `Generate detailed area information for a world-building project.
Include the following aspects:
- climate: Weather patterns and environmental conditions
- geography: Physical features and landmarks
- culture: Predominant customs and social structures
- resources: Notable natural or manufactured resources

Return the response as a JSON object with these fields.`

const locationPrompt = `Generate detailed location information for a world-building project.
Include the following aspects:
- purpose: Main function or use of the location
- atmosphere: Overall mood and ambiance
- notable_features: Unique or important characteristics
- history: Brief background of the location

Return the response as a JSON object with these fields.`

// defaultTemplates are the built-in generation templates keyed by entity
// type name.
var defaultTemplates = map[string]GenerationTemplate{
	"Character": {
		Fields:       []string{"profession", "desires", "appearance", "personality"},
		SystemPrompt: characterPrompt,
	},
	"Area": {
		Fields:       []string{"climate", "geography", "culture", "resources"},
		SystemPrompt: areaPrompt,
	},
	"Location": {
		Fields:       []string{"purpose", "atmosphere", "notable_features", "history"},
		SystemPrompt: locationPrompt,
	},
}

// ResolveTemplate returns the generation template for an entity: the
// entity's own template when set, otherwise the built-in template for its
// type name, otherwise an empty field list with a generic prompt. Pure
// lookup, no side effects.
func ResolveTemplate(e *Entity, typeName string) GenerationTemplate {
	if e != nil && e.GenerationTemplate != nil {
		return *e.GenerationTemplate
	}
	if t, ok := defaultTemplates[typeName]; ok {
		return t
	}
	return GenerationTemplate{Fields: []string{}, SystemPrompt: FallbackSystemPrompt}
}
