package entities

// DefaultEntityTypes are the built-in entity types seeded on first start.
// Their default fields mirror the built-in generation templates.
var DefaultEntityTypes = []EntityType{
	{
		Name:          "Character",
		DefaultFields: []string{"profession", "desires", "appearance", "personality"},
	},
	{
		Name:          "Area",
		DefaultFields: []string{"climate", "geography", "culture", "resources"},
	},
	{
		Name:          "Location",
		DefaultFields: []string{"purpose", "atmosphere", "notable_features", "history"},
	},
}

// IsDefaultType checks if a type name is a built-in default.
func IsDefaultType(name string) bool {
	for _, t := range DefaultEntityTypes {
		if t.Name == name {
			return true
		}
	}
	return false
}
