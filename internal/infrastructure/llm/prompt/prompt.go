// Package prompt builds generation requests and parses model output shared
// by the provider clients.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fableforge/fableforge/internal/domain/entities"
	"github.com/fableforge/fableforge/internal/domain/ports"
)

// BuildContext renders the entity context sent as the user message.
func BuildContext(req ports.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Entity Type: %s\n", req.EntityType)
	fmt.Fprintf(&b, "Entity Name: %s\n", req.Name)

	description := req.Description
	if description == "" {
		description = "Not provided"
	}
	fmt.Fprintf(&b, "Description: %s\n", description)

	if len(req.Attributes) > 0 {
		attrs, err := json.Marshal(req.Attributes)
		if err == nil {
			fmt.Fprintf(&b, "Current Attributes: %s\n", attrs)
		}
	} else {
		b.WriteString("Current Attributes: None\n")
	}

	if len(req.Template.Fields) > 0 {
		fmt.Fprintf(&b, "Fields to generate: %s\n", strings.Join(req.Template.Fields, ", "))
	}

	return b.String()
}

// ParseFieldMap parses model output into a field mapping. Markdown code
// fences are stripped first. Output that is not a JSON object fails with
// entities.GenerationError.
func ParseFieldMap(content string) (map[string]any, error) {
	content = cleanJSONResponse(content)

	var fields map[string]any
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, &entities.GenerationError{
			Message: fmt.Sprintf("parsing generated fields (response: %s)", content),
			Err:     err,
		}
	}
	return fields, nil
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
