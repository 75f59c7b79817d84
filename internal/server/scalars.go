package server

import "fmt"

// JSONObject is an open string-keyed map exposed through the JSON scalar.
// Output values are marshaled as-is; input must be an object.
type JSONObject map[string]any

// ImplementsGraphQLType marks JSONObject as the JSON scalar.
func (JSONObject) ImplementsGraphQLType(name string) bool {
	return name == "JSON"
}

// UnmarshalGraphQL accepts object input only.
func (j *JSONObject) UnmarshalGraphQL(input any) error {
	m, ok := input.(map[string]any)
	if !ok {
		return fmt.Errorf("JSON must be an object, got %T", input)
	}
	*j = m
	return nil
}
