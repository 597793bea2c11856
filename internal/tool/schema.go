package tool

// Type is a JSON Schema type name.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema is the subset of JSON Schema the model understands for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration is one tool the model may call.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Param is a named property of an object schema.
type Param struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// StringParam declares a required string argument.
func StringParam(name, description string) Param {
	return Param{Name: name, Schema: &Schema{Type: TypeString, Description: description}}
}

// Object builds an object schema. Every param not marked Optional is required,
// in declaration order.
func Object(params ...Param) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(params))}
	for _, p := range params {
		s.Properties[p.Name] = p.Schema
		if !p.Optional {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}
