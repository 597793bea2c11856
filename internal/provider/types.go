package provider

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is a model-issued request to run a named tool.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult carries the text produced by running a tool call.
type ToolResult struct {
	Name   string
	Output string
}

// Part is one element of a turn. Exactly one of Text, ToolCall or ToolResult is set.
type Part struct {
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult

	// Signature is the opaque token the model attaches to some parts.
	// It must be sent back unchanged with the same part.
	Signature []byte
}

// TextPart returns a part holding text.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ToolCallPart returns a part holding a tool call.
func ToolCallPart(call ToolCall) Part {
	return Part{ToolCall: &call}
}

// ToolResultPart returns a part holding a tool result.
func ToolResultPart(name, output string) Part {
	return Part{ToolResult: &ToolResult{Name: name, Output: output}}
}

// Turn is an entry in the model-facing history.
type Turn struct {
	Role  Role
	Parts []Part
}

// Response is what the model produced in a single round.
type Response struct {
	Parts []Part
}

// Text returns the first non-empty text part, or "" if there is none.
func (r *Response) Text() string {
	for _, p := range r.Parts {
		if p.ToolCall == nil && p.ToolResult == nil && p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// ToolCalls returns the tool calls of the response in the order they were produced.
func (r *Response) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range r.Parts {
		if p.ToolCall != nil {
			calls = append(calls, *p.ToolCall)
		}
	}
	return calls
}
