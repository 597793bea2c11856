// Package bridge defines the wire protocol between the chat client and the
// bridge execution service, and the client side of it.
package bridge

// ExecutePath is the single endpoint served by the bridge.
const ExecutePath = "/execute"

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ExecuteResponse is the body returned by POST /execute.
// Exactly one of Output and Error is set by a well-behaved bridge.
type ExecuteResponse struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}
