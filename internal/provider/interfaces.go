package provider

import "context"

// Provider represents the model endpoint.
// Generate either returns a response or an error; the tool-calling loop never
// inspects partial responses.
type Provider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*Response, error)
}

// GenerateRequest encapsulates one round-trip to the model.
type GenerateRequest struct {
	// History contains prior turns, oldest first.
	History []Turn

	// Prompt is the new user message for the first round of a send.
	// Empty for continuation rounds, where the latest turn is a tool turn.
	Prompt string
}
