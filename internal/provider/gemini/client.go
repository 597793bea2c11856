package gemini

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// ContentGenerator is the slice of the SDK the provider depends on.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SDKClient forwards generation calls to the Gemini API.
type SDKClient struct {
	models *genai.Models
}

// Dial creates an SDKClient for the Gemini API backend. A zero timeout leaves
// requests bounded only by ctx.
func Dial(ctx context.Context, apiKey string, timeout time.Duration) (*SDKClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	return &SDKClient{models: client.Models}, nil
}

func (c *SDKClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.models.GenerateContent(ctx, model, contents, config)
}
