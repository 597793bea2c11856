package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type reply struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeGenerator answers with replies in order and records every call.
// The last reply repeats once the script runs out.
type fakeGenerator struct {
	replies []reply
	calls   []generateCall
}

func replying(replies ...reply) *fakeGenerator {
	return &fakeGenerator{replies: replies}
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config})
	if len(f.replies) == 0 {
		return nil, fmt.Errorf("no reply scripted for call %d", len(f.calls))
	}
	i := min(len(f.calls), len(f.replies)) - 1
	return f.replies[i].resp, f.replies[i].err
}

func (f *fakeGenerator) last() generateCall {
	return f.calls[len(f.calls)-1]
}
