package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/tool"
	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"
)

func zeroBackOff() backoff.BackOff { return &backoff.ZeroBackOff{} }

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content:      &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
}

func ok(resp *genai.GenerateContentResponse) reply { return reply{resp: resp} }

func failing(code int, msg string) reply {
	return reply{err: &genai.APIError{Code: code, Message: msg}}
}

func TestGenerate_HappyPath_TextResponse(t *testing.T) {
	client := replying(ok(textResponse("Hello there!")))
	p := New(client, "gemini-mock", tool.Declarations())

	resp, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "Hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Text() != "Hello there!" {
		t.Errorf("expected 'Hello there!', got %q", resp.Text())
	}
	if len(resp.ToolCalls()) != 0 {
		t.Errorf("expected no tool calls, got %d", len(resp.ToolCalls()))
	}

	call := client.last()
	if call.model != "gemini-mock" {
		t.Errorf("expected model gemini-mock, got %q", call.model)
	}
	if len(call.contents) != 1 || call.contents[0].Role != genai.RoleUser || call.contents[0].Parts[0].Text != "Hello" {
		t.Errorf("expected single user prompt content, got %+v", call.contents)
	}
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != SystemInstruction {
		t.Error("expected system instruction to be set")
	}
	if len(call.config.Tools) != 1 || len(call.config.Tools[0].FunctionDeclarations) != 2 {
		t.Errorf("expected two function declarations, got %+v", call.config.Tools)
	}
}

func TestGenerate_CustomInstruction(t *testing.T) {
	client := replying(ok(textResponse("hi")))
	p := New(client, "gemini-mock", nil, WithSystemInstruction("be brief"))

	if _, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "x"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := client.last().config.SystemInstruction.Parts[0].Text; got != "be brief" {
		t.Errorf("expected custom instruction, got %q", got)
	}
}

// Text and a tool call in the same round; thoughts are dropped.
func TestGenerate_HappyPath_ToolCall(t *testing.T) {
	client := replying(ok(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role: genai.RoleModel,
					Parts: []*genai.Part{
						{Text: "thinking out loud", Thought: true},
						{Text: "Let me list the files."},
						{
							FunctionCall:     &genai.FunctionCall{Name: "run_bash", Args: map[string]any{"command": "ls"}},
							ThoughtSignature: []byte("sig-1"),
						},
					},
				},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}))

	p := New(client, "gemini-mock", tool.Declarations())

	resp, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "list files"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(resp.Parts) != 2 {
		t.Fatalf("expected thought part to be dropped, got %d parts", len(resp.Parts))
	}
	if resp.Text() != "Let me list the files." {
		t.Errorf("unexpected text %q", resp.Text())
	}
	calls := resp.ToolCalls()
	if len(calls) != 1 || calls[0].Name != "run_bash" || calls[0].Args["command"] != "ls" {
		t.Fatalf("unexpected tool calls %+v", calls)
	}
	if string(resp.Parts[1].Signature) != "sig-1" {
		t.Errorf("expected signature to be preserved, got %q", resp.Parts[1].Signature)
	}
}

func TestGenerate_RetriesTransientErrors(t *testing.T) {
	client := replying(
		failing(503, "overloaded"),
		failing(503, "overloaded"),
		ok(textResponse("ok")),
	)
	p := New(client, "gemini-mock", nil, WithMaxAttempts(3), WithBackOff(zeroBackOff))

	resp, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(client.calls) != 3 {
		t.Errorf("expected 3 calls, got %d", len(client.calls))
	}
	if resp.Text() != "ok" {
		t.Errorf("unexpected text %q", resp.Text())
	}
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	client := replying(failing(429, "quota"))
	p := New(client, "gemini-mock", nil, WithMaxAttempts(2), WithBackOff(zeroBackOff))

	_, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if len(client.calls) != 2 {
		t.Errorf("expected 2 calls, got %d", len(client.calls))
	}
}

func TestGenerate_PermanentErrorNotRetried(t *testing.T) {
	client := replying(failing(401, "bad key"))
	p := New(client, "gemini-mock", nil, WithMaxAttempts(5), WithBackOff(zeroBackOff))

	_, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if len(client.calls) != 1 {
		t.Errorf("expected exactly 1 call, got %d", len(client.calls))
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	client := replying(ok(&genai.GenerateContentResponse{}))
	p := New(client, "gemini-mock", nil, WithBackOff(zeroBackOff))

	_, err := p.Generate(context.Background(), &provider.GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestGenerate_ContinuationSendsToolTurnAsUser(t *testing.T) {
	client := replying(ok(textResponse("done")))

	history := []provider.Turn{
		{Role: provider.RoleUser, Parts: []provider.Part{provider.TextPart("list files")}},
		{Role: provider.RoleModel, Parts: []provider.Part{
			{ToolCall: &provider.ToolCall{Name: "run_bash", Args: map[string]any{"command": "ls"}}, Signature: []byte("sig")},
		}},
		{Role: provider.RoleTool, Parts: []provider.Part{provider.ToolResultPart("run_bash", "a.txt\nb.txt")}},
	}

	p := New(client, "gemini-mock", nil)

	if _, err := p.Generate(context.Background(), &provider.GenerateRequest{History: history}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	contents := client.last().contents
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents (no extra prompt), got %d", len(contents))
	}
	if contents[1].Role != genai.RoleModel || string(contents[1].Parts[0].ThoughtSignature) != "sig" {
		t.Errorf("expected model turn with signature, got %+v", contents[1])
	}
	toolTurn := contents[2]
	if toolTurn.Role != genai.RoleUser {
		t.Errorf("expected tool turn sent as user, got %q", toolTurn.Role)
	}
	fr := toolTurn.Parts[0].FunctionResponse
	if fr == nil || fr.Name != "run_bash" || fr.Response["result"] != "a.txt\nb.txt" {
		t.Errorf("unexpected function response %+v", fr)
	}
}

func TestHintedBackOff(t *testing.T) {
	b := &hintedBackOff{BackOff: backoff.NewConstantBackOff(time.Second)}

	if got := b.NextBackOff(); got != time.Second {
		t.Errorf("expected schedule delay without hint, got %v", got)
	}

	long := 30 * time.Second
	b.hint = &long
	if got := b.NextBackOff(); got != long {
		t.Errorf("expected hint to extend delay, got %v", got)
	}
	if got := b.NextBackOff(); got != time.Second {
		t.Errorf("expected hint to apply once, got %v", got)
	}

	short := time.Millisecond
	b.hint = &short
	if got := b.NextBackOff(); got != time.Second {
		t.Errorf("expected shorter hint to be ignored, got %v", got)
	}
}

func TestHintedBackOff_StopWins(t *testing.T) {
	long := time.Minute
	b := &hintedBackOff{BackOff: &backoff.StopBackOff{}, hint: &long}

	if got := b.NextBackOff(); got != backoff.Stop {
		t.Errorf("expected Stop, got %v", got)
	}
}
