package gemini

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/tool"
	"github.com/cenkalti/backoff/v5"
)

// SystemInstruction is sent with every request.
const SystemInstruction = `You are Felipe Code, an elite AI Engineer working directly on the user's device.
You have REAL access to the file system and shell through the run_bash and write_file tools.
Every tool call is shown to the user, who approves or denies it before it runs.

Rules:
- Always check files before editing them.
- Your working directory is the workspace ~/felipe-workspace; file paths are relative to it.
- Be careful with destructive commands and explain what a command will do before proposing it.
- Break complex tasks into smaller bash steps and verify each result.
- If a tool returns "Denied.", do not retry the same action; ask the user how to proceed.

Style: technical, efficient, and secure.`

// Provider implements provider.Provider for Google Gemini.
type Provider struct {
	client      ContentGenerator
	modelName   string
	instruction string
	tools       []tool.Declaration
	maxAttempts uint
	newBackOff  func() backoff.BackOff
	logger      *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxAttempts sets how many times a retryable failure is attempted in total.
func WithMaxAttempts(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxAttempts = uint(n)
		}
	}
}

// WithBackOff replaces the retry schedule.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(p *Provider) { p.newBackOff = fn }
}

// WithLogger sets the logger used for retry notices.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithSystemInstruction overrides the default system instruction.
func WithSystemInstruction(s string) Option {
	return func(p *Provider) { p.instruction = s }
}

// New creates a Provider for modelName advertising the given tools.
func New(client ContentGenerator, modelName string, tools []tool.Declaration, opts ...Option) *Provider {
	p := &Provider{
		client:      client,
		modelName:   modelName,
		instruction: SystemInstruction,
		tools:       tools,
		maxAttempts: 3,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.modelName
}

// Generate sends the request to Gemini, retrying transient failures.
func (p *Provider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.Response, error) {
	contents := toGeminiContents(req.History, req.Prompt)
	config := toGeminiConfig(p.instruction, p.tools)

	schedule := &hintedBackOff{BackOff: p.newBackOff()}
	attempt := 0
	op := func() (*provider.Response, error) {
		attempt++
		resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
		if err != nil {
			mapped := mapGeminiError(err)
			if !provider.IsRetryable(mapped) {
				return nil, backoff.Permanent(mapped)
			}
			schedule.hint = provider.GetRetryAfter(mapped)
			p.logger.Warn("model call failed", "attempt", attempt, "model", p.modelName, "error", mapped)
			return nil, mapped
		}

		out, err := fromGeminiResponse(resp)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return out, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(schedule),
		backoff.WithMaxTries(p.maxAttempts),
	)
}

// hintedBackOff waits at least as long as the server asked before the next attempt.
type hintedBackOff struct {
	backoff.BackOff
	hint *time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next != backoff.Stop && b.hint != nil && *b.hint > next {
		next = *b.hint
	}
	b.hint = nil
	return next
}
