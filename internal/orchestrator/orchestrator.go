// Package orchestrator drives a user message through as many model and tool
// rounds as it takes for the model to stop requesting tools.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/session"
	"github.com/Cyclone1070/felipe/internal/tool"
)

// ErrMaxRounds is returned when the model keeps requesting tools past the round limit.
var ErrMaxRounds = errors.New("maximum tool rounds reached")

// Approver decides on a tool call and returns its textual result.
type Approver interface {
	Check(ctx context.Context, call provider.ToolCall, decoded tool.Call) (string, error)
}

// Orchestrator runs sends against a model, routing every tool call through an Approver.
// History is rebuilt by the caller for each send; nothing is kept between sends.
type Orchestrator struct {
	provider  provider.Provider
	approver  Approver
	observer  Observer
	maxRounds int
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRounds caps the number of model responses in a single send.
func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New creates a new Orchestrator instance
func New(p provider.Provider, approver Approver, observer Observer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:  p,
		approver:  approver,
		observer:  observer,
		maxRounds: 50,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Send sends userText after prior and resolves tool calls until the model answers without any.
//
// Text in a response is emitted before that round's tool calls are handled.
// Tool calls are resolved one at a time in the order the model issued them.
// A model failure emits a single "FAIL: ..." system message and is returned.
func (o *Orchestrator) Send(ctx context.Context, userText string, prior []provider.Turn) error {
	o.observer.OnStatus(StatusThinking)
	defer o.observer.OnStatus(StatusReady)

	resp, err := o.provider.Generate(ctx, &provider.GenerateRequest{
		History: prior,
		Prompt:  userText,
	})
	if err != nil {
		return o.fail(err)
	}

	history := make([]provider.Turn, 0, len(prior)+3)
	history = append(history, prior...)
	history = append(history, provider.Turn{
		Role:  provider.RoleUser,
		Parts: []provider.Part{provider.TextPart(userText)},
	})

	for round := 1; ; round++ {
		if text := resp.Text(); text != "" {
			o.observer.OnMessage(session.NewMessage(session.TypeAI, text))
		}

		calls := resp.ToolCalls()
		if len(calls) == 0 {
			return nil
		}
		if round >= o.maxRounds {
			return o.fail(fmt.Errorf("%w (%d)", ErrMaxRounds, o.maxRounds))
		}

		history = append(history, provider.Turn{Role: provider.RoleModel, Parts: resp.Parts})

		results := make([]provider.Part, 0, len(calls))
		for _, call := range calls {
			output, status, err := o.resolve(ctx, call)
			if err != nil {
				return fmt.Errorf("tool call %s: %w", call.Name, err)
			}
			o.observer.OnMessage(toolLog(call, output, status))
			results = append(results, provider.ToolResultPart(call.Name, output))
		}
		history = append(history, provider.Turn{Role: provider.RoleTool, Parts: results})

		o.observer.OnStatus(StatusThinking)
		resp, err = o.provider.Generate(ctx, &provider.GenerateRequest{History: history})
		if err != nil {
			return o.fail(err)
		}
	}
}

// resolve turns one tool call into its textual result.
// Calls that do not match a declared tool never reach the approver.
func (o *Orchestrator) resolve(ctx context.Context, call provider.ToolCall) (string, session.ToolCallStatus, error) {
	decoded, err := tool.Decode(call.Name, call.Args)
	if err != nil {
		o.logger.Warn("rejected tool call", "tool", call.Name, "error", err)
		return fmt.Sprintf("Error: %v", err), session.ToolCallFailed, nil
	}

	o.observer.OnStatus(StatusAwaitingApproval)
	output, err := o.approver.Check(ctx, call, decoded)
	if err != nil {
		return "", session.ToolCallFailed, err
	}
	return output, session.ToolCallComplete, nil
}

func (o *Orchestrator) fail(err error) error {
	o.logger.Error("send failed", "error", err)
	o.observer.OnMessage(session.NewMessage(session.TypeSystem, "FAIL: "+err.Error()))
	return fmt.Errorf("model call failed: %w", err)
}

func toolLog(call provider.ToolCall, output string, status session.ToolCallStatus) session.Message {
	msg := session.NewMessage(session.TypeToolLog, "> EXECUTING "+call.Name)
	msg.ToolCalls = []session.ToolCallLog{{
		ID:     uuid.NewString(),
		Name:   call.Name,
		Args:   call.Args,
		Status: status,
		Output: output,
	}}
	return msg
}
