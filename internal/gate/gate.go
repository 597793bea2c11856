// Package gate holds every tool call until a human approves or denies it.
package gate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/tool"
)

// DeniedOutput is the tool result recorded when a call is denied.
const DeniedOutput = "Denied."

// Executor runs an approved tool call and always returns text.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) string
}

// PendingApproval is a tool call suspended on a human decision.
// It must be resolved exactly once with Approve or Deny; later calls are ignored.
type PendingApproval struct {
	Call    provider.ToolCall
	Decoded tool.Call

	decision chan bool
	once     sync.Once
}

// Approve lets the call run.
func (p *PendingApproval) Approve() { p.resolve(true) }

// Deny rejects the call without running it.
func (p *PendingApproval) Deny() { p.resolve(false) }

func (p *PendingApproval) resolve(approved bool) {
	p.once.Do(func() { p.decision <- approved })
}

// Gate serialises tool calls through a single approval slot.
type Gate struct {
	exec      Executor
	requests  chan *PendingApproval
	onApprove func(provider.ToolCall)
	logger    *slog.Logger

	mu      sync.Mutex
	pending *PendingApproval
}

// Option configures a Gate.
type Option func(*Gate)

// WithOnApprove registers a callback invoked after approval, before execution.
func WithOnApprove(fn func(provider.ToolCall)) Option {
	return func(g *Gate) { g.onApprove = fn }
}

// WithLogger sets the logger used for decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// New creates a Gate that hands approved calls to exec.
func New(exec Executor, opts ...Option) *Gate {
	g := &Gate{
		exec:     exec,
		requests: make(chan *PendingApproval, 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Requests delivers each new PendingApproval to whoever decides on it.
func (g *Gate) Requests() <-chan *PendingApproval {
	return g.requests
}

// Pending returns the live approval, or nil when nothing is waiting.
func (g *Gate) Pending() *PendingApproval {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Check publishes call for approval and blocks until it is decided.
// A denied call yields DeniedOutput without reaching the executor.
// Only context cancellation produces an error.
//
// Check panics if another call is already pending: callers must resolve
// calls one at a time.
func (g *Gate) Check(ctx context.Context, call provider.ToolCall, decoded tool.Call) (string, error) {
	p := &PendingApproval{
		Call:     call,
		Decoded:  decoded,
		decision: make(chan bool, 1),
	}

	g.mu.Lock()
	if g.pending != nil {
		g.mu.Unlock()
		panic("gate: a tool call is already awaiting approval")
	}
	g.pending = p
	g.mu.Unlock()

	defer g.clear(p)

	select {
	case g.requests <- p:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var approved bool
	select {
	case approved = <-p.decision:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if !approved {
		g.logger.Info("tool call denied", "tool", call.Name)
		return DeniedOutput, nil
	}

	g.logger.Info("tool call approved", "tool", call.Name)
	if g.onApprove != nil {
		g.onApprove(call)
	}
	return g.exec.Execute(ctx, call.Name, call.Args), nil
}

func (g *Gate) clear(p *PendingApproval) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == p {
		g.pending = nil
	}
}
