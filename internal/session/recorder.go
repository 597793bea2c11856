package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MessageSink receives display messages.
type MessageSink interface {
	OnMessage(msg Message)
}

// Recorder persists every message to the active session, then forwards it.
// Persistence failures are logged and never block the conversation.
type Recorder struct {
	store  *Store
	next   MessageSink
	logger *slog.Logger

	mu        sync.Mutex
	sessionID string
}

// NewRecorder creates a Recorder that forwards to next, which may be nil.
func NewRecorder(store *Store, next MessageSink, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, next: next, logger: logger}
}

// SetSession switches the session new messages are written to.
func (r *Recorder) SetSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = id
}

// Session returns the active session id.
func (r *Recorder) Session() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// OnMessage implements MessageSink.
func (r *Recorder) OnMessage(msg Message) {
	if id := r.Session(); id != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Append(ctx, id, msg); err != nil {
			r.logger.Error("failed to persist message", "session", id, "type", msg.Type, "error", err)
		}
		cancel()
	}
	if r.next != nil {
		r.next.OnMessage(msg)
	}
}
