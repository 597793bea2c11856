package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/felipe/internal/session"
)

// SessionStore is the subset of session.Store a Conversation needs.
type SessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Latest(ctx context.Context) (*session.Session, error)
}

// ActiveSession records messages into whichever session is current.
type ActiveSession interface {
	session.MessageSink
	SetSession(id string)
	Session() string
}

// Conversation binds an Orchestrator to a persisted session.
// Model history is rebuilt from the stored display messages on every send.
type Conversation struct {
	orch   *Orchestrator
	store  SessionStore
	active ActiveSession
}

// NewConversation creates a Conversation. Messages emitted by orch must reach active.
func NewConversation(orch *Orchestrator, store SessionStore, active ActiveSession) *Conversation {
	return &Conversation{orch: orch, store: store, active: active}
}

// Resume makes the session with the given id current. An empty id resumes the
// most recent session, creating one if none exist.
func (c *Conversation) Resume(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess *session.Session
		err  error
	)
	if id == "" {
		sess, err = c.store.Latest(ctx)
		if errors.Is(err, session.ErrNotFound) {
			return c.NewSession(ctx)
		}
	} else {
		sess, err = c.store.Get(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}
	c.active.SetSession(sess.ID)
	return sess, nil
}

// NewSession starts a fresh, empty session and makes it current.
func (c *Conversation) NewSession(ctx context.Context) (*session.Session, error) {
	sess, err := c.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	c.active.SetSession(sess.ID)
	return sess, nil
}

// Send records the user's message and runs it through the orchestrator.
// Failures are reported as a system message as well as returned.
func (c *Conversation) Send(ctx context.Context, text string) error {
	id := c.active.Session()
	if id == "" {
		return c.fail(errors.New("no active session"))
	}
	sess, err := c.store.Get(ctx, id)
	if err != nil {
		return c.fail(fmt.Errorf("failed to load session: %w", err))
	}

	prior := BuildHistory(sess.Messages)
	c.active.OnMessage(session.NewMessage(session.TypeUser, text))

	return c.orch.Send(ctx, text, prior)
}

func (c *Conversation) fail(err error) error {
	c.active.OnMessage(session.NewMessage(session.TypeSystem, "FAIL: "+err.Error()))
	return err
}
