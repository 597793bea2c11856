package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/session"
)

// MockStore implements SessionStore for testing
type MockStore struct {
	CreateFunc func(ctx context.Context) (*session.Session, error)
	GetFunc    func(ctx context.Context, id string) (*session.Session, error)
	LatestFunc func(ctx context.Context) (*session.Session, error)
}

func (m *MockStore) Create(ctx context.Context) (*session.Session, error) { return m.CreateFunc(ctx) }
func (m *MockStore) Get(ctx context.Context, id string) (*session.Session, error) {
	return m.GetFunc(ctx, id)
}
func (m *MockStore) Latest(ctx context.Context) (*session.Session, error) { return m.LatestFunc(ctx) }

// activeRecorder implements ActiveSession and forwards to an observer.
type activeRecorder struct {
	id  string
	obs *recorder
}

func (a *activeRecorder) OnMessage(msg session.Message) { a.obs.OnMessage(msg) }
func (a *activeRecorder) SetSession(id string)          { a.id = id }
func (a *activeRecorder) Session() string               { return a.id }

func TestConversation_Send_RebuildsHistoryBeforeUserMessage(t *testing.T) {
	stored := &session.Session{
		ID: "s1",
		Messages: []session.Message{
			{Type: session.TypeUser, Text: "earlier"},
			{Type: session.TypeAI, Text: "reply"},
		},
	}
	store := &MockStore{
		GetFunc: func(ctx context.Context, id string) (*session.Session, error) {
			assert.Equal(t, "s1", id)
			return stored, nil
		},
	}
	obs := &recorder{}
	active := &activeRecorder{id: "s1", obs: obs}
	p := scripted(text("ok"))

	conv := NewConversation(New(p, &MockApprover{}, obs), store, active)
	require.NoError(t, conv.Send(context.Background(), "now"))

	require.Len(t, p.requests, 1)
	assert.Equal(t, "now", p.requests[0].Prompt)
	require.Len(t, p.requests[0].History, 2)
	assert.Equal(t, provider.RoleUser, p.requests[0].History[0].Role)
	assert.Equal(t, provider.RoleModel, p.requests[0].History[1].Role)
	assert.Equal(t, []string{"user:now", "ai:ok"}, obs.events)
}

func TestConversation_Send_NoActiveSession(t *testing.T) {
	obs := &recorder{}
	conv := NewConversation(New(scripted(), &MockApprover{}, obs), &MockStore{}, &activeRecorder{obs: obs})

	err := conv.Send(context.Background(), "hi")

	assert.Error(t, err)
	require.Len(t, obs.messages, 1)
	assert.Equal(t, session.TypeSystem, obs.messages[0].Type)
	assert.Contains(t, obs.messages[0].Text, "FAIL: ")
}

func TestConversation_Resume_LatestOrCreate(t *testing.T) {
	store := &MockStore{
		LatestFunc: func(ctx context.Context) (*session.Session, error) {
			return nil, session.ErrNotFound
		},
		CreateFunc: func(ctx context.Context) (*session.Session, error) {
			return &session.Session{ID: "fresh"}, nil
		},
	}
	active := &activeRecorder{obs: &recorder{}}
	conv := NewConversation(New(scripted(), &MockApprover{}, active.obs), store, active)

	sess, err := conv.Resume(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "fresh", sess.ID)
	assert.Equal(t, "fresh", active.Session())
}

func TestConversation_Resume_ByID(t *testing.T) {
	store := &MockStore{
		GetFunc: func(ctx context.Context, id string) (*session.Session, error) {
			if id != "abc" {
				return nil, session.ErrNotFound
			}
			return &session.Session{ID: "abc"}, nil
		},
	}
	active := &activeRecorder{obs: &recorder{}}
	conv := NewConversation(New(scripted(), &MockApprover{}, active.obs), store, active)

	_, err := conv.Resume(context.Background(), "missing")
	assert.True(t, errors.Is(err, session.ErrNotFound))
	assert.Equal(t, "", active.Session())

	sess, err := conv.Resume(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)
	assert.Equal(t, "abc", active.Session())
}

func TestConversation_NewSession_SwitchesActive(t *testing.T) {
	store := &MockStore{
		CreateFunc: func(ctx context.Context) (*session.Session, error) {
			return &session.Session{ID: "n1"}, nil
		},
	}
	active := &activeRecorder{id: "old", obs: &recorder{}}
	conv := NewConversation(New(scripted(), &MockApprover{}, active.obs), store, active)

	sess, err := conv.NewSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "n1", sess.ID)
	assert.Equal(t, "n1", active.Session())
}
