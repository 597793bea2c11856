package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	msgs []Message
}

func (c *captureSink) OnMessage(msg Message) {
	c.msgs = append(c.msgs, msg)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecorder_PersistsAndForwards(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sess, err := s.Create(ctx)
	require.NoError(t, err)

	sink := &captureSink{}
	r := NewRecorder(s, sink, discardLogger())
	r.SetSession(sess.ID)

	msg := NewMessage(TypeAI, "hello")
	r.OnMessage(msg)

	require.Len(t, sink.msgs, 1)
	assert.Equal(t, msg.ID, sink.msgs[0].ID)

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Text)
}

func TestRecorder_PersistFailureStillForwards(t *testing.T) {
	s, _ := newTestStore(t)
	sink := &captureSink{}
	r := NewRecorder(s, sink, discardLogger())
	r.SetSession("deleted-session")

	r.OnMessage(NewMessage(TypeSystem, "FAIL: boom"))

	assert.Len(t, sink.msgs, 1)
}

func TestRecorder_NoSessionNoNext(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewRecorder(s, nil, discardLogger())

	assert.NotPanics(t, func() { r.OnMessage(NewMessage(TypeUser, "hi")) })
	assert.Empty(t, r.Session())
}
