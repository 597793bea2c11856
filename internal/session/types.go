// Package session stores conversations as the display messages shown to the user.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType classifies a display message.
type MessageType string

const (
	TypeUser    MessageType = "user"
	TypeAI      MessageType = "ai"
	TypeSystem  MessageType = "system"
	TypeToolLog MessageType = "tool_log"
)

// ToolCallStatus is the lifecycle state of a logged tool call.
type ToolCallStatus string

const (
	ToolCallRunning  ToolCallStatus = "running"
	ToolCallComplete ToolCallStatus = "complete"
	ToolCallFailed   ToolCallStatus = "failed"
)

// ToolCallLog records one tool call and its output for display.
type ToolCallLog struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Status ToolCallStatus `json:"status"`
	Output string         `json:"output,omitempty"`
}

// Message is a rendering-facing record. It is never fed back to the model
// except through history reconstruction.
type Message struct {
	ID        string
	Type      MessageType
	Text      string
	ToolCalls []ToolCallLog
	CreatedAt time.Time
}

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(typ MessageType, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Type:      typ,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Session is an ordered conversation.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultTitle derives a short title from the last four digits of the creation time in milliseconds.
func DefaultTitle(createdAt time.Time) string {
	return fmt.Sprintf("SESSION_%04d", createdAt.UnixMilli()%10000)
}
