// Package models holds the view state shared by the TUI model and its views.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Cyclone1070/felipe/internal/session"
)

// Status phases shown in the status bar.
const (
	PhaseReady            = "ready"
	PhaseThinking         = "thinking"
	PhaseAwaitingApproval = "awaiting_approval"
	PhaseExecuting        = "executing"
)

// Approval is the view of a tool call waiting for a decision.
type Approval struct {
	Tool    string
	Summary string
	Args    string // pretty-printed JSON
}

// State is everything the views need to draw a frame.
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Width  int
	Height int

	SessionTitle string
	Messages     []session.Message

	StatusPhase   string
	StatusMessage string
	DotCount      int

	// Sending is true while a message is being processed; input is disabled.
	Sending bool

	PendingApproval *Approval
}
