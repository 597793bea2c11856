// Package ui is the terminal front end: it shows the conversation and
// resolves tool approvals. It holds no conversation logic of its own.
package ui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/felipe/internal/gate"
	"github.com/Cyclone1070/felipe/internal/orchestrator"
	"github.com/Cyclone1070/felipe/internal/session"
	"github.com/Cyclone1070/felipe/internal/ui/services"
	"github.com/Cyclone1070/felipe/internal/ui/views"
)

// Conversation is what the UI drives when the user sends a message or starts a session.
type Conversation interface {
	Send(ctx context.Context, text string) error
	NewSession(ctx context.Context) (*session.Session, error)
}

// UIChannels holds the channels for UI communication
type UIChannels struct {
	Messages chan session.Message
	Statuses chan statusMsg
	Done     chan struct{} // closed when the program exits
}

type statusMsg struct {
	phase   string
	message string
}

// NewUIChannels creates a new UIChannels struct with default buffers
func NewUIChannels() *UIChannels {
	return &UIChannels{
		Messages: make(chan session.Message, 64),
		Statuses: make(chan statusMsg, 16),
		Done:     make(chan struct{}),
	}
}

// UI runs the Bubble Tea program
type UI struct {
	program  *tea.Program
	channels *UIChannels
	doneOnce sync.Once
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// DefaultSpinner is the spinner used by the status bar.
func DefaultSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(views.StatusThinkingStyle),
	)
}

// NewUI creates a new Bubble Tea UI showing initial.
func NewUI(
	ctx context.Context,
	channels *UIChannels,
	approvals <-chan *gate.PendingApproval,
	conv Conversation,
	initial *session.Session,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	model := newBubbleTeaModel(ctx, channels, approvals, conv, renderer, spinnerFactory)
	if initial != nil {
		model.state.SessionTitle = initial.Title
		model.state.Messages = append(model.state.Messages, initial.Messages...)
	}

	return &UI{
		program:  tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)),
		channels: channels,
	}
}

// Start runs the UI program until the user quits.
func (u *UI) Start() error {
	defer u.doneOnce.Do(func() { close(u.channels.Done) })
	_, err := u.program.Run()
	return err
}

// Notifier feeds orchestrator events into the UI channels.
type Notifier struct {
	channels *UIChannels
}

// NewNotifier creates a Notifier writing to channels.
func NewNotifier(channels *UIChannels) *Notifier {
	return &Notifier{channels: channels}
}

// OnMessage delivers a display message to the UI.
// It blocks while the buffer is full and returns immediately once the UI has exited.
func (n *Notifier) OnMessage(msg session.Message) {
	select {
	case n.channels.Messages <- msg:
	case <-n.channels.Done:
	}
}

// OnStatus updates the status bar.
func (n *Notifier) OnStatus(status orchestrator.Status) {
	n.writeStatus(string(status), "")
}

// OnExecute marks an approved call as running.
func (n *Notifier) OnExecute(name string, args map[string]any) {
	n.writeStatus(string(orchestrator.StatusExecuting), services.FormatToolDescription(name, args))
}

func (n *Notifier) writeStatus(phase, message string) {
	select {
	case n.channels.Statuses <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}
