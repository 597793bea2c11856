package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/felipe/internal/gate"
	"github.com/Cyclone1070/felipe/internal/session"
	"github.com/Cyclone1070/felipe/internal/ui/models"
	"github.com/Cyclone1070/felipe/internal/ui/services"
	"github.com/Cyclone1070/felipe/internal/ui/views"
)

const helpText = "Available commands:\n- /new - Start a new session\n- /help - Show this help\n\nWhen a tool call is pending, press y to approve or n to deny."

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	ctx      context.Context
	conv     Conversation
	renderer services.MarkdownRenderer

	messages  <-chan session.Message
	statuses  <-chan statusMsg
	approvals <-chan *gate.PendingApproval

	pending *gate.PendingApproval
}

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	ctx context.Context,
	channels *UIChannels,
	approvals <-chan *gate.PendingApproval,
	conv Conversation,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()

	return BubbleTeaModel{
		state: models.State{
			Input:       ti,
			Viewport:    viewport.New(80, 20),
			Spinner:     spinnerFactory(),
			Messages:    []session.Message{},
			StatusPhase: models.PhaseReady,
		},
		ctx:       ctx,
		conv:      conv,
		renderer:  renderer,
		messages:  channels.Messages,
		statuses:  channels.Statuses,
		approvals: approvals,
	}
}

// Internal messages
type tickMsg time.Time
type messageReceivedMsg session.Message
type statusUpdateMsg statusMsg
type approvalRequestMsg struct{ pending *gate.PendingApproval }
type sendDoneMsg struct{ err error }
type sessionStartedMsg struct {
	session *session.Session
	err     error
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
		listenForMessages(m.messages),
		listenForStatus(m.statuses),
		listenForApprovals(m.approvals),
	)
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-5, 1) // Reserve space for input and status
		m.state.Input.Width = max(msg.Width-6, 10)
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case messageReceivedMsg:
		m.state.Messages = append(m.state.Messages, session.Message(msg))
		m.updateViewport()
		return m, listenForMessages(m.messages)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.phase
		m.state.StatusMessage = msg.message
		return m, listenForStatus(m.statuses)

	case approvalRequestMsg:
		m.pending = msg.pending
		m.state.PendingApproval = &models.Approval{
			Tool:    msg.pending.Call.Name,
			Summary: services.FormatToolDescription(msg.pending.Call.Name, msg.pending.Call.Args),
			Args:    services.FormatArgs(msg.pending.Call.Args),
		}
		return m, listenForApprovals(m.approvals)

	case sendDoneMsg:
		m.state.Sending = false
		m.state.StatusPhase = models.PhaseReady
		m.state.StatusMessage = ""
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			m.appendLocal("FAIL: " + msg.err.Error())
			return m, nil
		}
		m.state.SessionTitle = msg.session.Title
		m.state.Messages = append([]session.Message{}, msg.session.Messages...)
		m.updateViewport()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	cmds = append(cmds, cmd)
	m.state.Viewport, cmd = m.state.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle approval prompts
	if m.pending != nil {
		switch msg.String() {
		case "y", "Y":
			m.pending.Approve()
			m.pending = nil
			m.state.PendingApproval = nil
		case "n", "N":
			m.pending.Deny()
			m.pending = nil
			m.state.PendingApproval = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if m.state.Sending || input == "" {
			return m, nil
		}
		m.state.Input.SetValue("")

		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}

		m.state.Sending = true
		m.state.StatusPhase = models.PhaseThinking
		return m, m.send(input)
	}

	if m.state.Sending {
		return m, nil
	}
	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// handleCommand handles slash commands
func (m BubbleTeaModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)

	switch parts[0] {
	case "/new":
		return m, m.newSession()
	case "/help":
		m.appendLocal(helpText)
	default:
		m.appendLocal("Unknown command: " + parts[0] + ". Type /help for a list of commands.")
	}
	return m, nil
}

// appendLocal shows a system message that is not part of the session.
func (m *BubbleTeaModel) appendLocal(text string) {
	m.state.Messages = append(m.state.Messages, session.NewMessage(session.TypeSystem, text))
	m.updateViewport()
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	content := views.FormatChatContent(m.state.Messages, max(m.state.Width-4, 20), m.renderer)
	m.state.Viewport.SetContent(content)
	m.state.Viewport.GotoBottom()
}

func (m BubbleTeaModel) send(text string) tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		return sendDoneMsg{err: conv.Send(ctx, text)}
	}
}

func (m BubbleTeaModel) newSession() tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		sess, err := conv.NewSession(ctx)
		return sessionStartedMsg{session: sess, err: err}
	}
}

// Helper commands for listening to channels
func listenForMessages(ch <-chan session.Message) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForApprovals(ch <-chan *gate.PendingApproval) tea.Cmd {
	return func() tea.Msg {
		return approvalRequestMsg{pending: <-ch}
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
