package views

import (
	"strings"

	"github.com/Cyclone1070/felipe/internal/session"
	"github.com/Cyclone1070/felipe/internal/ui/models"
	"github.com/Cyclone1070/felipe/internal/ui/services"
)

// maxOutputLines caps how much of a tool's output is shown inline.
const maxOutputLines = 20

// RenderChat renders the message history
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return SystemMessageStyle.Render("No messages yet. Type a message to start.")
	}
	return s.Viewport.View()
}

// FormatChatContent formats the messages for the viewport
func FormatChatContent(messages []session.Message, width int, renderer services.MarkdownRenderer) string {
	var lines []string
	for _, msg := range messages {
		lines = append(lines, formatMessage(msg, width, renderer))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func formatMessage(msg session.Message, width int, renderer services.MarkdownRenderer) string {
	switch msg.Type {
	case session.TypeUser:
		return UserMessageStyle.Render("You: " + msg.Text)

	case session.TypeAI:
		rendered, err := services.RenderMarkdown(msg.Text, width, renderer)
		if err != nil {
			// Fallback to plain text
			return AssistantMessageStyle.Render("AI: " + msg.Text)
		}
		return AssistantMessageStyle.Render(rendered)

	case session.TypeToolLog:
		lines := []string{ToolLogStyle.Render(msg.Text)}
		for _, call := range msg.ToolCalls {
			lines = append(lines, ToolOutputStyle.Render(services.FormatToolDescription(call.Name, call.Args)))
			if call.Output != "" {
				lines = append(lines, ToolOutputStyle.Render(services.TruncateLines(call.Output, maxOutputLines)))
			}
		}
		return strings.Join(lines, "\n")

	default:
		if strings.HasPrefix(msg.Text, "FAIL:") {
			return FailMessageStyle.Render(msg.Text)
		}
		return SystemMessageStyle.Render(msg.Text)
	}
}
