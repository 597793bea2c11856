package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/felipe/internal/ui/models"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var left string

	switch s.StatusPhase {
	case models.PhaseThinking:
		dots := strings.Repeat(".", s.DotCount)
		left = StatusThinkingStyle.Render(fmt.Sprintf("%s Generating%s", s.Spinner.View(), dots))
	case models.PhaseAwaitingApproval:
		left = StatusApprovalStyle.Render("? Awaiting approval")
	case models.PhaseExecuting:
		msg := "Executing"
		if s.StatusMessage != "" {
			msg = s.StatusMessage
		}
		left = StatusExecutingStyle.Render(fmt.Sprintf("%s %s", s.Spinner.View(), msg))
	default:
		left = StatusDefaultStyle.Render("Ready")
	}

	if s.SessionTitle == "" {
		return left
	}
	right := StatusDefaultStyle.Render(s.SessionTitle)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
