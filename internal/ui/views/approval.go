package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/felipe/internal/ui/models"
)

// RenderApprovalPopup renders the pending tool call with its arguments.
func RenderApprovalPopup(s models.State) string {
	a := s.PendingApproval
	if a == nil {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Approve tool call: "+a.Tool))
	if a.Summary != "" && a.Summary != a.Tool {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorPrimary).Render(a.Summary))
	}
	lines = append(lines, "")
	lines = append(lines, a.Args)
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("y: Approve  n: Deny"))

	return PermissionBoxStyle.Render(strings.Join(lines, "\n"))
}
