package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("205")
	ColorMuted   = lipgloss.Color("241")
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorInfo    = lipgloss.Color("39")
)

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	UserMessageStyle      = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle()
	SystemMessageStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	FailMessageStyle      = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	ToolLogStyle          = lipgloss.NewStyle().Foreground(ColorWarning)
	ToolOutputStyle       = lipgloss.NewStyle().Foreground(ColorMuted).PaddingLeft(2)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	PermissionBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorWarning).
				Padding(1, 2)

	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusApprovalStyle  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(ColorInfo)
)
