package views

import (
	"github.com/Cyclone1070/felipe/internal/ui/models"
)

// RenderInput renders the prompt box. The border turns active only when a
// new message can be sent.
func RenderInput(s models.State) string {
	style := InputStyle
	if !s.Sending && s.PendingApproval == nil {
		style = style.BorderForeground(ColorPrimary)
	}
	if s.Width > 2 {
		style = style.Width(s.Width - 2)
	}
	return style.Render(s.Input.View())
}
