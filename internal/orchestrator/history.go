package orchestrator

import (
	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/session"
)

// BuildHistory reconstructs model history from a session's display messages.
// Messages with empty text are dropped; user messages become user turns and
// everything else becomes a model turn, in the original order.
func BuildHistory(messages []session.Message) []provider.Turn {
	history := make([]provider.Turn, 0, len(messages))
	for _, m := range messages {
		if m.Text == "" {
			continue
		}
		role := provider.RoleModel
		if m.Type == session.TypeUser {
			role = provider.RoleUser
		}
		history = append(history, provider.Turn{
			Role:  role,
			Parts: []provider.Part{provider.TextPart(m.Text)},
		})
	}
	return history
}
