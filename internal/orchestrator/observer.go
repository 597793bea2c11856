package orchestrator

import "github.com/Cyclone1070/felipe/internal/session"

// Status describes what a send is currently waiting on.
type Status string

const (
	StatusThinking         Status = "thinking"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusExecuting        Status = "executing"
	StatusReady            Status = "ready"
)

// Observer receives the side effects of a send.
type Observer interface {
	OnMessage(msg session.Message)
	OnStatus(status Status)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	Message func(session.Message)
	Status  func(Status)
}

func (f ObserverFuncs) OnMessage(msg session.Message) {
	if f.Message != nil {
		f.Message(msg)
	}
}

func (f ObserverFuncs) OnStatus(status Status) {
	if f.Status != nil {
		f.Status(status)
	}
}
