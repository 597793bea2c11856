package workspace

import (
	"errors"
	"fmt"
)

// RootError is returned when the workspace root cannot be prepared.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to start %q: %v", e.Cmd, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

var (
	ErrOutsideWorkspace = errors.New("path is outside workspace root")
	ErrRootNotSet       = errors.New("workspace root not set")
	ErrNotADirectory    = errors.New("not a directory")
	ErrEmptyPath        = errors.New("path is empty")
	ErrTimeout          = errors.New("command timeout")
)
