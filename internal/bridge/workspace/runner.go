package workspace

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// SuccessNote is reported when a command succeeds without printing anything.
const SuccessNote = "Command executed successfully."

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	// Binary is set when either stream was replaced by BinaryPlaceholder.
	Binary bool
}

// Output picks the text reported back to the model: stdout, then stderr,
// then the failure message, then SuccessNote.
func (r *Result) Output(runErr error) string {
	switch {
	case r != nil && r.Stdout != "":
		return r.Stdout
	case r != nil && r.Stderr != "":
		return r.Stderr
	case runErr != nil:
		return runErr.Error()
	default:
		return SuccessNote
	}
}

// Runner executes shell commands inside the workspace root.
type Runner struct {
	root          string
	shell         string
	timeout       time.Duration
	gracePeriod   time.Duration
	maxOutputSize int
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Timeout       time.Duration
	GracePeriod   time.Duration
	MaxOutputSize int
}

// NewRunner creates a Runner that uses sh -c in root.
func NewRunner(root string, cfg RunnerConfig) *Runner {
	return &Runner{
		root:          root,
		shell:         "sh",
		timeout:       cfg.Timeout,
		gracePeriod:   cfg.GracePeriod,
		maxOutputSize: cfg.MaxOutputSize,
	}
}

// Run executes command with the configured timeout.
// On timeout the process group is interrupted, then killed after the grace period.
func (r *Runner) Run(ctx context.Context, command string) (*Result, error) {
	// CommandContext is not used so that timeouts can interrupt before killing.
	cmd := exec.Command(r.shell, "-c", command)
	cmd.Dir = r.root
	cmd.Env = os.Environ()
	cmd.Stdin = nil

	stdout := newCapture(r.maxOutputSize)
	stderr := newCapture(r.maxOutputSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Background children may hold the pipes open after the shell exits.
	cmd.WaitDelay = r.gracePeriod
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command, Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		killProcess(cmd)
		<-done
		execErr = ctx.Err()
	case <-timer.C:
		// Try graceful shutdown
		interruptProcess(cmd)
		select {
		case <-done:
		case <-time.After(r.gracePeriod):
			killProcess(cmd)
			<-done
		}
		execErr = ErrTimeout
	}

	exitCode := 0
	if execErr != nil {
		exitCode = exitCodeOf(execErr)
		if errors.Is(execErr, ErrTimeout) {
			exitCode = -1
		}
	}

	return &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		Truncated: stdout.dropped || stderr.dropped,
		Binary:    stdout.binary || stderr.binary,
	}, execErr
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
