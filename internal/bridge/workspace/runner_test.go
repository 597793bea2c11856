package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, timeout time.Duration) (*Runner, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	root := t.TempDir()
	return NewRunner(root, RunnerConfig{
		Timeout:       timeout,
		GracePeriod:   200 * time.Millisecond,
		MaxOutputSize: 1024,
	}), root
}

func TestRun_Stdout(t *testing.T) {
	r, _ := newTestRunner(t, 5*time.Second)

	res, err := r.Run(context.Background(), "echo hello")

	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Output(err))
}

func TestRun_WorkingDirectoryIsRoot(t *testing.T) {
	r, root := newTestRunner(t, 5*time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	res, err := r.Run(context.Background(), "ls")

	require.NoError(t, err)
	assert.Equal(t, "a.txt\n", res.Stdout)
}

func TestRun_StderrFallback(t *testing.T) {
	r, _ := newTestRunner(t, 5*time.Second)

	res, err := r.Run(context.Background(), "echo oops >&2; exit 3")

	assert.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Output(err))
}

func TestRun_SilentFailureReportsError(t *testing.T) {
	r, _ := newTestRunner(t, 5*time.Second)

	res, err := r.Run(context.Background(), "exit 1")

	require.Error(t, err)
	assert.Equal(t, "exit status 1", res.Output(err))
}

func TestRun_SilentSuccess(t *testing.T) {
	r, _ := newTestRunner(t, 5*time.Second)

	res, err := r.Run(context.Background(), "true")

	require.NoError(t, err)
	assert.Equal(t, "Command executed successfully.", res.Output(err))
}

func TestRun_Timeout(t *testing.T) {
	r, _ := newTestRunner(t, 100*time.Millisecond)

	start := time.Now()
	res, err := r.Run(context.Background(), "echo started; sleep 30")

	assert.True(t, errors.Is(err, ErrTimeout), "expected timeout, got %v", err)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.True(t, strings.HasPrefix(res.Stdout, "started"))
}

func TestRun_ContextCancelled(t *testing.T) {
	r, _ := newTestRunner(t, 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "sleep 30")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_OutputTruncated(t *testing.T) {
	r, _ := newTestRunner(t, 5*time.Second)

	res, err := r.Run(context.Background(), "yes | head -c 5000")

	require.NoError(t, err)
	assert.Len(t, res.Stdout, 1024)
	assert.True(t, res.Truncated)
}

func TestResult_Output_NilResult(t *testing.T) {
	var res *Result
	assert.Equal(t, "boom", res.Output(errors.New("boom")))
}
