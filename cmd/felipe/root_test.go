package main

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Cyclone1070/felipe/internal/config"
)

func TestLogLevel_Set(t *testing.T) {
	var level LogLevel

	require.NoError(t, level.Set("debug"))
	assert.Equal(t, LogLevelDebug, level)
	assert.Equal(t, slog.LevelDebug, level.SlogLevel())

	assert.Error(t, level.Set("verbose"))
	assert.Equal(t, LogLevelDebug, level) // unchanged
	assert.Equal(t, "log-level", level.Type())
}

func TestLogLevel_ZeroValueIsInfo(t *testing.T) {
	var level LogLevel
	assert.Equal(t, slog.LevelInfo, level.SlogLevel())
}

func TestResolveLogLevel(t *testing.T) {
	newCmd := func() (*cobra.Command, *LogLevel) {
		var level LogLevel
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().Var(&level, "log-level", "")
		return cmd, &level
	}

	t.Run("Flag Wins", func(t *testing.T) {
		cmd, level := newCmd()
		require.NoError(t, cmd.Flags().Set("log-level", "error"))
		assert.Equal(t, LogLevelError, resolveLogLevel(cmd, *level, "debug"))
	})

	t.Run("Config Used Without Flag", func(t *testing.T) {
		cmd, level := newCmd()
		assert.Equal(t, LogLevelWarn, resolveLogLevel(cmd, *level, "warn"))
	})

	t.Run("Invalid Config Falls Back To Info", func(t *testing.T) {
		cmd, level := newCmd()
		assert.Equal(t, LogLevelInfo, resolveLogLevel(cmd, *level, "loud"))
	})
}

func TestSetupLogSink(t *testing.T) {
	assert.Equal(t, io.Discard, setupLogSink("", "chat", nil))

	var stdout bytes.Buffer
	assert.Equal(t, &stdout, setupLogSink("", "bridge", &stdout))

	fileSink, ok := setupLogSink("/var/log/felipe", "chat", nil).(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, "/var/log/felipe/felipe-chat.json", fileSink.Filename)

	_, isFile := setupLogSink("/var/log/felipe", "bridge", &stdout).(*lumberjack.Logger)
	assert.False(t, isFile) // tee to stdout
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "chat")
	assert.Contains(t, names, "bridge")
	assert.Contains(t, names, "sessions")
}

// testApp returns an app whose session database lives in a temp dir.
func testApp(t *testing.T) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Session.DBPath = filepath.Join(t.TempDir(), "felipe.db")
	return &app{config: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestConfirmDeletion(t *testing.T) {
	var out bytes.Buffer

	assert.True(t, confirmDeletion(strings.NewReader("y\n"), &out, "session", []string{"a"}))
	assert.Contains(t, out.String(), "delete session a?")

	out.Reset()
	assert.False(t, confirmDeletion(strings.NewReader("no\n"), &out, "session", []string{"a", "b"}))
	assert.Contains(t, out.String(), "delete sessions a b?")

	assert.False(t, confirmDeletion(strings.NewReader(""), &out, "session", nil))
}
