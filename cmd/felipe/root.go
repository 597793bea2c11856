package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Cyclone1070/felipe/internal/config"
)

var (
	// Version is the version of the CLI
	Version = "dev"
)

type globalOptions struct {
	LogLevel LogLevel
}

// app carries what every subcommand needs once the root command has run.
type app struct {
	options globalOptions
	config  *config.Config
	logger  *slog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}

	cmd := &cobra.Command{
		Use:           "felipe",
		Short:         "Felipe: a Gemini chat whose tool calls run on your machine, with your approval.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.config = cfg

			level := resolveLogLevel(cmd, a.options.LogLevel, cfg.Log.Level)

			// The TUI owns the terminal, so only the bridge also logs to stdout.
			var stdout io.Writer
			if cmd.Name() == "bridge" {
				stdout = cmd.OutOrStdout()
			}
			a.logger = slog.New(slog.NewJSONHandler(setupLogSink(cfg.Log.Dir, cmd.Name(), stdout), &slog.HandlerOptions{
				Level: level.SlogLevel(),
			}))
			slog.SetDefault(a.logger)
			return nil
		},
	}

	cmd.PersistentFlags().Var(&a.options.LogLevel, "log-level", "set the log level")

	cmd.AddCommand(NewChatCmd(a))
	cmd.AddCommand(NewBridgeCmd(a))
	cmd.AddCommand(NewSessionsCmd(a))
	return cmd
}

func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic occurred: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (e *LogLevel) String() string {
	if e == nil {
		return ""
	}
	return string(*e)
}

func (e *LogLevel) Set(v string) error {
	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if v == string(level) {
			*e = level
			return nil
		}
	}
	return errors.New(`must be one of "debug", "info", "warn", or "error"`)
}

func (e *LogLevel) Type() string {
	return "log-level"
}

func (e *LogLevel) SlogLevel() slog.Level {
	switch *e {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	}

	return slog.LevelInfo
}

// resolveLogLevel prefers the flag, then the configured level (which already includes the env override).
func resolveLogLevel(cmd *cobra.Command, flagValue LogLevel, configured string) LogLevel {
	if cmd.Flags().Changed("log-level") {
		return flagValue
	}
	level := LogLevelInfo
	if err := level.Set(configured); err != nil {
		return LogLevelInfo
	}
	return level
}

// setupLogSink writes to a rotating file under dir, plus stdout when given.
func setupLogSink(dir, name string, stdout io.Writer) io.Writer {
	if dir == "" {
		if stdout != nil {
			return stdout
		}
		return io.Discard
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "felipe-"+name+".json"),
		MaxSize:    50,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
	if stdout == nil {
		return fileLogger
	}
	return io.MultiWriter(stdout, fileLogger)
}
