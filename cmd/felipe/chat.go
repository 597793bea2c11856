package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/felipe/internal/bridge"
	"github.com/Cyclone1070/felipe/internal/gate"
	"github.com/Cyclone1070/felipe/internal/orchestrator"
	"github.com/Cyclone1070/felipe/internal/provider"
	"github.com/Cyclone1070/felipe/internal/provider/gemini"
	"github.com/Cyclone1070/felipe/internal/session"
	"github.com/Cyclone1070/felipe/internal/tool"
	"github.com/Cyclone1070/felipe/internal/ui"
	"github.com/Cyclone1070/felipe/internal/ui/services"
)

type chatOptions struct {
	BridgeURL string
	SessionID string
}

func NewChatCmd(a *app) *cobra.Command {
	options := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat [flags]",
		Short: "Start an interactive chat session",
		Example: `  # Resume the most recent session against a local bridge
  felipe chat

  # Use a bridge running on another machine
  felipe chat --bridge-url http://192.168.1.20:8080

  # Resume a specific session
  felipe chat --session 3f2a...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), a, options)
		},
	}

	cmd.Flags().StringVar(&options.BridgeURL, "bridge-url", "", "bridge base URL (overrides config)")
	cmd.Flags().StringVar(&options.SessionID, "session", "", "session id to resume (default: most recent)")

	return cmd
}

func runChat(ctx context.Context, a *app, options *chatOptions) error {
	cfg := a.config
	logger := a.logger

	if options.BridgeURL != "" {
		cfg.Bridge.URL = options.BridgeURL
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		return fmt.Errorf("%s environment variable is required", cfg.Provider.APIKeyEnv)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	geminiClient, err := gemini.Dial(ctx, apiKey, time.Duration(cfg.Provider.RequestTimeoutSeconds)*time.Second)
	if err != nil {
		return err
	}
	model := gemini.New(geminiClient, cfg.Provider.Model, tool.Declarations(),
		gemini.WithMaxAttempts(cfg.Provider.MaxAttempts),
		gemini.WithLogger(logger),
	)

	bridgeClient := bridge.NewClient(cfg.Bridge.URL, time.Duration(cfg.Bridge.RequestTimeoutSeconds)*time.Second, logger)

	channels := ui.NewUIChannels()
	notifier := ui.NewNotifier(channels)
	recorder := session.NewRecorder(store, notifier, logger)

	g := gate.New(bridgeClient,
		gate.WithLogger(logger),
		gate.WithOnApprove(func(call provider.ToolCall) {
			notifier.OnExecute(call.Name, call.Args)
		}),
	)

	orch := orchestrator.New(model, g,
		orchestrator.ObserverFuncs{Message: recorder.OnMessage, Status: notifier.OnStatus},
		orchestrator.WithMaxRounds(cfg.Orchestrator.MaxRounds),
		orchestrator.WithLogger(logger),
	)
	conv := orchestrator.NewConversation(orch, store, recorder)

	initial, err := conv.Resume(ctx, options.SessionID)
	if err != nil {
		return err
	}
	logger.Info("chat started", "session", initial.ID, "model", model.Model(), "bridge", bridgeClient.BaseURL())

	tui := ui.NewUI(ctx, channels, g.Requests(), conv, initial, services.NewGlamourRenderer("dark"), ui.DefaultSpinner)
	if err := tui.Start(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}
