package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Cyclone1070/felipe/internal/bridge/server"
	"github.com/Cyclone1070/felipe/internal/bridge/workspace"
)

type bridgeOptions struct {
	Listen    string
	Workspace string
	NoGit     bool
}

func NewBridgeCmd(a *app) *cobra.Command {
	options := &bridgeOptions{}

	cmd := &cobra.Command{
		Use:   "bridge [flags]",
		Short: "Run the execution bridge on this machine",
		Long: `Run the execution bridge. The bridge executes approved tool calls
(shell commands and file writes) inside a single workspace directory.`,
		Example: `  # Serve ~/felipe-workspace on :8080
  felipe bridge

  # Serve a different directory on another port
  felipe bridge --listen :9000 --workspace ~/projects/demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Listen != "" {
				a.config.Bridge.ListenAddr = options.Listen
			}
			if options.Workspace != "" {
				a.config.Bridge.Workspace = options.Workspace
			}
			if options.NoGit {
				a.config.Bridge.GitInit = false
			}
			return runBridge(cmd, a)
		},
	}

	cmd.Flags().StringVar(&options.Listen, "listen", "", "address to listen on (overrides config)")
	cmd.Flags().StringVar(&options.Workspace, "workspace", "", "workspace directory (overrides config)")
	cmd.Flags().BoolVar(&options.NoGit, "no-git", false, "do not initialise the workspace as a git repository")

	return cmd
}

func runBridge(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	cfg := a.config.Bridge
	logger := a.logger

	fs := afero.NewOsFs()
	root, err := workspace.Prepare(fs, cfg.Workspace, cfg.GitInit, logger)
	if err != nil {
		return err
	}

	runner := workspace.NewRunner(root, workspace.RunnerConfig{
		Timeout:       time.Duration(cfg.CommandTimeoutSeconds) * time.Second,
		GracePeriod:   time.Duration(cfg.GracefulShutdownMs) * time.Millisecond,
		MaxOutputSize: int(cfg.MaxOutputBytes),
	})
	writer := workspace.NewWriter(fs, workspace.NewResolver(root))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewRouter(runner, writer, root, registry, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bridge starting", "addr", srv.Addr, "workspace", root)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "felipe bridge listening on %s\nworkspace: %s\n", srv.Addr, root)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}

	logger.Info("bridge stopped")
	return nil
}
