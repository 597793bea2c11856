package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cyclone1070/felipe/internal/bridge"
	"github.com/Cyclone1070/felipe/internal/bridge/workspace"
	"github.com/Cyclone1070/felipe/internal/tool"
)

const (
	maxBodyBytes   = 32 << 20
	unknownToolMsg = "Unknown tool"
	truncatedNote  = "\n[output truncated]"
)

// CommandRunner runs a shell command in the workspace.
type CommandRunner interface {
	Run(ctx context.Context, command string) (*workspace.Result, error)
}

// FileWriter writes a file under the workspace root and returns its relative path.
type FileWriter interface {
	WriteFile(path, content string) (string, error)
}

// ExecuteHandler serves POST /execute.
type ExecuteHandler struct {
	runner  CommandRunner
	writer  FileWriter
	metrics *Metrics
	logger  *slog.Logger
}

func NewExecuteHandler(runner CommandRunner, writer FileWriter, metrics *Metrics, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{runner: runner, writer: writer, metrics: metrics, logger: logger}
}

func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req bridge.ExecuteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("executing tool", "request_id", RequestIDFrom(r.Context()), "tool", req.Tool, "args", req.Args)

	call, err := tool.Decode(req.Tool, req.Args)
	switch {
	case errors.Is(err, tool.ErrUnknownTool):
		h.metrics.observe(req.Tool, outcomeUnknown, 0)
		writeError(w, http.StatusBadRequest, unknownToolMsg)
		return
	case err != nil:
		h.metrics.observe(req.Tool, outcomeInvalid, 0)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	start := time.Now()
	switch c := call.(type) {
	case tool.RunBash:
		res, runErr := h.runner.Run(r.Context(), c.Command)
		outcome := outcomeOK
		if runErr != nil {
			outcome = outcomeFailed
			h.logger.Warn("command failed", "command", c.Command, "error", runErr)
		}
		h.metrics.observe(c.ToolName(), outcome, time.Since(start))

		output := res.Output(runErr)
		if res != nil && res.Truncated && !res.Binary {
			output += truncatedNote
		}
		writeJSON(w, http.StatusOK, bridge.ExecuteResponse{Output: output})

	case tool.WriteFile:
		rel, writeErr := h.writer.WriteFile(c.Path, c.Content)
		if writeErr != nil {
			h.metrics.observe(c.ToolName(), outcomeFailed, time.Since(start))
			writeError(w, http.StatusInternalServerError, writeErr.Error())
			return
		}
		h.metrics.observe(c.ToolName(), outcomeOK, time.Since(start))
		writeJSON(w, http.StatusOK, bridge.ExecuteResponse{Output: "File " + rel + " written to workspace."})

	default:
		writeError(w, http.StatusBadRequest, unknownToolMsg)
	}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Workspace string `json:"workspace"`
}

type HealthHandler struct {
	root string
}

func NewHealthHandler(root string) *HealthHandler {
	return &HealthHandler{root: root}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Workspace: h.root})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, bridge.ExecuteResponse{Error: msg})
}
