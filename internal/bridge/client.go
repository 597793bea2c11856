package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// NoOutput is returned when the bridge answers with neither output nor error.
const NoOutput = "No output from bridge."

// maxResponseBytes bounds how much of a bridge reply is read.
const maxResponseBytes = 8 << 20

// Client sends approved tool calls to a bridge.
// Execute never fails: every problem is reported as the returned text.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the bridge at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		endpoint:   strings.TrimRight(baseURL, "/") + ExecutePath,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the bridge address as configured.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Execute runs the named tool on the bridge and returns its textual result.
func (c *Client) Execute(ctx context.Context, name string, args map[string]any) string {
	resp, err := c.do(ctx, name, args)
	if err != nil {
		c.logger.Error("bridge request failed", "tool", name, "bridge", c.baseURL, "error", err)
		return c.unreachable()
	}

	switch {
	case resp.Output != "":
		return resp.Output
	case resp.Error != "":
		return resp.Error
	default:
		return NoOutput
	}
}

func (c *Client) do(ctx context.Context, name string, args map[string]any) (*ExecuteResponse, error) {
	body, err := json.Marshal(ExecuteRequest{Tool: name, Args: args})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Error statuses still carry a JSON body with the reason.
	var out ExecuteResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}
	return &out, nil
}

func (c *Client) unreachable() string {
	return fmt.Sprintf("BRIDGE_ERROR: Could not connect to the bridge at %s. Ensure the bridge process is running (felipe bridge).", c.baseURL)
}
