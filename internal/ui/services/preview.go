package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cyclone1070/felipe/internal/tool"
)

// FormatToolDescription generates a user-friendly description from tool args
func FormatToolDescription(name string, args map[string]any) string {
	switch name {
	case tool.NameRunBash:
		if cmd, ok := args["command"].(string); ok {
			return fmt.Sprintf("$ %s", firstLine(cmd))
		}
	case tool.NameWriteFile:
		if path, ok := args["path"].(string); ok {
			if content, ok := args["content"].(string); ok {
				return fmt.Sprintf("write %s (%d bytes)", path, len(content))
			}
			return fmt.Sprintf("write %s", path)
		}
	}
	return name
}

// FormatArgs pretty-prints tool args as indented JSON.
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

// TruncateLines keeps at most max lines of s and notes how many were dropped.
func TruncateLines(s string, max int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if max <= 0 || len(lines) <= max {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:max], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}

func firstLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if found && strings.TrimSpace(rest) != "" {
		return line + " ..."
	}
	return line
}
