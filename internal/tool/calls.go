package tool

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrUnknownTool is returned when a call names a tool that is not declared.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArgs is returned when call arguments do not match the declared schema.
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

// Call is a decoded, schema-checked tool invocation.
// Implementations are RunBash and WriteFile.
type Call interface {
	ToolName() string
	// Summary is a one-line human readable description for approval prompts.
	Summary() string
	isCall()
}

// RunBash runs a shell command inside the workspace.
type RunBash struct {
	Command string `mapstructure:"command"`
}

func (RunBash) ToolName() string  { return NameRunBash }
func (c RunBash) Summary() string { return "$ " + c.Command }
func (RunBash) isCall()           {}

// WriteFile writes Content to Path relative to the workspace root.
type WriteFile struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

func (WriteFile) ToolName() string { return NameWriteFile }
func (c WriteFile) Summary() string {
	return fmt.Sprintf("write %s (%d bytes)", c.Path, len(c.Content))
}
func (WriteFile) isCall() {}

// Decode converts free-form model arguments into a typed Call.
// Unknown names fail with ErrUnknownTool, schema violations with ErrInvalidArgs.
func Decode(name string, args map[string]any) (Call, error) {
	decl, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	switch name {
	case NameRunBash:
		var c RunBash
		if err := decodeArgs(decl, args, &c); err != nil {
			return nil, err
		}
		if strings.TrimSpace(c.Command) == "" {
			return nil, fmt.Errorf("%w: command must not be empty", ErrInvalidArgs)
		}
		return c, nil
	case NameWriteFile:
		var c WriteFile
		if err := decodeArgs(decl, args, &c); err != nil {
			return nil, err
		}
		if strings.TrimSpace(c.Path) == "" {
			return nil, fmt.Errorf("%w: path must not be empty", ErrInvalidArgs)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// decodeArgs checks required keys then decodes args into out without weak typing.
func decodeArgs(decl Declaration, args map[string]any, out any) error {
	if decl.Parameters != nil {
		for _, key := range decl.Parameters.Required {
			if _, ok := args[key]; !ok {
				return fmt.Errorf("%w: missing required argument %q", ErrInvalidArgs, key)
			}
		}
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   out,
		Metadata: &md,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}

	if len(md.Unused) > 0 {
		slices.Sort(md.Unused)
		return fmt.Errorf("%w: unexpected arguments %v", ErrInvalidArgs, md.Unused)
	}
	return nil
}
