package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToolDescription_RunBash(t *testing.T) {
	result := FormatToolDescription("run_bash", map[string]any{"command": "docker ps -a"})
	assert.Equal(t, "$ docker ps -a", result)
}

func TestFormatToolDescription_RunBash_Multiline(t *testing.T) {
	result := FormatToolDescription("run_bash", map[string]any{"command": "cd src\nmake"})
	assert.Equal(t, "$ cd src ...", result)
}

func TestFormatToolDescription_WriteFile(t *testing.T) {
	result := FormatToolDescription("write_file", map[string]any{"path": "main.go", "content": "package main"})
	assert.Equal(t, "write main.go (12 bytes)", result)
}

func TestFormatToolDescription_Unknown(t *testing.T) {
	assert.Equal(t, "mystery", FormatToolDescription("mystery", map[string]any{"x": 1}))
	assert.Equal(t, "run_bash", FormatToolDescription("run_bash", map[string]any{}))
}

func TestFormatArgs_Indented(t *testing.T) {
	result := FormatArgs(map[string]any{"command": "ls"})
	assert.Equal(t, "{\n  \"command\": \"ls\"\n}", result)
	assert.Equal(t, "{}", FormatArgs(nil))
}

func TestTruncateLines(t *testing.T) {
	assert.Equal(t, "a\nb", TruncateLines("a\nb\n", 5))
	assert.Equal(t, "a\nb\n... (2 more lines)", TruncateLines("a\nb\nc\nd", 2))
}

type stubRenderer struct {
	out string
	err error
}

func (s stubRenderer) Render(content string, width int) (string, error) { return s.out, s.err }

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("**hi**", 80, stubRenderer{out: "\n\n  hi\n\n"})
	require.NoError(t, err)
	assert.Equal(t, "  hi", out)

	_, err = RenderMarkdown("x", 80, stubRenderer{err: errors.New("boom")})
	assert.Error(t, err)

	out, err = RenderMarkdown("plain", 80, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestGlamourRenderer_RendersText(t *testing.T) {
	r := NewGlamourRenderer("notty")

	out, err := r.Render("# Title\n\nsome text", 40)

	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "some text")
}
