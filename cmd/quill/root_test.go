package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testShapes = `
shapes:
  - id: frame
    kind: frame
    x: 0
    y: 0
    w: 1000
    h: 1000
  - id: label
    kind: text
    x: 100
    y: 100
    w: 50
    h: 20
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHitCommand_BestAtPoint(t *testing.T) {
	shapes := writeFile(t, "shapes.yaml", testShapes)

	out, err := execute(t, "hit", "--shapes", shapes, "--x", "110", "--y", "105")
	require.NoError(t, err)

	var rep hitReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "label", rep.Best)
	require.Len(t, rep.Ranked, 2)
	assert.Equal(t, "label", rep.Ranked[0].ID)
	assert.Equal(t, "frame", rep.Ranked[1].ID)
	assert.Greater(t, rep.Ranked[0].Priority, rep.Ranked[1].Priority)
}

func TestHitCommand_Rectangle(t *testing.T) {
	shapes := writeFile(t, "shapes.yaml", testShapes)

	tests := []struct {
		mode string
		want []string
	}{
		{"intersects", []string{"frame", "label"}},
		{"contains", []string{"label"}},
		{"center", []string{"label"}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			out, err := execute(t, "hit", "--shapes", shapes,
				"--x", "0", "--y", "0", "--w", "200", "--h", "200", "--mode", tt.mode)
			require.NoError(t, err)

			var rep hitReport
			require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
			assert.Equal(t, tt.mode, rep.Mode)
			assert.Equal(t, tt.want, rep.Matches)
		})
	}
}

func TestHitCommand_InvalidMode(t *testing.T) {
	shapes := writeFile(t, "shapes.yaml", testShapes)
	_, err := execute(t, "hit", "--shapes", shapes, "--w", "10", "--h", "10", "--mode", "nearest")
	assert.Error(t, err)
}

func TestHitCommand_Miss(t *testing.T) {
	shapes := writeFile(t, "shapes.yaml", testShapes)
	out, err := execute(t, "hit", "--shapes", shapes, "--x", "-50", "--y", "-50")
	require.NoError(t, err)

	var rep hitReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Empty(t, rep.Best)
	assert.Empty(t, rep.Ranked)
}

func TestLoadDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing id", "shapes:\n  - kind: rect\n    w: 10\n"},
		{"duplicate id", "shapes:\n  - id: a\n  - id: a\n"},
		{"bad kind", "shapes:\n  - id: a\n    kind: hexagon\n"},
		{"not yaml", "shapes: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadDocument(writeFile(t, "doc.yaml", tt.content))
			assert.Error(t, err)
		})
	}

	doc, err := loadDocument("")
	require.NoError(t, err)
	assert.Empty(t, doc.Shapes)
}

func TestReplayCommand_ClickThenDrag(t *testing.T) {
	shapes := writeFile(t, "shapes.yaml", `
shapes:
  - id: a
    x: 0
    y: 0
    w: 100
    h: 100
`)
	script := writeFile(t, "script.yaml", `
steps:
  - action: click
    x: 50
    y: 50
  - action: drag
    fromX: 50
    fromY: 50
    toX: 150
    toY: 50
    frames: 5
`)

	out, err := execute(t, "replay", "--shapes", shapes, script)
	require.NoError(t, err)

	var rep replayReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "idle", rep.State)
	assert.Equal(t, "select", rep.Tool)
	assert.Equal(t, []string{"a"}, rep.Selection)
	require.Len(t, rep.Shapes, 1)
	assert.InDelta(t, 100, rep.Shapes[0].X, 1e-9)
	assert.InDelta(t, 0, rep.Shapes[0].Y, 1e-9)
	assert.Zero(t, rep.Stats.Faults)
	assert.Zero(t, rep.Stats.InvalidTransitions)
}

func TestReplayCommand_CreateRectangle(t *testing.T) {
	script := writeFile(t, "script.yaml", `
steps:
  - action: tool
    tool: rectangle
  - action: click
    x: 300
    y: 200
`)

	out, err := execute(t, "replay", script)
	require.NoError(t, err)

	var rep replayReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Shapes, 1)
	s := rep.Shapes[0]
	assert.Equal(t, "rectangle", rep.Tool)
	assert.InDelta(t, 300, s.X, 1e-9)
	assert.InDelta(t, 200, s.Y, 1e-9)
	assert.InDelta(t, 100, s.W, 1e-9)
	assert.InDelta(t, 100, s.H, 1e-9)
	assert.Equal(t, []string{s.ID}, rep.Selection)
}

func TestReplayCommand_BadScript(t *testing.T) {
	script := writeFile(t, "script.yaml", "steps:\n  - action: teleport\n")
	_, err := execute(t, "replay", script)
	assert.Error(t, err)

	_, err = execute(t, "replay")
	assert.Error(t, err)
}
