package quill

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a replay script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	DX     float64 `yaml:"dx,omitempty"`
	DY     float64 `yaml:"dy,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Tool   string  `yaml:"tool,omitempty"`
	Mods   string  `yaml:"mods,omitempty"`

	mods KeyModifiers
	key  Key
	tool Tool
}

// script is the top-level YAML structure of a replay script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner sequences injected input across frames for automated replay.
// Attach it to an Editor via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// parseModifiers parses "shift", "ctrl+shift" and similar.
func parseModifiers(s string) (KeyModifiers, error) {
	var mods KeyModifiers
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	for _, p := range strings.Split(strings.ToLower(s), "+") {
		switch strings.TrimSpace(p) {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "meta", "cmd", "super":
			mods |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", p)
		}
	}
	return mods, nil
}

// ParseScript parses a YAML replay script and validates every step.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i := range sc.Steps {
		st := &sc.Steps[i]
		mods, err := parseModifiers(st.Mods)
		if err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
		st.mods = mods
		switch st.Action {
		case "press", "move", "release", "click", "drag", "wheel", "wait":
		case "key":
			k, err := ParseKey(st.Key)
			if err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
			st.key = k
		case "tool":
			t, err := ParseTool(st.Tool)
			if err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
			st.tool = t
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// LoadScript reads and parses a YAML replay script file.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return ParseScript(data)
}

// SetScriptRunner attaches a runner to the editor. Its step method is called
// from Editor.Update before injected input is processed.
func (e *Editor) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether all steps have been executed and their input drained.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Len returns the number of steps in the script.
func (r *ScriptRunner) Len() int {
	return len(r.steps)
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if e.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		e.InjectPress(st.X, st.Y, st.mods)
	case "move":
		e.InjectMove(st.X, st.Y, st.mods)
	case "release":
		e.InjectRelease(st.X, st.Y, st.mods)
	case "click":
		e.InjectClick(st.X, st.Y, st.mods)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2), st.mods)
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.DX, st.DY, st.mods)
	case "key":
		e.InjectKey(st.key, st.mods)
	case "tool":
		e.SetTool(st.tool)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	if st.Label != "" {
		Logger().Debug("script step", "step", r.cursor-1, "label", st.Label, "action", st.Action)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && e.Pending() == 0 {
		r.done = true
	}
}

// RunScript drives e with fixed frames of dt seconds until r is done.
// It fails if the script has not finished after maxFrames frames.
func RunScript(e *Editor, r *ScriptRunner, dt float32, maxFrames int) (int, error) {
	e.SetScriptRunner(r)
	defer e.SetScriptRunner(nil)
	for frame := 1; frame <= maxFrames; frame++ {
		e.Update(dt)
		if r.Done() && e.Pending() == 0 {
			return frame, nil
		}
	}
	return maxFrames, fmt.Errorf("run script: not finished after %d frames", maxFrames)
}
