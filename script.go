package arbor

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string   `yaml:"action"`
	Label  string   `yaml:"label,omitempty"`
	X      float64  `yaml:"x,omitempty"`
	Y      float64  `yaml:"y,omitempty"`
	FromX  float64  `yaml:"fromX,omitempty"`
	FromY  float64  `yaml:"fromY,omitempty"`
	ToX    float64  `yaml:"toX,omitempty"`
	ToY    float64  `yaml:"toY,omitempty"`
	DX     float64  `yaml:"dx,omitempty"`
	DY     float64  `yaml:"dy,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
	Key    string   `yaml:"key,omitempty"`
	Mods   []string `yaml:"mods,omitempty"`
	Text   string   `yaml:"text,omitempty"`

	key  ebiten.Key
	mods KeyModifiers
}

// scriptFile is the top-level document of a script.
type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script sequences injected input and screenshots across frames for
// automated testing. Attach it to a Scene with SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML script. JSON is valid YAML, so JSON scripts load
// too. Example:
//
//	steps:
//	  - {action: hover, x: 40, y: 40}
//	  - {action: click, x: 40, y: 40}
//	  - {action: key, key: Tab, mods: [shift]}
//	  - {action: wait, frames: 3}
//	  - {action: screenshot, label: after-tab}
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i := range f.Steps {
		if err := f.Steps[i].resolve(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &Script{steps: f.Steps}, nil
}

func (st *scriptStep) resolve() error {
	switch st.Action {
	case "click", "press", "release", "move", "hover", "drag", "scroll", "text", "wait", "screenshot":
	case "key":
		if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
			return fmt.Errorf("key %q: %w", st.Key, err)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	for _, m := range st.Mods {
		switch strings.ToLower(m) {
		case "shift":
			st.mods |= ModShift
		case "ctrl", "control":
			st.mods |= ModCtrl
		case "alt", "option":
			st.mods |= ModAlt
		case "meta", "cmd", "super":
			st.mods |= ModMeta
		default:
			return fmt.Errorf("unknown modifier %q", m)
		}
	}
	return nil
}

// SetScript attaches a script to the scene. Its step method is called from
// Update before input is read each frame.
func (s *Scene) SetScript(sc *Script) {
	s.script = sc
}

// Done reports whether all steps have been executed.
func (sc *Script) Done() bool {
	return sc.done
}

// step advances the script by one frame.
func (sc *Script) step(s *Scene) {
	if sc.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if sc.waitCount > 0 {
		sc.waitCount--
		return
	}
	if sc.cursor >= len(sc.steps) {
		sc.done = true
		return
	}

	st := sc.steps[sc.cursor]
	sc.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "press":
		s.InjectPress(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		s.InjectScroll(st.DX, st.DY)
	case "key":
		s.InjectKey(st.key, st.mods)
	case "text":
		s.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			sc.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if sc.cursor >= len(sc.steps) && sc.waitCount == 0 && len(s.injectQueue) == 0 {
		sc.done = true
	}
}
