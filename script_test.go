package arbor

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, s *Scene, sc *Script) int {
	t.Helper()
	s.SetScript(sc)
	frames := 0
	for !sc.Done() {
		require.NoError(t, s.Update())
		frames++
		require.Less(t, frames, 100, "script did not finish")
	}
	return frames
}

func TestScriptClickAndFocus(t *testing.T) {
	s, _, b, _ := scenario(t)
	sc, err := LoadScript([]byte(`
steps:
  - {action: hover, x: 60, y: 60}
  - {action: click, x: 60, y: 60}
  - {action: key, key: Tab}
  - {action: text, text: ok}
`))
	require.NoError(t, err)

	var clicks int
	var typed strings.Builder
	b.OnClick = func(PointerContext) { clicks++ }
	b.OnText = func(_ *Element, r rune) { typed.WriteRune(r) }

	runScript(t, s, sc)
	drain(t, s)

	assert.Equal(t, 1, clicks)
	assert.Same(t, b, s.Focused())
	assert.Equal(t, "ok", typed.String())
}

func TestScriptKeyModifiers(t *testing.T) {
	s, bs := threeButtons(t)
	sc, err := LoadScript([]byte(`{"steps": [{"action": "key", "key": "Tab", "mods": ["Shift"]}]}`))
	require.NoError(t, err)
	runScript(t, s, sc)
	drain(t, s)
	assert.Same(t, bs[0], s.Focused())

	require.Len(t, sc.steps, 1)
	assert.Equal(t, ebiten.KeyTab, sc.steps[0].key)
	assert.Equal(t, ModShift, sc.steps[0].mods)
}

func TestScriptWait(t *testing.T) {
	s := newTestScene(t)
	sc, err := LoadScript([]byte("steps:\n  - {action: wait, frames: 4}\n"))
	require.NoError(t, err)
	frames := runScript(t, s, sc)
	assert.Equal(t, 5, frames, "four waiting frames plus the frame that notices completion")
}

func TestScriptScreenshotQueues(t *testing.T) {
	s := newTestScene(t)
	sc, err := LoadScript([]byte("steps:\n  - {action: screenshot, label: first}\n"))
	require.NoError(t, err)
	runScript(t, s, sc)
	assert.Equal(t, []string{"first"}, s.screenshotQueue)
}

func TestLoadScriptErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "steps: []",
		"unknown action": "steps:\n  - {action: teleport}",
		"bad key":        "steps:\n  - {action: key, key: NoSuchKey}",
		"bad modifier":   "steps:\n  - {action: key, key: A, mods: [hyper]}",
		"syntax":         "steps: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScript([]byte(data))
			assert.Error(t, err)
		})
	}
}
