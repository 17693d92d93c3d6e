package arbor

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewDebugOverlay creates an element that prints FPS, TPS, element count,
// and the caught, holding, and focused element names in the top-left corner.
// It snaps above everything, ignores input, and cannot take focus. The text
// refreshes every half second and is only drawn on an EbitenTarget.
func NewDebugOverlay() *Element {
	e := NewElement("debug_overlay")
	e.Kind = "overlay"
	e.Snap = SnapTop
	e.IgnoreInput = true
	e.DisableFocus = true
	e.SetSize(220, 64)
	e.FillColor = Color{0, 0, 0, 0.5}

	var text string
	elapsed := 1.0 // refresh on the first tick

	e.OnUpdate = func(e *Element, dt float64) {
		elapsed += dt
		if elapsed < 0.5 {
			return
		}
		elapsed = 0
		s := e.scene
		text = fmt.Sprintf("FPS: %.1f  TPS: %.1f\nelements: %d\ncaught: %s  holding: %s\nfocus: %s",
			ebiten.ActualFPS(), ebiten.ActualTPS(), s.Len(),
			elementName(s.caught), elementName(s.holding), elementName(s.focus))
	}

	e.OnDraw = func(t Target, e *Element) {
		t.FillPath(e.shape().Path(e.BorderlessBounds()), e.FillColor)
		et, ok := t.(*EbitenTarget)
		if !ok {
			return
		}
		p := e.AbsolutePosition()
		ebitenutil.DebugPrintAt(et.Image(), text, int(p.X)+4, int(p.Y)+2)
	}
	return e
}

func elementName(e *Element) string {
	if e == nil {
		return "-"
	}
	return e.Name
}
