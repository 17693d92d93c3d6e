package arbor

import "testing"

func TestDebugOverlayStaysOnTopAndIgnoresInput(t *testing.T) {
	s := newTestScene(t)
	btn := NewButton("btn", 100, 100)
	btn.SetPriority(50)
	s.Add(btn)
	ov := NewDebugOverlay()
	s.Add(ov)

	step(t, s, pointer(10, 10, false))

	if ov.Priority() <= btn.Priority() {
		t.Errorf("overlay priority %d not above %d", ov.Priority(), btn.Priority())
	}
	if s.caught != btn {
		t.Errorf("caught = %s, want btn", elementName(s.caught))
	}
	for _, e := range s.NavigationOrder() {
		if e == ov {
			t.Error("overlay is navigable")
		}
	}
}

func TestDebugOverlayDrawsBackgroundOnCanvas(t *testing.T) {
	s := newTestScene(t)
	s.Add(NewDebugOverlay())
	step(t, s, pointer(150, 150, false))

	cv := NewCanvas(200, 200)
	s.Draw(cv)
	if a := cv.Image().RGBAAt(10, 10).A; a == 0 {
		t.Error("overlay background not drawn")
	}
	if a := cv.Image().RGBAAt(150, 150).A; a != 0 {
		t.Errorf("pixel outside overlay alpha = %d", a)
	}
}
