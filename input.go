package arbor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSnapshot is one frame of raw input. Slices are only valid until the
// next poll.
type InputSnapshot struct {
	// Pointer position in window coordinates and mapped to view coordinates.
	WindowX, WindowY float64
	X, Y             float64

	Buttons          [mouseButtonCount]bool
	ScrollX, ScrollY float64

	KeysPressed  []ebiten.Key // went down this frame
	KeysReleased []ebiten.Key // went up this frame
	Text         []rune
	Modifiers    KeyModifiers
}

// Down reports whether button b is held.
func (in *InputSnapshot) Down(b MouseButton) bool {
	return b < mouseButtonCount && in.Buttons[b]
}

// KeyPressed reports whether k went down this frame.
func (in *InputSnapshot) KeyPressed(k ebiten.Key) bool {
	for _, p := range in.KeysPressed {
		if p == k {
			return true
		}
	}
	return false
}

// InputSource produces one InputSnapshot per frame.
type InputSource interface {
	Poll() InputSnapshot
}

// EbitenInput polls Ebitengine's mouse and keyboard state.
type EbitenInput struct {
	// MapToView converts window coordinates to view coordinates. Nil means
	// identity.
	MapToView func(x, y float64) (float64, float64)

	pressed  []ebiten.Key
	released []ebiten.Key
	chars    []rune
}

// Poll implements InputSource.
func (p *EbitenInput) Poll() InputSnapshot {
	mx, my := ebiten.CursorPosition()
	in := InputSnapshot{
		WindowX: float64(mx), WindowY: float64(my),
		X: float64(mx), Y: float64(my),
	}
	if p.MapToView != nil {
		in.X, in.Y = p.MapToView(in.WindowX, in.WindowY)
	}
	in.Buttons[MouseButtonLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Buttons[MouseButtonRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	in.Buttons[MouseButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	in.ScrollX, in.ScrollY = ebiten.Wheel()

	p.pressed = inpututil.AppendJustPressedKeys(p.pressed[:0])
	p.released = inpututil.AppendJustReleasedKeys(p.released[:0])
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	in.KeysPressed = p.pressed
	in.KeysReleased = p.released
	in.Text = p.chars
	in.Modifiers = readModifiers()
	return in
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// --- Arbitration ---

// Caught returns the element that owns pointer input this frame, or nil.
func (s *Scene) Caught() *Element {
	return s.caught
}

// TrueCaught returns the topmost element under the pointer regardless of
// IgnoreInput, or nil.
func (s *Scene) TrueCaught() *Element {
	return s.trueCaught
}

// Holding returns the element that began a true-press and keeps exclusive
// capture while the primary button stays down, or nil.
func (s *Scene) Holding() *Element {
	return s.holding
}

// processPointer runs capture resolution and every element's click state
// machine, queueing the resulting events.
func (s *Scene) processPointer(in *InputSnapshot) {
	s.resolveCapture(in)

	down := in.Down(MouseButtonLeft)
	anywhere := s.cfg.ClickAnywhere
	for _, e := range s.reg.elems {
		live := e.IsVisibleInTree() && e.IsActiveInTree()
		over := live && ContainsPoint(e, in.X, in.Y)
		e.click.update(over, e == s.caught, down, s.cfg.TruePress)

		m := e.click
		switch {
		case m.Left():
			s.queuePointer(EventMouseLeave, e, in)
		case m.Entered():
			s.queuePointer(EventMouseEnter, e, in)
		}
		switch {
		case m.Pressed():
			s.queuePointer(EventMouseDown, e, in)
		case m.Released():
			s.queuePointer(EventMouseUp, e, in)
			if m.Clicked(anywhere) {
				s.queuePointer(EventClick, e, in)
			}
		}
	}

	if c := s.caught; c != nil {
		if c.click.Pressed() {
			s.holding = c
		}
		if in.ScrollX != 0 || in.ScrollY != 0 {
			s.queuePointer(EventScroll, c, in)
		}
	}
}

// resolveCapture picks the caught and true-caught elements. A holding
// element keeps capture until the button is released or it stops being able
// to receive input. Under TruePressUntilUnpressed it also loses capture as
// soon as the pointer leaves it.
func (s *Scene) resolveCapture(in *InputSnapshot) {
	if h := s.holding; h != nil {
		keep := in.Down(MouseButtonLeft) && h.scene == s && h.IsVisibleInTree() && h.IsActiveInTree()
		if keep && s.cfg.TruePress == TruePressUntilUnpressed {
			keep = ContainsPoint(h, in.X, in.Y)
		}
		if keep {
			s.caught = h
			return
		}
		s.holding = nil
	}

	s.caught, s.trueCaught = nil, nil
	elems := s.reg.elems
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		if !e.IsVisibleInTree() || !e.IsActiveInTree() {
			continue
		}
		if !ContainsPoint(e, in.X, in.Y) {
			continue
		}
		if s.trueCaught == nil {
			s.trueCaught = e
		}
		if !e.IgnoreInput {
			s.caught = e
			return
		}
	}
}
