package arbor

import "github.com/hajimehoshi/ebiten/v2"

// Injected input drives a Scene without a window, for tests and scripted
// runs. Each Inject call queues one frame of input; while the queue is
// non-empty Update consumes one entry per frame instead of polling the
// InputSource. Pointer position and button state carry over between
// injected frames, so InjectKey after InjectMove keeps the pointer in place.

func (s *Scene) injectFrame(edit func(in *InputSnapshot)) {
	in := InputSnapshot{
		WindowX: s.injectCursor.X, WindowY: s.injectCursor.Y,
		X: s.injectCursor.X, Y: s.injectCursor.Y,
		Buttons: s.injectButtons,
	}
	edit(&in)
	in.WindowX, in.WindowY = in.X, in.Y
	s.injectCursor = Vec2{in.X, in.Y}
	s.injectButtons = in.Buttons
	s.injectQueue = append(s.injectQueue, in)
}

// InjectInput queues a raw snapshot as-is.
func (s *Scene) InjectInput(in InputSnapshot) {
	s.injectCursor = Vec2{in.X, in.Y}
	s.injectButtons = in.Buttons
	s.injectQueue = append(s.injectQueue, in)
}

// InjectHover queues a pointer move to (x, y) with every button up.
func (s *Scene) InjectHover(x, y float64) {
	s.injectFrame(func(in *InputSnapshot) {
		in.X, in.Y = x, y
		in.Buttons = [mouseButtonCount]bool{}
	})
}

// InjectPress queues a left-button press at (x, y).
func (s *Scene) InjectPress(x, y float64) {
	s.injectFrame(func(in *InputSnapshot) {
		in.X, in.Y = x, y
		in.Buttons[MouseButtonLeft] = true
	})
}

// InjectMove queues a pointer move to (x, y) with the left button held.
// Use this between InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectFrame(func(in *InputSnapshot) {
		in.X, in.Y = x, y
		in.Buttons[MouseButtonLeft] = true
	})
}

// InjectRelease queues a left-button release at (x, y).
func (s *Scene) InjectRelease(x, y float64) {
	s.injectFrame(func(in *InputSnapshot) {
		in.X, in.Y = x, y
		in.Buttons[MouseButtonLeft] = false
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.InjectMove(x, y)
	}
	s.InjectRelease(toX, toY)
}

// InjectScroll queues a wheel movement at the current pointer position.
func (s *Scene) InjectScroll(dx, dy float64) {
	s.injectFrame(func(in *InputSnapshot) {
		in.ScrollX, in.ScrollY = dx, dy
	})
}

// InjectKey queues a key press with the given modifiers.
func (s *Scene) InjectKey(k ebiten.Key, mods KeyModifiers) {
	s.injectFrame(func(in *InputSnapshot) {
		in.KeysPressed = []ebiten.Key{k}
		in.Modifiers = mods
	})
}

// InjectText queues text entry for the focused element.
func (s *Scene) InjectText(text string) {
	s.injectFrame(func(in *InputSnapshot) {
		in.Text = []rune(text)
	})
}

// PendingInput returns the number of queued injected frames.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// popInjected removes and returns the next injected frame.
func (s *Scene) popInjected() (InputSnapshot, bool) {
	if len(s.injectQueue) == 0 {
		return InputSnapshot{}, false
	}
	in := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue[len(s.injectQueue)-1] = InputSnapshot{}
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	return in, true
}
