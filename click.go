package arbor

import "fmt"

// TruePressPolicy decides when a latched true-press ends.
type TruePressPolicy uint8

const (
	// TruePressUntilRelease keeps the true-press until the button is
	// released, wherever the pointer is.
	TruePressUntilRelease TruePressPolicy = iota
	// TruePressUntilUnpressed ends the true-press as soon as the element is
	// no longer pressed, i.e. it loses hover or the button is released.
	TruePressUntilUnpressed
)

var truePressNames = [...]string{"until-release", "until-unpressed"}

func (p TruePressPolicy) String() string {
	if int(p) < len(truePressNames) {
		return truePressNames[p]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p TruePressPolicy) MarshalText() ([]byte, error) {
	if int(p) >= len(truePressNames) {
		return nil, fmt.Errorf("arbor: unknown true-press policy %d", p)
	}
	return []byte(truePressNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TruePressPolicy) UnmarshalText(b []byte) error {
	for i, name := range truePressNames {
		if string(b) == name {
			*p = TruePressPolicy(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown true-press policy %q", ErrInvalidConfig, b)
}

// MouseClickState is an element's per-frame view of the primary button. The
// Was fields hold the previous frame's values.
type MouseClickState struct {
	IsOver        bool // pointer inside the element's clipped shape
	IsHover       bool // element is the frame's caught element
	IsDown        bool // primary button physically down
	IsPressed     bool // IsHover && IsDown
	IsTruePressed bool // press began while hovering this element

	WasOver        bool
	WasHover       bool
	WasDown        bool
	WasPressed     bool
	WasTruePressed bool
}

// update shifts the current flags into the Was fields and recomputes them.
func (m *MouseClickState) update(over, hover, down bool, policy TruePressPolicy) {
	m.WasOver = m.IsOver
	m.WasHover = m.IsHover
	m.WasDown = m.IsDown
	m.WasPressed = m.IsPressed
	m.WasTruePressed = m.IsTruePressed

	m.IsOver = over
	m.IsHover = hover
	m.IsDown = down
	m.IsPressed = hover && down

	switch {
	case m.IsPressed && !m.WasDown:
		m.IsTruePressed = true
	case m.WasTruePressed && policy == TruePressUntilUnpressed:
		m.IsTruePressed = m.IsPressed
	case m.WasTruePressed:
		m.IsTruePressed = m.IsDown
	default:
		m.IsTruePressed = false
	}
}

// Entered reports whether hover began this frame.
func (m MouseClickState) Entered() bool { return m.IsHover && !m.WasHover }

// Left reports whether hover ended this frame.
func (m MouseClickState) Left() bool { return !m.IsHover && m.WasHover }

// Pressed reports whether a true-press began this frame.
func (m MouseClickState) Pressed() bool { return m.IsTruePressed && !m.WasTruePressed }

// Released reports whether a true-press ended this frame.
func (m MouseClickState) Released() bool { return !m.IsTruePressed && m.WasTruePressed }

// Clicked reports whether this frame's release counts as a click. Unless
// anywhere is set the pointer must still be over the element.
func (m MouseClickState) Clicked(anywhere bool) bool {
	return m.Released() && (m.IsOver || anywhere)
}
