package arbor

import "github.com/hajimehoshi/ebiten/v2"

// Focused returns the element holding keyboard focus, or nil.
func (s *Scene) Focused() *Element {
	return s.focus
}

// Focus gives e keyboard focus, blurring the previous holder. No-op when e
// has DisableFocus set, is not registered with s, or already has focus.
func (s *Scene) Focus(e *Element) {
	if e == nil || e.DisableFocus || e.scene != s || s.focus == e {
		return
	}
	s.Unfocus()
	s.focus = e
	e.focused = true
	s.logger.Debug("focus", "element", e.Name, "id", e.ID)
	s.fireElement(EventFocus, e)
}

// Unfocus clears the focus slot. No-op when nothing has focus.
func (s *Scene) Unfocus() {
	prev := s.focus
	if prev == nil {
		return
	}
	s.focus = nil
	prev.focused = false
	s.fireElement(EventBlur, prev)
}

// Focus is shorthand for e.Scene().Focus(e).
func (e *Element) Focus() {
	if e.scene != nil {
		e.scene.Focus(e)
	}
}

// canNavigate reports whether e belongs in the Tab order.
func canNavigate(e *Element) bool {
	return e.Navigable && !e.DisableFocus && e.IsActiveInTree() && e.IsVisibleInTree()
}

// NavigationOrder returns the elements Tab cycles through, ordered by
// NavPriority and then registration order.
func (s *Scene) NavigationOrder() []*Element {
	s.nav = s.nav[:0]
	for _, e := range s.reg.elems {
		if canNavigate(e) {
			s.nav = append(s.nav, e)
		}
	}
	insertionSort(s.nav, func(a, b *Element) bool {
		if a.NavPriority != b.NavPriority {
			return a.NavPriority < b.NavPriority
		}
		return a.seq < b.seq
	})
	return s.nav
}

// FocusNext moves focus to the next element in navigation order, wrapping
// around. With nothing focused it selects the first element.
func (s *Scene) FocusNext() {
	s.focusStep(1)
}

// FocusPrev moves focus to the previous element in navigation order,
// wrapping around. With nothing focused it selects the first element.
func (s *Scene) FocusPrev() {
	s.focusStep(-1)
}

func (s *Scene) focusStep(dir int) {
	order := s.NavigationOrder()
	if len(order) == 0 {
		return
	}
	cur := -1
	for i, e := range order {
		if e == s.focus {
			cur = i
			break
		}
	}
	next := 0
	if cur >= 0 {
		next = (cur + dir + len(order)) % len(order)
	}
	s.Focus(order[next])
}

// maintainFocus drops focus held by an element that can no longer take it
// and clears the focused flag on every other element.
func (s *Scene) maintainFocus() {
	if f := s.focus; f != nil {
		if f.scene != s || f.DisableFocus || !f.IsActiveInTree() || !f.IsVisibleInTree() {
			s.Unfocus()
		}
	}
	for _, e := range s.reg.elems {
		if e.focused && (e != s.focus || e.DisableFocus) {
			e.focused = false
		}
	}
}

// processKeyboard routes this frame's keys and text. Tab and Shift+Tab
// navigate, Escape clears focus, Enter and Space click the focused element,
// and everything else goes to the focused element's OnKey and OnText.
func (s *Scene) processKeyboard(in *InputSnapshot) {
	for _, k := range in.KeysPressed {
		f := s.focus
		if f != nil && f.scene == s {
			if s.fireKey(KeyContext{Element: f, Key: k, Modifiers: in.Modifiers}) {
				continue
			}
		}
		switch k {
		case ebiten.KeyTab:
			if !s.cfg.TabNavigation {
				continue
			}
			if in.Modifiers&ModShift != 0 {
				s.FocusPrev()
			} else {
				s.FocusNext()
			}
		case ebiten.KeyEscape:
			s.Unfocus()
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeySpace:
			if f != nil && f.scene == s {
				s.activate(f, in)
			}
		}
	}

	if f := s.focus; f != nil && f.OnText != nil {
		for _, r := range in.Text {
			f.OnText(f, r)
		}
	}
}

// activate delivers a keyboard click to e.
func (s *Scene) activate(e *Element, in *InputSnapshot) {
	p := e.BorderlessBounds().Center()
	ctx := PointerContext{
		Type: EventClick, Element: e, EntityID: e.EntityID, UserData: e.UserData,
		X: p.X, Y: p.Y, LocalX: e.Width / 2, LocalY: e.Height / 2,
		Button: MouseButtonLeft, Modifiers: in.Modifiers,
	}
	s.firePointer(ctx)
}
