package arbor

// Alignment is a set of anchor flags. Edge flags pin the element to the
// corresponding edge of its parent's borderless bounds; center flags center
// it on that axis. Axes combine independently.
type Alignment uint8

const (
	AlignNone    Alignment = 0
	AlignTop     Alignment = 1 << 0 // pin to the top edge
	AlignBottom  Alignment = 1 << 1 // pin to the bottom edge
	AlignLeft    Alignment = 1 << 2 // pin to the left edge
	AlignRight   Alignment = 1 << 3 // pin to the right edge
	AlignHCenter Alignment = 1 << 4 // center horizontally
	AlignVCenter Alignment = 1 << 5 // center vertically

	AlignCenter       = AlignHCenter | AlignVCenter
	AlignTopLeft      = AlignTop | AlignLeft
	AlignTopRight     = AlignTop | AlignRight
	AlignBottomLeft   = AlignBottom | AlignLeft
	AlignBottomRight  = AlignBottom | AlignRight
	AlignTopCenter    = AlignTop | AlignHCenter
	AlignBottomCenter = AlignBottom | AlignHCenter
	AlignLeftCenter   = AlignLeft | AlignVCenter
	AlignRightCenter  = AlignRight | AlignVCenter
)

// SizePolicy makes an element track its parent's borderless bounds on the
// selected axes, minus a margin.
type SizePolicy uint8

const (
	SizePolicyNone        SizePolicy = 0
	FitParentHorizontally SizePolicy = 1 << 0
	FitParentVertically   SizePolicy = 1 << 1
	FitParent                        = FitParentHorizontally | FitParentVertically
)

// layoutArea returns the rectangle e is laid out in, expressed in the
// coordinate space of e's X and Y: the parent's borderless bounds at the
// origin, or the scene viewport for top-level elements.
func (e *Element) layoutArea() (Rect, bool) {
	if e.parent != nil {
		return Rect{Width: e.parent.Width, Height: e.parent.Height}, true
	}
	if e.scene != nil {
		return e.scene.viewport, true
	}
	return Rect{}, false
}

// resolveGeometry applies size policies and alignment to every registered
// element, parents before children so each sees a resolved parent.
func (s *Scene) resolveGeometry() {
	for _, r := range s.roots {
		resolveTree(r)
	}
}

func resolveTree(e *Element) {
	e.resolveGeometry()
	for _, c := range e.children {
		resolveTree(c)
	}
}

// resolveGeometry resolves e's size policy and then its alignment. Policy
// comes first because alignment depends on the just-resolved size.
func (e *Element) resolveGeometry() {
	if e.SizePolicy == SizePolicyNone && e.Alignment == AlignNone {
		return
	}
	area, ok := e.layoutArea()
	if !ok {
		return
	}
	e.applySizePolicy(area)
	e.applyAlignment(area)
}

func (e *Element) applySizePolicy(area Rect) {
	m := e.SizePolicyMargin
	if e.SizePolicy&FitParentHorizontally != 0 {
		e.X = area.X + m.X + e.Outline
		e.Width = nonNegative(area.Width - 2*m.X - 2*e.Outline)
	}
	if e.SizePolicy&FitParentVertically != 0 {
		e.Y = area.Y + m.Y + e.Outline
		e.Height = nonNegative(area.Height - 2*m.Y - 2*e.Outline)
	}
}

// applyAlignment positions e inside area. Left wins over Right and Top over
// Bottom when both are set. The outline inset applies only on axes whose
// anchor touches an edge.
func (e *Element) applyAlignment(area Rect) {
	a := e.Alignment
	m := e.AlignMargin
	switch {
	case a&AlignLeft != 0:
		e.X = area.X + m.X + e.Outline
	case a&AlignRight != 0:
		e.X = area.X + area.Width - e.Width - m.X - e.Outline
	case a&AlignHCenter != 0:
		e.X = area.X + (area.Width-e.Width)/2 + m.X
	}
	switch {
	case a&AlignTop != 0:
		e.Y = area.Y + m.Y + e.Outline
	case a&AlignBottom != 0:
		e.Y = area.Y + area.Height - e.Height - m.Y - e.Outline
	case a&AlignVCenter != 0:
		e.Y = area.Y + (area.Height-e.Height)/2 + m.Y
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
