package arbor

// StencilFunc is the comparison a fragment's stencil value must pass against
// the reference for the fragment to be written.
type StencilFunc uint8

const (
	StencilAlways   StencilFunc = iota // always passes
	StencilEqual                       // passes when stencil == ref
	StencilNotEqual                    // passes when stencil != ref
)

func (f StencilFunc) pass(v, ref uint8) bool {
	switch f {
	case StencilEqual:
		return v == ref
	case StencilNotEqual:
		return v != ref
	}
	return true
}

// StencilOp is applied to the stencil value of every fragment that passes the
// test.
type StencilOp uint8

const (
	StencilKeep      StencilOp = iota // leave the value unchanged
	StencilReplace                    // write the reference value
	StencilIncrement                  // add one, saturating at 255
)

func (o StencilOp) apply(v, ref uint8) uint8 {
	switch o {
	case StencilReplace:
		return ref
	case StencilIncrement:
		if v < 255 {
			return v + 1
		}
	}
	return v
}

// StencilState configures stencil testing for subsequent fills. The zero
// value disables it.
type StencilState struct {
	Enabled bool
	Func    StencilFunc
	Ref     uint8
	Op      StencilOp
}

// Target is a drawing surface with a color plane and an 8-bit stencil plane.
// Elements draw into it through FillPath; the Compositor drives the color
// write mask and stencil state to clip them.
type Target interface {
	// FillPath fills the closed polygon path (view coordinates) with c,
	// subject to the current stencil state and color write mask.
	FillPath(path []Vec2, c Color)
	// SetColorWrite enables or disables writes to the color plane.
	SetColorWrite(enabled bool)
	// SetStencil replaces the stencil state.
	SetStencil(st StencilState)
	// ClearStencil zeroes the stencil plane.
	ClearStencil()
}

// Compositor implements the layered stencil clip protocol. For an element
// with n clipping ancestors it numbers the nested region where all n overlap
// as layer n, then restricts the element's own draws to that layer.
type Compositor struct {
	// LayerOffset is added to the clip layer index when testing.
	LayerOffset int

	chain []*Element
}

// Begin prepares t so that subsequent fills are clipped to every clipping
// ancestor of e. It reports false, leaving t untouched, when e is not
// clipped or has no clipping ancestor; End need not be called then.
func (c *Compositor) Begin(t Target, e *Element) bool {
	if !e.clip {
		return false
	}
	c.chain = clipChain(e, c.chain[:0])
	if len(c.chain) == 0 {
		return false
	}

	t.ClearStencil()
	t.SetColorWrite(false)
	t.SetStencil(StencilState{Enabled: true, Func: StencilAlways, Ref: 1, Op: StencilReplace})
	DrawBorderless(t, c.chain[0])
	if len(c.chain) > 1 {
		t.SetStencil(StencilState{Enabled: true, Func: StencilNotEqual, Ref: 0, Op: StencilIncrement})
		for _, a := range c.chain[1:] {
			DrawBorderless(t, a)
		}
	}
	t.SetColorWrite(true)

	ref := e.clipLayer + c.LayerOffset
	if ref < 0 {
		ref = 0
	} else if ref > 255 {
		ref = 255
	}
	t.SetStencil(StencilState{Enabled: true, Func: StencilEqual, Ref: uint8(ref), Op: StencilKeep})
	clear(c.chain)
	return true
}

// End disables stencil testing after a clipped element has been drawn.
func (c *Compositor) End(t Target) {
	t.SetStencil(StencilState{})
}

// clipChain appends the clipping ancestors of e to buf in root-to-parent
// order.
func clipChain(e *Element, buf []*Element) []*Element {
	for p := e.parent; p != nil; p = p.parent {
		if p.clip {
			buf = append(buf, p)
		}
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

// DrawBorderless draws e's shape without its outline. OnDrawBorderless
// overrides the default shape fill.
func DrawBorderless(t Target, e *Element) {
	if e.OnDrawBorderless != nil {
		e.OnDrawBorderless(t, e)
		return
	}
	t.FillPath(e.shape().Path(e.BorderlessBounds()), ColorWhite)
}
