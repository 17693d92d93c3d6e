package arbor

import "image"

// ClipArea returns the device rectangle e is clipped to for hit testing: its
// parent's borderless bounds, or the scene viewport for top-level elements.
func ClipArea(e *Element) image.Rectangle {
	if e.parent != nil {
		return e.parent.ThisClipArea()
	}
	if e.scene != nil {
		return e.scene.viewport.Pixels()
	}
	return unboundedClip
}

// IntersectedClipArea intersects the clip areas of e and every ancestor. It
// returns the empty rectangle as soon as any pair fails to overlap. The
// result never grows with depth.
func IntersectedClipArea(e *Element) image.Rectangle {
	r := ClipArea(e)
	for p := e.parent; p != nil; p = p.parent {
		r = r.Intersect(ClipArea(p))
		if r.Empty() {
			return image.Rectangle{}
		}
	}
	return r
}

// ContainsPoint reports whether the view-space point lies inside e's shape
// and inside the clip area of every ancestor.
func ContainsPoint(e *Element, x, y float64) bool {
	if !e.shape().Contains(e.Bounds(), x, y) {
		return false
	}
	return pointInPixels(IntersectedClipArea(e), x, y)
}

// assignClipLayers recomputes every registered element's clip layer index:
// the number of its ancestors with the clip flag set.
func (s *Scene) assignClipLayers() {
	for _, r := range s.roots {
		assignClipLayer(r, 0)
	}
}

func assignClipLayer(e *Element, layer int) {
	e.clipLayer = layer
	if e.clip {
		layer++
	}
	for _, c := range e.children {
		assignClipLayer(c, layer)
	}
}
