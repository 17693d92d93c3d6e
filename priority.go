package arbor

// PriorityOffset is the gap RaiseToTop and friends leave between an element
// and the extreme they were measured against.
const PriorityOffset = 1

// PrioritySnap forces an element to re-assert its position in the ordering on
// every update tick.
type PrioritySnap uint8

const (
	SnapNone         PrioritySnap = iota // no rule
	SnapTop                              // RaiseToTop every tick
	SnapBottom                           // LowerToBottom every tick
	SnapParentTop                        // RaiseToParentTop every tick
	SnapParentBottom                     // LowerToParentBottom every tick
)

var snapNames = [...]string{"none", "top", "bottom", "parent-top", "parent-bottom"}

func (p PrioritySnap) String() string {
	if int(p) < len(snapNames) {
		return snapNames[p]
	}
	return "unknown"
}

// RaiseToTop moves e above every other registered element that is not one of
// its descendants and not governed by a snap rule. No-op when no candidate
// exists or e is not registered.
func (e *Element) RaiseToTop() {
	if p, ok := e.globalExtreme(true); ok {
		e.SetPriority(p + PriorityOffset)
	}
}

// LowerToBottom is the mirror of RaiseToTop.
func (e *Element) LowerToBottom() {
	if p, ok := e.globalExtreme(false); ok {
		e.SetPriority(p - PriorityOffset)
	}
}

// RaiseToParentTop moves e above every other descendant of its parent.
// Leaves the priority unchanged when e has no parent or no candidate exists.
func (e *Element) RaiseToParentTop() {
	if p, ok := e.parentExtreme(true); ok {
		e.SetPriority(p + PriorityOffset)
	}
}

// LowerToParentBottom is the mirror of RaiseToParentTop.
func (e *Element) LowerToParentBottom() {
	if p, ok := e.parentExtreme(false); ok {
		e.SetPriority(p - PriorityOffset)
	}
}

// globalExtreme scans the registry for the highest (or lowest) priority among
// candidates for e.
func (e *Element) globalExtreme(highest bool) (int, bool) {
	if e.scene == nil {
		return 0, false
	}
	var best int
	found := false
	for _, o := range e.scene.reg.elems {
		if isAncestor(e, o) || snappedBelow(o, nil) {
			continue
		}
		if !found || (highest && o.priority > best) || (!highest && o.priority < best) {
			best = o.priority
			found = true
		}
	}
	return best, found
}

// parentExtreme walks the descendants of e's parent, tracking the true
// maximum (or minimum) among candidates for e.
func (e *Element) parentExtreme(highest bool) (int, bool) {
	root := e.parent
	if root == nil {
		return 0, false
	}
	var best int
	found := false
	var walk func(n *Element)
	walk = func(n *Element) {
		for _, o := range n.children {
			if o == e {
				continue
			}
			if !snappedBelow(o, root) {
				if !found || (highest && o.priority > best) || (!highest && o.priority < best) {
					best = o.priority
					found = true
				}
			}
			walk(o)
		}
	}
	walk(root)
	return best, found
}

// snappedBelow reports whether o or any ancestor of o strictly below stop has
// a snap rule. A nil stop checks the whole chain.
func snappedBelow(o, stop *Element) bool {
	for p := o; p != nil && p != stop; p = p.parent {
		if p.Snap != SnapNone {
			return true
		}
	}
	return false
}

// applySnap re-asserts e's snap rule.
func (e *Element) applySnap() {
	switch e.Snap {
	case SnapTop:
		e.RaiseToTop()
	case SnapBottom:
		e.LowerToBottom()
	case SnapParentTop:
		e.RaiseToParentTop()
	case SnapParentBottom:
		e.LowerToParentBottom()
	}
}

// updatePriorities runs the per-tick priority stage. Parent deltas are
// propagated first so snap rules see this tick's priorities, then the
// children of any element a snap moved follow it.
func (s *Scene) updatePriorities() {
	for _, r := range s.roots {
		propagatePriority(r)
	}
	snapped := false
	for _, e := range s.reg.elems {
		if e.Snap != SnapNone {
			e.applySnap()
			snapped = true
		}
	}
	if snapped {
		for _, r := range s.roots {
			propagatePriority(r)
		}
	}
	s.reg.sort()
}

// propagatePriority hands e's priority change since the last tick to every
// child, then recurses.
func propagatePriority(e *Element) {
	e.flushPriorityDelta()
	for _, c := range e.children {
		propagatePriority(c)
	}
}

// flushPriorityDelta moves every child of e that is not snapped to a
// different rule by e's change since the last tick, then records the new
// value. Children added afterwards are expressed relative to the new value.
func (e *Element) flushPriorityDelta() {
	delta := e.priority - e.tickPriority
	e.tickPriority = e.priority
	if delta == 0 {
		return
	}
	for _, c := range e.children {
		if c.Snap == SnapNone || c.Snap == e.Snap {
			c.SetPriority(c.priority + delta)
		}
	}
}
