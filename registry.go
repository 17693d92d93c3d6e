package arbor

// registry is the flat, priority-sorted list of every element registered with
// a scene. It is kept in sync with tree mutations and re-sorted once per frame.
type registry struct {
	elems  []*Element
	sorted bool
}

func (r *registry) add(e *Element) {
	r.elems = append(r.elems, e)
	r.sorted = false
}

func (r *registry) remove(e *Element) {
	for i, c := range r.elems {
		if c == e {
			copy(r.elems[i:], r.elems[i+1:])
			r.elems[len(r.elems)-1] = nil
			r.elems = r.elems[:len(r.elems)-1]
			return
		}
	}
}

// sort orders the registry by ascending priority, ties broken by
// registration order. Uses insertion sort: zero allocations, stable, and
// optimal for the typical case of a list that is nearly sorted already.
func (r *registry) sort() {
	if r.sorted {
		return
	}
	insertionSort(r.elems, func(a, b *Element) bool {
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.seq < b.seq
	})
	r.sorted = true
}

// insertionSort sorts s in place so that less(s[i], s[j]) holds for i < j
// wherever the order matters. Stable.
func insertionSort(s []*Element, less func(a, b *Element) bool) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && less(key, s[j]) {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}

// --- Scene registration ---

// Add registers e as a top-level element of the scene. If e has a parent it is
// detached from it first. Descendants are registered along with it.
func (s *Scene) Add(e *Element) {
	if e == nil {
		panic("arbor: cannot add nil element")
	}
	if globalDebug {
		debugCheckDisposed(e, "Scene.Add")
	}
	if e.parent != nil {
		e.RemoveFromParent()
	} else if e.scene != nil && e.scene != s {
		e.scene.Remove(e)
	}
	for _, r := range s.roots {
		if r == e {
			return
		}
	}
	s.roots = append(s.roots, e)
	s.register(e)
	s.markTreeDirty()
}

// Remove unregisters e and its whole subtree. Child elements are detached
// from their parent; top-level elements leave the root list.
func (s *Scene) Remove(e *Element) {
	if e.parent != nil {
		if e.scene == s {
			e.RemoveFromParent()
		}
		return
	}
	s.dropRoot(e)
	if e.scene == s {
		s.unregisterTree(e)
	}
	s.markTreeDirty()
}

// Roots returns the top-level elements. The returned slice MUST NOT be mutated.
func (s *Scene) Roots() []*Element {
	return s.roots
}

// Elements returns every registered element sorted by ascending priority.
// The returned slice MUST NOT be mutated and is invalidated by tree changes.
func (s *Scene) Elements() []*Element {
	s.reg.sort()
	return s.reg.elems
}

// Len returns the number of registered elements.
func (s *Scene) Len() int {
	return len(s.reg.elems)
}

// Contains reports whether e is registered with the scene.
func (s *Scene) Contains(e *Element) bool {
	return e != nil && e.scene == s
}

func (s *Scene) dropRoot(e *Element) {
	for i, r := range s.roots {
		if r == e {
			copy(s.roots[i:], s.roots[i+1:])
			s.roots[len(s.roots)-1] = nil
			s.roots = s.roots[:len(s.roots)-1]
			return
		}
	}
}

// register adds e and, recursively, any descendants not already registered.
func (s *Scene) register(e *Element) {
	if e.scene == nil {
		s.seq++
		e.scene = s
		e.seq = s.seq
		s.reg.add(e)
		if s.updating {
			s.pending = append(s.pending, e)
		}
	}
	for _, c := range e.children {
		s.register(c)
	}
}

// unregisterTree removes e and every descendant from the registry and
// releases any focus, capture, or hold they own.
func (s *Scene) unregisterTree(e *Element) {
	if e.scene == s {
		s.reg.remove(e)
		s.forget(e)
		e.scene = nil
	}
	for _, c := range e.children {
		s.unregisterTree(c)
	}
}

// forget clears every scene-owned reference to e.
func (s *Scene) forget(e *Element) {
	if s.focus == e {
		s.Unfocus()
	}
	e.focused = false
	if s.caught == e {
		s.caught = nil
	}
	if s.trueCaught == e {
		s.trueCaught = nil
	}
	if s.holding == e {
		s.holding = nil
	}
	e.click = MouseClickState{}
	e.clipLayer = 0
}

// markTreeDirty flags a structural change. During an update pass it causes
// the frame driver to run another constrained pass.
func (s *Scene) markTreeDirty() {
	if s.updating {
		s.treeDirty = true
	}
}
