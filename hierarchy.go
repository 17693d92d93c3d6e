package arbor

import (
	"slices"
	"strings"
)

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has another parent, it is removed from that parent first
// and its priority becomes e.Priority()+1. Adding a child that is already
// one of e's children is a no-op. When e is
// registered with a scene, child and any unregistered descendants are
// registered too. Panics if child is nil or child is an ancestor of e (cycle).
func (e *Element) AddChild(child *Element) {
	e.insertChild(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting, priority, and cycle-check behavior as AddChild. If child
// is already one of e's children it is only moved to index; no callbacks
// fire.
func (e *Element) AddChildAt(child *Element, index int) {
	if index < 0 || index > len(e.children) {
		panic("arbor: child index out of range")
	}
	e.insertChild(child, index)
}

func (e *Element) insertChild(child *Element, index int) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, e) {
		panic("arbor: adding child would create a cycle")
	}
	if child.parent == e {
		if index >= 0 {
			e.removeChildByPtr(child)
			e.children = slices.Insert(e.children, min(index, len(e.children)), child)
		}
		return
	}

	// Settle e's pending delta on its current children so it is not applied
	// again to the new child.
	e.flushPriorityDelta()

	oldParent := child.parent
	if oldParent != nil {
		oldParent.removeChildByPtr(child)
		if child.scene != nil && child.scene != e.scene {
			child.scene.unregisterTree(child)
		}
		if oldParent.OnChildRemoved != nil {
			oldParent.OnChildRemoved(oldParent, child)
		}
	} else if child.scene != nil {
		if child.scene == e.scene {
			child.scene.dropRoot(child)
		} else {
			child.scene.Remove(child)
		}
	}

	if index < 0 || index > len(e.children) {
		e.children = append(e.children, child)
	} else {
		e.children = slices.Insert(e.children, index, child)
	}
	child.parent = e

	// The child's own tickPriority is left alone: its descendants inherit
	// the reassignment as a delta on the next tick.
	child.SetPriority(e.priority + 1)
	if e.scene != nil {
		e.scene.register(child)
		e.scene.markTreeDirty()
	}

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
	if child.OnParentChanged != nil {
		child.OnParentChanged(child, oldParent)
	}
	if e.OnChildAdded != nil {
		e.OnChildAdded(e, child)
	}
}

// SetParent reparents e under p. A nil p detaches e from its parent.
func (e *Element) SetParent(p *Element) {
	if p == nil {
		e.RemoveFromParent()
		return
	}
	if e.parent == p {
		return
	}
	p.AddChild(e)
}

// RemoveChild detaches child from this element and unregisters the child's
// whole subtree. Panics if child.Parent() != e.
func (e *Element) RemoveChild(child *Element) {
	if globalDebug {
		debugCheckDisposed(e, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.parent != e {
		panic("arbor: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	e.detach(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (e *Element) RemoveChildAt(index int) *Element {
	if globalDebug {
		debugCheckDisposed(e, "RemoveChildAt")
	}
	if index < 0 || index >= len(e.children) {
		panic("arbor: child index out of range")
	}
	child := e.children[index]
	copy(e.children[index:], e.children[index+1:])
	e.children[len(e.children)-1] = nil
	e.children = e.children[:len(e.children)-1]
	e.detach(child)
	return child
}

// RemoveFromParent detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) RemoveFromParent() {
	if e.parent == nil {
		return
	}
	e.parent.RemoveChild(e)
}

// RemoveChildren detaches all children from this element.
// Children are NOT disposed.
func (e *Element) RemoveChildren() {
	removed := e.children
	e.children = nil
	for _, child := range removed {
		e.detach(child)
	}
}

// detach finishes removing child after it left e.children.
func (e *Element) detach(child *Element) {
	child.parent = nil
	if child.scene != nil {
		s := child.scene
		s.unregisterTree(child)
		s.markTreeDirty()
	}
	if child.OnParentChanged != nil {
		child.OnParentChanged(child, e)
	}
	if e.OnChildRemoved != nil {
		e.OnChildRemoved(e, child)
	}
}

// --- Lookup ---

// FindChild returns the first direct child with the given name.
func (e *Element) FindChild(name string) (*Element, error) {
	for _, c := range e.children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &NotFoundError{Element: e, Kind: "child", Name: name}
}

// FindPath resolves a slash-separated path of child names, e.g.
// "toolbar/save". An empty path returns e itself.
func (e *Element) FindPath(path string) (*Element, error) {
	cur := e
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next, err := cur.FindChild(part)
		if err != nil {
			return nil, &NotFoundError{Element: e, Kind: "path", Name: path}
		}
		cur = next
	}
	return cur, nil
}

// Walk calls fn for e and every descendant in depth-first insertion order.
// Returning false from fn skips that element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Element) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
