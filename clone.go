package arbor

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Clone deep-copies e's exported configuration (geometry, appearance,
// layout, flags, callbacks, constraints) together with its priority,
// visibility, active, and clip state, then clones every child the same way.
// The copies get fresh IDs, are unregistered, and keep their priorities.
// Focus, click state, and properties are not copied.
func (e *Element) Clone() (*Element, error) {
	c := &Element{}
	if err := copier.CopyWithOption(c, e, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("arbor: clone %q: %w", e.Name, err)
	}
	// Everything tied to the original's place in a tree stays with it.
	c.parent, c.children, c.scene, c.seq = nil, nil, nil, 0
	c.props = nil
	c.focused = false
	c.click = MouseClickState{}
	c.clipLayer = 0
	c.disposed = false

	c.ID = nextElementID()
	c.priority = e.priority
	c.tickPriority = e.tickPriority
	c.visible = e.visible
	c.active = e.active
	c.clip = e.clip

	for _, child := range e.children {
		cc, err := child.Clone()
		if err != nil {
			return nil, err
		}
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c, nil
}
