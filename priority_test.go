package arbor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapTopBeatsEqualSibling(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	s.Add(root)
	a := NewElement("a")
	c := NewElement("c")
	root.AddChild(a)
	root.AddChild(c)
	a.SetPriority(5)
	c.SetPriority(5)
	c.Snap = SnapTop

	step(t, s, InputSnapshot{})

	assert.Greater(t, c.Priority(), a.Priority())
	elems := s.Elements()
	assert.Same(t, c, elems[len(elems)-1], "snapped element should sort last")
}

func TestSnapBottom(t *testing.T) {
	s := newTestScene(t)
	a := NewElement("a")
	b := NewElement("b")
	s.Add(a)
	s.Add(b)
	b.Snap = SnapBottom

	step(t, s, InputSnapshot{})

	assert.Less(t, b.Priority(), a.Priority())
	assert.Same(t, b, s.Elements()[0])
}

func TestRaiseToTopIdempotent(t *testing.T) {
	s := newTestScene(t)
	a := NewElement("a")
	b := NewElement("b")
	s.Add(a)
	s.Add(b)

	a.RaiseToTop()
	first := a.Priority()
	a.RaiseToTop()

	assert.Equal(t, 1, first)
	assert.Equal(t, first, a.Priority())
}

func TestRaiseToTopIgnoresOwnSubtreeAndSnapped(t *testing.T) {
	s := newTestScene(t)
	a := NewElement("a")
	b := NewElement("b")
	top := NewElement("toolbar")
	top.Snap = SnapTop
	s.Add(a)
	s.Add(b)
	s.Add(top)
	child := NewElement("a/child")
	a.AddChild(child)
	b.SetPriority(3)
	step(t, s, InputSnapshot{})
	require.Greater(t, top.Priority(), b.Priority())

	a.RaiseToTop()
	assert.Equal(t, 4, a.Priority(), "a should land just above b, ignoring its child and the snapped toolbar")

	step(t, s, InputSnapshot{})
	assert.Equal(t, a.Priority()+1, child.Priority(), "child follows its parent")
	assert.Greater(t, top.Priority(), a.Priority(), "snapped toolbar stays on top")
}

func TestRaiseToTopUnregisteredNoop(t *testing.T) {
	e := NewElement("e")
	e.SetPriority(7)
	e.RaiseToTop()
	e.LowerToBottom()
	assert.Equal(t, 7, e.Priority())
}

func TestLowerToBottom(t *testing.T) {
	s := newTestScene(t)
	a := NewElement("a")
	b := NewElement("b")
	s.Add(a)
	s.Add(b)
	b.LowerToBottom()
	assert.Equal(t, -1, b.Priority())
}

func TestRaiseToParentTop(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	s.Add(p)
	x, y, z := NewElement("x"), NewElement("y"), NewElement("z")
	p.AddChild(x)
	p.AddChild(y)
	p.AddChild(z)
	z.AddChild(NewElement("z/inner"))
	step(t, s, InputSnapshot{})

	y.RaiseToParentTop()
	assert.Equal(t, 3, y.Priority(), "above z's child at 2")

	x.LowerToParentBottom()
	assert.Equal(t, 0, x.Priority(), "just below the lowest other descendant at 1")

	// Without a parent nothing changes.
	p.RaiseToParentTop()
	assert.Equal(t, 0, p.Priority())
}

func TestSnapParentTop(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	s.Add(p)
	a, b := NewElement("a"), NewElement("b")
	p.AddChild(a)
	p.AddChild(b)
	a.Snap = SnapParentTop
	b.SetPriority(9)

	step(t, s, InputSnapshot{})
	assert.Greater(t, a.Priority(), b.Priority())
}

func TestPriorityDeltaPropagates(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	k := NewElement("k")
	g := NewElement("g")
	s.Add(p)
	p.AddChild(k)
	k.AddChild(g)
	step(t, s, InputSnapshot{})
	require.Equal(t, []int{0, 1, 2}, []int{p.Priority(), k.Priority(), g.Priority()})

	p.SetPriority(10)
	step(t, s, InputSnapshot{})
	assert.Equal(t, []int{10, 11, 12}, []int{p.Priority(), k.Priority(), g.Priority()})

	// Every child stays strictly above its parent.
	for _, e := range s.Elements() {
		if e.Parent() != nil {
			assert.Greater(t, e.Priority(), e.Parent().Priority(), e.Name)
		}
	}
}

func TestAddChildAfterPriorityChangeNotShiftedTwice(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	old := NewElement("old")
	s.Add(p)
	p.AddChild(old)
	step(t, s, InputSnapshot{})

	p.SetPriority(10)
	fresh := NewElement("fresh")
	p.AddChild(fresh)
	step(t, s, InputSnapshot{})

	assert.Equal(t, 11, old.Priority())
	assert.Equal(t, 11, fresh.Priority())
}

func TestSnappedChildReassertsInSameTick(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	s.Add(p)
	floor := NewElement("floor")
	floor.Snap = SnapParentBottom
	other := NewElement("other")
	p.AddChild(floor)
	p.AddChild(other)
	step(t, s, InputSnapshot{})
	require.Equal(t, other.Priority()-1, floor.Priority())

	p.SetPriority(p.Priority() + 5)
	step(t, s, InputSnapshot{})
	assert.Equal(t, 6, other.Priority(), "unsnapped child follows the parent")
	assert.Equal(t, other.Priority()-1, floor.Priority(), "snap holds against the moved sibling")
}

func TestSnapParentTopStaysAboveShiftedSiblings(t *testing.T) {
	s := newTestScene(t)
	p := NewElement("p")
	s.Add(p)
	a := NewElement("a")
	b := NewElement("b")
	lid := NewElement("lid")
	lid.Snap = SnapParentTop
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(lid)
	b.SetPriority(4)
	step(t, s, InputSnapshot{})
	require.Equal(t, 5, lid.Priority())

	p.SetPriority(10)
	step(t, s, InputSnapshot{})
	assert.Equal(t, 14, b.Priority())
	assert.Equal(t, 15, lid.Priority())
}

func TestSnappedParentCarriesChildren(t *testing.T) {
	s := newTestScene(t)
	base := NewElement("base")
	base.SetPriority(7)
	s.Add(base)
	menu := NewElement("menu")
	menu.Snap = SnapTop
	s.Add(menu)
	item := NewElement("item")
	menu.AddChild(item)

	step(t, s, InputSnapshot{})
	assert.Equal(t, 8, menu.Priority())
	assert.Equal(t, 9, item.Priority(), "child moves with its snapped parent in the same tick")
}

func TestOnPriorityChangedFires(t *testing.T) {
	e := NewElement("e")
	var olds []int
	e.OnPriorityChanged = func(_ *Element, old int) { olds = append(olds, old) }
	e.SetPriority(3)
	e.SetPriority(3)
	e.SetPriority(4)
	assert.Equal(t, []int{0, 3}, olds)
}

func TestPrioritySnapString(t *testing.T) {
	assert.Equal(t, "parent-top", SnapParentTop.String())
	assert.True(t, strings.HasPrefix(PrioritySnap(99).String(), "unknown"))
}
