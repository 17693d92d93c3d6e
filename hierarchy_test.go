package arbor

import (
	"errors"
	"strings"
	"testing"
)

func TestAddChildRegistersAndParents(t *testing.T) {
	s := newTestScene(t)
	root := NewPanel("root", 100, 100)
	s.Add(root)
	child := NewPanel("child", 10, 10)
	root.AddChild(child)

	if child.Parent() != root || child.Scene() != s {
		t.Fatal("child should be parented and registered")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if child.Priority() != root.Priority()+1 {
		t.Errorf("child priority = %d, want %d", child.Priority(), root.Priority()+1)
	}
}

func TestAddSubtreeRegistersDescendants(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	child := NewElement("child")
	grand := NewElement("grand")
	root.AddChild(child)
	child.AddChild(grand)
	s.Add(root)

	for _, e := range []*Element{root, child, grand} {
		if !s.Contains(e) {
			t.Errorf("%s not registered", e.Name)
		}
	}
}

func TestAddChildAtOrder(t *testing.T) {
	root := NewElement("root")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	root.AddChild(a)
	root.AddChild(c)
	root.AddChildAt(b, 1)

	var names []string
	for _, ch := range root.Children() {
		names = append(names, ch.Name)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("children = %v, want [a b c]", names)
	}
}

func childNames(e *Element) string {
	var names []string
	for _, ch := range e.Children() {
		names = append(names, ch.Name)
	}
	return strings.Join(names, ",")
}

func TestReAddExistingChild(t *testing.T) {
	root := NewElement("root")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)
	b.SetPriority(7)

	var added, removed, reparented int
	root.OnChildAdded = func(_, _ *Element) { added++ }
	root.OnChildRemoved = func(_, _ *Element) { removed++ }
	b.OnParentChanged = func(_, _ *Element) { reparented++ }

	root.AddChild(b)
	if got := childNames(root); got != "a,b,c" {
		t.Errorf("after AddChild: children = %s, want a,b,c", got)
	}
	if b.Priority() != 7 {
		t.Errorf("priority = %d, want 7", b.Priority())
	}

	root.AddChildAt(a, 2)
	if got := childNames(root); got != "b,c,a" {
		t.Errorf("after AddChildAt: children = %s, want b,c,a", got)
	}
	root.AddChildAt(a, 0)
	if got := childNames(root); got != "a,b,c" {
		t.Errorf("after AddChildAt 0: children = %s, want a,b,c", got)
	}
	if added != 0 || removed != 0 || reparented != 0 {
		t.Errorf("callbacks fired: added=%d removed=%d reparented=%d", added, removed, reparented)
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")
	a.AddChild(b)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddSelfPanics(t *testing.T) {
	a := NewElement("a")
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding element to itself")
		}
	}()
	a.AddChild(a)
}

func TestAddNilChildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil child")
		}
	}()
	NewElement("a").AddChild(nil)
}

func TestRemoveChildUnregistersSubtree(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	child := NewButton("child", 10, 10)
	grand := NewButton("grand", 5, 5)
	s.Add(root)
	root.AddChild(child)
	child.AddChild(grand)
	s.Focus(grand)

	var removed *Element
	root.OnChildRemoved = func(_, c *Element) { removed = c }
	root.RemoveChild(child)

	if removed != child {
		t.Error("OnChildRemoved not fired")
	}
	if s.Contains(child) || s.Contains(grand) {
		t.Error("subtree should be unregistered")
	}
	if s.Focused() != nil || grand.IsFocused() {
		t.Error("focus held by a removed element should be cleared")
	}
	if child.Parent() != nil || grand.Parent() != child {
		t.Error("detached subtree should keep its internal structure")
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")
	defer func() {
		if recover() == nil {
			t.Error("expected panic removing a non-child")
		}
	}()
	a.RemoveChild(b)
}

func TestRemoveChildren(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	s.Add(root)
	for i := 0; i < 3; i++ {
		root.AddChild(NewElement("c"))
	}
	root.RemoveChildren()
	if root.NumChildren() != 0 || s.Len() != 1 {
		t.Errorf("children=%d len=%d", root.NumChildren(), s.Len())
	}
}

func TestRemoveChildAt(t *testing.T) {
	root := NewElement("root")
	a, b := NewElement("a"), NewElement("b")
	root.AddChild(a)
	root.AddChild(b)
	if got := root.RemoveChildAt(0); got != a {
		t.Errorf("RemoveChildAt(0) = %s", got.Name)
	}
	if root.ChildAt(0) != b {
		t.Error("b should shift to index 0")
	}
}

func TestReparentKeepsRelativePriorities(t *testing.T) {
	s := newTestScene(t)
	p1 := NewElement("p1")
	p2 := NewElement("p2")
	s.Add(p1)
	s.Add(p2)
	p2.SetPriority(10)
	step(t, s, InputSnapshot{})

	child := NewElement("child")
	grand := NewElement("grand")
	p1.AddChild(child)
	child.AddChild(grand)
	step(t, s, InputSnapshot{})
	if child.Priority() != 1 || grand.Priority() != 2 {
		t.Fatalf("before reparent: child=%d grand=%d", child.Priority(), grand.Priority())
	}

	var oldParent *Element
	child.OnParentChanged = func(_, old *Element) { oldParent = old }
	p2.AddChild(child)
	if oldParent != p1 {
		t.Error("OnParentChanged should report the previous parent")
	}
	if child.Priority() != 11 {
		t.Errorf("child priority = %d, want 11", child.Priority())
	}

	step(t, s, InputSnapshot{})
	if grand.Priority() != 12 {
		t.Errorf("grand priority = %d, want 12 after propagation", grand.Priority())
	}
	if p1.NumChildren() != 0 || p2.NumChildren() != 1 {
		t.Errorf("p1=%d p2=%d children", p1.NumChildren(), p2.NumChildren())
	}
}

func TestSceneAddDetachesFromParent(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	child := NewElement("child")
	s.Add(root)
	root.AddChild(child)

	s.Add(child)
	if child.Parent() != nil || root.NumChildren() != 0 {
		t.Error("Add should detach the element from its parent")
	}
	if !s.Contains(child) || len(s.Roots()) != 2 {
		t.Errorf("roots=%d contains=%v", len(s.Roots()), s.Contains(child))
	}
}

func TestParentInvariant(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	s.Add(root)
	for i := 0; i < 3; i++ {
		c := NewElement("c")
		root.AddChild(c)
		c.AddChild(NewElement("g"))
	}
	root.ChildAt(1).SetParent(root.ChildAt(0))

	for _, e := range s.Elements() {
		for _, c := range e.Children() {
			if c.Parent() != e {
				t.Errorf("%s: child %s has parent %v", e.Name, c.Name, c.Parent())
			}
		}
		if p := e.Parent(); p != nil {
			found := false
			for _, c := range p.Children() {
				found = found || c == e
			}
			if !found {
				t.Errorf("%s missing from its parent's children", e.Name)
			}
		}
	}
}

func TestFindPath(t *testing.T) {
	root := NewElement("root")
	toolbar := NewElement("toolbar")
	save := NewElement("save")
	root.AddChild(toolbar)
	toolbar.AddChild(save)

	got, err := root.FindPath("toolbar/save")
	if err != nil || got != save {
		t.Fatalf("FindPath = %v, %v", got, err)
	}
	if got, _ := root.FindPath(""); got != root {
		t.Error("empty path should return the element itself")
	}

	_, err = root.FindPath("toolbar/load")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "toolbar/load" || nf.Kind != "path" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestSceneFind(t *testing.T) {
	s := newTestScene(t)
	root := NewElement("root")
	s.Add(root)
	target := NewElement("target")
	root.AddChild(NewElement("other"))
	root.ChildAt(0).AddChild(target)

	if got, err := s.Find("target"); err != nil || got != target {
		t.Errorf("Find = %v, %v", got, err)
	}
	if _, err := s.Find("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing) err = %v", err)
	}
}

func TestWalkSkipsSubtree(t *testing.T) {
	root := NewElement("root")
	a := NewElement("a")
	b := NewElement("b")
	root.AddChild(a)
	a.AddChild(NewElement("a1"))
	root.AddChild(b)

	var seen []string
	root.Walk(func(e *Element) bool {
		seen = append(seen, e.Name)
		return e != a
	})
	want := []string{"root", "a", "b"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen = %v, want %v", seen, want)
		}
	}
}
