package arbor

import "image"

// --- Callback contexts ---

// PointerContext carries pointer event data.
type PointerContext struct {
	Type      EventType
	Element   *Element
	EntityID  uint32
	UserData  any
	X, Y      float64 // pointer position in view coordinates
	LocalX    float64 // relative to the element's borderless origin
	LocalY    float64
	ScrollX   float64 // valid for EventScroll
	ScrollY   float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// --- ID counter ---

// elementIDCounter is not atomic. Elements are created on the update goroutine.
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// --- Element ---

// Element is the fundamental scene graph node. A single flat struct is used
// for every widget kind; behavior differs through Shape, callbacks, and the
// hooks below rather than through interface dispatch.
type Element struct {
	// Identity. Fields tagged copier:"-" are not carried over by Clone.
	ID   uint32 `copier:"-"`
	Name string
	Kind string // free-form widget kind, checked by ChildKinds constraints

	// Hierarchy. parent is a weak back-reference; children are owned.
	parent   *Element
	children []*Element
	scene    *Scene // non-nil while registered
	seq      uint64 // registration order, breaks priority and navigation ties

	// Geometry, relative to the parent's borderless origin.
	X, Y          float64
	Width, Height float64
	Outline       float64 // border thickness drawn outside the borderless bounds

	// Appearance
	Shape        Shape // nil means RectShape
	FillColor    Color
	OutlineColor Color

	// Ordering
	priority     int
	tickPriority int // priority recorded at the end of the last update tick
	Snap         PrioritySnap

	// Flags
	visible   bool
	active    bool
	clip      bool
	clipLayer int

	// Layout
	Alignment        Alignment
	AlignMargin      Vec2
	SizePolicy       SizePolicy
	SizePolicyMargin Vec2

	// Input
	IgnoreInput bool
	click       MouseClickState

	// Keyboard focus
	DisableFocus bool
	Navigable    bool
	NavPriority  int
	focused      bool

	// Metadata
	UserData    any
	EntityID    uint32 `copier:"-"`
	Constraints []Constraint
	props       map[string]*Property

	// Lifecycle callbacks, fired synchronously. They must not mutate the
	// collection that is emitting them.
	OnParentChanged     func(e, oldParent *Element)
	OnChildAdded        func(e, child *Element)
	OnChildRemoved      func(e, child *Element)
	OnPriorityChanged   func(e *Element, old int)
	OnVisibilityChanged func(e *Element)
	OnUpdate            func(e *Element, dt float64)

	// Drawing hooks. OnDraw replaces the default shape fill; OnDrawBorderless
	// replaces the shape used to build stencil layers for clipped descendants.
	OnDraw           func(t Target, e *Element)
	OnDrawBorderless func(t Target, e *Element)

	// Per-element input callbacks (nil by default; zero cost when unused).
	OnMouseEnter func(PointerContext)
	OnMouseLeave func(PointerContext)
	OnMouseDown  func(PointerContext)
	OnMouseUp    func(PointerContext)
	OnClick      func(PointerContext)
	OnScroll     func(PointerContext)
	OnFocus      func(e *Element)
	OnBlur       func(e *Element)
	OnKey        func(KeyContext) bool
	OnText       func(e *Element, r rune)

	disposed bool
}

// elementDefaults sets the common default field values shared by all constructors.
func elementDefaults(e *Element) {
	e.ID = nextElementID()
	e.visible = true
	e.active = true
}

// NewElement creates an invisible-by-appearance container element with no size.
func NewElement(name string) *Element {
	e := &Element{Name: name, Kind: "element"}
	elementDefaults(e)
	return e
}

// NewPanel creates a filled rectangular element that clips its clipped
// descendants.
func NewPanel(name string, w, h float64) *Element {
	e := &Element{
		Name:      name,
		Kind:      "panel",
		Width:     w,
		Height:    h,
		FillColor: Color{0.18, 0.18, 0.22, 1},
	}
	elementDefaults(e)
	return e
}

// NewButton creates a navigable, focusable element sized w by h.
func NewButton(name string, w, h float64) *Element {
	e := &Element{
		Name:         name,
		Kind:         "button",
		Width:        w,
		Height:       h,
		Outline:      1,
		FillColor:    Color{0.3, 0.5, 0.8, 1},
		OutlineColor: Color{0.9, 0.9, 0.95, 1},
		Navigable:    true,
	}
	elementDefaults(e)
	return e
}

// --- Accessors ---

// Parent returns the element's parent, or nil for top-level and detached elements.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// Scene returns the scene the element is registered with, or nil.
func (e *Element) Scene() *Scene {
	return e.scene
}

// Priority returns the element's z-order and input-order key.
func (e *Element) Priority() int {
	return e.priority
}

// SetPriority assigns the priority and fires OnPriorityChanged when it differs.
// Children follow the change on the next update tick.
func (e *Element) SetPriority(p int) {
	if e.priority == p {
		return
	}
	old := e.priority
	e.priority = p
	if e.scene != nil {
		e.scene.reg.sorted = false
	}
	if e.OnPriorityChanged != nil {
		e.OnPriorityChanged(e, old)
	}
}

// Visible reports the element's own visibility flag.
func (e *Element) Visible() bool {
	return e.visible
}

// SetVisible sets the visibility flag and fires OnVisibilityChanged on change.
func (e *Element) SetVisible(v bool) {
	if e.visible == v {
		return
	}
	e.visible = v
	if e.OnVisibilityChanged != nil {
		e.OnVisibilityChanged(e)
	}
}

// IsVisibleInTree reports whether the element and all of its ancestors are visible.
func (e *Element) IsVisibleInTree() bool {
	for p := e; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// Active reports the element's own active flag.
func (e *Element) Active() bool {
	return e.active
}

// SetActive enables or disables the element. Inactive elements skip OnUpdate,
// cannot catch input, and lose focus on the next tick.
func (e *Element) SetActive(a bool) {
	e.active = a
}

// IsActiveInTree reports whether the element and all of its ancestors are active.
func (e *Element) IsActiveInTree() bool {
	for p := e; p != nil; p = p.parent {
		if !p.active {
			return false
		}
	}
	return true
}

// Clip reports whether the element is drawn clipped to its clipping
// ancestors and acts as a clip region for clipped descendants.
func (e *Element) Clip() bool {
	return e.clip
}

// SetClip sets the clip flag. The clip layer index of descendants is
// recomputed on the next tick.
func (e *Element) SetClip(c bool) {
	e.clip = c
}

// ClipLayer returns the number of ancestors with the clip flag set, as of the
// last update tick.
func (e *Element) ClipLayer() int {
	return e.clipLayer
}

// ClickState returns the element's mouse click state for the current frame.
func (e *Element) ClickState() MouseClickState {
	return e.click
}

// IsFocused reports whether the element currently holds keyboard focus.
func (e *Element) IsFocused() bool {
	return e.focused
}

// shape returns the element's shape, defaulting to a rectangle.
func (e *Element) shape() Shape {
	if e.Shape == nil {
		return RectShape{}
	}
	return e.Shape
}

// --- Geometry ---

// SetPosition sets the element's position relative to its parent.
func (e *Element) SetPosition(x, y float64) {
	e.X = x
	e.Y = y
}

// SetSize sets the element's borderless width and height.
func (e *Element) SetSize(w, h float64) {
	e.Width = w
	e.Height = h
}

// AbsolutePosition returns the element's borderless origin in view coordinates.
func (e *Element) AbsolutePosition() Vec2 {
	x, y := e.X, e.Y
	for p := e.parent; p != nil; p = p.parent {
		x += p.X
		y += p.Y
	}
	return Vec2{x, y}
}

// BorderlessBounds returns the element's bounds in view coordinates,
// excluding its outline.
func (e *Element) BorderlessBounds() Rect {
	p := e.AbsolutePosition()
	return Rect{X: p.X, Y: p.Y, Width: e.Width, Height: e.Height}
}

// Bounds returns the element's bounds in view coordinates including the outline.
func (e *Element) Bounds() Rect {
	return e.BorderlessBounds().Inset(-e.Outline)
}

// ThisClipArea returns the borderless bounds projected to device pixels. It is
// the region this element contributes to the clip area of its children.
func (e *Element) ThisClipArea() image.Rectangle {
	return e.BorderlessBounds().Pixels()
}

// ToLocal converts a view-space point to coordinates relative to the
// element's borderless origin.
func (e *Element) ToLocal(x, y float64) (lx, ly float64) {
	p := e.AbsolutePosition()
	return x - p.X, y - p.Y
}

// --- Disposal ---

// Dispose removes this element from its parent (or scene), marks it as
// disposed, and recursively disposes all descendants.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	if e.parent != nil {
		e.RemoveFromParent()
	} else if e.scene != nil {
		e.scene.Remove(e)
	}
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.parent = nil
		child.dispose()
	}
	e.children = nil
	e.parent = nil
	e.Shape = nil
	e.UserData = nil
	e.Constraints = nil
	e.props = nil
	e.OnParentChanged = nil
	e.OnChildAdded = nil
	e.OnChildRemoved = nil
	e.OnPriorityChanged = nil
	e.OnVisibilityChanged = nil
	e.OnUpdate = nil
	e.OnDraw = nil
	e.OnDrawBorderless = nil
	e.OnMouseEnter = nil
	e.OnMouseLeave = nil
	e.OnMouseDown = nil
	e.OnMouseUp = nil
	e.OnClick = nil
	e.OnScroll = nil
	e.OnFocus = nil
	e.OnBlur = nil
	e.OnKey = nil
	e.OnText = nil
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}
