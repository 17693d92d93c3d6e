package arbor

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// KeyContext carries a key event routed to the focused element.
type KeyContext struct {
	Element   *Element
	Key       ebiten.Key
	Modifiers KeyModifiers
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	ElementID uint32
	Name      string
	X, Y      float64
	LocalX    float64
	LocalY    float64
	ScrollX   float64
	ScrollY   float64
	Button    MouseButton
	Modifiers KeyModifiers
	Key       ebiten.Key // valid for EventKey
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// --- Handler registry ---

type handler[F any] struct {
	id uint32
	fn F
}

type handlerRegistry struct {
	pointer [eventTypeCount][]handler[func(PointerContext)]
	element [eventTypeCount][]handler[func(*Element)]
	key     []handler[func(KeyContext)]
	nextID  uint32
}

func removeHandler[F any](s []handler[F], id uint32) []handler[F] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[F]{}
			return s[:len(s)-1]
		}
	}
	return s
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventFocus, EventBlur:
		h.reg.element[h.event] = removeHandler(h.reg.element[h.event], h.id)
	case EventKey:
		h.reg.key = removeHandler(h.reg.key, h.id)
	default:
		h.reg.pointer[h.event] = removeHandler(h.reg.pointer[h.event], h.id)
	}
}

// --- Scene-level event registration ---

func (s *Scene) onPointer(t EventType, fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointer[t] = append(s.handlers.pointer[t], handler[func(PointerContext)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: t}
}

func (s *Scene) onElement(t EventType, fn func(*Element)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.element[t] = append(s.handlers.element[t], handler[func(*Element)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: t}
}

// OnMouseEnter registers a scene-level callback fired when any element
// starts being hovered.
func (s *Scene) OnMouseEnter(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventMouseEnter, fn)
}

// OnMouseLeave registers a scene-level callback fired when any element stops
// being hovered.
func (s *Scene) OnMouseLeave(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventMouseLeave, fn)
}

// OnMouseDown registers a scene-level callback for true-press starts.
func (s *Scene) OnMouseDown(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventMouseDown, fn)
}

// OnMouseUp registers a scene-level callback for true-press ends.
func (s *Scene) OnMouseUp(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventMouseUp, fn)
}

// OnClick registers a scene-level callback for clicks.
func (s *Scene) OnClick(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventClick, fn)
}

// OnScroll registers a scene-level callback for wheel movement over the
// caught element.
func (s *Scene) OnScroll(fn func(PointerContext)) CallbackHandle {
	return s.onPointer(EventScroll, fn)
}

// OnFocus registers a scene-level callback fired when an element takes focus.
func (s *Scene) OnFocus(fn func(*Element)) CallbackHandle {
	return s.onElement(EventFocus, fn)
}

// OnBlur registers a scene-level callback fired when an element loses focus.
func (s *Scene) OnBlur(fn func(*Element)) CallbackHandle {
	return s.onElement(EventBlur, fn)
}

// OnKey registers a scene-level callback for keys pressed while an element
// has focus.
func (s *Scene) OnKey(fn func(KeyContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.key = append(s.handlers.key, handler[func(KeyContext)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventKey}
}

// --- Dispatch ---

// pointerDispatchOrder is the order in which a frame's collected pointer
// events are delivered: leaves before enters so hover hand-off is observed
// in order, then press, release, click, and scroll.
var pointerDispatchOrder = [...]EventType{
	EventMouseLeave, EventMouseEnter, EventMouseDown, EventMouseUp, EventClick, EventScroll,
}

// queuePointer records a pointer event for dispatch after arbitration.
func (s *Scene) queuePointer(t EventType, e *Element, in *InputSnapshot) {
	lx, ly := e.ToLocal(in.X, in.Y)
	ctx := PointerContext{
		Type: t, Element: e, EntityID: e.EntityID, UserData: e.UserData,
		X: in.X, Y: in.Y, LocalX: lx, LocalY: ly,
		Button: MouseButtonLeft, Modifiers: in.Modifiers,
	}
	if t == EventScroll {
		ctx.ScrollX, ctx.ScrollY = in.ScrollX, in.ScrollY
	}
	s.events = append(s.events, ctx)
}

// dispatchPointerEvents delivers the events collected this frame. The queue
// is detached first so callbacks that mutate the tree or queue nothing can
// disturb the iteration. Events whose element left the scene are dropped.
func (s *Scene) dispatchPointerEvents() {
	events := s.events
	s.events = s.spareEvents[:0]
	for _, t := range pointerDispatchOrder {
		for _, ctx := range events {
			if ctx.Type != t || ctx.Element.scene != s {
				continue
			}
			s.firePointer(ctx)
		}
	}
	clear(events)
	s.spareEvents = events[:0]
}

func (s *Scene) firePointer(ctx PointerContext) {
	// Scene-level handlers first.
	for _, h := range slices.Clone(s.handlers.pointer[ctx.Type]) {
		h.fn(ctx)
	}
	// Per-element callback.
	if fn := ctx.Element.pointerCallback(ctx.Type); fn != nil {
		fn(ctx)
	}
	// ECS bridge.
	s.emitInteraction(InteractionEvent{
		Type: ctx.Type, EntityID: ctx.EntityID, ElementID: ctx.Element.ID, Name: ctx.Element.Name,
		X: ctx.X, Y: ctx.Y, LocalX: ctx.LocalX, LocalY: ctx.LocalY,
		ScrollX: ctx.ScrollX, ScrollY: ctx.ScrollY,
		Button: ctx.Button, Modifiers: ctx.Modifiers,
	})
}

func (s *Scene) fireElement(t EventType, e *Element) {
	for _, h := range slices.Clone(s.handlers.element[t]) {
		h.fn(e)
	}
	switch t {
	case EventFocus:
		if e.OnFocus != nil {
			e.OnFocus(e)
		}
	case EventBlur:
		if e.OnBlur != nil {
			e.OnBlur(e)
		}
	}
	s.emitInteraction(InteractionEvent{Type: t, EntityID: e.EntityID, ElementID: e.ID, Name: e.Name})
}

// fireKey delivers a key press to the focused element. It reports whether
// the element's OnKey consumed it.
func (s *Scene) fireKey(ctx KeyContext) bool {
	for _, h := range slices.Clone(s.handlers.key) {
		h.fn(ctx)
	}
	s.emitInteraction(InteractionEvent{
		Type: EventKey, EntityID: ctx.Element.EntityID, ElementID: ctx.Element.ID,
		Name: ctx.Element.Name, Modifiers: ctx.Modifiers, Key: ctx.Key,
	})
	return ctx.Element.OnKey != nil && ctx.Element.OnKey(ctx)
}

func (s *Scene) emitInteraction(ev InteractionEvent) {
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

// pointerCallback returns the per-element callback for t, or nil.
func (e *Element) pointerCallback(t EventType) func(PointerContext) {
	switch t {
	case EventMouseEnter:
		return e.OnMouseEnter
	case EventMouseLeave:
		return e.OnMouseLeave
	case EventMouseDown:
		return e.OnMouseDown
	case EventMouseUp:
		return e.OnMouseUp
	case EventClick:
		return e.OnClick
	case EventScroll:
		return e.OnScroll
	}
	return nil
}
