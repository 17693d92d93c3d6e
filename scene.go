package arbor

import (
	"log/slog"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the element tree, the registry,
// and the focus, capture, and hold slots. All of its state is mutated only
// from the goroutine that calls Update and Draw.
type Scene struct {
	roots    []*Element
	reg      registry
	seq      uint64
	viewport Rect
	cfg      Config

	compositor Compositor

	logger *slog.Logger
	level  slog.LevelVar
	debug  bool

	// Input
	input         InputSource
	injectQueue   []InputSnapshot
	injectCursor  Vec2
	injectButtons [mouseButtonCount]bool
	lastInput     InputSnapshot
	handlers      handlerRegistry
	events        []PointerContext
	spareEvents   []PointerContext
	store         EntityStore

	// Arbitration slots
	caught     *Element
	trueCaught *Element
	holding    *Element
	focus      *Element
	nav        []*Element

	// Update pass
	updating     bool
	pending      []*Element
	treeDirty    bool
	frame        uint64
	updateBuf    []*Element
	configSource <-chan Config
	script       *Script

	// Rendering
	ClearColor      Color
	ScreenshotDir   string
	screenshotQueue []string
	drawBuf         []*Element
	screen          *EbitenTarget
}

// NewScene creates an empty scene with DefaultConfig, reading input from
// Ebitengine.
func NewScene() *Scene {
	s := &Scene{input: &EbitenInput{}}
	s.logger = newLogger(&s.level)
	if err := s.SetConfig(DefaultConfig()); err != nil {
		panic(err)
	}
	return s
}

// NewSceneWithConfig creates an empty scene with cfg.
func NewSceneWithConfig(cfg Config) (*Scene, error) {
	s := NewScene()
	if err := s.SetConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// SetInputSource replaces the source polled by Update. Nil disables polling;
// Update then only consumes injected input.
func (s *Scene) SetInputSource(src InputSource) {
	s.input = src
}

// SetViewport sets the area top-level elements are aligned, sized, and
// clipped against.
func (s *Scene) SetViewport(w, h float64) {
	s.viewport = Rect{Width: w, Height: h}
	s.cfg.ViewportWidth, s.cfg.ViewportHeight = w, h
}

// Viewport returns the viewport rectangle.
func (s *Scene) Viewport() Rect {
	return s.viewport
}

// Compositor returns the scene's clip compositor.
func (s *Scene) Compositor() *Compositor {
	return &s.compositor
}

// Frame returns the number of completed update passes.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// Update runs one frame. A pending script step runs first, then one
// injected frame is consumed if queued; otherwise the input source is
// polled. See UpdateWith for the stages.
func (s *Scene) Update() error {
	if s.script != nil {
		s.script.step(s)
	}
	in, ok := s.popInjected()
	if !ok {
		switch {
		case s.input != nil:
			in = s.input.Poll()
		default:
			// Keep the pointer where it was; transient input does not repeat.
			in = InputSnapshot{
				WindowX: s.lastInput.WindowX, WindowY: s.lastInput.WindowY,
				X: s.lastInput.X, Y: s.lastInput.Y,
				Buttons: s.lastInput.Buttons, Modifiers: s.lastInput.Modifiers,
			}
		}
	}
	return s.UpdateWith(in)
}

// UpdateWith runs one frame against the given input. Stages, in order:
// registry sort, constraint validation, priority snaps and propagation,
// geometry, clip layers, input arbitration and event dispatch, element
// OnUpdate, and finally the bounded constrained passes that settle elements
// added or moved during the frame. A constraint violation aborts the frame
// and is returned.
func (s *Scene) UpdateWith(in InputSnapshot) error {
	var stats debugStats
	var t0 time.Time

	s.applyConfigUpdates()
	s.updating = true
	defer s.endUpdate()

	if s.debug {
		t0 = time.Now()
	}
	s.reg.sort()
	if err := s.validate(); err != nil {
		return err
	}
	if s.debug {
		stats.sortTime = time.Since(t0)
		t0 = time.Now()
	}

	s.updatePriorities()
	if s.debug {
		stats.priorityTime = time.Since(t0)
		t0 = time.Now()
	}

	s.resolveGeometry()
	s.assignClipLayers()
	if s.debug {
		stats.geometryTime = time.Since(t0)
		t0 = time.Now()
	}

	s.maintainFocus()
	s.processPointer(&in)
	s.dispatchPointerEvents()
	s.processKeyboard(&in)
	s.lastInput = in
	if s.debug {
		stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	s.runUpdates(1 / float64(ebiten.TPS()))
	if s.debug {
		stats.updateTime = time.Since(t0)
	}

	stats.settlePasses = s.settle()
	s.frame++

	if s.debug {
		stats.elements = len(s.reg.elems)
		s.debugLog(stats)
	}
	return nil
}

func (s *Scene) endUpdate() {
	s.updating = false
	clear(s.pending)
	s.pending = s.pending[:0]
	s.treeDirty = false
}

// runUpdates calls OnUpdate on every active element. The registry is
// snapshotted first; elements removed by an earlier callback are skipped.
func (s *Scene) runUpdates(dt float64) {
	s.updateBuf = append(s.updateBuf[:0], s.reg.elems...)
	for _, e := range s.updateBuf {
		if e.OnUpdate == nil || e.scene != s || !e.IsActiveInTree() {
			continue
		}
		e.OnUpdate(e, dt)
	}
	clear(s.updateBuf)
}

// settle re-runs the constrained stages (sort, priority, geometry, clip)
// until no element is pending and the tree is clean, or until
// MaxMutationPasses passes have run. Returns the number of passes.
func (s *Scene) settle() int {
	passes := 0
	for s.treeDirty || len(s.pending) > 0 {
		if passes >= s.cfg.MaxMutationPasses {
			s.logger.Warn("mutation passes exhausted; deferring to next frame",
				"passes", passes, "pending", len(s.pending), "frame", s.frame)
			break
		}
		passes++
		clear(s.pending)
		s.pending = s.pending[:0]
		s.treeDirty = false

		s.reg.sort()
		s.updatePriorities()
		s.resolveGeometry()
		s.assignClipLayers()
	}
	return passes
}

// Draw renders every element visible in the tree onto t, back to front by
// priority. Clipped elements go through the compositor's stencil protocol.
func (s *Scene) Draw(t Target) {
	s.drawBuf = append(s.drawBuf[:0], s.Elements()...)
	for _, e := range s.drawBuf {
		if e.scene != s || !e.IsVisibleInTree() {
			continue
		}
		clipped := s.compositor.Begin(t, e)
		drawElement(t, e)
		if clipped {
			s.compositor.End(t)
		}
	}
	clear(s.drawBuf)
	s.flushScreenshots(t)
}

// DrawScreen renders the scene onto an Ebitengine screen image.
func (s *Scene) DrawScreen(screen *ebiten.Image) {
	if s.screen == nil {
		s.screen = NewEbitenTarget(screen)
	} else {
		s.screen.Reset(screen)
	}
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor)
	}
	s.Draw(s.screen)
}

// drawElement fills the outline ring and then the borderless shape.
// OnDraw replaces both.
func drawElement(t Target, e *Element) {
	if e.OnDraw != nil {
		e.OnDraw(t, e)
		return
	}
	sh := e.shape()
	if e.Outline > 0 && e.OutlineColor.A > 0 {
		t.FillPath(sh.Path(e.Bounds()), e.OutlineColor)
	}
	if e.FillColor.A > 0 {
		t.FillPath(sh.Path(e.BorderlessBounds()), e.FillColor)
	}
}

// Find returns the first registered element with the given name, in
// registration order.
func (s *Scene) Find(name string) (*Element, error) {
	var found *Element
	for _, r := range s.roots {
		r.Walk(func(e *Element) bool {
			if found == nil && e.Name == name {
				found = e
			}
			return found == nil
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, &NotFoundError{Kind: "element", Name: name}
}

// Snapshot returns a copy of the registry in priority order, safe to keep
// across tree mutations.
func (s *Scene) Snapshot() []*Element {
	return slices.Clone(s.Elements())
}
