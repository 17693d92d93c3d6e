package arbor

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

// newTestScene returns a 200x200 scene that never polls a device and logs
// nowhere.
func newTestScene(t testing.TB) *Scene {
	t.Helper()
	s := NewScene()
	s.SetInputSource(nil)
	s.SetViewport(200, 200)
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s
}

// captureLog routes the scene's log output into the returned buffer.
func captureLog(s *Scene) *bytes.Buffer {
	var buf bytes.Buffer
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func pointer(x, y float64, down bool) InputSnapshot {
	in := InputSnapshot{WindowX: x, WindowY: y, X: x, Y: y}
	in.Buttons[MouseButtonLeft] = down
	return in
}

// step runs one frame and fails the test on error.
func step(t testing.TB, s *Scene, in InputSnapshot) {
	t.Helper()
	if err := s.UpdateWith(in); err != nil {
		t.Fatalf("UpdateWith: %v", err)
	}
}

// drain runs frames until the injected queue is empty.
func drain(t testing.TB, s *Scene) {
	t.Helper()
	for s.PendingInput() > 0 {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}

// eventLog records pointer events by element name.
type eventLog []string

func (l *eventLog) attach(s *Scene) {
	rec := func(ctx PointerContext) {
		*l = append(*l, ctx.Element.Name+":"+ctx.Type.String())
	}
	s.OnMouseEnter(rec)
	s.OnMouseLeave(rec)
	s.OnMouseDown(rec)
	s.OnMouseUp(rec)
	s.OnClick(rec)
	s.OnScroll(rec)
}

func (l *eventLog) take() []string {
	out := *l
	*l = nil
	return out
}
