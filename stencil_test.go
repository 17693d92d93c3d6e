package arbor

import (
	"fmt"
	"image/color"
	"testing"
)

var (
	red   = Color{1, 0, 0, 1}
	green = Color{0, 1, 0, 1}
	blue  = Color{0, 0, 1, 1}
	black = Color{0, 0, 0, 1}
)

func rgba(c Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// recordingTarget logs every Target call.
type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) FillPath(path []Vec2, c Color) {
	r.calls = append(r.calls, fmt.Sprintf("fill(%v,%v)", path[0].X, path[0].Y))
}

func (r *recordingTarget) SetColorWrite(enabled bool) {
	r.calls = append(r.calls, fmt.Sprintf("color(%v)", enabled))
}

func (r *recordingTarget) SetStencil(st StencilState) {
	if !st.Enabled {
		r.calls = append(r.calls, "stencil(off)")
		return
	}
	r.calls = append(r.calls, fmt.Sprintf("stencil(%d,%d,%d)", st.Func, st.Ref, st.Op))
}

func (r *recordingTarget) ClearStencil() {
	r.calls = append(r.calls, "clear")
}

// nestedClipScene builds a (red, clip) at the origin holding b (green, clip)
// at (50,50), which holds c (blue, clip) filling 150x150 from b's origin.
func nestedClipScene(t *testing.T) (*Scene, *Element, *Element, *Element) {
	s := newTestScene(t)
	a := NewPanel("a", 100, 100)
	a.FillColor = red
	a.SetClip(true)
	s.Add(a)
	b := NewPanel("b", 100, 100)
	b.FillColor = green
	b.SetPosition(50, 50)
	b.SetClip(true)
	a.AddChild(b)
	c := NewPanel("c", 150, 150)
	c.FillColor = blue
	c.SetClip(true)
	b.AddChild(c)
	step(t, s, InputSnapshot{})
	return s, a, b, c
}

func TestCompositorProtocol(t *testing.T) {
	_, a, b, c := nestedClipScene(t)
	var comp Compositor
	rec := &recordingTarget{}

	if comp.Begin(rec, a) {
		t.Error("element without clipping ancestors should not be clipped")
	}
	if len(rec.calls) != 0 {
		t.Errorf("unclipped Begin touched the target: %v", rec.calls)
	}

	if !comp.Begin(rec, c) {
		t.Fatal("Begin(c) = false")
	}
	comp.End(rec)

	want := []string{
		"clear",
		"color(false)",
		fmt.Sprintf("stencil(%d,1,%d)", StencilAlways, StencilReplace),
		"fill(0,0)", // a
		fmt.Sprintf("stencil(%d,0,%d)", StencilNotEqual, StencilIncrement),
		"fill(50,50)", // b
		"color(true)",
		fmt.Sprintf("stencil(%d,2,%d)", StencilEqual, StencilKeep),
		"stencil(off)",
	}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Errorf("calls =\n%v\nwant\n%v", rec.calls, want)
	}
	_ = b
}

func TestCompositorLayerOffset(t *testing.T) {
	_, _, b, _ := nestedClipScene(t)
	comp := Compositor{LayerOffset: 3}
	rec := &recordingTarget{}
	comp.Begin(rec, b)
	last := rec.calls[len(rec.calls)-1]
	if want := fmt.Sprintf("stencil(%d,4,%d)", StencilEqual, StencilKeep); last != want {
		t.Errorf("test state = %s, want %s", last, want)
	}
}

func TestCompositorSkipsUnclippedDescendant(t *testing.T) {
	_, a, _, _ := nestedClipScene(t)
	free := NewPanel("free", 10, 10)
	a.AddChild(free)
	var comp Compositor
	rec := &recordingTarget{}
	if comp.Begin(rec, free) || len(rec.calls) != 0 {
		t.Error("element without the clip flag is drawn unclipped")
	}
}

func TestNestedClipRestrictsDrawing(t *testing.T) {
	s, _, _, _ := nestedClipScene(t)
	cv := NewCanvas(200, 200)
	cv.Clear(black)
	s.Draw(cv)

	img := cv.Image()
	tests := []struct {
		x, y int
		want Color
	}{
		{25, 25, red},     // a only
		{75, 75, blue},    // a ∩ b ∩ c
		{125, 125, black}, // outside a: neither b nor c may draw
		{75, 125, black},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != rgba(tt.want) {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, rgba(tt.want))
		}
	}

	if got := cv.StencilAt(25, 25); got != 1 {
		t.Errorf("stencil in a = %d, want 1", got)
	}
	if got := cv.StencilAt(75, 75); got != 2 {
		t.Errorf("stencil in a ∩ b = %d, want 2", got)
	}
	if got := cv.StencilAt(125, 125); got != 0 {
		t.Errorf("stencil outside a = %d, want 0", got)
	}
}

func TestEllipseClip(t *testing.T) {
	s := newTestScene(t)
	win := NewPanel("win", 100, 100)
	win.Shape = EllipseShape{Segments: 64}
	win.FillColor = black
	win.SetClip(true)
	s.Add(win)
	fill := NewPanel("fill", 100, 100)
	fill.FillColor = green
	fill.SetClip(true)
	win.AddChild(fill)
	step(t, s, InputSnapshot{})

	cv := NewCanvas(100, 100)
	s.Draw(cv)

	if got := cv.Image().RGBAAt(50, 50); got != rgba(green) {
		t.Errorf("center = %v, want green", got)
	}
	if got := cv.Image().RGBAAt(2, 2); got.A != 0 {
		t.Errorf("corner = %v, want untouched", got)
	}
}

func TestDrawBorderlessOverride(t *testing.T) {
	e := NewPanel("e", 10, 10)
	var called bool
	e.OnDrawBorderless = func(Target, *Element) { called = true }
	DrawBorderless(&recordingTarget{}, e)
	if !called {
		t.Error("OnDrawBorderless not used")
	}
}

func TestStencilFuncsAndOps(t *testing.T) {
	if !StencilAlways.pass(3, 9) || !StencilEqual.pass(2, 2) || StencilEqual.pass(1, 2) {
		t.Error("Always/Equal wrong")
	}
	if !StencilNotEqual.pass(1, 0) || StencilNotEqual.pass(0, 0) {
		t.Error("NotEqual wrong")
	}
	if StencilKeep.apply(4, 9) != 4 || StencilReplace.apply(4, 9) != 9 {
		t.Error("Keep/Replace wrong")
	}
	if StencilIncrement.apply(4, 0) != 5 || StencilIncrement.apply(255, 0) != 255 {
		t.Error("Increment should saturate")
	}
}

func TestCanvasStencilGatesColor(t *testing.T) {
	cv := NewCanvas(20, 20)
	cv.SetColorWrite(false)
	cv.SetStencil(StencilState{Enabled: true, Func: StencilAlways, Ref: 1, Op: StencilReplace})
	cv.FillPath(RectShape{}.Path(Rect{Width: 10, Height: 20}), ColorWhite)
	cv.SetColorWrite(true)
	cv.SetStencil(StencilState{Enabled: true, Func: StencilEqual, Ref: 1, Op: StencilKeep})
	cv.FillPath(RectShape{}.Path(Rect{Width: 20, Height: 20}), red)

	if got := cv.Image().RGBAAt(5, 5); got != rgba(red) {
		t.Errorf("inside stencil = %v, want red", got)
	}
	if got := cv.Image().RGBAAt(15, 5); got.A != 0 {
		t.Errorf("outside stencil = %v, want transparent", got)
	}

	cv.ClearStencil()
	if cv.StencilAt(5, 5) != 0 {
		t.Error("ClearStencil left values behind")
	}
	if cv.StencilAt(-1, 0) != 0 {
		t.Error("out of range StencilAt should be 0")
	}
}

func TestCanvasBlendsTranslucent(t *testing.T) {
	cv := NewCanvas(4, 4)
	cv.Clear(black)
	cv.FillPath(RectShape{}.Path(Rect{Width: 4, Height: 4}), Color{1, 1, 1, 0.5})
	got := cv.Image().RGBAAt(1, 1)
	if got.R < 126 || got.R > 129 || got.A != 255 {
		t.Errorf("50%% white over black = %v", got)
	}
}
