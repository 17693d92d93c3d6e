package arbor

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"
)

// Canvas is a software Target: an RGBA color plane plus an 8-bit stencil
// plane. Paths are rasterized with golang.org/x/image/vector and a pixel is
// covered when at least half of it lies inside the path. Canvas needs no GPU,
// which makes it the target of choice for tests and headless captures.
type Canvas struct {
	img     *image.RGBA
	stencil []uint8

	colorWrite bool
	st         StencilState

	ras *vector.Rasterizer
	cov *image.Alpha
}

// NewCanvas creates a transparent w by h canvas with a zeroed stencil plane.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		stencil:    make([]uint8, w*h),
		colorWrite: true,
		ras:        vector.NewRasterizer(w, h),
		cov:        image.NewAlpha(image.Rect(0, 0, w, h)),
	}
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// Image returns the color plane. Pixels are premultiplied.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// StencilAt returns the stencil value at (x, y), or 0 outside the canvas.
func (c *Canvas) StencilAt(x, y int) uint8 {
	if !image.Pt(x, y).In(c.img.Rect) {
		return 0
	}
	return c.stencil[y*c.img.Rect.Dx()+x]
}

// Clear fills the color plane with col and zeroes the stencil plane.
func (c *Canvas) Clear(col Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
	clear(c.stencil)
}

// SetColorWrite implements Target.
func (c *Canvas) SetColorWrite(enabled bool) {
	c.colorWrite = enabled
}

// SetStencil implements Target.
func (c *Canvas) SetStencil(st StencilState) {
	c.st = st
}

// ClearStencil implements Target.
func (c *Canvas) ClearStencil() {
	clear(c.stencil)
}

// FillPath implements Target.
func (c *Canvas) FillPath(path []Vec2, col Color) {
	if len(path) < 3 {
		return
	}
	area := pathBounds(path).Intersect(c.img.Rect)
	if area.Empty() {
		return
	}

	w, h := c.img.Rect.Dx(), c.img.Rect.Dy()
	c.ras.Reset(w, h)
	c.ras.DrawOp = draw.Src
	c.ras.MoveTo(float32(path[0].X), float32(path[0].Y))
	for _, p := range path[1:] {
		c.ras.LineTo(float32(p.X), float32(p.Y))
	}
	c.ras.ClosePath()
	clear(c.cov.Pix)
	c.ras.Draw(c.cov, c.cov.Rect, image.Opaque, image.Point{})

	src := col.premultiplied()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if c.cov.Pix[c.cov.PixOffset(x, y)] < 0x80 {
				continue
			}
			si := y*w + x
			if c.st.Enabled {
				if !c.st.Func.pass(c.stencil[si], c.st.Ref) {
					continue
				}
				c.stencil[si] = c.st.Op.apply(c.stencil[si], c.st.Ref)
			}
			if c.colorWrite {
				c.blend(x, y, src)
			}
		}
	}
}

// blend composites a premultiplied color over the pixel at (x, y).
func (c *Canvas) blend(x, y int, src [4]float32) {
	i := c.img.PixOffset(x, y)
	px := c.img.Pix[i : i+4 : i+4]
	inv := 1 - src[3]
	for k := 0; k < 4; k++ {
		v := src[k]*255 + float32(px[k])*inv
		px[k] = uint8(min(v+0.5, 255))
	}
}

// WritePNG encodes the color plane, un-premultiplied, to a PNG file.
func (c *Canvas) WritePNG(path string) error {
	b := c.img.Rect
	out := image.NewNRGBA(b)
	draw.Draw(out, b, c.img, b.Min, draw.Src)
	return writePNG(path, out)
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// pathBounds returns the device rectangle covering every point of path.
func pathBounds(path []Vec2) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range path {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}.Pixels()
}
