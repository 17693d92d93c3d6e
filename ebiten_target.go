package arbor

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// Both shaders use //kage:unit pixels and read the stencil value from the red
// channel of source image 0, scaled to 0..255.

const stencilTestShaderSrc = `//kage:unit pixels
package main

var Func int
var Ref float
var Color vec4

func passes(v float) bool {
	if Func == 1 {
		return abs(v-Ref) < 0.5
	}
	if Func == 2 {
		return abs(v-Ref) >= 0.5
	}
	return true
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	if !passes(floor(imageSrc0At(src).r*255 + 0.5)) {
		discard()
	}
	return Color
}
`

const stencilWriteShaderSrc = `//kage:unit pixels
package main

var Func int
var Ref float
var Op int

func passes(v float) bool {
	if Func == 1 {
		return abs(v-Ref) < 0.5
	}
	if Func == 2 {
		return abs(v-Ref) >= 0.5
	}
	return true
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	v := floor(imageSrc0At(src).r*255 + 0.5)
	if !passes(v) {
		discard()
	}
	if Op == 1 {
		v = Ref
	} else if Op == 2 {
		v = min(v+1, 255)
	}
	return vec4(v/255, 0, 0, 1)
}
`

// --- Lazy shader compilation (no sync.Once; arbor is single-threaded) ---

var (
	stencilTestShader  *ebiten.Shader
	stencilWriteShader *ebiten.Shader
)

func ensureStencilTestShader() *ebiten.Shader {
	if stencilTestShader == nil {
		s, err := ebiten.NewShader([]byte(stencilTestShaderSrc))
		if err != nil {
			panic("arbor: failed to compile stencil test shader: " + err.Error())
		}
		stencilTestShader = s
	}
	return stencilTestShader
}

func ensureStencilWriteShader() *ebiten.Shader {
	if stencilWriteShader == nil {
		s, err := ebiten.NewShader([]byte(stencilWriteShaderSrc))
		if err != nil {
			panic("arbor: failed to compile stencil write shader: " + err.Error())
		}
		stencilWriteShader = s
	}
	return stencilWriteShader
}

// EbitenTarget draws onto an *ebiten.Image. Ebitengine exposes no stencil
// buffer, so the stencil plane lives in an offscreen image: stencil writes
// ping-pong between two offscreens and color fills discard fragments that fail
// the stencil test.
type EbitenTarget struct {
	dst *ebiten.Image

	stencil *ebiten.Image
	scratch *ebiten.Image
	pool    imagePool

	colorWrite bool
	st         StencilState

	verts    []ebiten.Vertex
	inds     []uint16
	uniforms map[string]any
	op       ebiten.DrawTrianglesShaderOptions
}

// NewEbitenTarget wraps dst. Offscreen stencil images are allocated on first
// use.
func NewEbitenTarget(dst *ebiten.Image) *EbitenTarget {
	return &EbitenTarget{
		dst:        dst,
		colorWrite: true,
		uniforms:   make(map[string]any, 4),
	}
}

// Image returns the destination image.
func (t *EbitenTarget) Image() *ebiten.Image {
	return t.dst
}

// Reset points the target at a new destination, typically the next frame's
// screen. Offscreens are kept when they are still large enough.
func (t *EbitenTarget) Reset(dst *ebiten.Image) {
	t.dst = dst
	t.colorWrite = true
	t.st = StencilState{}
	if t.stencil == nil {
		return
	}
	b, sb := dst.Bounds(), t.stencil.Bounds()
	if b.Dx() > sb.Dx() || b.Dy() > sb.Dy() {
		t.releaseOffscreens()
	}
}

// Dispose returns the offscreen images to the pool and deallocates them.
func (t *EbitenTarget) Dispose() {
	t.releaseOffscreens()
	t.pool.dispose()
}

func (t *EbitenTarget) releaseOffscreens() {
	t.pool.Release(t.stencil)
	t.pool.Release(t.scratch)
	t.stencil, t.scratch = nil, nil
}

func (t *EbitenTarget) ensureOffscreens() {
	if t.stencil != nil {
		return
	}
	b := t.dst.Bounds()
	t.stencil = t.pool.Acquire(b.Dx(), b.Dy())
	t.scratch = t.pool.Acquire(b.Dx(), b.Dy())
}

// SetColorWrite implements Target.
func (t *EbitenTarget) SetColorWrite(enabled bool) {
	t.colorWrite = enabled
}

// SetStencil implements Target.
func (t *EbitenTarget) SetStencil(st StencilState) {
	t.st = st
}

// ClearStencil implements Target.
func (t *EbitenTarget) ClearStencil() {
	if t.stencil != nil {
		t.stencil.Clear()
	}
}

// FillPath implements Target.
func (t *EbitenTarget) FillPath(path []Vec2, c Color) {
	if !t.buildFan(path) {
		return
	}
	t.ensureOffscreens()

	fn := StencilAlways
	if t.st.Enabled {
		fn = t.st.Func
	}
	clear(t.uniforms)
	t.uniforms["Func"] = int(fn)
	t.uniforms["Ref"] = float32(t.st.Ref)

	if t.colorWrite {
		col := c.premultiplied()
		t.uniforms["Color"] = col[:]
		t.op.Uniforms = t.uniforms
		t.op.Images[0] = t.stencil
		t.op.Blend = ebiten.BlendSourceOver
		t.dst.DrawTrianglesShader(t.verts, t.inds, ensureStencilTestShader(), &t.op)
		delete(t.uniforms, "Color")
	}

	if t.st.Enabled && t.st.Op != StencilKeep {
		// Fragments that fail the test are discarded, so copying first keeps
		// their old value.
		var cp ebiten.DrawImageOptions
		cp.Blend = ebiten.BlendCopy
		t.scratch.DrawImage(t.stencil, &cp)

		t.uniforms["Op"] = int(t.st.Op)
		t.op.Uniforms = t.uniforms
		t.op.Images[0] = t.stencil
		t.op.Blend = ebiten.BlendCopy
		t.scratch.DrawTrianglesShader(t.verts, t.inds, ensureStencilWriteShader(), &t.op)
		t.stencil, t.scratch = t.scratch, t.stencil
	}
	t.op.Images[0] = nil
}

// buildFan fan-triangulates path into the reusable vertex and index
// buffers. Source coordinates equal destination coordinates so the shaders
// sample the stencil plane under each fragment.
func (t *EbitenTarget) buildFan(path []Vec2) bool {
	n := len(path)
	if n < 3 || n > math.MaxUint16 {
		return false
	}
	t.verts = t.verts[:0]
	for _, p := range path {
		x, y := float32(p.X), float32(p.Y)
		t.verts = append(t.verts, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: x, SrcY: y,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
	}
	t.inds = t.inds[:0]
	for i := 1; i < n-1; i++ {
		t.inds = append(t.inds, 0, uint16(i), uint16(i+1))
	}
	return true
}

// --- Offscreen pool ---

// imagePool manages reusable offscreen ebiten.Images keyed by power-of-two
// dimensions. After warmup, Acquire/Release are zero-alloc.
type imagePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *imagePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool. It is cleared on the next Acquire.
func (p *imagePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	key := poolKey(b.Dx(), b.Dy())
	p.buckets[key] = append(p.buckets[key], img)
}

func (p *imagePool) dispose() {
	for _, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
	}
	p.buckets = nil
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
