package arbor

import "math"

// Shape describes an element's outline relative to a bounding rectangle. The
// same shape serves hit testing, filling, and building stencil layers.
type Shape interface {
	// Contains reports whether (x, y) lies inside the shape fitted to r.
	Contains(r Rect, x, y float64) bool
	// Path returns the closed outline of the shape fitted to r.
	Path(r Rect) []Vec2
}

// RectShape fills its bounds. It is the default shape.
type RectShape struct{}

// Contains reports whether (x, y) lies inside r. Edges are inside.
func (RectShape) Contains(r Rect, x, y float64) bool {
	return r.Contains(x, y)
}

// Path returns the four corners of r, clockwise from the top-left.
func (RectShape) Path(r Rect) []Vec2 {
	return []Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
}

// EllipseShape is the ellipse inscribed in its bounds.
type EllipseShape struct {
	// Segments used to approximate the outline. Zero means 32.
	Segments int
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (s EllipseShape) Contains(r Rect, x, y float64) bool {
	rx, ry := r.Width/2, r.Height/2
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (x - r.X - rx) / rx
	dy := (y - r.Y - ry) / ry
	return dx*dx+dy*dy <= 1
}

// Path approximates the ellipse with a regular polygon.
func (s EllipseShape) Path(r Rect) []Vec2 {
	n := s.Segments
	if n <= 0 {
		n = 32
	}
	rx, ry := r.Width/2, r.Height/2
	cx, cy := r.X+rx, r.Y+ry
	pts := make([]Vec2, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Vec2{cx + cos*rx, cy + sin*ry}
	}
	return pts
}

// PolygonShape is a convex polygon whose points are expressed in unit
// coordinates: (0,0) maps to the top-left of the bounds and (1,1) to the
// bottom-right. Points may use either winding order.
type PolygonShape struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the polygon using a
// cross-product sign test.
func (p PolygonShape) Contains(r Rect, x, y float64) bool {
	return convexContains(p.Path(r), x, y)
}

// Path maps the unit points into r.
func (p PolygonShape) Path(r Rect) []Vec2 {
	pts := make([]Vec2, len(p.Points))
	for i, u := range p.Points {
		pts[i] = Vec2{r.X + u.X*r.Width, r.Y + u.Y*r.Height}
	}
	return pts
}

// convexContains reports whether (x, y) is on the same side of every edge.
func convexContains(pts []Vec2, x, y float64) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}
