package arbor

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property is a named group of float fields on an element, the unit the
// animation layer reads and writes. Built-in properties are "position",
// "size", "align-margin", "size-margin", "outline", and "fill-color".
type Property struct {
	Name   string
	fields []*float64
	owner  *Element
}

// Len returns the number of components.
func (p *Property) Len() int {
	return len(p.fields)
}

// Get returns a copy of the current component values.
func (p *Property) Get() []float64 {
	out := make([]float64, len(p.fields))
	for i, f := range p.fields {
		out[i] = *f
	}
	return out
}

// Set writes vals to the components. Extra values are ignored; missing ones
// leave their component unchanged.
func (p *Property) Set(vals ...float64) {
	for i := 0; i < len(vals) && i < len(p.fields); i++ {
		*p.fields[i] = vals[i]
	}
}

// DefineProperty registers a custom property on e backed by the given
// fields, replacing any property of the same name.
func (e *Element) DefineProperty(name string, fields ...*float64) *Property {
	if e.props == nil {
		e.props = make(map[string]*Property)
	}
	p := &Property{Name: name, fields: fields, owner: e}
	e.props[name] = p
	return p
}

// Property looks up a property by name. Built-in properties are created on
// first use. Returns a *NotFoundError for unknown names.
func (e *Element) Property(name string) (*Property, error) {
	if p, ok := e.props[name]; ok {
		return p, nil
	}
	var fields []*float64
	switch name {
	case "position":
		fields = []*float64{&e.X, &e.Y}
	case "size":
		fields = []*float64{&e.Width, &e.Height}
	case "align-margin":
		fields = []*float64{&e.AlignMargin.X, &e.AlignMargin.Y}
	case "size-margin":
		fields = []*float64{&e.SizePolicyMargin.X, &e.SizePolicyMargin.Y}
	case "outline":
		fields = []*float64{&e.Outline}
	case "fill-color":
		fields = []*float64{&e.FillColor.R, &e.FillColor.G, &e.FillColor.B, &e.FillColor.A}
	default:
		return nil, &NotFoundError{Element: e, Kind: "property", Name: name}
	}
	return e.DefineProperty(name, fields...), nil
}

// TweenGroup animates the components of one property simultaneously. Call
// Update(dt) each frame, typically from the element's OnUpdate. If the owner
// is disposed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens []*gween.Tween
	fields []*float64
	target *Element
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenProperty animates p from its current value to to. The number of
// target values must match the property's component count.
func TweenProperty(p *Property, to []float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if len(to) != len(p.fields) {
		return nil, fmt.Errorf("arbor: property %q has %d components, got %d targets", p.Name, len(p.fields), len(to))
	}
	g := &TweenGroup{
		tweens: make([]*gween.Tween, len(to)),
		fields: p.fields,
		target: p.owner,
	}
	for i, f := range p.fields {
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), duration, fn)
	}
	return g, nil
}

// TweenNamed looks up a property on e by name and animates it.
func TweenNamed(e *Element, name string, to []float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	p, err := e.Property(name)
	if err != nil {
		return nil, err
	}
	return TweenProperty(p, to, duration, fn)
}

func mustTween(e *Element, name string, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g, err := TweenNamed(e, name, to, duration, fn)
	if err != nil {
		panic(err)
	}
	return g
}

// TweenPosition animates e.X and e.Y to the given coordinates.
func TweenPosition(e *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return mustTween(e, "position", []float64{toX, toY}, duration, fn)
}

// TweenSize animates e.Width and e.Height.
func TweenSize(e *Element, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return mustTween(e, "size", []float64{toW, toH}, duration, fn)
}

// TweenColor animates all four components of e.FillColor.
func TweenColor(e *Element, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return mustTween(e, "fill-color", []float64{to.R, to.G, to.B, to.A}, duration, fn)
}
