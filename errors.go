package arbor

import (
	"errors"
	"fmt"
)

var (
	// ErrConstraint is matched by every ConstraintError.
	ErrConstraint = errors.New("arbor: constraint violated")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("arbor: not found")
	// ErrInvalidConfig wraps configuration validation and parse failures.
	ErrInvalidConfig = errors.New("arbor: invalid config")
)

// ConstraintError reports a scene-construction bug found by per-frame
// validation, such as a container holding a child it does not accept.
type ConstraintError struct {
	Element    *Element
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("arbor: element %q (id %d) violates %s: %v",
		e.Element.Name, e.Element.ID, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// NotFoundError reports a named child, path, or property that does not exist.
type NotFoundError struct {
	Element *Element
	Kind    string // "child", "path", or "property"
	Name    string
}

func (e *NotFoundError) Error() string {
	owner := "<nil>"
	if e.Element != nil {
		owner = e.Element.Name
	}
	return fmt.Sprintf("arbor: %s %q not found on %q", e.Kind, e.Name, owner)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Constraint is a construction rule validated once per frame before any
// other stage runs.
type Constraint struct {
	Name  string
	Check func(e *Element) error
}

// MaxChildren limits an element to n children.
func MaxChildren(n int) Constraint {
	return Constraint{
		Name: fmt.Sprintf("max-children(%d)", n),
		Check: func(e *Element) error {
			if len(e.children) > n {
				return fmt.Errorf("has %d children", len(e.children))
			}
			return nil
		},
	}
}

// ChildKinds accepts only children whose Kind is listed.
func ChildKinds(kinds ...string) Constraint {
	return Constraint{
		Name: fmt.Sprintf("child-kinds%v", kinds),
		Check: func(e *Element) error {
			for _, c := range e.children {
				ok := false
				for _, k := range kinds {
					if c.Kind == k {
						ok = true
						break
					}
				}
				if !ok {
					return fmt.Errorf("child %q has kind %q", c.Name, c.Kind)
				}
			}
			return nil
		},
	}
}

// AddConstraint attaches a constraint to e.
func (e *Element) AddConstraint(c Constraint) {
	e.Constraints = append(e.Constraints, c)
}

// validate checks every registered element's constraints and returns the
// first violation.
func (s *Scene) validate() error {
	for _, e := range s.reg.elems {
		for _, c := range e.Constraints {
			if err := c.Check(e); err != nil {
				return &ConstraintError{Element: e, Constraint: c.Name, Err: err}
			}
		}
	}
	return nil
}
