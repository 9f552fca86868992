package physics

import (
	"fmt"
	"math"
	"strings"
)

// Kind tells stars and planets apart. It is descriptive only and never
// changes how a body moves.
type Kind uint8

const (
	KindStar Kind = iota + 1
	KindPlanet
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "Star"
	case KindPlanet:
		return "Planet"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps "star" or "planet" (any case) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch {
	case strings.EqualFold(s, "star"):
		return KindStar, nil
	case strings.EqualFold(s, "planet"):
		return KindPlanet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Body is a point mass moving in the plane.
//
// Bodies are compared by identity: two *Body values refer to the same body
// only when they are the same pointer, even if every field matches.
type Body struct {
	Kind   Kind
	Mass   float64
	X, Y   float64
	Vx, Vy float64
	Radius float64
	Color  string
}

// Validate checks the invariants the integrator relies on.
func (b *Body) Validate() error {
	if b == nil {
		return ErrNilBody
	}
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMass, b.Mass)
	}
	if !(b.Radius >= 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, b.Radius)
	}
	if !finite(b.X, b.Y, b.Vx, b.Vy) {
		return fmt.Errorf("%w: position (%v, %v) velocity (%v, %v)", ErrNonFiniteState, b.X, b.Y, b.Vx, b.Vy)
	}
	return nil
}

// Coord returns the body's coordinate along axis.
func (b *Body) Coord(axis Axis) float64 {
	if axis == AxisY {
		return b.Y
	}
	return b.X
}

// Scene is the ordered set of simulated bodies. Order is display order and
// has no physical meaning.
type Scene []*Body

// Validate checks every body and rejects a body listed twice, since the
// commit phase would otherwise apply its delta twice.
func (s Scene) Validate() error {
	seen := make(map[*Body]int, len(s))
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return &BodyError{Index: i, Err: err}
		}
		if j, dup := seen[b]; dup {
			return &BodyError{Index: i, Err: fmt.Errorf("%w: same body as index %d", ErrDuplicateBody, j)}
		}
		seen[b] = i
	}
	return nil
}

// Axis selects one of the two coordinates.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

func (a Axis) valid() bool { return a == AxisX || a == AxisY }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
