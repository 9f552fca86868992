package physics

import "fmt"

// MotionDelta is the change of one body's position and velocity over one
// step. It is computed against the pre-step state and applied afterwards.
type MotionDelta struct {
	Dx, Dy   float64
	Dvx, Dvy float64
}

func (d MotionDelta) finite() bool { return finite(d.Dx, d.Dy, d.Dvx, d.Dvy) }

// Integrator advances scenes under mutual gravitation with gravitational
// constant G.
type Integrator struct {
	G float64
}

func NewIntegrator(g float64) Integrator { return Integrator{G: g} }

// DefaultIntegrator uses the SI gravitational constant.
func DefaultIntegrator() Integrator { return Integrator{G: G} }

// Deltas computes one MotionDelta per body, in scene order, without mutating
// any body. All evaluations read a single snapshot taken on entry.
func (in Integrator) Deltas(scene Scene, dt float64) ([]MotionDelta, error) {
	if err := checkTimeStep(dt); err != nil {
		return nil, err
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	snap := Capture(in.G, scene)
	deltas := make([]MotionDelta, snap.Len())
	for i, p := range snap.points {
		dx, dvx, err := IntegrateAxis(p.x, p.vx, snap.AccelerationFunc(i, AxisX), dt)
		if err != nil {
			return nil, err
		}
		dy, dvy, err := IntegrateAxis(p.y, p.vy, snap.AccelerationFunc(i, AxisY), dt)
		if err != nil {
			return nil, err
		}
		deltas[i] = MotionDelta{Dx: dx, Dy: dy, Dvx: dvx, Dvy: dvy}
	}
	return deltas, nil
}

// Apply commits deltas to scene. Either every delta is finite and all are
// applied, or nothing changes.
func (in Integrator) Apply(scene Scene, deltas []MotionDelta) error {
	if len(deltas) != len(scene) {
		return fmt.Errorf("%w: %d deltas for %d bodies", ErrDeltaMismatch, len(deltas), len(scene))
	}
	for i, d := range deltas {
		if !d.finite() {
			return &NonFiniteError{Index: i, Delta: d}
		}
		b := scene[i]
		if !finite(b.X+d.Dx, b.Y+d.Dy, b.Vx+d.Dvx, b.Vy+d.Dvy) {
			return &NonFiniteError{Index: i, Delta: d}
		}
	}

	for i, d := range deltas {
		b := scene[i]
		b.X += d.Dx
		b.Y += d.Dy
		b.Vx += d.Dvx
		b.Vy += d.Dvy
	}
	return nil
}

// Advance moves scene forward by dt. Preconditions are checked before any
// state changes and a failed step leaves the scene as it was.
func (in Integrator) Advance(scene Scene, dt float64) error {
	deltas, err := in.Deltas(scene, dt)
	if err != nil {
		return err
	}
	return in.Apply(scene, deltas)
}

// Advance moves scene forward by dt using the SI gravitational constant.
func Advance(scene Scene, dt float64) error {
	return DefaultIntegrator().Advance(scene, dt)
}
