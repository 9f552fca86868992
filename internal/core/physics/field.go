package physics

import (
	"fmt"
	"math"
)

// G is Newton's gravitational constant in SI units.
const G = 6.67408e-11

// point is a value copy of one body taken at capture time. The body pointer
// is kept only as an identity key and is never dereferenced after capture.
type point struct {
	id     *Body
	m      float64
	x, y   float64
	vx, vy float64
}

// Snapshot is a read-only view of a scene at one instant. Acceleration
// queries against a snapshot never observe later mutations of the bodies.
type Snapshot struct {
	g      float64
	points []point
}

// Capture copies the state of every body in scene.
func Capture(g float64, scene Scene) Snapshot {
	points := make([]point, len(scene))
	for i, b := range scene {
		points[i] = point{id: b, m: b.Mass, x: b.X, y: b.Y, vx: b.Vx, vy: b.Vy}
	}
	return Snapshot{g: g, points: points}
}

// Len returns the number of captured bodies.
func (s Snapshot) Len() int { return len(s.points) }

// Index returns the position of b in the snapshot, or -1.
func (s Snapshot) Index(b *Body) int {
	for i := range s.points {
		if s.points[i].id == b {
			return i
		}
	}
	return -1
}

// Acceleration returns the acceleration along axis that target would feel if
// its coordinate on axis were trial. Its other coordinate keeps the captured
// value. Target never contributes to its own acceleration.
func (s Snapshot) Acceleration(target *Body, trial float64, axis Axis) (float64, error) {
	i := s.Index(target)
	if i < 0 {
		return 0, ErrUnknownBody
	}
	return s.accelerationAt(i, trial, axis)
}

// AccelerationFunc returns the single-argument evaluator the RK4 stage
// computation consumes for the body at index i.
func (s Snapshot) AccelerationFunc(i int, axis Axis) AccelerationFunc {
	return func(trial float64) (float64, error) {
		return s.accelerationAt(i, trial, axis)
	}
}

func (s Snapshot) accelerationAt(i int, trial float64, axis Axis) (float64, error) {
	if !axis.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAxis, axis)
	}
	target := s.points[i]

	gx, gy := target.x, target.y
	if axis == AxisX {
		gx = trial
	} else {
		gy = trial
	}

	var a float64
	for j := range s.points {
		obj := &s.points[j]
		// identity, not coordinates: coincident distinct bodies are a singularity
		if obj.id == target.id {
			continue
		}
		r := math.Hypot(gx-obj.x, gy-obj.y)
		if r == 0 {
			return 0, &SingularityError{Target: i, Source: j, Axis: axis, Trial: trial}
		}
		along := obj.x
		if axis == AxisY {
			along = obj.y
		}
		a += s.g * obj.m * (along - trial) / (r * r * r)
	}
	return a, nil
}

// AccelerationComponent evaluates the acceleration on target along axis at
// the trial coordinate, reading bodies through a fresh snapshot.
func AccelerationComponent(g float64, target *Body, bodies Scene, trial float64, axis Axis) (float64, error) {
	return Capture(g, bodies).Acceleration(target, trial, axis)
}
