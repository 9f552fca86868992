package physics

import (
	"fmt"
	"math"
)

// AccelerationFunc maps a trial coordinate to the acceleration along the
// same axis.
type AccelerationFunc func(position float64) (float64, error)

// IntegrateAxis computes the classical fourth-order Runge-Kutta change of
// position and velocity over dt for x'' = a(x) along one axis. It never
// touches body state; every evaluation goes through accel.
//
// dt may be negative, which integrates backwards in time.
func IntegrateAxis(position, velocity float64, accel AccelerationFunc, dt float64) (dPos, dVel float64, err error) {
	if err = checkTimeStep(dt); err != nil {
		return 0, 0, err
	}

	const half = 0.5

	a, err := accel(position)
	if err != nil {
		return 0, 0, err
	}
	k1 := dt * a
	q1 := dt * velocity

	if a, err = accel(position + q1*half); err != nil {
		return 0, 0, err
	}
	k2 := dt * a
	q2 := dt * (velocity + k1*half)

	if a, err = accel(position + q2*half); err != nil {
		return 0, 0, err
	}
	k3 := dt * a
	q3 := dt * (velocity + k2*half)

	if a, err = accel(position + q3); err != nil {
		return 0, 0, err
	}
	k4 := dt * a
	q4 := dt * (velocity + k3)

	dVel = (k1 + 2*k2 + 2*k3 + k4) / 6
	dPos = (q1 + 2*q2 + 2*q3 + q4) / 6
	return dPos, dVel, nil
}

func checkTimeStep(dt float64) error {
	if dt == 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, dt)
	}
	return nil
}
