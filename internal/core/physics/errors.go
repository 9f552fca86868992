package physics

import (
	"errors"
	"fmt"
)

var (
	// Precondition errors

	ErrNilBody         = errors.New("nil body")
	ErrInvalidMass     = errors.New("mass must be positive and finite")
	ErrInvalidRadius   = errors.New("radius must be non-negative and finite")
	ErrNonFiniteState  = errors.New("position and velocity must be finite")
	ErrDuplicateBody   = errors.New("body appears more than once in scene")
	ErrUnknownKind     = errors.New("unknown body kind")
	ErrInvalidAxis     = errors.New("invalid axis")
	ErrInvalidTimeStep = errors.New("time step must be finite and non-zero")
	ErrUnknownBody     = errors.New("body is not part of the snapshot")
	ErrDeltaMismatch   = errors.New("delta count does not match scene size")

	// Numeric errors

	ErrSingularity = errors.New("distinct bodies coincide")
	ErrNonFinite   = errors.New("step produced a non-finite result")
)

// BodyError reports a precondition failure for the body at Index.
type BodyError struct {
	Index int
	Err   error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

// SingularityError identifies the pair of scene indices whose separation
// reached zero while evaluating Target's acceleration along Axis.
type SingularityError struct {
	Target int
	Source int
	Axis   Axis
	Trial  float64
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("%v: body %d and body %d at %s=%g", ErrSingularity, e.Target, e.Source, e.Axis, e.Trial)
}

func (e *SingularityError) Unwrap() error { return ErrSingularity }

// NonFiniteError carries the offending delta of the body at Index.
type NonFiniteError struct {
	Index int
	Delta MotionDelta
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%v: body %d delta %+v", ErrNonFinite, e.Index, e.Delta)
}

func (e *NonFiniteError) Unwrap() error { return ErrNonFinite }
