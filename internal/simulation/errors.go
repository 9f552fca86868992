package simulation

import "errors"

var (
	ErrStepFailed        = errors.New("simulation step failed")
	ErrRetriesExhausted  = errors.New("step retries exhausted")
	ErrInvalidParameters = errors.New("invalid simulation parameters")
)
