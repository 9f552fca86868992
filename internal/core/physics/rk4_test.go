package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(a float64) AccelerationFunc {
	return func(float64) (float64, error) { return a, nil }
}

func TestIntegrateAxisConstantAcceleration(t *testing.T) {
	const x0, v0, a, dt = 2.0, 3.0, -4.0, 0.5

	dPos, dVel, err := IntegrateAxis(x0, v0, constant(a), dt)
	require.NoError(t, err)
	assert.InDelta(t, v0*dt+a*dt*dt/2, dPos, 1e-12)
	assert.InDelta(t, a*dt, dVel, 1e-12)
}

func TestIntegrateAxisHarmonicOscillator(t *testing.T) {
	spring := func(x float64) (float64, error) { return -x, nil }

	x, v := 1.0, 0.0
	const dt = 0.01
	for i := 0; i < 100; i++ {
		dPos, dVel, err := IntegrateAxis(x, v, spring, dt)
		require.NoError(t, err)
		x += dPos
		v += dVel
	}
	assert.InDelta(t, math.Cos(1), x, 1e-9)
	assert.InDelta(t, -math.Sin(1), v, 1e-9)
}

func TestIntegrateAxisNegativeTimeStep(t *testing.T) {
	spring := func(x float64) (float64, error) { return -x, nil }

	dPos, dVel, err := IntegrateAxis(1, 0, spring, 0.1)
	require.NoError(t, err)
	x, v := 1+dPos, dVel

	dPos, dVel, err = IntegrateAxis(x, v, spring, -0.1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x+dPos, 1e-6)
	assert.InDelta(t, 0.0, v+dVel, 1e-6)
}

func TestIntegrateAxisRejectsTimeStep(t *testing.T) {
	for _, dt := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		calls := 0
		fn := func(float64) (float64, error) { calls++; return 0, nil }
		_, _, err := IntegrateAxis(0, 0, fn, dt)
		assert.ErrorIs(t, err, ErrInvalidTimeStep, "dt=%v", dt)
		assert.Zero(t, calls)
	}
}

func TestIntegrateAxisStagePositions(t *testing.T) {
	var trials []float64
	fn := func(x float64) (float64, error) {
		trials = append(trials, x)
		return 1, nil
	}
	_, _, err := IntegrateAxis(10, 2, fn, 1)
	require.NoError(t, err)

	// q1 = 2, q2 = q3 = 2.5
	assert.Equal(t, []float64{10, 11, 11.25, 12.5}, trials)
}

func TestIntegrateAxisPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fn := func(float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return 1, nil
	}
	_, _, err := IntegrateAxis(0, 0, fn, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}
