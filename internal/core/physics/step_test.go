package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloneScene(s Scene) Scene {
	out := make(Scene, len(s))
	for i, b := range s {
		c := *b
		out[i] = &c
	}
	return out
}

func TestAdvanceTwoBodyAttraction(t *testing.T) {
	a := &Body{Kind: KindStar, Mass: 1000}
	b := &Body{Kind: KindPlanet, Mass: 1, X: 100}
	require.NoError(t, Advance(Scene{a, b}, 1))

	assert.Less(t, b.Vx, 0.0)
	assert.Greater(t, a.Vx, 0.0)
	assert.InEpsilon(t, math.Abs(b.Vx*b.Mass), math.Abs(a.Vx*a.Mass), 1e-9)

	assert.Zero(t, a.Y)
	assert.Zero(t, b.Y)
	assert.Zero(t, a.Vy)
	assert.Zero(t, b.Vy)
}

func TestAdvanceZeroGravityIsLinearMotion(t *testing.T) {
	scene := Scene{
		{Mass: 1, X: 1, Y: 2, Vx: 3, Vy: -4},
		{Mass: 5, X: -7, Y: 0, Vx: 0.5, Vy: 0},
		{Mass: 2, X: 40, Y: 40, Vx: -1, Vy: 1},
	}
	before := cloneScene(scene)
	const dt = 2.5

	require.NoError(t, NewIntegrator(0).Advance(scene, dt))
	for i, b := range scene {
		assert.InDelta(t, before[i].X+before[i].Vx*dt, b.X, 1e-12)
		assert.InDelta(t, before[i].Y+before[i].Vy*dt, b.Y, 1e-12)
		assert.Equal(t, before[i].Vx, b.Vx)
		assert.Equal(t, before[i].Vy, b.Vy)
	}
}

func TestAdvanceIsOrderIndependent(t *testing.T) {
	scene := Scene{
		{Mass: 50, X: 0, Y: 0, Vx: 0.1, Vy: 0},
		{Mass: 3, X: 10, Y: 1, Vx: 0, Vy: 2},
		{Mass: 7, X: -4, Y: 8, Vx: -1, Vy: 0.3},
		{Mass: 1, X: 5, Y: -9, Vx: 0.7, Vy: -0.2},
	}
	permuted := Scene{scene[2], scene[0], scene[3], scene[1]}
	other := cloneScene(permuted)
	in := NewIntegrator(1)

	original := cloneScene(scene)
	require.NoError(t, in.Advance(original, 0.1))
	require.NoError(t, in.Advance(other, 0.1))

	order := []int{2, 0, 3, 1}
	for j, i := range order {
		assert.InDelta(t, original[i].X, other[j].X, 1e-12)
		assert.InDelta(t, original[i].Y, other[j].Y, 1e-12)
		assert.InDelta(t, original[i].Vx, other[j].Vx, 1e-12)
		assert.InDelta(t, original[i].Vy, other[j].Vy, 1e-12)
	}
}

func TestAdvanceUpdatesSimultaneously(t *testing.T) {
	// A sequential update would let b see a's new position and break the mirror.
	a := &Body{Mass: 2, X: -1}
	b := &Body{Mass: 2, X: 1}
	scene := Scene{a, b}
	in := NewIntegrator(1)

	for i := 0; i < 10; i++ {
		require.NoError(t, in.Advance(scene, 0.01))
	}
	assert.Equal(t, -a.X, b.X)
	assert.Equal(t, -a.Vx, b.Vx)
}

func TestDeltasDoNotMutate(t *testing.T) {
	scene := Scene{{Mass: 10, Vx: 1}, {Mass: 1, X: 3, Vy: 1}}
	before := cloneScene(scene)

	deltas, err := NewIntegrator(1).Deltas(scene, 0.5)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	for i := range scene {
		assert.Equal(t, *before[i], *scene[i])
	}
	assert.NotZero(t, deltas[0].Dvx)
}

func TestAdvanceRejectsPreconditions(t *testing.T) {
	scene := Scene{{Mass: 1, X: 0}, {Mass: 0, X: 1}}
	before := cloneScene(scene)

	err := Advance(scene, 1)
	assert.ErrorIs(t, err, ErrInvalidMass)
	assert.Equal(t, *before[0], *scene[0])

	ok := Scene{{Mass: 1}, {Mass: 1, X: 1}}
	for _, dt := range []float64{0, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, Advance(ok, dt), ErrInvalidTimeStep)
	}
	assert.Equal(t, 1.0, ok[1].X)
}

func TestAdvanceSingularityLeavesSceneUntouched(t *testing.T) {
	scene := Scene{
		{Mass: 1, X: 50, Vx: 1},
		{Mass: 1, X: 3, Y: 3},
		{Mass: 1, X: 3, Y: 3},
	}
	before := cloneScene(scene)

	err := NewIntegrator(1).Advance(scene, 0.1)
	require.ErrorIs(t, err, ErrSingularity)

	var se *SingularityError
	require.ErrorAs(t, err, &se)
	assert.ElementsMatch(t, []int{1, 2}, []int{se.Target, se.Source})
	for i := range scene {
		assert.Equal(t, *before[i], *scene[i])
	}
}

func TestAdvanceNonFiniteIsAllOrNothing(t *testing.T) {
	scene := Scene{
		{Mass: 1, X: -1e3},
		{Mass: 1e300, X: 0},
		{Mass: 1e300, X: 1e-100},
	}
	before := cloneScene(scene)

	err := NewIntegrator(1).Advance(scene, 1e-150)
	require.ErrorIs(t, err, ErrNonFinite)

	var nf *NonFiniteError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, nf.Index)
	for i := range scene {
		assert.Equal(t, *before[i], *scene[i])
	}
}

func TestApplyRejectsMismatch(t *testing.T) {
	err := DefaultIntegrator().Apply(Scene{{Mass: 1}}, nil)
	assert.ErrorIs(t, err, ErrDeltaMismatch)
}

func TestAdvanceCircularOrbit(t *testing.T) {
	const (
		gm     = 1000.0
		radius = 100.0
		m      = 1e-3
		dt     = 0.01
		steps  = 5000
	)
	v := math.Sqrt(gm / radius)
	sun := &Body{Kind: KindStar, Mass: gm, Vy: -m * v / gm}
	planet := &Body{Kind: KindPlanet, Mass: m, X: radius, Vy: v}
	scene := Scene{sun, planet}
	in := NewIntegrator(1)

	barycenter := func() (float64, float64) {
		total := sun.Mass + planet.Mass
		return (sun.X*sun.Mass + planet.X*planet.Mass) / total, (sun.Y*sun.Mass + planet.Y*planet.Mass) / total
	}
	bx0, by0 := barycenter()

	for i := 0; i < steps; i++ {
		require.NoError(t, in.Advance(scene, dt))
		r := math.Hypot(planet.X-sun.X, planet.Y-sun.Y)
		require.InDelta(t, radius, r, 1, "step %d", i)
	}

	bx, by := barycenter()
	assert.Less(t, math.Hypot(bx-bx0, by-by0), 0.05)

	// about a quarter turn counter-clockwise
	assert.Greater(t, planet.Y, 90.0)
	assert.Less(t, math.Abs(planet.X), 10.0)
}
