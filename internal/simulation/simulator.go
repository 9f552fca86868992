package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AlexGameTester/2016-solar-project/internal/config"
	"github.com/AlexGameTester/2016-solar-project/internal/core/events/bus"
	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
	"github.com/AlexGameTester/2016-solar-project/internal/core/scene"
)

// Advancer moves a scene forward by dt and leaves it untouched on error.
// physics.Integrator is the production implementation.
type Advancer interface {
	Advance(s physics.Scene, dt float64) error
}

// Options configures a Simulator. Zero values fall back to the SI
// integrator, abort policy, a private bus and a no-op logger.
type Options struct {
	Integrator Advancer
	TimeStep   float64
	StartTime  float64
	Policy     config.FailurePolicy
	MaxRetries int
	Bus        bus.EventBus
	Logger     log.Log
}

// OptionsFromConfig maps a run configuration onto Options.
func OptionsFromConfig(c config.Config, b bus.EventBus, logger log.Log) Options {
	return Options{
		Integrator: physics.NewIntegrator(c.Gravity),
		TimeStep:   c.TimeStep,
		StartTime:  c.StartTime,
		Policy:     c.Failure.Policy,
		MaxRetries: c.Failure.MaxRetries,
		Bus:        b,
		Logger:     logger,
	}
}

// Simulator owns a scene and advances it in fixed steps. It is not safe for
// concurrent use.
type Simulator struct {
	id         string
	scene      physics.Scene
	integrator Advancer
	dt         float64
	now        float64
	steps      uint64
	policy     config.FailurePolicy
	maxRetries int

	bus    bus.EventBus
	logger log.Log
}

// New validates the scene and time step and returns a ready Simulator.
func New(s physics.Scene, opts Options) (*Simulator, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	if opts.TimeStep == 0 || math.IsNaN(opts.TimeStep) || math.IsInf(opts.TimeStep, 0) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, physics.ErrInvalidTimeStep)
	}

	var integrator Advancer = physics.DefaultIntegrator()
	if opts.Integrator != nil {
		integrator = opts.Integrator
	}
	policy := opts.Policy
	if policy == "" {
		policy = config.PolicyAbort
	}
	b := opts.Bus
	if b == nil {
		b = bus.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	id := uuid.NewString()
	return &Simulator{
		id:         id,
		scene:      s,
		integrator: integrator,
		dt:         opts.TimeStep,
		now:        opts.StartTime,
		policy:     policy,
		maxRetries: opts.MaxRetries,
		bus:        b,
		logger:     logger.With(log.String("run_id", id)),
	}, nil
}

func (s *Simulator) RunID() string                { return s.id }
func (s *Simulator) Scene() physics.Scene         { return s.scene }
func (s *Simulator) Time() float64                { return s.now }
func (s *Simulator) Steps() uint64                { return s.steps }
func (s *Simulator) TimeStep() float64            { return s.dt }
func (s *Simulator) Bus() bus.EventBus            { return s.bus }
func (s *Simulator) Policy() config.FailurePolicy { return s.policy }

// Step advances the scene by one time step. On failure the scene is left
// exactly as it was before the call.
func (s *Simulator) Step() error {
	saved := save(s.scene)
	substeps, err := s.advance(s.dt, 0)
	if err != nil {
		restore(s.scene, saved)
		err = fmt.Errorf("%w: step %d at t=%g: %w", ErrStepFailed, s.steps+1, s.now, err)
		s.logger.Error("step failed", log.Uint64("step", s.steps+1), log.Float64("time", s.now), log.Error(err))
		s.publish(EventStepFailed, StepInfo{
			RunID: s.id, Step: s.steps + 1, Time: s.now, Dt: s.dt, Scene: s.scene, Err: err,
		})
		return err
	}

	s.steps++
	s.now += s.dt
	if substeps > 1 {
		s.logger.Warn("step completed after halving", log.Uint64("step", s.steps), log.Int("substeps", substeps))
	}
	s.publish(EventStepCompleted, StepInfo{
		RunID: s.id, Step: s.steps, Time: s.now, Dt: s.dt, Substeps: substeps, Scene: s.scene,
	})
	return nil
}

// Run performs steps advances, stopping early if ctx is cancelled or a step
// fails. Cancellation is checked between steps only.
func (s *Simulator) Run(ctx context.Context, steps int) error {
	logger := s.logger.WithContext(ctx)
	start := time.Now()
	logger.Info("simulation started",
		log.Int("bodies", len(s.scene)),
		log.Int("steps", steps),
		log.Float64("dt", s.dt),
		log.Float64("time", s.now),
	)

	var err error
	for i := 0; i < steps; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = s.Step(); err != nil {
			break
		}
	}

	logger.Info("simulation finished",
		log.Uint64("steps", s.steps),
		log.Float64("time", s.now),
		log.Duration("took", time.Since(start)),
		log.String("fingerprint", fmt.Sprintf("%016x", scene.Fingerprint(s.scene))),
		log.Error(err),
	)
	s.publish(EventRunFinished, StepInfo{
		RunID: s.id, Step: s.steps, Time: s.now, Dt: s.dt, Scene: s.scene, Err: err,
	})
	return err
}

// advance covers dt, splitting it into halves on numeric failure when the
// policy allows. It returns the number of integrator advances performed.
func (s *Simulator) advance(dt float64, depth int) (int, error) {
	err := s.integrator.Advance(s.scene, dt)
	if err == nil {
		return 1, nil
	}
	if s.policy != config.PolicyHalve || !retryable(err) {
		return 0, err
	}
	if depth >= s.maxRetries {
		return 0, fmt.Errorf("%w after %d halvings: %w", ErrRetriesExhausted, depth, err)
	}

	s.logger.Debug("halving time step", log.Float64("dt", dt/2), log.Int("depth", depth+1), log.Error(err))
	first, err := s.advance(dt/2, depth+1)
	if err != nil {
		return first, err
	}
	second, err := s.advance(dt/2, depth+1)
	return first + second, err
}

func retryable(err error) bool {
	return errors.Is(err, physics.ErrNonFinite) || errors.Is(err, physics.ErrSingularity)
}

func (s *Simulator) publish(eventType string, info StepInfo) {
	if err := s.bus.Publish(bus.NewEvent(eventType, eventSource, info)); err != nil {
		s.logger.Error("event handler failed", log.String("event", eventType), log.Error(err))
	}
}

func save(s physics.Scene) []physics.Body {
	out := make([]physics.Body, len(s))
	for i, b := range s {
		out[i] = *b
	}
	return out
}

func restore(s physics.Scene, saved []physics.Body) {
	for i, b := range s {
		*b = saved[i]
	}
}
