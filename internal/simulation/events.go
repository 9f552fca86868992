package simulation

import "github.com/AlexGameTester/2016-solar-project/internal/core/physics"

const (
	EventStepCompleted = "simulation.step.completed"
	EventStepFailed    = "simulation.step.failed"
	EventRunFinished   = "simulation.run.finished"

	eventSource = "simulation"
)

// StepInfo is the payload of every simulation event. Scene is the live
// scene; handlers run synchronously between steps and must not modify it.
type StepInfo struct {
	RunID string
	Step  uint64
	Time  float64
	// Dt is the interval covered by the step.
	Dt float64
	// Substeps is the number of integrator advances used, more than one
	// after halving.
	Substeps int
	Scene    physics.Scene
	Err      error
}
