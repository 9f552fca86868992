package simulation

import (
	"fmt"

	"github.com/AlexGameTester/2016-solar-project/internal/core/events/bus"
	"github.com/AlexGameTester/2016-solar-project/internal/core/stats"
)

// Observe records an energy sample into w after every completed step.
func Observe(b bus.EventBus, w *stats.Watcher) (bus.Subscription, error) {
	return b.Subscribe(EventStepCompleted, func(e bus.Event) error {
		info, ok := e.Data().(StepInfo)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", e.Type(), e.Data())
		}
		w.Record(info.Scene, info.Dt)
		return nil
	})
}
