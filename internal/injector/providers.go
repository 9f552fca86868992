package injector

import (
	"github.com/google/wire"

	"github.com/AlexGameTester/2016-solar-project/internal/config"
	"github.com/AlexGameTester/2016-solar-project/internal/core/events/bus"
	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
	"github.com/AlexGameTester/2016-solar-project/internal/core/scene"
	"github.com/AlexGameTester/2016-solar-project/internal/core/stats"
	"github.com/AlexGameTester/2016-solar-project/internal/feed"
	"github.com/AlexGameTester/2016-solar-project/internal/simulation"
)

// ProviderSet builds an App from a validated config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideScene,
	ProvideSimulator,
	ProvideWatcher,
	ProvideFeed,
	NewApp,
)

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.NewWithEncoding(cfg.LogLevel(), cfg.Log.Encoding)
}

func ProvideScene(cfg config.Config, logger log.Log) (physics.Scene, error) {
	return scene.NewLoader(cfg.SkipInvalid, logger).LoadFile(cfg.Scene)
}

func ProvideSimulator(cfg config.Config, s physics.Scene, b bus.EventBus, logger log.Log) (*simulation.Simulator, error) {
	return simulation.New(s, simulation.OptionsFromConfig(cfg, b, logger))
}

func ProvideWatcher(cfg config.Config) *stats.Watcher {
	return stats.NewWatcher(cfg.Gravity, cfg.StartTime)
}

// ProvideFeed returns nil when no feed address is configured.
func ProvideFeed(cfg config.Config, logger log.Log) *feed.Server {
	if cfg.Feed.Addr == "" {
		return nil
	}
	return feed.NewServer(cfg.Feed.Addr, logger)
}
