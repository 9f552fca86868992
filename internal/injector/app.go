package injector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexGameTester/2016-solar-project/internal/config"
	"github.com/AlexGameTester/2016-solar-project/internal/core/events/bus"
	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/core/scene"
	"github.com/AlexGameTester/2016-solar-project/internal/core/stats"
	"github.com/AlexGameTester/2016-solar-project/internal/feed"
	"github.com/AlexGameTester/2016-solar-project/internal/simulation"
)

const feedShutdownTimeout = 5 * time.Second

// App is one fully wired simulation run.
type App struct {
	cfg     config.Config
	logger  *log.Logger
	sim     *simulation.Simulator
	watcher *stats.Watcher
	feed    *feed.Server
}

func NewApp(cfg config.Config, logger *log.Logger, sim *simulation.Simulator, watcher *stats.Watcher, fs *feed.Server) *App {
	return &App{cfg: cfg, logger: logger, sim: sim, watcher: watcher, feed: fs}
}

func (a *App) Logger() *log.Logger              { return a.logger }
func (a *App) Simulator() *simulation.Simulator { return a.sim }
func (a *App) Watcher() *stats.Watcher          { return a.watcher }

// Run executes the configured number of steps and then writes the final
// scene and energy series when paths are configured. Outputs are written
// even when the run stops early, reflecting the last completed step.
func (a *App) Run(ctx context.Context) error {
	ctx = log.ContextWithRunID(ctx, a.sim.RunID())
	logger := a.logger.WithContext(ctx)

	sub, err := simulation.Observe(a.sim.Bus(), a.watcher)
	if err != nil {
		return fmt.Errorf("observe energy: %w", err)
	}
	defer func() { _ = sub.Cancel() }()

	if a.feed != nil {
		if err := a.feed.Start(ctx); err != nil {
			return err
		}
		defer a.stopFeed(logger)
		feedSub, err := a.wireFeed()
		if err != nil {
			return err
		}
		defer func() { _ = feedSub.Cancel() }()
	}

	runErr := a.sim.Run(ctx, a.cfg.Steps)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if a.cfg.Output != "" {
		if err := scene.WriteFile(a.cfg.Output, a.sim.Scene()); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("scene written", log.String("path", a.cfg.Output))
		}
	}
	if a.cfg.Stats != "" {
		if err := a.watcher.WriteCSVFile(a.cfg.Stats); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("statistics written", log.String("path", a.cfg.Stats))
		}
	}
	logger.Info("energy drift", log.Float64("relative", a.watcher.Drift()))

	return errors.Join(errs...)
}

// wireFeed subscribes the feed to step events and sends the initial frame.
func (a *App) wireFeed() (bus.Subscription, error) {
	sub, err := a.feed.Subscribe(a.sim.Bus(), a.cfg.Feed.Every)
	if err != nil {
		return nil, fmt.Errorf("subscribe feed: %w", err)
	}
	if err := a.feed.Broadcast(feed.NewFrame(a.sim.RunID(), a.sim.Steps(), a.sim.Time(), a.sim.Scene())); err != nil {
		_ = sub.Cancel()
		return nil, err
	}
	return sub, nil
}

func (a *App) stopFeed(logger log.Log) {
	ctx, cancel := context.WithTimeout(context.Background(), feedShutdownTimeout)
	defer cancel()
	if err := a.feed.Stop(ctx); err != nil {
		logger.Warn("feed shutdown", log.Error(err))
	}
}
