package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/AlexGameTester/2016-solar-project/internal/config"
	"github.com/AlexGameTester/2016-solar-project/internal/injector"
	"github.com/AlexGameTester/2016-solar-project/pkg/concurrent"
)

type flags struct {
	scene    string
	output   string
	stats    string
	dt       float64
	steps    int
	policy   string
	serve    string
	logLevel string
	parallel int
}

func main() {
	var f flags
	fs := flag.NewFlagSet("solarsim", flag.ExitOnError)
	fs.StringVar(&f.scene, "scene", "", "scene file")
	fs.StringVar(&f.output, "out", "", "write the final scene to this file")
	fs.StringVar(&f.stats, "stats", "", "write the energy series as CSV to this file")
	fs.Float64Var(&f.dt, "dt", 0, "time step in seconds")
	fs.IntVar(&f.steps, "steps", 0, "number of steps")
	fs.StringVar(&f.policy, "policy", "", "failure policy: abort or halve")
	fs.StringVar(&f.serve, "serve", "", "serve websocket frames on this address")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn, error or silent")
	fs.IntVar(&f.parallel, "parallel", runtime.NumCPU(), "concurrent runs in batch mode")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: solarsim [flags] [config.yaml|config.json ...]")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	configs, err := loadConfigs(fs.Args(), f, set)
	if err != nil {
		fmt.Fprintln(os.Stderr, "solarsim:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		cancel()
	}()

	err = concurrent.ForEach(ctx, configs, f.parallel, run)
	if err != nil {
		fmt.Fprintln(os.Stderr, "solarsim:", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger().Sync() }()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", cfg.Scene, err)
	}
	return nil
}

// loadConfigs reads every config path, or builds one config from flags
// alone, and applies explicitly set flags on top.
func loadConfigs(paths []string, f flags, set map[string]bool) ([]config.Config, error) {
	if len(paths) == 0 {
		paths = []string{""}
	} else if len(paths) > 1 && (set["out"] || set["stats"] || set["serve"]) {
		return nil, errors.New("-out, -stats and -serve need a single run")
	}

	configs := make([]config.Config, 0, len(paths))
	for _, path := range paths {
		cfg := config.Default()
		if path != "" {
			var err error
			if cfg, err = config.Load(path); err != nil {
				return nil, err
			}
		}
		apply(&cfg, f, set)
		if cfg.Scene == "" {
			return nil, errors.New("no scene file given")
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func apply(cfg *config.Config, f flags, set map[string]bool) {
	if set["scene"] {
		cfg.Scene = f.scene
	}
	if set["out"] {
		cfg.Output = f.output
	}
	if set["stats"] {
		cfg.Stats = f.stats
	}
	if set["dt"] {
		cfg.TimeStep = f.dt
	}
	if set["steps"] {
		cfg.Steps = f.steps
	}
	if set["policy"] {
		cfg.Failure.Policy = config.FailurePolicy(f.policy)
	}
	if set["serve"] {
		cfg.Feed.Addr = f.serve
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
}
