package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// FailurePolicy decides what a run does after a failed step.
type FailurePolicy string

const (
	// PolicyAbort stops the run on the first failed step.
	PolicyAbort FailurePolicy = "abort"
	// PolicyHalve retries the failed interval as two half steps.
	PolicyHalve FailurePolicy = "halve"
)

// Config describes one simulation run.
type Config struct {
	Scene       string  `json:"scene" yaml:"scene"`
	Output      string  `json:"output,omitempty" yaml:"output,omitempty"`
	Stats       string  `json:"stats,omitempty" yaml:"stats,omitempty"`
	TimeStep    float64 `json:"dt" yaml:"dt"`
	Steps       int     `json:"steps" yaml:"steps"`
	StartTime   float64 `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	Gravity     float64 `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	SkipInvalid bool    `json:"skip_invalid,omitempty" yaml:"skip_invalid,omitempty"`

	Failure Failure `json:"failure" yaml:"failure"`
	Log     Log     `json:"log" yaml:"log"`
	Feed    Feed    `json:"feed" yaml:"feed"`
}

type Failure struct {
	Policy     FailurePolicy `json:"policy" yaml:"policy"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
}

type Log struct {
	Level    string `json:"level" yaml:"level"`
	Encoding string `json:"encoding" yaml:"encoding"`
}

// Feed configures the websocket frame feed. An empty Addr disables it.
type Feed struct {
	Addr  string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Every int    `json:"every,omitempty" yaml:"every,omitempty"`
}

// Default returns a configuration that runs 1000 one-second steps under the
// SI gravitational constant.
func Default() Config {
	return Config{
		TimeStep: 1,
		Steps:    1000,
		Gravity:  physics.G,
		Failure: Failure{
			Policy:     PolicyAbort,
			MaxRetries: 4,
		},
		Log: Log{
			Level:    "info",
			Encoding: "console",
		},
		Feed: Feed{
			Every: 1,
		},
	}
}

// Load reads a YAML (.yaml, .yml) or JSON (.json) file over Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode json config: %w", err)
	}
	return c, nil
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml config: %w", err)
	}
	return c, nil
}

// Validate checks the run parameters. The scene path is not checked here.
func (c Config) Validate() error {
	if c.TimeStep == 0 || math.IsNaN(c.TimeStep) || math.IsInf(c.TimeStep, 0) {
		return fmt.Errorf("%w: dt must be finite and non-zero, got %v", ErrInvalidConfig, c.TimeStep)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative", ErrInvalidConfig)
	}
	if math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0) || c.Gravity < 0 {
		return fmt.Errorf("%w: gravity must be finite and non-negative", ErrInvalidConfig)
	}
	if math.IsNaN(c.StartTime) || math.IsInf(c.StartTime, 0) {
		return fmt.Errorf("%w: start_time must be finite", ErrInvalidConfig)
	}
	switch c.Failure.Policy {
	case PolicyAbort, PolicyHalve:
	default:
		return fmt.Errorf("%w: unknown failure policy %q", ErrInvalidConfig, c.Failure.Policy)
	}
	if c.Failure.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	}
	if c.Feed.Every < 1 {
		return fmt.Errorf("%w: feed.every must be at least 1", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return level
}
