package scene

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/AlexGameTester/2016-solar-project/internal/core/observability/log"
	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

// Loader reads scene descriptions, one body per line:
//
//	Star|Planet <radius> <color> <mass> <x> <y> <Vx> <Vy>
//
// Blank lines and lines starting with '#' are ignored.
type Loader struct {
	// SkipInvalid logs and drops malformed lines instead of failing.
	SkipInvalid bool
	Logger      log.Log
}

func NewLoader(skipInvalid bool, logger log.Log) *Loader {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loader{SkipInvalid: skipInvalid, Logger: logger}
}

// LoadFile reads the scene stored at path.
func (l *Loader) LoadFile(path string) (physics.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// Load parses every body in r. The resulting scene always passes
// physics.Scene.Validate.
func (l *Loader) Load(r io.Reader) (physics.Scene, error) {
	var out physics.Scene
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		b, err := ParseLine(trimmed)
		if err != nil {
			perr := &ParseError{Line: lineNo, Text: trimmed, Err: err}
			if !l.SkipInvalid {
				return nil, perr
			}
			l.Logger.Warn("skipping scene line", log.Int("line", lineNo), log.Error(err))
			continue
		}
		out = append(out, b)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyScene
	}
	l.Logger.Debug("scene loaded", log.Int("bodies", len(out)))
	return out, nil
}

// ParseLine parses a single body description.
func ParseLine(line string) (*physics.Body, error) {
	fields := strings.Fields(line)
	if len(fields) != 8 {
		return nil, fmt.Errorf("%w: want 8 fields, got %d", ErrMalformedLine, len(fields))
	}

	kind, err := physics.ParseKind(fields[0])
	if err != nil {
		return nil, err
	}

	var nums [6]float64
	for i, idx := range []int{1, 3, 4, 5, 6, 7} {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: field %d %q is not a finite number", ErrMalformedLine, idx+1, fields[idx])
		}
		nums[i] = v
	}

	b := &physics.Body{
		Kind:   kind,
		Radius: nums[0],
		Color:  fields[2],
		Mass:   nums[1],
		X:      nums[2],
		Y:      nums[3],
		Vx:     nums[4],
		Vy:     nums[5],
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
