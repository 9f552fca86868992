// Package stats collects aggregate quantities of a scene over time.
package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

// Energy returns total kinetic plus pairwise gravitational potential energy.
//
// Two bodies at zero separation are treated as touching: their separation is
// taken as the sum of their radii. Coincident bodies that both have zero
// radius contribute no potential energy. This is a reporting policy only;
// the integrator itself rejects such configurations.
func Energy(g float64, s physics.Scene) float64 {
	var e float64
	for _, b := range s {
		e += 0.5 * b.Mass * (b.Vx*b.Vx + b.Vy*b.Vy)
	}
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			a, b := s[i], s[j]
			r := math.Hypot(a.X-b.X, a.Y-b.Y)
			if r == 0 {
				r = a.Radius + b.Radius
			}
			if r == 0 {
				continue
			}
			e -= g * a.Mass * b.Mass / r
		}
	}
	return e
}

// Momentum returns the total linear momentum.
func Momentum(s physics.Scene) (px, py float64) {
	for _, b := range s {
		px += b.Mass * b.Vx
		py += b.Mass * b.Vy
	}
	return px, py
}

// Barycenter returns the mass-weighted mean position.
func Barycenter(s physics.Scene) (x, y float64) {
	var m float64
	for _, b := range s {
		m += b.Mass
		x += b.Mass * b.X
		y += b.Mass * b.Y
	}
	if m == 0 {
		return 0, 0
	}
	return x / m, y / m
}

// Sample is one recorded point of the energy series.
type Sample struct {
	Time   float64
	Energy float64
}

// Watcher accumulates a time/energy series. The state at the start time is
// not recorded; call Record after each step.
type Watcher struct {
	g float64

	mu      sync.Mutex
	now     float64
	samples []Sample
}

func NewWatcher(g, startTime float64) *Watcher {
	return &Watcher{g: g, now: startTime}
}

// Record advances the watcher clock by dt and samples s.
func (w *Watcher) Record(s physics.Scene, dt float64) Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now += dt
	return w.recordLocked(s)
}

// RecordAt sets the watcher clock to t and samples s.
func (w *Watcher) RecordAt(s physics.Scene, t float64) Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = t
	return w.recordLocked(s)
}

func (w *Watcher) recordLocked(s physics.Scene) Sample {
	sample := Sample{Time: w.now, Energy: Energy(w.g, s)}
	w.samples = append(w.samples, sample)
	return sample
}

// Now returns the watcher clock.
func (w *Watcher) Now() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

// Samples returns a copy of the recorded series.
func (w *Watcher) Samples() []Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Drift returns the largest relative deviation of the recorded energy from
// the first sample. It is zero with fewer than two samples.
func (w *Watcher) Drift() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.samples) < 2 {
		return 0
	}
	e0 := w.samples[0].Energy
	var worst float64
	for _, s := range w.samples[1:] {
		d := math.Abs(s.Energy - e0)
		if e0 != 0 {
			d /= math.Abs(e0)
		}
		worst = math.Max(worst, d)
	}
	return worst
}

// WriteCSV writes "time,energy" rows with a header.
func (w *Watcher) WriteCSV(out io.Writer) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"time", "energy"}); err != nil {
		return err
	}
	for _, s := range w.Samples() {
		row := []string{
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Energy, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the series to path.
func (w *Watcher) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create stats file: %w", err)
	}
	if err := w.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write stats: %w", err)
	}
	return f.Close()
}
