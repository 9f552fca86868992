package feed

import (
	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
	"github.com/AlexGameTester/2016-solar-project/internal/core/scene"
)

// Frame is one renderable picture of the scene.
type Frame struct {
	RunID  string      `json:"run_id"`
	Step   uint64      `json:"step"`
	Time   float64     `json:"time"`
	Bodies []BodyFrame `json:"bodies"`
}

type BodyFrame struct {
	Kind   string   `json:"kind"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Vx     float64  `json:"vx"`
	Vy     float64  `json:"vy"`
	Radius float64  `json:"radius"`
	Color  string   `json:"color"`
	RGBA   [4]uint8 `json:"rgba"`
}

// NewFrame copies what a renderer needs out of s.
func NewFrame(runID string, step uint64, t float64, s physics.Scene) Frame {
	bodies := make([]BodyFrame, len(s))
	for i, b := range s {
		c, _ := scene.ResolveColor(b.Color)
		bodies[i] = BodyFrame{
			Kind:   b.Kind.String(),
			X:      b.X,
			Y:      b.Y,
			Vx:     b.Vx,
			Vy:     b.Vy,
			Radius: b.Radius,
			Color:  b.Color,
			RGBA:   [4]uint8{c.R, c.G, c.B, c.A},
		}
	}
	return Frame{RunID: runID, Step: step, Time: t, Bodies: bodies}
}
