// Package genre holds the archetype DNA for each genre: a 3x3 grid of
// compact trait records addressed by the performance field. The records
// are plain data; blending lives in field.go.
package genre

import (
	"github.com/chronick/duopulse-sub001/engine"
)

// Archetype is one cell of a genre grid: per-step preference tables on
// the 32-step reference grid plus the discrete traits the sequencer
// consumes.
type Archetype struct {
	Name string

	AnchorWeights  engine.WeightArray
	ShimmerWeights engine.WeightArray
	AuxWeights     engine.WeightArray

	AnchorAccent  engine.StepMask
	ShimmerAccent engine.StepMask
	Ratchet       engine.StepMask

	SwingAmount    float64
	SwingPattern   int
	DefaultCouple  float64
	FillMultiplier float64
}

// extendMask repeats a 32-step mask across the full step range.
func extendMask(m uint32) engine.StepMask {
	return engine.StepMask(uint64(m)<<32 | uint64(m))
}

// anchorProfile is the shared anchor preference curve: downbeats first,
// backbeats next, then down the metric ladder to the odd steps.
func anchorProfile() engine.WeightArray {
	var w engine.WeightArray
	for i := range w {
		switch j := i % 32; {
		case j == 0 || j == 16:
			w[i] = 1.0
		case j == 8 || j == 24:
			w[i] = 0.85
		case j%4 == 0:
			w[i] = 0.7
		case j%2 == 0:
			w[i] = 0.3
		default:
			w[i] = 0.15
		}
	}
	return w
}

// shimmerProfile prefers the backbeats and the off-quarters the anchor
// leaves open.
func shimmerProfile() engine.WeightArray {
	var w engine.WeightArray
	for i := range w {
		switch j := i % 32; {
		case j == 8 || j == 24:
			w[i] = 1.0
		case j%8 == 4:
			w[i] = 0.6
		case j%2 == 0:
			w[i] = 0.3
		default:
			w[i] = 0.15
		}
	}
	return w
}

func auxProfile() engine.WeightArray {
	var w engine.WeightArray
	for i := range w {
		if i%2 == 0 {
			w[i] = 0.6
		} else {
			w[i] = 0.3
		}
	}
	return w
}
