package genre

import (
	"math"

	"github.com/chronick/duopulse-sub001/engine"
	"github.com/chronick/duopulse-sub001/parameter"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeGridWeights maps a field position onto the archetype grid: the
// four surrounding cells and their bilinear weights, sharpened by a
// softmax so the nearest cell pulls ahead of its neighbors.
func ComputeGridWeights(fieldX, fieldY float64) ([4]int, [4]float64) {
	span := float64(parameter.ArchetypeGridSize - 1)
	fx := clamp01(fieldX) * span
	fy := clamp01(fieldY) * span

	x0 := int(fx)
	if x0 > parameter.ArchetypeGridSize-2 {
		x0 = parameter.ArchetypeGridSize - 2
	}
	y0 := int(fy)
	if y0 > parameter.ArchetypeGridSize-2 {
		y0 = parameter.ArchetypeGridSize - 2
	}
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	indices := [4]int{
		y0*parameter.ArchetypeGridSize + x0,
		y0*parameter.ArchetypeGridSize + x0 + 1,
		(y0+1)*parameter.ArchetypeGridSize + x0,
		(y0+1)*parameter.ArchetypeGridSize + x0 + 1,
	}
	weights := [4]float64{
		(1 - tx) * (1 - ty),
		tx * (1 - ty),
		(1 - tx) * ty,
		tx * ty,
	}
	return indices, sharpen(weights, parameter.SoftmaxTemperature)
}

// sharpen renormalizes cell weights through a softmax. Degenerate
// inputs fall back to a uniform blend.
func sharpen(w [4]float64, temperature float64) [4]float64 {
	if temperature < parameter.SoftmaxTemperatureMin {
		temperature = parameter.SoftmaxTemperatureMin
	}
	if temperature > parameter.SoftmaxTemperatureMax {
		temperature = parameter.SoftmaxTemperatureMax
	}

	peak := w[0]
	for _, v := range w[1:] {
		if v > peak {
			peak = v
		}
	}

	var out [4]float64
	var sum float64
	for i, v := range w {
		out[i] = math.Exp((v - peak) / temperature)
		sum += out[i]
	}
	if sum < parameter.MinBlendWeight || math.IsNaN(sum) {
		return [4]float64{0.25, 0.25, 0.25, 0.25}
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Traits blends the four surrounding archetypes into the trait set the
// sequencer consumes. Continuous traits interpolate; the masks and the
// swing pattern come from the dominant cell, since half a mask means
// nothing.
func Traits(g engine.Genre, fieldX, fieldY float64) engine.Traits {
	grid := Grid(g)
	indices, weights := ComputeGridWeights(fieldX, fieldY)

	var t engine.Traits
	dominant := 0
	for k, idx := range indices {
		a := &grid[idx]
		t.SwingAmount += weights[k] * a.SwingAmount
		t.DefaultCouple += weights[k] * a.DefaultCouple
		t.FillDensityMultiplier += weights[k] * a.FillMultiplier
		if weights[k] > weights[dominant] {
			dominant = k
		}
	}

	d := &grid[indices[dominant]]
	t.SwingPattern = d.SwingPattern
	t.AnchorAccentMask = d.AnchorAccent
	t.ShimmerAccentMask = d.ShimmerAccent
	t.RatchetEligibleMask = d.Ratchet
	return t
}

// Profile blends the per-step preference tables at a field position.
func Profile(g engine.Genre, fieldX, fieldY float64) (anchor, shimmer, aux engine.WeightArray) {
	grid := Grid(g)
	indices, weights := ComputeGridWeights(fieldX, fieldY)
	for k, idx := range indices {
		a := &grid[idx]
		for i := range anchor {
			anchor[i] += weights[k] * a.AnchorWeights[i]
			shimmer[i] += weights[k] * a.ShimmerWeights[i]
			aux[i] += weights[k] * a.AuxWeights[i]
		}
	}
	return anchor, shimmer, aux
}

// ArchetypeAt returns the dominant archetype at a field position.
func ArchetypeAt(g engine.Genre, fieldX, fieldY float64) *Archetype {
	grid := Grid(g)
	indices, weights := ComputeGridWeights(fieldX, fieldY)
	dominant := 0
	for k := range weights {
		if weights[k] > weights[dominant] {
			dominant = k
		}
	}
	return &grid[indices[dominant]]
}
