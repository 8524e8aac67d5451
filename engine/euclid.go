package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Euclidean distribution and its probabilistic blend. The pure
// generator spreads k hits as evenly as integer steps allow; the blend
// reserves part of the budget for that grid and lets the weighted
// sampler spend the rest.

// GenerateEuclidean distributes hits across steps with a running
// accumulator: add hits/steps per step, place a hit each time the sum
// crosses one. Rounding shortfall is filled from the end backward.
func GenerateEuclidean(hits, steps int) StepMask {
	if steps <= 0 || steps > parameter.MaxSteps || hits <= 0 {
		return 0
	}
	if hits >= steps {
		return LengthMask(steps)
	}

	var mask StepMask
	placed := 0
	acc := 0.0
	step := float64(hits) / float64(steps)
	for i := 0; i < steps; i++ {
		acc += step
		if acc >= 1.0 {
			mask = mask.With(i)
			acc -= 1.0
			placed++
		}
	}
	for i := steps - 1; i >= 0 && placed < hits; i-- {
		if !mask.Has(i) {
			mask = mask.With(i)
			placed++
		}
	}
	return mask
}

// RotatePattern rotates a pattern right by offset steps, circularly.
func RotatePattern(mask StepMask, offset, steps int) StepMask {
	return mask.RotateRight(offset, steps)
}

// alignToDownbeat rotates the pattern so its first hit sits on step 0.
func alignToDownbeat(mask StepMask, steps int) StepMask {
	first := mask.FirstSet()
	if first <= 0 {
		return mask
	}
	return mask.RotateRight(first, steps)
}

// BlendEuclideanWithWeights splits the budget between an evenly-spaced
// grid and weighted sampling. ratio 0 is pure sampling, ratio 1 a pure
// rotated grid masked by eligibility; between, the grid takes
// floor(budget*ratio) hits and the sampler fills the remainder on the
// steps left over. Masking the grid by eligibility may under-fill; that
// is accepted.
func BlendEuclideanWithWeights(budget, steps int, weights *WeightArray, eligibility StepMask, ratio float64, rotation int, seed uint32, minSpacing int) StepMask {
	if budget <= 0 || steps <= 0 {
		return 0
	}
	ratio = clamp01(ratio)

	if ratio < 0.01 {
		return SelectHitsGumbelTopK(weights, eligibility, budget, seed, steps, minSpacing)
	}

	if ratio > 0.99 {
		e := alignToDownbeat(GenerateEuclidean(budget, steps), steps)
		return e.RotateRight(rotation, steps) & eligibility
	}

	euclidHits := int(float64(budget) * ratio)
	var grid StepMask
	if euclidHits > 0 {
		grid = alignToDownbeat(GenerateEuclidean(euclidHits, steps), steps)
		grid = grid.RotateRight(rotation, steps) & eligibility
	}

	remainder := budget - grid.Count()
	if remainder <= 0 {
		return grid
	}
	sampled := SelectHitsGumbelTopK(weights, eligibility&^grid, remainder, seed^0xE0C1, steps, minSpacing)
	return grid | sampled
}

// GenreEuclideanRatio selects how much of the anchor budget goes to the
// even grid. Only the sparse zones blend; the ratio tapers off as the
// genre field moves toward its syncopated edge.
func GenreEuclideanRatio(genre Genre, zone EnergyZone, fieldX float64) float64 {
	if zone != ZoneMinimal && zone != ZoneGroove {
		return 0
	}
	var base float64
	switch genre {
	case GenreTechno:
		base = 0.70
	case GenreTribal:
		base = 0.40
	case GenreIDM:
		base = 0.0
	}
	return base * (1.0 - 0.7*clamp01(fieldX))
}
