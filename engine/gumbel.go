package engine

import (
	"math"

	"github.com/chronick/duopulse-sub001/parameter"
)

// Gumbel Top-K: weighted sampling without replacement. Ranking steps by
// log(weight) plus seeded Gumbel noise and taking the top K draws K
// steps with probability proportional to their weights, but with no
// stream state: every score is a pure function of (seed, step).

// MinSpacingForZone returns the minimum circular distance between
// selected hits in each zone. Sparse zones spread out; Peak packs.
func MinSpacingForZone(zone EnergyZone) int {
	switch zone {
	case ZoneMinimal:
		return parameter.MinSpacingMinimal
	case ZoneGroove:
		return parameter.MinSpacingGroove
	case ZoneBuild:
		return parameter.MinSpacingBuild
	case ZonePeak:
		return parameter.MinSpacingPeak
	}
	return parameter.MinSpacingDefault
}

func uniformToGumbel(u float64) float64 {
	return -math.Log(-math.Log(u))
}

// SelectHitsGumbelTopK picks up to targetCount steps from the eligible
// set, highest score first, honoring minSpacing. If spacing starves the
// selection before the target is met, the constraint relaxes to half
// and then to zero; coming up short after that is an accepted result,
// not an error.
func SelectHitsGumbelTopK(weights *WeightArray, eligibility StepMask, targetCount int, seed uint32, steps, minSpacing int) StepMask {
	if targetCount <= 0 || eligibility == 0 || steps <= 0 {
		return 0
	}
	if steps > parameter.MaxSteps {
		steps = parameter.MaxSteps
	}
	if targetCount > parameter.MaxSelectableHits {
		targetCount = parameter.MaxSelectableHits
	}
	if minSpacing < 0 {
		minSpacing = 0
	}

	var scores [parameter.MaxSteps]float64
	for i := 0; i < steps; i++ {
		if !eligibility.Has(i) {
			continue
		}
		if weights[i] < parameter.WeightEpsilon {
			scores[i] = parameter.MinScore
			continue
		}
		scores[i] = math.Log(weights[i]) + uniformToGumbel(hashUnit(seed, i))
	}

	var selected StepMask
	count := 0
	passes := [3]int{minSpacing, minSpacing / 2, 0}
	for _, spacing := range passes {
		for count < targetCount {
			best := -1
			bestScore := math.Inf(-1)
			for i := 0; i < steps; i++ {
				if !eligibility.Has(i) || selected.Has(i) {
					continue
				}
				if spacing > 0 && !spacingValid(i, selected, spacing, steps) {
					continue
				}
				if scores[i] > bestScore {
					bestScore = scores[i]
					best = i
				}
			}
			if best < 0 {
				break
			}
			selected = selected.With(best)
			count++
		}
		if count >= targetCount {
			break
		}
	}
	return selected
}

// spacingValid reports whether candidate sits at least spacing steps
// (circularly) from every already-selected hit.
func spacingValid(candidate int, selected StepMask, spacing, steps int) bool {
	if selected == 0 {
		return true
	}
	for i := 0; i < steps; i++ {
		if !selected.Has(i) {
			continue
		}
		d := candidate - i
		if d < 0 {
			d = -d
		}
		if steps-d < d {
			d = steps - d
		}
		if d < spacing {
			return false
		}
	}
	return true
}
