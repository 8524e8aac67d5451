package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Shimmer placement is complementary: it lives in the gaps the anchor
// leaves behind. Each gap receives a share of the budget proportional
// to its length, and drift selects how mechanically the share is laid
// down inside the gap.

// FindGaps returns the runs of empty steps in mask, in circular order.
// A run crossing the bar boundary is reported once, starting at its
// real start near the end of the bar. An empty mask is one full-length
// gap at step zero.
func FindGaps(mask StepMask, length int) []Gap {
	if length <= 0 {
		return nil
	}
	if mask == 0 {
		return []Gap{{Start: 0, Length: length}}
	}

	gaps := make([]Gap, 0, parameter.MaxGaps)
	start := -1
	for i := 0; i < length; i++ {
		if !mask.Has(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if len(gaps) < parameter.MaxGaps {
				gaps = append(gaps, Gap{Start: start, Length: i - start})
			}
			start = -1
		}
	}
	if start >= 0 {
		tail := Gap{Start: start, Length: length - start}
		if len(gaps) > 0 && gaps[0].Start == 0 {
			gaps[0] = Gap{Start: tail.Start, Length: tail.Length + gaps[0].Length}
		} else if len(gaps) < parameter.MaxGaps {
			gaps = append(gaps, tail)
		}
	}
	return gaps
}

func lcgNext(state *uint32) uint32 {
	*state = *state*1103515245 + 12345
	return (*state >> 16) & 0x7FFF
}

// ApplyComplementRelationship fills the gaps of the anchor mask with up
// to targetHits shimmer hits. Low drift spaces hits evenly inside each
// gap, mid drift follows the weight field, high drift scatters with a
// seeded LCG. Placement never lands on an anchor step.
func ApplyComplementRelationship(anchor StepMask, weights *WeightArray, drift float64, seed uint32, length, targetHits int) StepMask {
	if targetHits <= 0 || length <= 0 {
		return 0
	}
	if targetHits > parameter.MaxSelectableHits {
		targetHits = parameter.MaxSelectableHits
	}

	gaps := FindGaps(anchor, length)
	totalGapLen := 0
	for _, g := range gaps {
		totalGapLen += g.Length
	}
	if totalGapLen == 0 {
		return 0
	}
	if targetHits > totalGapLen {
		targetHits = totalGapLen
	}

	rngState := (seed * 2654435761) ^ (seed >> 16)
	if rngState == 0 {
		rngState = 1
	}

	var shimmer StepMask
	remaining := targetHits
	for _, gap := range gaps {
		if remaining <= 0 {
			break
		}
		share := gap.Length * targetHits / totalGapLen
		if share == 0 {
			share = 1
		}
		if share > remaining {
			share = remaining
		}
		if share > gap.Length {
			share = gap.Length
		}

		switch {
		case drift < 0.3:
			shimmer = placeEvenly(shimmer, gap, share, seed, length)
		case drift < 0.7:
			shimmer = placeByWeight(shimmer, gap, share, weights, length)
		default:
			shimmer = placeRandomly(shimmer, gap, share, &rngState, length)
		}
		remaining = targetHits - shimmer.Count()
	}

	// Rounding can leave the budget short; sweep remaining empty
	// non-anchor steps left to right.
	for i := 0; i < length && remaining > 0; i++ {
		if anchor.Has(i) || shimmer.Has(i) {
			continue
		}
		shimmer = shimmer.With(i)
		remaining--
	}

	return rotateAvoidingAnchor(shimmer, anchor, seed, length)
}

// placeEvenly spreads share hits across the gap at equal intervals,
// with a seeded phase nudge so different seeds shift the lattice.
func placeEvenly(mask StepMask, gap Gap, share int, seed uint32, length int) StepMask {
	interval := gap.Length / share
	phase := 0
	if interval > 1 {
		phase = int(HashToFloat(seed, gap.Start) * float64(interval))
	}
	for j := 0; j < share; j++ {
		offset := (gap.Length*j)/share + phase
		if offset >= gap.Length {
			offset = gap.Length - 1
		}
		mask = mask.With((gap.Start + offset) % length)
	}
	return mask
}

// placeByWeight greedily takes the strongest remaining steps in the gap.
func placeByWeight(mask StepMask, gap Gap, share int, weights *WeightArray, length int) StepMask {
	for j := 0; j < share; j++ {
		best := -1
		bestWeight := -1.0
		for k := 0; k < gap.Length; k++ {
			step := (gap.Start + k) % length
			if mask.Has(step) {
				continue
			}
			if weights[step] > bestWeight {
				bestWeight = weights[step]
				best = step
			}
		}
		if best < 0 {
			break
		}
		mask = mask.With(best)
	}
	return mask
}

// placeRandomly scatters share hits over the gap's free steps.
func placeRandomly(mask StepMask, gap Gap, share int, rngState *uint32, length int) StepMask {
	for j := 0; j < share; j++ {
		free := 0
		for k := 0; k < gap.Length; k++ {
			if !mask.Has((gap.Start + k) % length) {
				free++
			}
		}
		if free == 0 {
			break
		}
		pick := int(lcgNext(rngState)) % free
		for k := 0; k < gap.Length; k++ {
			step := (gap.Start + k) % length
			if mask.Has(step) {
				continue
			}
			if pick == 0 {
				mask = mask.With(step)
				break
			}
			pick--
		}
	}
	return mask
}

// rotateAvoidingAnchor tries a handful of seeded rotations for variety
// and keeps the first that stays clear of the anchor. All colliding
// means the unrotated placement stands.
func rotateAvoidingAnchor(shimmer, anchor StepMask, seed uint32, length int) StepMask {
	if shimmer == 0 {
		return 0
	}
	for try := 0; try < parameter.ComplementRotationTries; try++ {
		rot := int(HashToInt(seed, 900+try)) % length
		if rot <= 0 {
			continue
		}
		rotated := shimmer.RotateRight(rot, length)
		if rotated&anchor == 0 {
			return rotated
		}
	}
	return shimmer
}
