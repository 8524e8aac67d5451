package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Guard rails keep sampled patterns playable. The soft pass nudges a
// pattern drifting toward a violation; the hard pass then enforces the
// zone limits outright. Hard corrections are bounded per bar so a
// pathological weight field cannot loop forever.

// MaxGapForZone returns the largest run of silent steps a zone
// tolerates in the combined anchor and shimmer pattern. Minimal has no
// limit; silence is its material.
func MaxGapForZone(zone EnergyZone, length int) int {
	switch zone {
	case ZoneMinimal:
		return length
	case ZoneBuild:
		return parameter.MaxGapBuild
	case ZonePeak:
		return parameter.MaxGapPeak
	}
	return parameter.MaxGapGroove
}

// MaxConsecutiveForZone returns how many adjacent shimmer hits a zone
// tolerates before the run reads as a roll.
func MaxConsecutiveForZone(zone EnergyZone) int {
	switch zone {
	case ZoneMinimal:
		return parameter.MaxConsecutiveShimmerMinimal
	case ZonePeak:
		return parameter.MaxConsecutiveShimmerPeak
	}
	return parameter.MaxConsecutiveShimmer
}

// FindGapMidpoints returns the midpoint step of every gap at least
// minGapSize long. Midpoints are where a rescue hit lands when a gap
// has to be broken up.
func FindGapMidpoints(mask StepMask, minGapSize, length int) []int {
	if mask == 0 || minGapSize <= 1 {
		return nil
	}
	var midpoints []int
	for _, g := range FindGaps(mask, length) {
		if g.Length < minGapSize {
			continue
		}
		midpoints = append(midpoints, (g.Start+g.Length/2)%length)
	}
	return midpoints
}

// SoftRepairPass spends at most one anchor move and one shimmer trim
// per bar to steer the pattern away from the zone limits before the
// hard pass has to act. Repairs follow the weight field, so they stay
// musical rather than mechanical.
func SoftRepairPass(anchor, shimmer StepMask, weights *WeightArray, zone EnergyZone, length int) (StepMask, StepMask) {
	maxGap := MaxGapForZone(zone, length)
	if maxGap < length {
		threshold := maxGap - parameter.SoftRepairGapMargin
		if threshold > 1 {
			midpoints := FindGapMidpoints(anchor|shimmer, threshold, length)
			if len(midpoints) > 0 {
				best := midpoints[0]
				for _, m := range midpoints[1:] {
					if weights[m] > weights[best] {
						best = m
					}
				}
				weakest := -1
				for i := 1; i < length; i++ {
					if !anchor.Has(i) {
						continue
					}
					if weakest < 0 || weights[i] < weights[weakest] {
						weakest = i
					}
				}
				if weakest >= 0 && weights[best] > weights[weakest] {
					anchor = anchor.Without(weakest).With(best)
				}
			}
		}
	}

	limit := MaxConsecutiveForZone(zone) - parameter.SoftRepairRunMargin
	if start, runLen, ok := findRun(shimmer, length, limit); ok {
		shimmer = shimmer.Without(weakestInRun(weights, start, runLen, length))
	}

	return anchor, shimmer
}

// ApplyHardGuardRails enforces the zone limits on a sampled pattern:
// downbeat present outside Minimal, no gap beyond the zone maximum, no
// shimmer run beyond the zone maximum, and the genre floor rules. It
// returns the number of corrections applied.
func ApplyHardGuardRails(anchor, shimmer StepMask, weights *WeightArray, zone EnergyZone, genre Genre, length int) (StepMask, StepMask, int) {
	corrections := 0

	if zone != ZoneMinimal && !anchor.Has(0) {
		anchor = anchor.With(0)
		shimmer = shimmer.Without(0)
		corrections++
	}

	maxGap := MaxGapForZone(zone, length)
	if maxGap < length {
		for i := 0; i < parameter.MaxGapCorrections; i++ {
			midpoints := FindGapMidpoints(anchor|shimmer, maxGap+1, length)
			if len(midpoints) == 0 {
				break
			}
			anchor = anchor.With(midpoints[0])
			corrections++
		}
	}

	maxConsec := MaxConsecutiveForZone(zone)
	for i := 0; i < parameter.MaxConsecutiveCorrections; i++ {
		start, runLen, ok := findRun(shimmer, length, maxConsec)
		if !ok {
			break
		}
		shimmer = shimmer.Without(weakestInRun(weights, start, runLen, length))
		corrections++
	}

	if zone != ZoneMinimal && genre == GenreTechno {
		if length >= 16 && shimmer.Count() > 0 && shimmer&StepMask(parameter.BackbeatMask) == 0 && !anchor.Has(parameter.TechnoBackbeatStep) {
			shimmer = shimmer.With(parameter.TechnoBackbeatStep)
			corrections++
		}
	}

	return anchor, shimmer, corrections
}

// findRun locates the first circular run of set steps longer than
// limit. A fully set mask is one run of the whole bar.
func findRun(mask StepMask, length, limit int) (start, runLen int, ok bool) {
	if limit <= 0 || mask == 0 {
		return 0, 0, false
	}
	if mask.Count() == length {
		return 0, length, length > limit
	}
	for i := 0; i < length; i++ {
		prev := (i - 1 + length) % length
		if !mask.Has(i) || mask.Has(prev) {
			continue
		}
		n := 0
		for mask.Has((i + n) % length) {
			n++
		}
		if n > limit {
			return i, n, true
		}
	}
	return 0, 0, false
}

// weakestInRun returns the lowest-weight step inside a run.
func weakestInRun(weights *WeightArray, start, runLen, length int) int {
	weakest := start
	for j := 1; j < runLen; j++ {
		step := (start + j) % length
		if weights[step] < weights[weakest] {
			weakest = step
		}
	}
	return weakest
}
