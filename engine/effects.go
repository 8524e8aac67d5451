package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Per-step performance effects: swing, jitter, displacement, velocity
// chaos, phrase-aware boosts, and the fuse/couple interactions between
// the two main voices. All randomness is keyed hashing on tagged
// sub-seeds, so a given (seed, step) always renders the same take.

// Seed tags keep the effect streams independent of the pattern streams.
const (
	jitterSeedTag        uint32 = 0x4A545434
	displaceRollSeedTag  uint32 = 0x44495331
	displaceShiftSeedTag uint32 = 0x44495332
	velocityChaosSeedTag uint32 = 0x56434834
	coupleSuppressTag    uint32 = 0x53555050
	coupleBoostTag       uint32 = 0x424F5354
	coupleVelocityTag    uint32 = 0x56454C43
)

// SwingFromBroken maps a broken amount onto a swing ratio. The curve
// rises through three bands and relaxes past 0.75, where heavy grid
// breakage wants displacement more than lilt.
func SwingFromBroken(broken float64) float64 {
	b := clamp01(broken)
	switch {
	case b < 0.25:
		return 0.50 + (b-0.00)*4*0.04
	case b < 0.50:
		return 0.54 + (b-0.25)*4*0.06
	case b < 0.75:
		return 0.60 + (b-0.50)*4*0.06
	default:
		return 0.66 - (b-0.75)*4*0.08
	}
}

func maxSwingForZone(zone EnergyZone) float64 {
	switch zone {
	case ZoneMinimal:
		return parameter.MaxSwingMinimal
	case ZoneBuild:
		return parameter.MaxSwingBuild
	case ZonePeak:
		return parameter.MaxSwingPeak
	}
	return parameter.MaxSwingGroove
}

// ComputeSwing converts a swing amount into a ratio, capped per zone so
// sparse zones stay close to straight time.
func ComputeSwing(amount float64, zone EnergyZone) float64 {
	swing := parameter.SwingBase + clamp01(amount)*parameter.SwingScale
	if limit := maxSwingForZone(zone); swing > limit {
		swing = limit
	}
	return swing
}

// ApplySwingToStep returns the sample offset swing adds to a step. Only
// odd sixteenths move; 0.5 is straight time.
func ApplySwingToStep(step int, swing float64, samplesPerStep int) int {
	if step%2 == 0 {
		return 0
	}
	return int((swing - 0.5) * 2 * float64(samplesPerStep))
}

func maxJitterMsForZone(zone EnergyZone) float64 {
	switch zone {
	case ZoneMinimal:
		return parameter.MaxJitterMsMinimal
	case ZoneBuild:
		return parameter.MaxJitterMsBuild
	case ZonePeak:
		return parameter.MaxJitterMsPeak
	}
	return parameter.MaxJitterMsGroove
}

// ComputeMicrotimingOffset returns a bipolar per-step jitter in
// samples. Flavor scales the zone's millisecond range.
func ComputeMicrotimingOffset(flavor float64, zone EnergyZone, step int, seed uint32, sampleRate int) int {
	ms := clamp01(flavor) * maxJitterMsForZone(zone)
	if ms < parameter.JitterFlavorMin {
		return 0
	}
	bipolar := (HashToFloat(seed^jitterSeedTag, step) - 0.5) * 2
	return int(ms * bipolar * float64(sampleRate) / 1000.0)
}

// ComputeStepDisplacement moves a hit off its grid position in the
// upper zones. The shift is never zero once the roll succeeds, so a
// displaced hit always audibly lands elsewhere.
func ComputeStepDisplacement(step int, zone EnergyZone, flavor float64, seed uint32, length int) int {
	var chance float64
	var span int
	switch zone {
	case ZoneBuild:
		chance = clamp01(flavor) * parameter.DisplaceChanceBuild
		span = parameter.DisplaceRangeBuild
	case ZonePeak:
		chance = clamp01(flavor) * parameter.DisplaceChancePeak
		span = parameter.DisplaceRangePeak
	default:
		return step
	}
	if HashToFloat(seed^displaceRollSeedTag, step) >= chance {
		return step
	}
	h := HashToFloat(seed^displaceShiftSeedTag, step)
	shift := int(h*float64(2*span+1)) - span
	if shift == 0 {
		if h >= 0.5 {
			shift = 1
		} else {
			shift = -1
		}
	}
	return (step + shift + length) % length
}

// ComputeVelocityChaos perturbs a velocity by a flavor-scaled bipolar
// offset, floored so a hit never vanishes into silence.
func ComputeVelocityChaos(velocity, flavor float64, step int, seed uint32) float64 {
	offset := (HashToFloat(seed^velocityChaosSeedTag, step) - 0.5) * 2 * clamp01(flavor) * parameter.VelocityChaosScale
	return clampF(velocity+offset, parameter.VelocityChaosFloor, 1.0)
}

// PhraseWeightBoost returns the extra weight the phrase position lends
// a step. Zero drift pins the boost to zero: a fully static groove
// ignores the phrase entirely.
func PhraseWeightBoost(pos PhrasePosition, drift, broken, ratchet float64) float64 {
	if drift <= 0 {
		return 0
	}
	var boost float64
	switch {
	case pos.IsFill:
		boost = parameter.PhraseBoostFillBase + pos.FillProgress*parameter.PhraseBoostFillProgress
	case pos.IsBuild:
		boost = pos.BuildProgress * parameter.PhraseBoostBuildScale
	case pos.IsMidPhrase:
		boost = parameter.PhraseBoostMidRatchet * ratchet
	}
	boost += boost * ratchet * parameter.PhraseBoostRatchetGain
	boost *= drift
	boost *= parameter.PhraseBoostBrokenBase + broken
	return boost
}

// EffectiveBroken raises the broken amount through the fill zone so the
// last bar audibly loosens.
func EffectiveBroken(broken float64, pos PhrasePosition) float64 {
	if !pos.IsFill {
		return broken
	}
	return clamp01(broken + pos.FillProgress*parameter.EffectiveBrokenFillGain)
}

// PhraseAccentMultiplier scales velocity by phrase position: phrase
// downbeat strongest, bar downbeats next, then the ratcheted fill ramp.
func PhraseAccentMultiplier(pos PhrasePosition, ratchet float64) float64 {
	switch {
	case pos.StepInPhrase == 0:
		return parameter.PhraseAccentDownbeat + ratchet*parameter.PhraseAccentRatchetGain
	case pos.StepInBar == 0:
		return parameter.PhraseAccentBarDownbeat
	case pos.IsFill && ratchet > 0:
		return 1.0 + pos.FillProgress*parameter.PhraseAccentFillProgress*ratchet
	}
	return 1.0
}

// ApplyFuse trades density between the voices around the midpoint.
// A voice sitting at exactly zero stays silent; fuse redistributes, it
// does not resurrect.
func ApplyFuse(fuse, anchorDensity, shimmerDensity float64) (float64, float64) {
	bias := (clamp01(fuse) - 0.5) * parameter.FuseBiasScale
	if anchorDensity > 0 {
		anchorDensity = clamp01(anchorDensity - bias)
	}
	if shimmerDensity > 0 {
		shimmerDensity = clamp01(shimmerDensity + bias)
	}
	return anchorDensity, shimmerDensity
}

// CoupleShimmer resolves the shimmer trigger against the anchor at one
// step. High coupling suppresses collisions and fills shared silence;
// the returned velocity applies only when boosted is true.
func CoupleShimmer(anchorHit, shimmerHit bool, couple, shimmerDensity float64, step int, seed uint32) (fire bool, velocity float64, boosted bool) {
	fire = shimmerHit
	if couple < parameter.CoupleMinimum {
		return fire, 0, false
	}
	if anchorHit && shimmerHit {
		if HashToFloat(seed^coupleSuppressTag, step) < couple*parameter.CoupleSuppressScale {
			fire = false
		}
		return fire, 0, false
	}
	if !anchorHit && !shimmerHit && couple > parameter.CoupleFillThreshold && shimmerDensity > 0 {
		if HashToFloat(seed^coupleBoostTag, step) < (couple-parameter.CoupleFillThreshold)*parameter.CoupleFillScale {
			fire = true
			velocity = parameter.CoupleFillVelocityLo + HashToFloat(seed^coupleVelocityTag, step)*parameter.CoupleFillVelocityHi
			boosted = true
		}
	}
	return fire, velocity, boosted
}
