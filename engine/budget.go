package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Hit budget: how many hits each voice gets this bar and which steps
// they may land on. Counts follow zone-dependent energy curves bent by
// shape; eligibility masks follow the zone's metric grid, widened by
// flavor. Every float-to-count conversion rounds half up; changing that
// changes every downstream pattern.

// ComputeBarBudget derives the per-voice budget from the continuous
// parameters. Flavor widening and aux density scaling are neutral here;
// the orchestrator layers them on through its own path.
func ComputeBarBudget(energy, balance float64, zone EnergyZone, patternLength int, buildMultiplier, shape float64) BarBudget {
	return computeBudget(energy, balance, zone, patternLength, buildMultiplier, shape, 0, 1.0)
}

func computeBudget(energy, balance float64, zone EnergyZone, length int, buildMultiplier, shape, flavor, auxDensity float64) BarBudget {
	energy = clamp01(energy)
	balance = clamp01(balance)
	shape = clamp01(shape)
	flavor = clamp01(flavor)
	length = clampI(length, 1, parameter.MaxSteps)
	if buildMultiplier <= 0 {
		buildMultiplier = 1.0
	}
	if auxDensity <= 0 {
		auxDensity = 1.0
	}

	var b BarBudget
	b.AnchorHits = computeAnchorBudget(energy, zone, length, shape)
	b.ShimmerHits = computeShimmerBudget(b.AnchorHits, balance, zone, shape, length)
	b.AuxHits = computeAuxBudget(zone, length, auxDensity)

	if buildMultiplier > 1.0 {
		b.AnchorHits = roundHalfUp(float64(b.AnchorHits) * buildMultiplier)
		b.ShimmerHits = roundHalfUp(float64(b.ShimmerHits) * buildMultiplier)
		b.AuxHits = roundHalfUp(float64(b.AuxHits) * buildMultiplier)
	}

	ceiling := 2 * length / 3
	b.AnchorHits = clampI(b.AnchorHits, 1, ceiling)
	b.ShimmerHits = clampI(b.ShimmerHits, 0, ceiling)
	b.AuxHits = clampI(b.AuxHits, 0, length)

	b.AnchorEligible = AnchorEligibility(zone, energy, flavor, length)
	b.ShimmerEligible = ShimmerEligibility(zone, energy, flavor, length)
	b.AuxEligible = AuxEligibility(zone, energy, length)
	return b
}

// ComputeAnchorEuclideanK is the hit count that would lay an even grid
// at this energy, before any budget shaping.
func ComputeAnchorEuclideanK(energy float64, length int) int {
	k := parameter.AnchorEuclidKMin + int(clamp01(energy)*8)
	max := parameter.AnchorEuclidKMax
	if length < max {
		max = length
	}
	return clampI(k, parameter.AnchorEuclidKMin, max)
}

// effectiveHitCount fades between the even-grid count and the budget
// count as shape leaves the structured region. At the bottom corner of
// the space it snaps to the quarter-note floor.
func effectiveHitCount(euclidK, budgetK int, shape, energy float64, length int) int {
	if shape <= parameter.FourOnFloorShapeMax && energy <= parameter.FourOnFloorEnergyMax {
		floor := length / 4
		if euclidK > floor {
			return euclidK
		}
		return floor
	}
	lower := euclidK
	if budgetK < lower {
		lower = budgetK
	}
	if shape <= parameter.EuclidFadeShapeStart {
		return lower
	}
	fade := (shape - parameter.EuclidFadeShapeStart) / (1.0 - parameter.EuclidFadeShapeStart)
	return roundHalfUp(float64(lower) + fade*float64(budgetK-lower))
}

func anchorShapeMultiplier(shape float64) float64 {
	switch {
	case shape < parameter.ShapeMultLowMax:
		return 1.0
	case shape < parameter.ShapeMultMidMax:
		p := (shape - parameter.ShapeMultLowMax) / (parameter.ShapeMultMidMax - parameter.ShapeMultLowMax)
		return 1.0 - p*parameter.AnchorShapeMidDrop
	}
	p := (shape - parameter.ShapeMultMidMax) / (1.0 - parameter.ShapeMultMidMax)
	return parameter.AnchorShapeHighBase - p*parameter.AnchorShapeHighDrop
}

func shimmerShapeMultiplier(shape float64) float64 {
	switch {
	case shape < parameter.ShapeMultLowMax:
		return 1.0
	case shape < parameter.ShapeMultMidMax:
		p := (shape - parameter.ShapeMultLowMax) / (parameter.ShapeMultMidMax - parameter.ShapeMultLowMax)
		return parameter.ShimmerShapeMidBase + p*parameter.ShimmerShapeMidGain
	}
	p := (shape - parameter.ShapeMultMidMax) / (1.0 - parameter.ShapeMultMidMax)
	return parameter.ShimmerShapeHighBase + p*parameter.ShimmerShapeHighGain
}

// zoneProgress is how far energy has traveled through its zone.
func zoneProgress(energy float64, zone EnergyZone) float64 {
	var p float64
	switch zone {
	case ZoneMinimal:
		p = energy / parameter.MinimalZoneMax
	case ZoneGroove:
		p = (energy - parameter.MinimalZoneMax) / (parameter.GrooveZoneMax - parameter.MinimalZoneMax)
	case ZoneBuild:
		p = (energy - parameter.GrooveZoneMax) / (parameter.BuildZoneMax - parameter.GrooveZoneMax)
	case ZonePeak:
		p = (energy - parameter.BuildZoneMax) / (1.0 - parameter.BuildZoneMax)
	}
	return clamp01(p)
}

func computeAnchorBudget(energy float64, zone EnergyZone, length int, shape float64) int {
	var min, typical int
	switch zone {
	case ZoneMinimal:
		min = 1
		typical = length / 16
		if typical < 1 {
			typical = 1
		}
	case ZoneGroove:
		min = 3
		typical = length / 6
	case ZoneBuild:
		min = 4
		typical = length / 4
	case ZonePeak:
		min = 6
		typical = length / 3
	default:
		min = 2
		typical = length / 8
	}

	zp := zoneProgress(energy, zone)
	budgetK := min + roundHalfUp(float64(typical-min)*zp)
	budgetK = roundHalfUp(float64(budgetK) * anchorShapeMultiplier(shape))
	budgetK = clampI(budgetK, 1, length/3)

	euclidK := ComputeAnchorEuclideanK(energy, length)
	effective := effectiveHitCount(euclidK, budgetK, shape, energy, length)

	upper := length / 3
	if effective > upper {
		effective = upper
	}
	if effective < 1 {
		effective = 1
	}
	return effective
}

func computeShimmerBudget(anchorBudget int, balance float64, zone EnergyZone, shape float64, length int) int {
	ratio := balance * parameter.ShimmerBalanceScale
	if (zone == ZoneMinimal || zone == ZoneGroove) && ratio > 1.0 {
		ratio = 1.0
	}
	correction := shimmerShapeMultiplier(shape) / anchorShapeMultiplier(shape)
	hits := roundHalfUp(float64(anchorBudget) * ratio * correction)
	if zone == ZoneMinimal {
		return clampI(hits, 0, length/8)
	}
	return clampI(hits, 1, length/4)
}

func computeAuxBudget(zone EnergyZone, length int, densityMultiplier float64) int {
	var base int
	switch zone {
	case ZoneMinimal:
		return 0
	case ZoneGroove:
		base = length / 8
	case ZoneBuild:
		base = length / 4
	case ZonePeak:
		base = length / 2
	}
	return clampI(roundHalfUp(float64(base)*densityMultiplier), 0, length)
}

// --- Eligibility ---

// AnchorEligibility returns the steps the anchor may select in this
// zone. Flavor widens the grid toward offbeats and syncopation.
func AnchorEligibility(zone EnergyZone, energy, flavor float64, length int) StepMask {
	var m uint64
	switch zone {
	case ZoneMinimal:
		m = parameter.DownbeatMask | parameter.QuarterNoteMask
	case ZoneGroove:
		m = parameter.QuarterNoteMask
		if energy > parameter.GrooveAnchorEighthEnergyMin {
			m |= parameter.EighthNoteMask
		}
	case ZoneBuild:
		m = parameter.EighthNoteMask
		if energy > parameter.BuildAnchorSixteenthEnergyMin {
			m |= parameter.SixteenthNoteMask
		}
	case ZonePeak:
		m = parameter.SixteenthNoteMask
	}
	if flavor > parameter.AnchorOffbeatFlavorMin {
		m |= parameter.OffbeatMask
	}
	if flavor > parameter.AnchorSyncopationFlavorMin {
		m |= parameter.SyncopationMask
	}
	return StepMask(m) & LengthMask(length)
}

// ShimmerEligibility returns the steps shimmer may select.
func ShimmerEligibility(zone EnergyZone, energy, flavor float64, length int) StepMask {
	var m uint64
	switch zone {
	case ZoneMinimal:
		m = parameter.BackbeatMask
	case ZoneGroove:
		m = parameter.BackbeatMask
		if energy > parameter.GrooveShimmerOffbeatEnergyMin {
			m |= parameter.OffbeatMask
		}
	case ZoneBuild:
		m = parameter.EighthNoteMask
	case ZonePeak:
		m = parameter.SixteenthNoteMask
	}
	if flavor > parameter.ShimmerSyncopationFlavorMin {
		m |= parameter.SyncopationMask
	}
	return StepMask(m) & LengthMask(length)
}

// AuxEligibility returns the steps aux may select. The Minimal zone
// silences aux entirely.
func AuxEligibility(zone EnergyZone, energy float64, length int) StepMask {
	var m uint64
	switch zone {
	case ZoneMinimal:
		return 0
	case ZoneGroove:
		m = parameter.EighthNoteMask
	case ZoneBuild:
		m = parameter.EighthNoteMask
		if energy > parameter.BuildAuxSixteenthEnergyMin {
			m |= parameter.SixteenthNoteMask
		}
	case ZonePeak:
		m = parameter.SixteenthNoteMask
	}
	return StepMask(m) & LengthMask(length)
}

// ApplyFillBoost scales the budget toward the fill ceiling and, at high
// intensity, widens eligibility so the extra hits have room to land.
func ApplyFillBoost(b *BarBudget, fillMultiplier, intensity float64, length int) {
	if fillMultiplier <= 1.0 || intensity <= 0 {
		return
	}
	intensity = clamp01(intensity)
	length = clampI(length, 1, parameter.MaxSteps)
	factor := 1.0 + (fillMultiplier-1.0)*intensity

	b.AnchorHits = clampI(roundHalfUp(float64(b.AnchorHits)*factor), 1, length/2)
	b.ShimmerHits = clampI(roundHalfUp(float64(b.ShimmerHits)*factor), 0, length/2)
	b.AuxHits = clampI(roundHalfUp(float64(b.AuxHits)*factor), 0, length)

	if intensity > parameter.FillBoostWidenIntensity {
		grid := StepMask(parameter.EighthNoteMask) & LengthMask(length)
		b.AnchorEligible |= grid
		b.ShimmerEligible |= grid
		b.AuxEligible |= StepMask(parameter.SixteenthNoteMask) & LengthMask(length)
	}
}
