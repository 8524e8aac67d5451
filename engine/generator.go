package engine

import (
	"fmt"

	"github.com/chronick/duopulse-sub001/parameter"
)

// GeneratePattern renders one bar from a parameter snapshot. The same
// Params value always yields the same PatternResult; nothing here reads
// a clock or a stream RNG.
//
// The stages run in a fixed order: weight field, budget, anchor
// selection, anchor rotation, shimmer complement, repair, guard rails,
// aux selection, velocities.
func GeneratePattern(p Params) (PatternResult, error) {
	if p.Length < parameter.MinPatternLength || p.Length > parameter.MaxSteps {
		return PatternResult{}, fmt.Errorf("pattern length %d outside [%d,%d]", p.Length, parameter.MinPatternLength, parameter.MaxSteps)
	}
	p.clampDefaults()

	zone := ZoneForEnergy(p.Energy)

	weights := ComputeShapeBlendedWeights(p.Shape, p.Energy, p.Seed, p.Length)
	ApplyAxisBias(&weights, p.AxisX, p.AxisY, p.Shape, p.Seed, p.Length)
	ApplyWeightPerturbation(&weights, p.Shape, p.Seed, p.Length)

	budget := computeBudget(p.Energy, p.Balance, zone, p.Length, p.BuildMultiplier, p.Shape, p.Flavor, p.AuxDensity)
	if p.FillActive {
		ApplyFillBoost(&budget, p.FillMultiplier, p.FillProgress*p.FillProgress, p.Length)
	}

	ratio := GenreEuclideanRatio(p.Genre, zone, p.FieldX)
	anchor := BlendEuclideanWithWeights(budget.AnchorHits, p.Length, &weights, budget.AnchorEligible, ratio, 0, p.Seed, MinSpacingForZone(zone))
	anchor = rotateAnchor(anchor, budget.AnchorEligible, zone, p.Shape, p.Seed, p.Length)

	shimmerWeights := ComputeShapeBlendedWeights(p.Shape, p.Energy, p.Seed+1, p.Length)
	ApplyAxisBias(&shimmerWeights, p.AxisX, p.AxisY, p.Shape, p.Seed+1, p.Length)
	shimmer := ApplyComplementRelationship(anchor, &shimmerWeights, p.Drift, p.Seed+2, p.Length, budget.ShimmerHits)

	anchor, shimmer = SoftRepairPass(anchor, shimmer, &weights, zone, p.Length)
	anchor, shimmer, _ = ApplyHardGuardRails(anchor, shimmer, &weights, zone, p.Genre, p.Length)

	aux := selectAux(anchor, shimmer, budget, p.Seed, p.Length)

	result := PatternResult{
		AnchorMask:  anchor,
		ShimmerMask: shimmer,
		AuxMask:     aux,
		Length:      p.Length,
	}
	fillVelocities(&result, p)
	return result, nil
}

// GenerateFillPattern renders a fill bar: the fill budget boost is
// active and the stage curve lifts every velocity toward the phrase
// turnaround. Progress is the position inside the fill zone.
func GenerateFillPattern(p Params, progress float64) (PatternResult, error) {
	p.FillActive = true
	p.FillProgress = clamp01(progress)
	result, err := GeneratePattern(p)
	if err != nil {
		return PatternResult{}, err
	}

	mods := ComputeStageModifiers(clamp01(p.Shape), p.FillProgress)
	boostVoice(result.AnchorMask, &result.AnchorVelocity, result.Length, mods)
	boostVoice(result.ShimmerMask, &result.ShimmerVelocity, result.Length, mods)
	boostVoice(result.AuxMask, &result.AuxVelocity, result.Length, mods)

	if p.FillProgress > parameter.FillStrongProgressMin {
		forceStrong(result.AnchorMask, &result.AnchorVelocity, result.Length)
		forceStrong(result.ShimmerMask, &result.ShimmerVelocity, result.Length)
	}
	return result, nil
}

// rotateAnchor applies a seeded rotation in the mid-shape band, outside
// Minimal. The rotation snaps to the eligibility grid's stride and
// preserves the downbeat state; a rotation that would push hits off the
// eligible grid is discarded.
func rotateAnchor(anchor, eligible StepMask, zone EnergyZone, shape float64, seed uint32, length int) StepMask {
	if zone == ZoneMinimal || shape <= parameter.RotationShapeMin || shape >= parameter.RotationShapeMax {
		return anchor
	}
	span := length / 4
	if span < 1 {
		span = 1
	}
	rotation := int(HashToFloat(seed, parameter.RotationHashIndex) * float64(span))
	stride := eligibilityStride(eligible, length)
	rotation -= rotation % stride
	if rotation <= 0 {
		return anchor
	}
	rotated := rotateWithPreserve(anchor, rotation, length)
	if rotated&^eligible != 0 {
		return anchor
	}
	return rotated
}

// eligibilityStride reports the grid step of an eligibility mask so a
// rotation can stay on it.
func eligibilityStride(eligible StepMask, length int) int {
	lm := LengthMask(length)
	if length%4 == 0 && eligible&^(StepMask(parameter.QuarterNoteMask)&lm) == 0 {
		return 4
	}
	if length%2 == 0 && eligible&^(StepMask(parameter.EighthNoteMask)&lm) == 0 {
		return 2
	}
	return 1
}

// rotateWithPreserve rotates the mask left while pinning step zero: the
// downbeat's state survives the rotation on both sides.
func rotateWithPreserve(mask StepMask, rotation, length int) StepMask {
	hadDownbeat := mask.Has(0)
	rotated := mask.Without(0).RotateLeft(rotation, length)
	if hadDownbeat {
		return rotated.With(0)
	}
	return rotated.Without(0)
}

// selectAux places the aux voice on weak positions the main voices
// leave open. Spacing is unconstrained; aux texture may cluster.
func selectAux(anchor, shimmer StepMask, budget BarBudget, seed uint32, length int) StepMask {
	if budget.AuxHits <= 0 {
		return 0
	}
	occupied := anchor | shimmer
	var auxWeights WeightArray
	for i := 0; i < length; i++ {
		w := 1.0 - MetricWeight(i, length)*parameter.AuxMetricWeightScale
		if occupied.Has(i) {
			w *= parameter.AuxOccupiedFactor
		}
		auxWeights[i] = w
	}
	return SelectHitsGumbelTopK(&auxWeights, budget.AuxEligible, budget.AuxHits, seed+3, length, 0)
}

// fillVelocities assigns per-voice velocities to every set step.
// Shimmer tracks the anchor accent curve at reduced depth; aux rides a
// flat energy-scaled level with hash variation.
func fillVelocities(r *PatternResult, p Params) {
	for i := 0; i < r.Length; i++ {
		if r.AnchorMask.Has(i) {
			r.AnchorVelocity[i] = ComputeAccentVelocity(p.Accent, i, r.Length, p.Seed)
		}
		if r.ShimmerMask.Has(i) {
			r.ShimmerVelocity[i] = ComputeAccentVelocity(p.Accent*parameter.ShimmerAccentScale, i, r.Length, p.Seed+1)
		}
		if r.AuxMask.Has(i) {
			v := parameter.AuxVelocityBase + p.Energy*parameter.AuxVelocityEnergyGain
			v += (HashToFloat(p.Seed+4, i) - 0.5) * parameter.AuxVelocityVariation
			r.AuxVelocity[i] = clampF(v, parameter.VelocityMin, parameter.VelocityMax)
		}
	}
}

func boostVoice(mask StepMask, velocities *[parameter.MaxSteps]float64, length int, mods StageModifiers) {
	for i := 0; i < length; i++ {
		if !mask.Has(i) {
			continue
		}
		velocities[i] = clampF(velocities[i]*mods.VelocityMult+mods.VelocityBoost, parameter.VelocityMin, parameter.VelocityMax)
	}
}

// forceStrong pins late-fill hits on strong positions to the strong
// fill velocity so the turnaround lands hard regardless of accent.
func forceStrong(mask StepMask, velocities *[parameter.MaxSteps]float64, length int) {
	for i := 0; i < length; i++ {
		if !mask.Has(i) || MetricWeight(i, length) < parameter.FillStrongMetricWeight {
			continue
		}
		if velocities[i] < parameter.FillStrongVelocity {
			velocities[i] = parameter.FillStrongVelocity
		}
	}
}
