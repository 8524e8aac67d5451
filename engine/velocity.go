package engine

import "github.com/chronick/duopulse-sub001/parameter"

const (
	accentSeedTag    uint32 = 0x41434E54
	variationSeedTag uint32 = 0x56415249
)

// ComputeAccentVelocity maps a step's metric weight into a velocity
// band controlled by the accent amount. Low accent compresses toward an
// even level; high accent spreads the band wide and adds variation.
func ComputeAccentVelocity(accent float64, step, length int, seed uint32) float64 {
	accent = clamp01(accent)
	floor := parameter.AccentFloorBase - accent*parameter.AccentFloorDrop
	ceil := parameter.AccentCeilBase + accent*parameter.AccentCeilGain
	variation := parameter.AccentVarBase + accent*parameter.AccentVarGain

	v := floor + MetricWeight(step, length)*(ceil-floor)
	v += (HashToFloat(seed^variationSeedTag, step) - 0.5) * variation
	return clampF(v, parameter.VelocityMin, parameter.VelocityMax)
}

// ShouldAccent decides whether a step receives an accent. The mask
// gates which positions are eligible at all; the accent amount is the
// per-step probability on those positions.
func ShouldAccent(accent float64, step int, accentMask StepMask, force bool, seed uint32) bool {
	if force {
		return true
	}
	if !accentMask.Has(step % parameter.MaxSteps) {
		return false
	}
	return HashToFloat(seed^accentSeedTag, step) < clamp01(accent)
}

// PunchProfile is the accent response at one punch setting: how often
// accents land, how far unaccented hits drop, and how hard accents
// push.
type PunchProfile struct {
	AccentProbability float64
	Floor             float64
	AccentBoost       float64
	Variation         float64
}

func ComputePunchProfile(punch float64) PunchProfile {
	punch = clamp01(punch)
	return PunchProfile{
		AccentProbability: parameter.PunchAccentProbBase + punch*parameter.PunchAccentProbGain,
		Floor:             parameter.PunchFloorBase - punch*parameter.PunchFloorDrop,
		AccentBoost:       parameter.PunchAccentBoostBase + punch*parameter.PunchAccentBoostGain,
		Variation:         parameter.PunchVariationBase + punch*parameter.PunchVariationGain,
	}
}

// StageModifiers shape velocity over the phrase tail: flat through the
// groove, ramping through the build, and fully open in the fill.
type StageModifiers struct {
	VelocityMult  float64
	VelocityBoost float64
	ForceAccent   bool
}

func ComputeStageModifiers(shape, progress float64) StageModifiers {
	shape = clamp01(shape)
	switch {
	case progress < parameter.StageBuildStart:
		return StageModifiers{VelocityMult: 1.0}
	case progress < parameter.StageFillStart:
		t := (progress - parameter.StageBuildStart) / (parameter.StageFillStart - parameter.StageBuildStart)
		return StageModifiers{
			VelocityMult:  1.0 + shape*parameter.StageBuildMultGain*t,
			VelocityBoost: shape * parameter.StageBuildBoostGain * t,
		}
	default:
		return StageModifiers{
			VelocityMult:  1.0 + shape*parameter.StageFillMultGain,
			VelocityBoost: shape * parameter.StageFillBoostGain,
			ForceAccent:   shape > parameter.StageForceAccentShapeMin,
		}
	}
}
