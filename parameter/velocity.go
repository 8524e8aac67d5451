package parameter

// Velocity Bounds
const (
	VelocityMin = 0.30
	VelocityMax = 1.0
)

// Accent Curve
// Higher accent deepens the floor-to-ceiling spread and widens variation
const (
	AccentFloorBase = 0.80
	AccentFloorDrop = 0.50
	AccentCeilBase  = 0.88
	AccentCeilGain  = 0.12
	AccentVarBase   = 0.02
	AccentVarGain   = 0.05
)

// Default Accent Masks
// Quarter accents for the anchor, downbeat accents for shimmer, offbeat for aux
const (
	AnchorAccentMask  uint64 = 0x1111111111111111
	ShimmerAccentMask uint64 = 0x0101010101010101
	AuxAccentMask     uint64 = 0x4444444444444444
)

// Shimmer And Aux Velocity
const (
	// ShimmerAccentScale derives shimmer accent depth from the anchor's
	ShimmerAccentScale = 0.7

	AuxVelocityBase       = 0.5
	AuxVelocityEnergyGain = 0.3
	AuxVelocityVariation  = 0.15
)

// Punch Profile
// Maps the punch control onto accent probability and velocity shaping
const (
	PunchAccentProbBase  = 0.20
	PunchAccentProbGain  = 0.30
	PunchFloorBase       = 0.65
	PunchFloorDrop       = 0.35
	PunchAccentBoostBase = 0.15
	PunchAccentBoostGain = 0.30
	PunchVariationBase   = 0.03
	PunchVariationGain   = 0.12
)

// Phrase Stage Modifiers
const (
	StageBuildStart = 0.60
	StageFillStart  = 0.875

	StageBuildMultGain  = 0.35
	StageBuildBoostGain = 0.15
	StageFillMultGain   = 0.50
	StageFillBoostGain  = 0.20

	// StageForceAccentShapeMin enables forced accents in the fill stage
	StageForceAccentShapeMin = 0.6

	// FillStrongVelocity is forced on strong positions late in a fill
	FillStrongVelocity     = 0.95
	FillStrongProgressMin  = 0.85
	FillStrongMetricWeight = 0.75
)

// Hat Burst
const (
	HatBurstTriggersMin = 2
	HatBurstTriggersMax = 12

	HatBurstEvenShapeMax   = 0.30
	HatBurstEuclidShapeMax = 0.70
	HatBurstJitterScale    = 2.5

	HatBurstVelocityBase  = 0.65
	HatBurstVelocityGain  = 0.35
	HatBurstDuckFactor    = 0.30
	HatBurstVariationBase = 0.9
	HatBurstVariationGain = 0.1
)
