package parameter

// Gumbel Top-K Sampler
const (
	// MaxSelectableHits caps a single selection call
	MaxSelectableHits = 16

	// WeightEpsilon is the weight below which a step scores negative infinity
	WeightEpsilon = 1e-6

	// MinScore stands in for negative infinity in score comparisons
	MinScore = -1e9

	// HashUnitEpsilon keeps the uniform sample away from 0 and 1 before the
	// double-log Gumbel transform
	HashUnitEpsilon = 1e-6
)

// Minimum Hit Spacing By Zone
const (
	MinSpacingMinimal = 4
	MinSpacingGroove  = 2
	MinSpacingBuild   = 1
	MinSpacingPeak    = 0
	MinSpacingDefault = 2
)

// Guard Rail Limits
const (
	// MaxGap* bound the longest silent run the anchor may carry per zone;
	// the Minimal zone is exempt (a whole-bar rest is legal there)
	MaxGapGroove = 8
	MaxGapBuild  = 6
	MaxGapPeak   = 4

	MaxConsecutiveShimmerMinimal = 2
	MaxConsecutiveShimmer        = 4
	MaxConsecutiveShimmerPeak    = 6

	// Bounded retry ceilings guarantee rail termination
	MaxGapCorrections         = 8
	MaxConsecutiveCorrections = 16

	// TechnoBackbeatStep is forced when a non-empty shimmer lost every backbeat
	TechnoBackbeatStep = 8
)

// Soft Repair
const (
	// SoftRepairGapMargin triggers repair when a gap is within this many
	// steps of the hard limit
	SoftRepairGapMargin = 2

	// SoftRepairRunMargin triggers repair when a shimmer run is within this
	// many steps of the hard limit
	SoftRepairRunMargin = 1
)

// Complement Solver
const (
	// MaxGaps bounds the gap scan; patterns cannot produce more
	MaxGaps = 16

	// ComplementRotationTries is how many seed-derived rotations are tested
	// for a collision-free placement before keeping the unrotated result
	ComplementRotationTries = 4
)

// Anchor Rotation
const (
	// Rotation applies only in the mid-shape band; pure lattices and wild
	// fields both read worse rotated
	RotationShapeMin = 0.15
	RotationShapeMax = 0.7

	// RotationHashIndex keys the rotation amount stream
	RotationHashIndex = 2000
)

// Aux Voice Weights
const (
	// AuxMetricWeightScale pulls aux hits toward the weak positions
	AuxMetricWeightScale = 0.5

	// AuxOccupiedFactor penalizes steps the main voices already fill
	AuxOccupiedFactor = 0.3
)
