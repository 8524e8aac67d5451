package parameter

// Anchor Euclidean Path
const (
	// AnchorEuclidKMin and AnchorEuclidKMax bound the energy-derived evenly-spaced hit count
	AnchorEuclidKMin = 4
	AnchorEuclidKMax = 12

	// FourOnFloorShapeMax and FourOnFloorEnergyMax gate the quarter-note floor snap
	FourOnFloorShapeMax  = 0.05
	FourOnFloorEnergyMax = 0.05

	// EuclidFadeShapeStart is where the effective count starts fading from
	// min(euclidK, budgetK) toward pure budgetK
	EuclidFadeShapeStart = 0.15
)

// Shape Budget Multipliers
// The anchor count shrinks slightly toward wild shapes, the shimmer count grows
const (
	ShapeMultLowMax = 0.30
	ShapeMultMidMax = 0.70

	AnchorShapeMidDrop  = 0.10
	AnchorShapeHighBase = 0.90
	AnchorShapeHighDrop = 0.10

	ShimmerShapeMidBase  = 1.10
	ShimmerShapeMidGain  = 0.20
	ShimmerShapeHighBase = 1.30
	ShimmerShapeHighGain = 0.20
)

// Shimmer Budget
const (
	// ShimmerBalanceScale converts the balance parameter into the anchor-relative ratio
	ShimmerBalanceScale = 1.5
)

// Eligibility Widening Thresholds
const (
	AnchorOffbeatFlavorMin      = 0.28
	AnchorSyncopationFlavorMin  = 0.40
	ShimmerSyncopationFlavorMin = 0.60

	GrooveAnchorEighthEnergyMin   = 0.35
	BuildAnchorSixteenthEnergyMin = 0.60
	GrooveShimmerOffbeatEnergyMin = 0.30
	BuildAuxSixteenthEnergyMin    = 0.60
)

// Fill Boost
const (
	// FillBoostWidenIntensity is the intensity above which eligibility widens during fills
	FillBoostWidenIntensity = 0.5

	// DefaultFillMultiplier is the budget scale of a fill bar when the
	// genre field supplies no trait
	DefaultFillMultiplier = 1.5
)
