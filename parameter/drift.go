package parameter

// Seeds
const (
	// DefaultPatternSeed replaces a zero caller seed everywhere
	DefaultPatternSeed uint32 = 0x12345678

	// PhraseSeedXor derives the initial phrase seed from the pattern seed
	PhraseSeedXor uint32 = 0xDEADBEEF
)

// Voice Drift Multipliers
// The anchor is intentionally stickier than shimmer under the same drift
const (
	AnchorDriftMultiplier  = 0.7
	ShimmerDriftMultiplier = 1.3
	AuxDriftMultiplier     = 1.0
)

// Drift Gate
const (
	// BarSeedDriftMin is the drift below which the bar seed stops evolving
	BarSeedDriftMin = 0.01

	// BarSeedMultiplier spreads the bar index across the seed space
	BarSeedMultiplier uint32 = 0x1234567
)

// Phrase Geometry
const (
	DefaultPhraseBars = 4

	// Fill and build zones grow with phrase length, clamped to the bar
	FillZoneStepsPerBar  = 4
	BuildZoneStepsPerBar = 8

	MidPhraseStart = 0.40
	MidPhraseEnd   = 0.60
)
