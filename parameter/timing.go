package parameter

// Swing
const (
	// SwingBase is straight time; SwingScale maps the swing amount onto the ratio
	SwingBase  = 0.50
	SwingScale = 0.16

	// Zone ceilings keep sparse zones from lurching
	MaxSwingMinimal = 0.58
	MaxSwingGroove  = 0.58
	MaxSwingBuild   = 0.62
	MaxSwingPeak    = 0.66
)

// Microtiming Jitter
const (
	// MaxJitterMs* cap the per-zone jitter window before flavor scaling
	MaxJitterMsMinimal = 3.0
	MaxJitterMsGroove  = 3.0
	MaxJitterMsBuild   = 6.0
	MaxJitterMsPeak    = 12.0

	// JitterFlavorMin below which no offset is produced
	JitterFlavorMin = 0.001
)

// Step Displacement
const (
	// Displacement only occurs in the upper zones
	DisplaceChanceBuild = 0.20
	DisplaceChancePeak  = 0.40

	DisplaceRangeBuild = 1
	DisplaceRangePeak  = 2
)

// Velocity Chaos
const (
	// VelocityChaosScale converts flavor into the bipolar variation range
	VelocityChaosScale = 0.25

	// VelocityChaosFloor guarantees audibility after variation
	VelocityChaosFloor = 0.1
)

// Phrase Weight Boost
const (
	PhraseBoostFillBase     = 0.15
	PhraseBoostFillProgress = 0.10
	PhraseBoostBuildScale   = 0.075
	PhraseBoostMidRatchet   = 0.05
	PhraseBoostRatchetGain  = 0.6
	PhraseBoostBrokenBase   = 0.5

	// EffectiveBrokenFillGain raises the broken character through a fill
	EffectiveBrokenFillGain = 0.2
)

// Phrase Accents
const (
	PhraseAccentDownbeat     = 1.2
	PhraseAccentRatchetGain  = 0.3
	PhraseAccentBarDownbeat  = 1.1
	PhraseAccentFillProgress = 0.3
)

// Fuse And Couple
const (
	// FuseBiasScale tilts density between anchor and shimmer around center
	FuseBiasScale = 0.3

	CoupleMinimum        = 0.1
	CoupleSuppressScale  = 0.8
	CoupleFillThreshold  = 0.5
	CoupleFillScale      = 0.6
	CoupleFillVelocityLo = 0.5
	CoupleFillVelocityHi = 0.3

	// Aux event mode pulse levels
	AuxEventPhraseVelocity = 1.0
	AuxEventBarVelocity    = 0.6
)
