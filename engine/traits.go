package engine

import "github.com/chronick/duopulse-sub001/parameter"

// Traits are the performance characteristics a genre field resolves at
// one field position: swing feel, coupling depth, fill intensity, and
// the masks that gate accents and ratchets. The engine consumes traits;
// producing them from a field position lives elsewhere.
type Traits struct {
	SwingAmount  float64
	SwingPattern int

	DefaultCouple         float64
	FillDensityMultiplier float64

	AnchorAccentMask    StepMask
	ShimmerAccentMask   StepMask
	RatchetEligibleMask StepMask
}

// DefaultTraits is the neutral trait set used when no genre field is
// wired in.
func DefaultTraits() Traits {
	return Traits{
		SwingAmount:           0,
		SwingPattern:          0,
		DefaultCouple:         0.4,
		FillDensityMultiplier: parameter.DefaultFillMultiplier,
		AnchorAccentMask:      StepMask(parameter.AnchorAccentMask),
		ShimmerAccentMask:     StepMask(parameter.ShimmerAccentMask),
		RatchetEligibleMask:   StepMask(parameter.QuarterNoteMask),
	}
}
