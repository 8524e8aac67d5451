package engine

import (
	"fmt"

	"github.com/chronick/duopulse-sub001/parameter"
)

// WeightArray holds one selection weight per step. Entries above the
// active pattern length are ignored.
type WeightArray [parameter.MaxSteps]float64

// --- Voices ---

// Voice identifies one of the three output roles.
type Voice int

const (
	VoiceAnchor Voice = iota
	VoiceShimmer
	VoiceAux
)

func (v Voice) String() string {
	switch v {
	case VoiceAnchor:
		return "anchor"
	case VoiceShimmer:
		return "shimmer"
	case VoiceAux:
		return "aux"
	}
	return "unknown"
}

// DriftMultiplier scales the drift parameter per voice; the anchor is
// stickier, shimmer evolves earlier.
func (v Voice) DriftMultiplier() float64 {
	switch v {
	case VoiceAnchor:
		return parameter.AnchorDriftMultiplier
	case VoiceShimmer:
		return parameter.ShimmerDriftMultiplier
	}
	return parameter.AuxDriftMultiplier
}

// --- Energy Zones ---

// EnergyZone is the discrete behavioral regime derived from energy.
// Zones change rules (eligibility, spacing, guard limits), not just
// density.
type EnergyZone int

const (
	ZoneMinimal EnergyZone = iota
	ZoneGroove
	ZoneBuild
	ZonePeak
)

// ZoneForEnergy maps the continuous energy parameter onto its zone.
func ZoneForEnergy(energy float64) EnergyZone {
	energy = clamp01(energy)
	switch {
	case energy < parameter.MinimalZoneMax:
		return ZoneMinimal
	case energy < parameter.GrooveZoneMax:
		return ZoneGroove
	case energy < parameter.BuildZoneMax:
		return ZoneBuild
	}
	return ZonePeak
}

func (z EnergyZone) String() string {
	switch z {
	case ZoneMinimal:
		return "minimal"
	case ZoneGroove:
		return "groove"
	case ZoneBuild:
		return "build"
	case ZonePeak:
		return "peak"
	}
	return "unknown"
}

// --- Genres ---

// Genre selects the rhythmic tradition the backbone rules and blend
// ratios follow.
type Genre int

const (
	GenreTechno Genre = iota
	GenreTribal
	GenreIDM
)

// GenreForValue maps a [0,1] control onto a genre by thirds.
func GenreForValue(v float64) Genre {
	v = clamp01(v)
	switch {
	case v < 1.0/3.0:
		return GenreTechno
	case v < 2.0/3.0:
		return GenreTribal
	}
	return GenreIDM
}

func (g Genre) String() string {
	switch g {
	case GenreTechno:
		return "techno"
	case GenreTribal:
		return "tribal"
	case GenreIDM:
		return "idm"
	}
	return "unknown"
}

// ParseGenre resolves a genre name. Empty input selects techno.
func ParseGenre(name string) (Genre, error) {
	switch name {
	case "", "techno":
		return GenreTechno, nil
	case "tribal":
		return GenreTribal, nil
	case "idm":
		return GenreIDM, nil
	}
	return 0, fmt.Errorf("unknown genre %q", name)
}

// --- Aux Behavior ---

// AuxMode selects what the aux channel emits at playback.
type AuxMode int

const (
	AuxModeHat AuxMode = iota
	AuxModeFillGate
	AuxModePhraseCV
	AuxModeEvent
)

// AuxModeForValue maps a [0,1] control onto a mode by quartiles.
func AuxModeForValue(v float64) AuxMode {
	v = clamp01(v)
	switch {
	case v < 0.25:
		return AuxModeHat
	case v < 0.50:
		return AuxModeFillGate
	case v < 0.75:
		return AuxModePhraseCV
	}
	return AuxModeEvent
}

func (m AuxMode) String() string {
	switch m {
	case AuxModeHat:
		return "hat"
	case AuxModeFillGate:
		return "fill-gate"
	case AuxModePhraseCV:
		return "phrase-cv"
	case AuxModeEvent:
		return "event"
	}
	return "unknown"
}

// ParseAuxMode resolves an aux mode name. Empty input selects hat.
func ParseAuxMode(name string) (AuxMode, error) {
	switch name {
	case "", "hat":
		return AuxModeHat, nil
	case "fill-gate":
		return AuxModeFillGate, nil
	case "phrase-cv":
		return AuxModePhraseCV, nil
	case "event":
		return AuxModeEvent, nil
	}
	return 0, fmt.Errorf("unknown aux mode %q", name)
}

// AuxDensity scales the aux budget in coarse steps.
type AuxDensity int

const (
	AuxSparse AuxDensity = iota
	AuxNormal
	AuxDense
	AuxBusy
)

// AuxDensityForValue maps a [0,1] control onto a density by quartiles.
func AuxDensityForValue(v float64) AuxDensity {
	v = clamp01(v)
	switch {
	case v < 0.25:
		return AuxSparse
	case v < 0.50:
		return AuxNormal
	case v < 0.75:
		return AuxDense
	}
	return AuxBusy
}

// Multiplier returns the budget scale for the density step.
func (d AuxDensity) Multiplier() float64 {
	switch d {
	case AuxSparse:
		return 0.5
	case AuxDense:
		return 1.5
	case AuxBusy:
		return 2.0
	}
	return 1.0
}

// VoiceCoupling selects the post-generation shimmer relationship.
type VoiceCoupling int

const (
	CouplingIndependent VoiceCoupling = iota
	CouplingInterlock
	CouplingShadow
)

// CouplingForValue maps a [0,1] control onto a coupling by thirds.
func CouplingForValue(v float64) VoiceCoupling {
	v = clamp01(v)
	switch {
	case v < 0.33:
		return CouplingIndependent
	case v < 0.67:
		return CouplingInterlock
	}
	return CouplingShadow
}

func (c VoiceCoupling) String() string {
	switch c {
	case CouplingIndependent:
		return "independent"
	case CouplingInterlock:
		return "interlock"
	case CouplingShadow:
		return "shadow"
	}
	return "unknown"
}

// ParseCoupling resolves a coupling name. Empty input selects
// independent.
func ParseCoupling(name string) (VoiceCoupling, error) {
	switch name {
	case "", "independent":
		return CouplingIndependent, nil
	case "interlock":
		return CouplingInterlock, nil
	case "shadow":
		return CouplingShadow, nil
	}
	return 0, fmt.Errorf("unknown coupling %q", name)
}

// --- Records ---

// Gap is a maximal contiguous run of unset bits in a voice mask,
// circular: a run spanning the pattern boundary reports as one gap.
type Gap struct {
	Start  int
	Length int
}

// BarBudget carries the per-voice target hit counts and eligibility
// masks for one bar.
type BarBudget struct {
	AnchorHits  int
	ShimmerHits int
	AuxHits     int

	AnchorEligible  StepMask
	ShimmerEligible StepMask
	AuxEligible     StepMask
}

// PatternResult is one bar of output: three hit masks plus per-step
// velocities. Velocity entries are meaningful only at set positions.
type PatternResult struct {
	AnchorMask  StepMask
	ShimmerMask StepMask
	AuxMask     StepMask

	AnchorVelocity  [parameter.MaxSteps]float64
	ShimmerVelocity [parameter.MaxSteps]float64
	AuxVelocity     [parameter.MaxSteps]float64

	Length int
}

// Params is the per-bar input record. All continuous fields live in
// [0,1] and are clamped again internally.
type Params struct {
	Energy  float64
	Shape   float64
	AxisX   float64
	AxisY   float64
	Drift   float64
	Accent  float64
	Balance float64
	Flavor  float64

	Genre  Genre
	FieldX float64
	FieldY float64

	Length int
	Seed   uint32

	AuxDensity float64

	BuildMultiplier float64
	FillMultiplier  float64
	FillActive      bool
	FillProgress    float64
}

// clampDefaults normalizes a Params value: continuous fields into
// [0,1], zero multipliers to their neutral value.
func (p *Params) clampDefaults() {
	p.Energy = clamp01(p.Energy)
	p.Shape = clamp01(p.Shape)
	p.AxisX = clamp01(p.AxisX)
	p.AxisY = clamp01(p.AxisY)
	p.Drift = clamp01(p.Drift)
	p.Accent = clamp01(p.Accent)
	p.Balance = clamp01(p.Balance)
	p.Flavor = clamp01(p.Flavor)
	p.FieldX = clamp01(p.FieldX)
	p.FieldY = clamp01(p.FieldY)
	p.FillProgress = clamp01(p.FillProgress)
	if p.AuxDensity <= 0 {
		p.AuxDensity = 1.0
	}
	if p.BuildMultiplier <= 0 {
		p.BuildMultiplier = 1.0
	}
	if p.FillMultiplier <= 0 {
		p.FillMultiplier = parameter.DefaultFillMultiplier
	}
	if p.Seed == 0 {
		p.Seed = parameter.DefaultPatternSeed
	}
}

// --- Numeric Helpers ---

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundHalfUp converts a scaled budget intermediate to an integer
// count. The +0.5 truncation rule is load-bearing for reproducibility.
func roundHalfUp(v float64) int {
	return int(v + 0.5)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
