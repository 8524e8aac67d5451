package parameter

// Pattern Geometry
const (
	// MaxSteps is the bitmask capacity; every mask and per-step array is sized to it
	MaxSteps = 64

	// MinPatternLength is the shortest supported bar
	MinPatternLength = 1

	// StepsPerBeat at the sixteenth-note grid resolution
	StepsPerBeat = 4

	// BeatsPerBar for phrase and downbeat derivation
	BeatsPerBar = 4
)

// Energy Zone Thresholds
// Zone changes behavioral rules (eligibility, spacing, guard limits), not just density
const (
	MinimalZoneMax = 0.20
	GrooveZoneMax  = 0.50
	BuildZoneMax   = 0.75
)

// Metric Position Masks
// Defined over a 16-step sub-pattern and repeated across the 64-bit range,
// truncated to the active pattern length by the consumers
const (
	DownbeatMask      uint64 = 0x0001000100010001
	QuarterNoteMask   uint64 = 0x1111111111111111
	EighthNoteMask    uint64 = 0x5555555555555555
	SixteenthNoteMask uint64 = 0xFFFFFFFFFFFFFFFF
	BackbeatMask      uint64 = 0x0100010001000100
	OffbeatMask       uint64 = 0x4444444444444444
	SyncopationMask   uint64 = 0xAAAAAAAAAAAAAAAA
)

// Genre Field Geometry
const (
	GenreCount         = 3
	ArchetypesPerGenre = 9
	ArchetypeGridSize  = 3
)
