package parameter

// Shape Zone Boundaries
// Seven bands: stable, crossfade, syncopation A, crossfade, syncopation B,
// crossfade, wild. Crossfades are 4% wide.
const (
	ShapeZone1End      = 0.28
	ShapeCrossfade1End = 0.32
	ShapeZone2aEnd     = 0.48
	ShapeCrossfade2End = 0.52
	ShapeZone2bEnd     = 0.68
	ShapeCrossfade3End = 0.72
)

// Weight Bounds
const (
	// MinStepWeight keeps every step selectable at some pressure
	MinStepWeight = 0.05
	MaxStepWeight = 1.0

	// MinBlendWeight is the smallest usable softmax mass; below it the
	// archetype blend falls back to a uniform mix
	MinBlendWeight = 1e-6
)

// Softmax Sharpening
const (
	SoftmaxTemperature    = 0.5
	SoftmaxTemperatureMin = 0.01
	SoftmaxTemperatureMax = 10.0
)

// Axis Bias Strengths
const (
	// AxisXSuppress scales how hard the favored position class is dimmed
	AxisXSuppress = 0.45

	// AxisXBoost scales how hard the complementary class is lifted
	AxisXBoost = 0.60

	// AxisYDensity scales the overall density tilt, weighted toward weak positions
	AxisYDensity = 0.50
)

// Broken Regime
// Emerges when shape and axisX are both pushed high
const (
	BrokenShapeMin     = 0.6
	BrokenAxisXMin     = 0.7
	BrokenShapeScale   = 2.5
	BrokenAxisXScale   = 3.33
	BrokenDropFactor   = 0.25
	BrokenStepChance   = 0.6
	BrokenStrongWeight = 0.75
)

// Perturbation Noise
const (
	// PerturbScale is multiplied by shape so low-shape bars keep their
	// strong structure untouched
	PerturbScale = 0.4

	// PerturbStepZeroShapeMin protects the downbeat weight below this shape
	PerturbStepZeroShapeMin = 0.3
)
