package engine

// Metric position tables. These are static musical facts about where a
// step sits in the bar; nothing here depends on parameters or seeds.

// MetricWeight returns the metric strength of a step: 1.0 on the bar
// downbeat and its midpoint, descending through quarter, eighth and
// sixteenth positions.
func MetricWeight(step, length int) float64 {
	if length <= 0 {
		return 0
	}
	step = ((step % length) + length) % length
	if step == 0 || step == length/2 {
		return 1.0
	}
	if length <= 16 {
		if step%2 == 0 {
			return 0.75
		}
		return 0.25
	}
	switch {
	case step%4 == 0:
		return 0.75
	case step%2 == 0:
		return 0.5
	}
	return 0.25
}

// PositionStrength maps metric weight onto [-1,1]: strong positions
// negative, weak positions positive. The axis-bias math keys on sign.
func PositionStrength(step, length int) float64 {
	return 1.0 - 2.0*MetricWeight(step, length)
}

// StepStability returns the drift-resistance of a step in [0.1,1.0].
// Steps are graded on the 32-step reference grid regardless of the
// actual pattern length, so a downbeat stays maximally stable at every
// supported length.
func StepStability(step, length int) float64 {
	if length <= 0 {
		return 0.1
	}
	step = ((step % length) + length) % length
	normalized := (step * 32) / length
	switch {
	case normalized == 0:
		return 1.0
	case normalized == 16:
		return 0.9
	case normalized == 8 || normalized == 24:
		return 0.7
	case normalized%8 == 4:
		return 0.5
	case normalized%2 == 0:
		return 0.3
	}
	return 0.1
}
