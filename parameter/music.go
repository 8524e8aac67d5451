package parameter

// Tempo range the transport accepts.
const (
	DefaultBPM = 120.0
	MinBPM     = 40.0
	MaxBPM     = 260.0

	// StepsPerBar at the sixteenth-note grid in 4/4
	StepsPerBar = StepsPerBeat * BeatsPerBar
)

// SamplesPerStep converts a tempo into the step length at a sample rate.
func SamplesPerStep(sampleRate int, bpm float64) int {
	return int(float64(sampleRate) * 60.0 / (bpm * StepsPerBeat))
}

// Voice ring times (seconds): how long each audition hit occupies the
// mixer after its trigger.
const (
	KickRing  = 0.25
	SnareRing = 0.20
	HatRing   = 0.12
)
