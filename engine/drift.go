package engine

import "github.com/chronick/duopulse-sub001/parameter"

// DriftState carries the two seed streams a running sequence draws
// from. PatternSeed is the stable identity of the groove; PhraseSeed
// changes every phrase. Drift decides, step by step, which stream a
// voice reads, so low drift repeats and high drift wanders while the
// strong beats stay put.
type DriftState struct {
	PatternSeed uint32
	PhraseSeed  uint32

	phraseCounter   uint32
	reseedRequested bool
}

func NewDriftState(seed uint32) *DriftState {
	if seed == 0 {
		seed = parameter.DefaultPatternSeed
	}
	return &DriftState{
		PatternSeed: seed,
		PhraseSeed:  seed ^ parameter.PhraseSeedXor,
	}
}

// RequestReseed marks the pattern seed for replacement at the next
// phrase boundary. The change is deferred so the groove never jumps
// mid-phrase.
func (d *DriftState) RequestReseed() {
	d.reseedRequested = true
}

// OnPhraseBoundary advances the phrase stream and applies a pending
// reseed request.
func (d *DriftState) OnPhraseBoundary() {
	if d.reseedRequested {
		d.PatternSeed = NextSeed(d.PatternSeed, d.phraseCounter)
		d.reseedRequested = false
	}
	d.phraseCounter++
	d.PhraseSeed = HashCombine(d.PatternSeed, d.phraseCounter)
}

// Reseed replaces the pattern seed immediately. Zero asks for a derived
// seed rather than a literal zero, which would collapse the hash
// streams.
func (d *DriftState) Reseed(seed uint32) {
	if seed == 0 {
		seed = NextSeed(d.PatternSeed, d.phraseCounter)
	}
	d.PatternSeed = seed
	d.phraseCounter = 0
	d.PhraseSeed = HashCombine(d.PatternSeed, 0)
	d.reseedRequested = false
}

// SeedForStep picks the stream for one voice at one step. Stable
// positions resist drift; weak positions give in first. The voice
// multiplier makes shimmer wander before the anchor does.
func (d *DriftState) SeedForStep(step, length int, drift float64, voice Voice) uint32 {
	if StepStability(step, length) > drift*voice.DriftMultiplier() {
		return d.PatternSeed
	}
	return d.PhraseSeed
}
