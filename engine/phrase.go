package engine

import "github.com/chronick/duopulse-sub001/parameter"

// PhrasePosition locates a step inside the running phrase. The tail of
// a phrase splits into a build zone and, inside it, a fill zone; both
// report their own progress ramps so downstream stages can shape
// velocity and density against them.
type PhrasePosition struct {
	Bar           int
	StepInBar     int
	StepInPhrase  int
	Progress      float64
	IsFill        bool
	IsBuild       bool
	IsMidPhrase   bool
	FillProgress  float64
	BuildProgress float64
}

// ComputePhrasePosition maps an absolute step count onto the phrase
// grid. Negative steps wrap, so a transport rewind stays consistent.
func ComputePhrasePosition(absStep, barLength, phraseBars int) PhrasePosition {
	if barLength <= 0 {
		barLength = parameter.StepsPerBeat * parameter.BeatsPerBar
	}
	if phraseBars <= 0 {
		phraseBars = parameter.DefaultPhraseBars
	}
	phraseSteps := barLength * phraseBars
	stepInPhrase := ((absStep % phraseSteps) + phraseSteps) % phraseSteps

	fillZone := clampI(phraseBars*parameter.FillZoneStepsPerBar, 4, barLength)
	buildZone := clampI(phraseBars*parameter.BuildZoneStepsPerBar, 8, 2*barLength)

	pos := PhrasePosition{
		Bar:          stepInPhrase / barLength,
		StepInBar:    stepInPhrase % barLength,
		StepInPhrase: stepInPhrase,
		Progress:     float64(stepInPhrase) / float64(phraseSteps),
	}
	pos.IsFill = stepInPhrase >= phraseSteps-fillZone
	pos.IsBuild = stepInPhrase >= phraseSteps-buildZone
	pos.IsMidPhrase = pos.Progress >= parameter.MidPhraseStart && pos.Progress < parameter.MidPhraseEnd

	if pos.IsFill {
		pos.FillProgress = clamp01(float64(stepInPhrase-(phraseSteps-fillZone)) / float64(fillZone))
	}
	if pos.IsBuild {
		pos.BuildProgress = clamp01(float64(stepInPhrase-(phraseSteps-buildZone)) / float64(buildZone))
	}
	return pos
}
