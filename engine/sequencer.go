package engine

import "github.com/chronick/duopulse-sub001/parameter"

const defaultSampleRate = 44100

// StepEvent is one step of a rendered bar, with the per-voice triggers,
// velocities, and sample offsets a playback layer needs. AuxGate and
// AuxCV carry the alternate aux mode outputs; only the active mode's
// fields are populated.
type StepEvent struct {
	Step int

	AnchorHit      bool
	AnchorVelocity float64
	AnchorOffset   int

	ShimmerHit      bool
	ShimmerVelocity float64
	ShimmerOffset   int

	AuxHit      bool
	AuxVelocity float64
	AuxOffset   int

	AuxGate bool
	AuxCV   float64
}

// BarResult is one generated bar plus its rendered event list and the
// phrase position it was generated at.
type BarResult struct {
	Pattern  PatternResult
	Events   []StepEvent
	Position PhrasePosition
	Seed     uint32
	Fill     bool
}

// Sequencer drives the generator bar by bar: it tracks the phrase,
// evolves the seed streams, applies genre traits and voice coupling,
// and renders per-step events with swing, jitter, and displacement
// resolved. It is single-owner state; callers serialize access.
type Sequencer struct {
	params     Params
	traits     Traits
	drift      *DriftState
	barLength  int
	phraseBars int
	sampleRate int
	tempo      float64
	auxMode    AuxMode
	coupling   VoiceCoupling
	bar        int
}

func NewSequencer(p Params) *Sequencer {
	if p.Length < parameter.MinPatternLength || p.Length > parameter.MaxSteps {
		p.Length = parameter.StepsPerBeat * parameter.BeatsPerBar
	}
	return &Sequencer{
		params:     p,
		traits:     DefaultTraits(),
		drift:      NewDriftState(p.Seed),
		barLength:  p.Length,
		phraseBars: parameter.DefaultPhraseBars,
		sampleRate: defaultSampleRate,
		tempo:      parameter.DefaultBPM,
	}
}

func (s *Sequencer) SetTraits(t Traits)          { s.traits = t }
func (s *Sequencer) SetAuxMode(m AuxMode)        { s.auxMode = m }
func (s *Sequencer) SetCoupling(c VoiceCoupling) { s.coupling = c }

func (s *Sequencer) SetTempo(bpm float64) {
	if bpm > 0 {
		s.tempo = bpm
	}
}

func (s *Sequencer) SetSampleRate(rate int) {
	if rate > 0 {
		s.sampleRate = rate
	}
}

func (s *Sequencer) SetPhraseBars(bars int) {
	if bars > 0 {
		s.phraseBars = bars
	}
}

// SetParams replaces the control snapshot for subsequent bars. The bar
// length is pinned at construction; a changed Length is ignored.
func (s *Sequencer) SetParams(p Params) {
	p.Length = s.barLength
	s.params = p
}

func (s *Sequencer) Params() Params   { return s.params }
func (s *Sequencer) Bar() int         { return s.bar }
func (s *Sequencer) Tempo() float64   { return s.tempo }
func (s *Sequencer) Seed() uint32     { return s.drift.PatternSeed }
func (s *Sequencer) RequestReseed()   { s.drift.RequestReseed() }
func (s *Sequencer) Reseed(sd uint32) { s.drift.Reseed(sd) }

// SamplesPerStep converts the tempo into the step duration at the
// configured sample rate.
func (s *Sequencer) SamplesPerStep() int {
	return parameter.SamplesPerStep(s.sampleRate, s.tempo)
}

func (s *Sequencer) barSeed() uint32 {
	if s.params.Drift >= parameter.BarSeedDriftMin {
		return s.drift.PatternSeed ^ uint32(s.bar)*parameter.BarSeedMultiplier
	}
	return s.drift.PatternSeed
}

// NextBar generates and renders the next bar, then advances the phrase
// clock. A bar whose tail reaches the fill zone regenerates as a fill
// when drift is nonzero; at zero drift the phrase has no influence and
// every bar repeats exactly.
func (s *Sequencer) NextBar() (BarResult, error) {
	absStep := s.bar * s.barLength
	pos := ComputePhrasePosition(absStep, s.barLength, s.phraseBars)
	endPos := ComputePhrasePosition(absStep+s.barLength-1, s.barLength, s.phraseBars)

	p := s.params
	p.Seed = s.barSeed()
	p.FillMultiplier = s.traits.FillDensityMultiplier

	fill := endPos.IsFill && p.Drift > 0
	var result PatternResult
	var err error
	if fill {
		result, err = GenerateFillPattern(p, endPos.FillProgress)
	} else {
		result, err = GeneratePattern(p)
	}
	if err != nil {
		return BarResult{}, err
	}

	s.applyCoupling(&result, p)
	if fill && s.auxMode == AuxModeHat {
		s.applyHatBurst(&result, p, absStep)
	}

	events := s.renderEvents(&result, p, absStep)

	s.bar++
	if (s.bar*s.barLength)%(s.barLength*s.phraseBars) == 0 {
		s.drift.OnPhraseBoundary()
	}

	return BarResult{Pattern: result, Events: events, Position: pos, Seed: p.Seed, Fill: fill}, nil
}

// applyCoupling rewrites the shimmer mask against the anchor after
// generation. Interlock clears collisions; shadow echoes the anchor one
// step late. Either way the shimmer velocities are recomputed for the
// new mask.
func (s *Sequencer) applyCoupling(r *PatternResult, p Params) {
	switch s.coupling {
	case CouplingInterlock:
		r.ShimmerMask &^= r.AnchorMask
	case CouplingShadow:
		r.ShimmerMask = r.AnchorMask.RotateLeft(1, r.Length)
	default:
		return
	}
	r.ShimmerVelocity = [parameter.MaxSteps]float64{}
	for i := 0; i < r.Length; i++ {
		if r.ShimmerMask.Has(i) {
			r.ShimmerVelocity[i] = ComputeAccentVelocity(p.Accent*parameter.ShimmerAccentScale, i, r.Length, p.Seed+1)
		}
	}
}

// applyHatBurst replaces the aux voice of a fill bar with a hat burst
// across the bar's fill span.
func (s *Sequencer) applyHatBurst(r *PatternResult, p Params, absStep int) {
	fillStart := -1
	for i := 0; i < s.barLength; i++ {
		if ComputePhrasePosition(absStep+i, s.barLength, s.phraseBars).IsFill {
			fillStart = i
			break
		}
	}
	if fillStart < 0 {
		return
	}
	burst, velocities := GenerateHatBurst(p.Energy, p.Shape, p.Seed, fillStart, s.barLength-fillStart, s.barLength, r.AnchorMask|r.ShimmerMask)
	r.AuxMask = burst
	r.AuxVelocity = velocities
}

// renderEvents resolves one bar into per-step playback events:
// displacement moves hits, coupling settles shimmer triggers, accents
// and velocity chaos shape levels, swing and jitter produce sample
// offsets. Punch accents gate on the trait masks and are forced
// through the fill stage at high shape.
func (s *Sequencer) renderEvents(r *PatternResult, p Params, absStep int) []StepEvent {
	zone := ZoneForEnergy(p.Energy)
	swing := ComputeSwing(s.traits.SwingAmount, zone)
	punch := ComputePunchProfile(p.Accent)
	spb := s.SamplesPerStep()

	anchorMask, anchorVel := displaceVoice(r.AnchorMask, &r.AnchorVelocity, zone, p.Flavor, p.Seed, r.Length)
	shimmerMask, shimmerVel := displaceVoice(r.ShimmerMask, &r.ShimmerVelocity, zone, p.Flavor, p.Seed+1, r.Length)
	auxMask, auxVel := displaceVoice(r.AuxMask, &r.AuxVelocity, zone, p.Flavor, p.Seed+3, r.Length)

	events := make([]StepEvent, r.Length)
	for i := 0; i < r.Length; i++ {
		stepPos := ComputePhrasePosition(absStep+i, s.barLength, s.phraseBars)
		stage := ComputeStageModifiers(clamp01(p.Shape), stepPos.Progress)
		ev := StepEvent{Step: i}

		ratchet := 0.0
		if s.traits.RatchetEligibleMask.Has(i % parameter.MaxSteps) {
			ratchet = p.Flavor
		}
		accentMult := PhraseAccentMultiplier(stepPos, ratchet)

		anchorHit := anchorMask.Has(i)
		fire, coupleVel, boosted := CoupleShimmer(anchorHit, shimmerMask.Has(i), s.traits.DefaultCouple, p.Balance, i, p.Seed)

		if anchorHit {
			ev.AnchorHit = true
			v := anchorVel[i] * accentMult
			if ShouldAccent(punch.AccentProbability, i, s.traits.AnchorAccentMask, stage.ForceAccent, p.Seed) {
				v += punch.AccentBoost
			}
			v = clampF(v, parameter.VelocityMin, parameter.VelocityMax)
			ev.AnchorVelocity = ComputeVelocityChaos(v, p.Flavor, i, p.Seed)
			ev.AnchorOffset = swingOffsetForStep(i, s.traits.SwingPattern, swing, spb) +
				ComputeMicrotimingOffset(p.Flavor, zone, i, p.Seed, s.sampleRate)
		}
		if fire {
			ev.ShimmerHit = true
			v := shimmerVel[i]
			if boosted {
				v = coupleVel
			}
			v *= accentMult
			if ShouldAccent(punch.AccentProbability, i, s.traits.ShimmerAccentMask, stage.ForceAccent, p.Seed+1) {
				v += punch.AccentBoost
			}
			v = clampF(v, parameter.VelocityMin, parameter.VelocityMax)
			ev.ShimmerVelocity = ComputeVelocityChaos(v, p.Flavor, i, p.Seed+1)
			ev.ShimmerOffset = swingOffsetForStep(i, s.traits.SwingPattern, swing, spb) +
				ComputeMicrotimingOffset(p.Flavor, zone, i, p.Seed+1, s.sampleRate)
		}

		switch s.auxMode {
		case AuxModeFillGate:
			ev.AuxGate = stepPos.IsFill
		case AuxModePhraseCV:
			ev.AuxCV = clamp01(stepPos.Progress)
		case AuxModeEvent:
			if stepPos.StepInBar == 0 {
				ev.AuxHit = true
				if stepPos.StepInPhrase == 0 {
					ev.AuxVelocity = parameter.AuxEventPhraseVelocity
				} else {
					ev.AuxVelocity = parameter.AuxEventBarVelocity
				}
			}
		default:
			if auxMask.Has(i) {
				ev.AuxHit = true
				v := auxVel[i] * accentMult
				if ShouldAccent(punch.AccentProbability, i, StepMask(parameter.AuxAccentMask), stage.ForceAccent, p.Seed+3) {
					v += punch.AccentBoost
				}
				ev.AuxVelocity = clamp01(v)
				ev.AuxOffset = ComputeMicrotimingOffset(p.Flavor, zone, i, p.Seed+3, s.sampleRate)
			}
		}
		events[i] = ev
	}
	return events
}

// displaceVoice moves each hit to its displaced step. Collisions keep
// the louder hit.
func displaceVoice(mask StepMask, velocities *[parameter.MaxSteps]float64, zone EnergyZone, flavor float64, seed uint32, length int) (StepMask, [parameter.MaxSteps]float64) {
	var outMask StepMask
	var outVel [parameter.MaxSteps]float64
	for i := 0; i < length; i++ {
		if !mask.Has(i) {
			continue
		}
		dst := ComputeStepDisplacement(i, zone, flavor, seed, length)
		if outMask.Has(dst) {
			if velocities[i] > outVel[dst] {
				outVel[dst] = velocities[i]
			}
			continue
		}
		outMask = outMask.With(dst)
		outVel[dst] = velocities[i]
	}
	return outMask, outVel
}

// swingOffsetForStep applies the trait's swing pattern: 0 swings odd
// sixteenths, 1 swings eighth offbeats, 2 swings both.
func swingOffsetForStep(step, pattern int, swing float64, samplesPerStep int) int {
	offset := int((swing - 0.5) * 2 * float64(samplesPerStep))
	switch pattern {
	case 1:
		if step%4 == 2 {
			return offset
		}
		return 0
	case 2:
		if step%2 == 1 || step%4 == 2 {
			return offset
		}
		return 0
	}
	return ApplySwingToStep(step, swing, samplesPerStep)
}
