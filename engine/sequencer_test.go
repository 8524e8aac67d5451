package engine

import (
	"testing"

	"github.com/chronick/duopulse-sub001/parameter"
)

func sequencerParams() Params {
	return Params{Energy: 0.5, Shape: 0.4, Balance: 0.5, Flavor: 0.3, Drift: 0.5, Length: 16, Seed: 0xBEEF}
}

func TestSequencerDeterministic(t *testing.T) {
	a := NewSequencer(sequencerParams())
	b := NewSequencer(sequencerParams())
	for bar := 0; bar < 5; bar++ {
		ra, err := a.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
		rb, _ := b.NextBar()
		if ra.Pattern.AnchorMask != rb.Pattern.AnchorMask || ra.Pattern.ShimmerMask != rb.Pattern.ShimmerMask {
			t.Fatalf("Expected identical masks at bar %d", bar)
		}
		if ra.Seed != rb.Seed || ra.Fill != rb.Fill {
			t.Fatalf("Expected identical bar state at bar %d", bar)
		}
		for i := range ra.Events {
			if ra.Events[i] != rb.Events[i] {
				t.Fatalf("Expected identical events at bar %d step %d", bar, i)
			}
		}
	}
}

func TestSequencerZeroDriftRepeats(t *testing.T) {
	p := sequencerParams()
	p.Drift = 0
	p.Flavor = 0
	s := NewSequencer(p)

	bars := make([]BarResult, 8)
	for i := range bars {
		r, err := s.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", i, err)
		}
		bars[i] = r
	}

	for i, r := range bars {
		if r.Fill {
			t.Errorf("Expected no fills at zero drift, got one at bar %d", i)
		}
		if r.Pattern.AnchorMask != bars[0].Pattern.AnchorMask {
			t.Errorf("Expected the anchor frozen at zero drift, changed at bar %d", i)
		}
		if r.Seed != bars[0].Seed {
			t.Errorf("Expected a constant seed at zero drift, changed at bar %d", i)
		}
	}

	// Mid-phrase bars render identically, and the phrase wrap restores
	// the first bar exactly.
	for i := range bars[1].Events {
		if bars[1].Events[i] != bars[2].Events[i] {
			t.Fatalf("Expected bars 1 and 2 identical at step %d", i)
		}
		if bars[0].Events[i] != bars[4].Events[i] {
			t.Fatalf("Expected the phrase wrap to repeat bar 0 at step %d", i)
		}
	}
}

func TestSequencerFillNearPhraseEnd(t *testing.T) {
	s := NewSequencer(sequencerParams())
	for bar := 0; bar < 4; bar++ {
		r, err := s.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
		if bar < 3 && r.Fill {
			t.Errorf("Expected no fill at bar %d", bar)
		}
		if bar == 3 {
			if !r.Fill {
				t.Fatal("Expected the last phrase bar to fill")
			}
			if r.Seed == s.drift.PatternSeed {
				t.Error("Expected the bar seed offset from the pattern seed under drift")
			}
			auxHits := 0
			for _, ev := range r.Events {
				if ev.AuxHit {
					auxHits++
				}
			}
			if auxHits == 0 {
				t.Error("Expected a hat burst in the fill bar")
			}
		}
	}
}

func TestSequencerFillStageForcesAccents(t *testing.T) {
	// High shape, zero flavor and drift; the phrase tail past the fill
	// stage must accent every main-voice hit with the punch boost.
	p := Params{Energy: 0.5, Shape: 0.7, Balance: 0.5, Length: 16, Seed: 0xBEEF}
	s := NewSequencer(p)

	var r BarResult
	var err error
	for bar := 0; bar < 4; bar++ {
		if r, err = s.NextBar(); err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
	}

	boost := ComputePunchProfile(0).AccentBoost
	checked := 0
	for i := 8; i < 16; i++ {
		ev := r.Events[i]
		if ev.AnchorHit {
			want := clampF(r.Pattern.AnchorVelocity[i]+boost, parameter.VelocityMin, parameter.VelocityMax)
			if ev.AnchorVelocity != want {
				t.Errorf("Expected an accented anchor velocity %v at step %d, got %v", want, i, ev.AnchorVelocity)
			}
			checked++
		}
		if ev.ShimmerHit {
			want := clampF(r.Pattern.ShimmerVelocity[i]+boost, parameter.VelocityMin, parameter.VelocityMax)
			if ev.ShimmerVelocity != want {
				t.Errorf("Expected an accented shimmer velocity %v at step %d, got %v", want, i, ev.ShimmerVelocity)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("Expected main-voice hits in the last half bar")
	}
}

func TestSequencerShadowCoupling(t *testing.T) {
	s := NewSequencer(Params{Energy: 0, Shape: 0, Length: 16, Seed: 0xBEEF})
	s.SetCoupling(CouplingShadow)
	r, err := s.NextBar()
	if err != nil {
		t.Fatalf("Expected the bar to render, got %v", err)
	}
	if r.Pattern.AnchorMask != StepMask(0x1111) {
		t.Fatalf("Expected four on the floor, got %#x", r.Pattern.AnchorMask)
	}
	if r.Pattern.ShimmerMask != StepMask(0x2222) {
		t.Errorf("Expected the shadow one step behind the anchor, got %#x", r.Pattern.ShimmerMask)
	}
	for _, step := range []int{1, 5, 9, 13} {
		if r.Pattern.ShimmerVelocity[step] <= 0 {
			t.Errorf("Expected a shadow velocity at step %d", step)
		}
		if !r.Events[step].ShimmerHit {
			t.Errorf("Expected a shadow event at step %d", step)
		}
	}
}

func TestSequencerInterlockCoupling(t *testing.T) {
	s := NewSequencer(sequencerParams())
	s.SetCoupling(CouplingInterlock)
	for bar := 0; bar < 4; bar++ {
		r, err := s.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
		if r.Pattern.AnchorMask&r.Pattern.ShimmerMask != 0 {
			t.Errorf("Expected interlocked voices disjoint at bar %d", bar)
		}
	}
}

func TestSequencerEventsCoverBar(t *testing.T) {
	s := NewSequencer(sequencerParams())
	r, err := s.NextBar()
	if err != nil {
		t.Fatalf("Expected the bar to render, got %v", err)
	}
	if len(r.Events) != 16 {
		t.Fatalf("Expected 16 events, got %d", len(r.Events))
	}
	for i, ev := range r.Events {
		if ev.Step != i {
			t.Errorf("Expected event %d at its own step, got %d", i, ev.Step)
		}
	}
}

func TestSequencerFillGateMode(t *testing.T) {
	p := sequencerParams()
	p.Drift = 0
	s := NewSequencer(p)
	s.SetAuxMode(AuxModeFillGate)

	for bar := 0; bar < 4; bar++ {
		r, err := s.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
		for i, ev := range r.Events {
			wantGate := bar == 3
			if ev.AuxGate != wantGate {
				t.Errorf("Expected gate %v at bar %d step %d", wantGate, bar, i)
			}
			if ev.AuxHit {
				t.Error("Expected no aux hits in gate mode")
			}
		}
	}
}

func TestSequencerPhraseCVMode(t *testing.T) {
	p := sequencerParams()
	p.Drift = 0
	s := NewSequencer(p)
	s.SetAuxMode(AuxModePhraseCV)

	r, err := s.NextBar()
	if err != nil {
		t.Fatalf("Expected the bar to render, got %v", err)
	}
	if r.Events[0].AuxCV != 0 {
		t.Errorf("Expected zero CV at the phrase start, got %v", r.Events[0].AuxCV)
	}
	if !almostEqual(r.Events[5].AuxCV, 5.0/64.0) {
		t.Errorf("Expected the CV to track phrase progress, got %v", r.Events[5].AuxCV)
	}
	prev := -1.0
	for _, ev := range r.Events {
		if ev.AuxCV <= prev {
			t.Errorf("Expected the CV ramp to climb, got %v after %v", ev.AuxCV, prev)
		}
		prev = ev.AuxCV
	}
}

func TestSequencerEventMode(t *testing.T) {
	p := sequencerParams()
	p.Drift = 0
	s := NewSequencer(p)
	s.SetAuxMode(AuxModeEvent)

	for bar := 0; bar < 2; bar++ {
		r, err := s.NextBar()
		if err != nil {
			t.Fatalf("Expected bar %d to render, got %v", bar, err)
		}
		for i, ev := range r.Events {
			if i == 0 && !ev.AuxHit {
				t.Errorf("Expected a pulse on the downbeat of bar %d", bar)
			}
			if i != 0 && ev.AuxHit {
				t.Errorf("Expected no pulse at bar %d step %d", bar, i)
			}
		}
		want := 0.6
		if bar == 0 {
			want = 1.0
		}
		if r.Events[0].AuxVelocity != want {
			t.Errorf("Expected pulse velocity %v at bar %d, got %v", want, bar, r.Events[0].AuxVelocity)
		}
	}
}

func TestSequencerReseedDeferredToPhrase(t *testing.T) {
	p := sequencerParams()
	p.Drift = 0
	s := NewSequencer(p)

	first, _ := s.NextBar()
	s.RequestReseed()
	for bar := 1; bar < 4; bar++ {
		r, _ := s.NextBar()
		if r.Seed != first.Seed {
			t.Fatalf("Expected the reseed held until the phrase ends, changed at bar %d", bar)
		}
	}
	next, _ := s.NextBar()
	if next.Seed == first.Seed {
		t.Error("Expected a new seed on the next phrase")
	}
}

func TestSequencerReseedImmediate(t *testing.T) {
	s := NewSequencer(sequencerParams())
	s.Reseed(42)
	if s.Seed() != 42 {
		t.Errorf("Expected the literal seed, got %d", s.Seed())
	}
}

func TestSequencerTiming(t *testing.T) {
	s := NewSequencer(sequencerParams())
	if got := s.SamplesPerStep(); got != 5512 {
		t.Errorf("Expected 5512 samples per step at 120bpm, got %d", got)
	}
	s.SetTempo(60)
	if got := s.SamplesPerStep(); got != 11025 {
		t.Errorf("Expected 11025 samples per step at 60bpm, got %d", got)
	}
	s.SetTempo(0)
	if s.Tempo() != 60 {
		t.Errorf("Expected a zero tempo rejected, got %v", s.Tempo())
	}
	s.SetTempo(120)
	s.SetSampleRate(48000)
	if got := s.SamplesPerStep(); got != 6000 {
		t.Errorf("Expected 6000 samples per step at 48k, got %d", got)
	}
}

func TestSequencerPinsBarLength(t *testing.T) {
	s := NewSequencer(Params{Length: 16, Energy: 0.5})
	p := s.Params()
	p.Length = 32
	s.SetParams(p)
	if s.Params().Length != 16 {
		t.Errorf("Expected the bar length pinned at 16, got %d", s.Params().Length)
	}

	s = NewSequencer(Params{Length: 200})
	if s.Params().Length != 16 {
		t.Errorf("Expected a bad length replaced by the default, got %d", s.Params().Length)
	}
}
