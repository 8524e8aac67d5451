package audio

import (
	"context"
	"time"

	"github.com/chronick/duopulse-sub001/engine"
)

// Player renders a running sequencer through the audition voices.
// Bars are pulled just in time; swing and jitter offsets become
// trigger delays on top of the step clock.
type Player struct {
	seq *engine.Sequencer
	out *AudioEngine
}

func NewPlayer(seq *engine.Sequencer, out *AudioEngine) *Player {
	return &Player{seq: seq, out: out}
}

// Run plays bars until the context ends.
func (p *Player) Run(ctx context.Context) error {
	return p.RunBars(ctx, -1)
}

// RunBars plays the given number of bars, or indefinitely when bars is
// negative. Returns the context error on cancellation.
func (p *Player) RunBars(ctx context.Context, bars int) error {
	// Offsets arrive in samples; keep the sequencer clock in the
	// output rate so they convert directly to wall time.
	p.seq.SetSampleRate(int(p.out.SampleRate()))

	stepDur := p.sampleDuration(p.seq.SamplesPerStep())
	ticker := time.NewTicker(stepDur)
	defer ticker.Stop()

	bar, err := p.seq.NextBar()
	if err != nil {
		return err
	}
	played := 1
	step := 0

	for {
		p.playStep(bar.Events[step])

		step++
		if step >= len(bar.Events) {
			if bars >= 0 && played >= bars {
				// Let the last step ring out before returning.
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(stepDur):
				}
				return nil
			}
			step = 0
			if bar, err = p.seq.NextBar(); err != nil {
				return err
			}
			played++
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Player) playStep(ev engine.StepEvent) {
	if ev.AnchorHit {
		p.schedule(ev.AnchorOffset, ev.AnchorVelocity, p.out.TriggerAnchor)
	}
	if ev.ShimmerHit {
		p.schedule(ev.ShimmerOffset, ev.ShimmerVelocity, p.out.TriggerShimmer)
	}
	if ev.AuxHit {
		p.schedule(ev.AuxOffset, ev.AuxVelocity, p.out.TriggerAux)
	}
}

// schedule delays a hit by its sample offset. The step clock has
// already passed the nominal position, so non-positive offsets fire
// immediately.
func (p *Player) schedule(offset int, velocity float64, fire func(float64) bool) {
	if offset <= 0 {
		fire(velocity)
		return
	}
	time.AfterFunc(p.sampleDuration(offset), func() { fire(velocity) })
}

func (p *Player) sampleDuration(samples int) time.Duration {
	return time.Duration(float64(samples) / float64(p.out.SampleRate()) * float64(time.Second))
}
