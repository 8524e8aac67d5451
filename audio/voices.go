package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// The three audition voices are synthesized directly as beep
// streamers. Each generator streams indefinitely with a decaying
// envelope; callers bound the hit length with beep.Take.

// KickGenerator renders an anchor hit: a sine whose pitch falls from
// three times the base frequency back down as the envelope decays.
type KickGenerator struct {
	sr       beep.SampleRate
	velocity float64
	pos      int
}

func NewKickGenerator(sr beep.SampleRate, velocity float64) *KickGenerator {
	return &KickGenerator{sr: sr, velocity: velocity}
}

func (g *KickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 12)
		freq := 60.0 * (1 + 2*env)
		sample := 0.5 * g.velocity * env * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *KickGenerator) Err() error {
	return nil
}

// SnareGenerator renders a shimmer hit: a noise burst over a short
// 180Hz body tone. The noise source is a fixed-seed LCG so every hit
// sounds the same.
type SnareGenerator struct {
	sr       beep.SampleRate
	velocity float64
	pos      int
	seed     int64
}

func NewSnareGenerator(sr beep.SampleRate, velocity float64) *SnareGenerator {
	return &SnareGenerator{sr: sr, velocity: velocity, seed: 0x5EED}
}

func (g *SnareGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		body := math.Sin(2*math.Pi*180*t) * math.Exp(-t*30)
		crack := noise * math.Exp(-t*18)
		sample := 0.4 * g.velocity * (0.5*body + 0.7*crack)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SnareGenerator) Err() error {
	return nil
}

// HatGenerator renders an aux hit: differenced noise, which tilts the
// spectrum toward the high end, under a fast envelope.
type HatGenerator struct {
	sr       beep.SampleRate
	velocity float64
	pos      int
	seed     int64
	prev     float64
}

func NewHatGenerator(sr beep.SampleRate, velocity float64) *HatGenerator {
	return &HatGenerator{sr: sr, velocity: velocity, seed: 0x4A7}
}

func (g *HatGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		sample := 0.3 * g.velocity * (noise - g.prev) * math.Exp(-t*60)
		g.prev = noise

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HatGenerator) Err() error {
	return nil
}
