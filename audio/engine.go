package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/chronick/duopulse-sub001/parameter"
)

// Hit lengths per voice. The generators decay on their own; these
// bound how long each one occupies the mixer.
const (
	kickDuration  = time.Duration(parameter.KickRing * float64(time.Second))
	snareDuration = time.Duration(parameter.SnareRing * float64(time.Second))
	hatDuration   = time.Duration(parameter.HatRing * float64(time.Second))
)

// AudioEngine owns the speaker and the live mixer
type AudioEngine struct {
	config *Config
	mixer  *beep.Mixer
	sr     beep.SampleRate

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	mu sync.RWMutex // Protects config
}

// NewAudioEngine creates an audio engine
func NewAudioEngine(cfg ...*Config) *AudioEngine {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}

	ae := &AudioEngine{
		config: config,
		mixer:  &beep.Mixer{},
		sr:     beep.SampleRate(config.SampleRate),
	}
	ae.muted.Store(!config.Enabled)

	return ae
}

// Start opens the speaker and begins streaming the mixer
func (ae *AudioEngine) Start() error {
	if ae.running.Load() {
		return fmt.Errorf("audio engine already running")
	}

	if err := speaker.Init(ae.sr, ae.sr.N(time.Millisecond*100)); err != nil {
		ae.silentMode.Store(true)
		ae.running.Store(true)
		return nil // Silent mode, not an error
	}

	speaker.Play(ae.mixer)
	ae.silentMode.Store(false)
	ae.running.Store(true)
	return nil
}

// Stop halts playback and drops queued hits
func (ae *AudioEngine) Stop() {
	if !ae.running.CompareAndSwap(true, false) {
		return
	}

	if ae.silentMode.Load() {
		return
	}

	speaker.Lock()
	ae.mixer.Clear()
	speaker.Unlock()
}

// TriggerAnchor fires the kick voice, returns true if a hit was queued
func (ae *AudioEngine) TriggerAnchor(velocity float64) bool {
	gain, ok := ae.gain("anchor", velocity)
	if !ok {
		return false
	}
	ae.queue(beep.Take(ae.sr.N(kickDuration), NewKickGenerator(ae.sr, gain)))
	return true
}

// TriggerShimmer fires the snare voice
func (ae *AudioEngine) TriggerShimmer(velocity float64) bool {
	gain, ok := ae.gain("shimmer", velocity)
	if !ok {
		return false
	}
	ae.queue(beep.Take(ae.sr.N(snareDuration), NewSnareGenerator(ae.sr, gain)))
	return true
}

// TriggerAux fires the hat voice
func (ae *AudioEngine) TriggerAux(velocity float64) bool {
	gain, ok := ae.gain("aux", velocity)
	if !ok {
		return false
	}
	ae.queue(beep.Take(ae.sr.N(hatDuration), NewHatGenerator(ae.sr, gain)))
	return true
}

// gain resolves the final amplitude for a voice hit
func (ae *AudioEngine) gain(voice string, velocity float64) (float64, bool) {
	if !ae.running.Load() || ae.muted.Load() || ae.silentMode.Load() {
		return 0, false
	}

	ae.mu.RLock()
	g := ae.config.MasterVolume * ae.config.VoiceVolumes[voice] * velocity
	ae.mu.RUnlock()

	if g <= 0 {
		return 0, false
	}
	return g, true
}

// queue adds a hit to the live mixer. The speaker streams from the
// mixer on its own goroutine, so mutation happens under its lock.
func (ae *AudioEngine) queue(s beep.Streamer) {
	speaker.Lock()
	ae.mixer.Add(s)
	speaker.Unlock()
}

// ToggleMute toggles mute state, returns true if now enabled
func (ae *AudioEngine) ToggleMute() bool {
	newMute := !ae.muted.Load()
	ae.muted.Store(newMute)
	return !newMute
}

// IsMuted returns current mute state
func (ae *AudioEngine) IsMuted() bool {
	return ae.muted.Load()
}

// IsEnabled returns true if triggers can currently produce sound
func (ae *AudioEngine) IsEnabled() bool {
	return ae.running.Load() && !ae.muted.Load() && !ae.silentMode.Load()
}

// IsRunning returns true if engine is running (even in silent mode)
func (ae *AudioEngine) IsRunning() bool {
	return ae.running.Load()
}

// SetVolume updates master volume (0.0-1.0)
func (ae *AudioEngine) SetVolume(vol float64) {
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}

	ae.mu.Lock()
	ae.config.MasterVolume = vol
	ae.mu.Unlock()
}

// Volume returns current master volume
func (ae *AudioEngine) Volume() float64 {
	ae.mu.RLock()
	defer ae.mu.RUnlock()
	return ae.config.MasterVolume
}

// SampleRate returns the configured output rate
func (ae *AudioEngine) SampleRate() beep.SampleRate {
	return ae.sr
}
