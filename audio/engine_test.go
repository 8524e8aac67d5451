package audio

import (
	"sync"
	"testing"
)

// TestNewAudioEngine verifies audio engine initialization
func TestNewAudioEngine(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if ae == nil {
		t.Fatal("Expected non-nil audio engine")
	}

	if ae.IsMuted() {
		t.Error("Expected engine to start unmuted with Enabled=true")
	}

	if ae.IsRunning() {
		t.Error("Expected audio engine to not be running before Start()")
	}
}

// TestNewAudioEngineDisabled verifies disabled config starts muted
func TestNewAudioEngineDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	ae := NewAudioEngine(cfg)

	if !ae.IsMuted() {
		t.Error("Expected engine to start muted with Enabled=false")
	}
}

// TestAudioEngineStartStop verifies engine lifecycle
func TestAudioEngineStartStop(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	// Start never fails; without a device it runs silent
	if err := ae.Start(); err != nil {
		t.Fatalf("Failed to start audio engine: %v", err)
	}

	if !ae.IsRunning() {
		t.Error("Expected engine to be running after Start()")
	}

	if err := ae.Start(); err == nil {
		t.Error("Expected error starting an already running engine")
	}

	ae.Stop()

	if ae.IsRunning() {
		t.Error("Expected engine to be stopped after Stop()")
	}

	// Verify idempotent stop
	ae.Stop()
	if ae.IsRunning() {
		t.Error("Expected engine to remain stopped after second Stop()")
	}
}

// TestAudioEngineMuteToggle verifies mute functionality
func TestAudioEngineMuteToggle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	ae := NewAudioEngine(cfg)

	if !ae.IsMuted() {
		t.Error("Expected engine to start muted")
	}

	// Toggle unmute
	enabled := ae.ToggleMute()
	if !enabled {
		t.Error("Expected ToggleMute to return true when unmuting")
	}
	if ae.IsMuted() {
		t.Error("Expected engine to be unmuted after toggle")
	}

	// Toggle mute
	enabled = ae.ToggleMute()
	if enabled {
		t.Error("Expected ToggleMute to return false when muting")
	}
	if !ae.IsMuted() {
		t.Error("Expected engine to be muted after second toggle")
	}
}

// TestAudioEngineTriggerBeforeStart verifies triggers are dropped before Start
func TestAudioEngineTriggerBeforeStart(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if ae.TriggerAnchor(1.0) {
		t.Error("Expected TriggerAnchor to return false before Start()")
	}
	if ae.TriggerShimmer(1.0) {
		t.Error("Expected TriggerShimmer to return false before Start()")
	}
	if ae.TriggerAux(1.0) {
		t.Error("Expected TriggerAux to return false before Start()")
	}
}

// TestAudioEngineTriggerWhileMuted verifies triggers are dropped when muted
func TestAudioEngineTriggerWhileMuted(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if err := ae.Start(); err != nil {
		t.Fatalf("Failed to start audio engine: %v", err)
	}
	defer ae.Stop()

	ae.ToggleMute()
	if !ae.IsMuted() {
		t.Fatal("Expected engine to be muted")
	}

	if ae.TriggerAnchor(1.0) {
		t.Error("Expected TriggerAnchor to return false when muted")
	}
}

// TestAudioEngineTriggerMatchesEnabled verifies trigger result tracks IsEnabled
func TestAudioEngineTriggerMatchesEnabled(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if err := ae.Start(); err != nil {
		t.Fatalf("Failed to start audio engine: %v", err)
	}
	defer ae.Stop()

	// Whether a device opened or silent mode kicked in, the trigger
	// result must agree with IsEnabled.
	sent := ae.TriggerAnchor(1.0)
	if sent != ae.IsEnabled() {
		t.Errorf("Expected trigger result %v to match IsEnabled", ae.IsEnabled())
	}
}

// TestAudioEngineZeroVelocity verifies silent hits are not queued
func TestAudioEngineZeroVelocity(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if err := ae.Start(); err != nil {
		t.Fatalf("Failed to start audio engine: %v", err)
	}
	defer ae.Stop()

	if ae.TriggerAnchor(0) {
		t.Error("Expected zero-velocity trigger to return false")
	}

	ae.SetVolume(0)
	if ae.TriggerShimmer(1.0) {
		t.Error("Expected trigger at zero master volume to return false")
	}
}

// TestAudioEngineVolumeControl verifies volume setting and clamping
func TestAudioEngineVolumeControl(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	for _, vol := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		ae.SetVolume(vol)
		if got := ae.Volume(); got != vol {
			t.Errorf("Expected volume %f, got %f", vol, got)
		}
	}

	ae.SetVolume(-0.5)
	if got := ae.Volume(); got != 0 {
		t.Errorf("Expected volume clamped to 0, got %f", got)
	}

	ae.SetVolume(1.5)
	if got := ae.Volume(); got != 1 {
		t.Errorf("Expected volume clamped to 1, got %f", got)
	}
}

// TestAudioEngineRapidStartStop verifies rapid lifecycle operations
func TestAudioEngineRapidStartStop(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	for i := 0; i < 5; i++ {
		if err := ae.Start(); err != nil {
			t.Fatalf("Failed to start audio engine on iteration %d: %v", i, err)
		}

		if !ae.IsRunning() {
			t.Errorf("Expected engine to be running on iteration %d", i)
		}

		ae.Stop()

		if ae.IsRunning() {
			t.Errorf("Expected engine to be stopped on iteration %d", i)
		}
	}
}

// TestAudioEngineThreadSafety verifies concurrent access safety
func TestAudioEngineThreadSafety(t *testing.T) {
	ae := NewAudioEngine(DefaultConfig())

	if err := ae.Start(); err != nil {
		t.Fatalf("Failed to start audio engine: %v", err)
	}
	defer ae.Stop()

	var wg sync.WaitGroup

	// Concurrent triggers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				switch j % 3 {
				case 0:
					ae.TriggerAnchor(0.9)
				case 1:
					ae.TriggerShimmer(0.7)
				case 2:
					ae.TriggerAux(0.5)
				}
			}
		}(i)
	}

	// Concurrent mute toggles
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				ae.ToggleMute()
			}
		}()
	}

	// Concurrent volume updates
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				ae.SetVolume(float64(j) / 10.0)
			}
		}()
	}

	wg.Wait()

	if !ae.IsRunning() {
		t.Error("Expected engine to still be running after concurrent access")
	}
}
