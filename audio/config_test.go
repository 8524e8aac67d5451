package audio

import (
	"os"
	"testing"
)

// TestDefaultConfig verifies default configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil default config")
	}

	if !cfg.Enabled {
		t.Error("Expected default config to have Enabled=true")
	}

	if cfg.MasterVolume != 0.8 {
		t.Errorf("Expected default master volume 0.8, got %f", cfg.MasterVolume)
	}

	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}

	if cfg.Tempo != 120 {
		t.Errorf("Expected default tempo 120, got %f", cfg.Tempo)
	}

	// Every playback voice needs a volume entry
	for _, voice := range []string{"anchor", "shimmer", "aux"} {
		if _, ok := cfg.VoiceVolumes[voice]; !ok {
			t.Errorf("Expected volume for voice %s to be set", voice)
		}
	}
}

// TestLoadConfigDefaults verifies loading with no env vars
func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("DUOPULSE_AUDIO_ENABLED")
	os.Unsetenv("DUOPULSE_MASTER_VOLUME")
	os.Unsetenv("DUOPULSE_SAMPLE_RATE")
	os.Unsetenv("DUOPULSE_TEMPO")
	os.Unsetenv("DUOPULSE_VOICE_VOLUMES")

	cfg := LoadConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil config")
	}

	defaultCfg := DefaultConfig()

	if cfg.Enabled != defaultCfg.Enabled {
		t.Errorf("Expected Enabled=%v, got %v", defaultCfg.Enabled, cfg.Enabled)
	}

	if cfg.MasterVolume != defaultCfg.MasterVolume {
		t.Errorf("Expected MasterVolume=%f, got %f", defaultCfg.MasterVolume, cfg.MasterVolume)
	}

	if cfg.SampleRate != defaultCfg.SampleRate {
		t.Errorf("Expected SampleRate=%d, got %d", defaultCfg.SampleRate, cfg.SampleRate)
	}

	if cfg.Tempo != defaultCfg.Tempo {
		t.Errorf("Expected Tempo=%f, got %f", defaultCfg.Tempo, cfg.Tempo)
	}
}

// TestLoadConfigEnabled verifies loading enabled flag
func TestLoadConfigEnabled(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_AUDIO_ENABLED")

	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("DUOPULSE_AUDIO_ENABLED", tc.value)
			cfg := LoadConfig()

			if cfg.Enabled != tc.expected {
				t.Errorf("Expected Enabled=%v for value %s, got %v", tc.expected, tc.value, cfg.Enabled)
			}
		})
	}
}

// TestLoadConfigMasterVolume verifies loading master volume
func TestLoadConfigMasterVolume(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_MASTER_VOLUME")

	testCases := []struct {
		value    string
		expected float64
	}{
		{"0", 0.0},
		{"50", 0.5},
		{"100", 1.0},
		{"75", 0.75},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("DUOPULSE_MASTER_VOLUME", tc.value)
			cfg := LoadConfig()

			if cfg.MasterVolume != tc.expected {
				t.Errorf("Expected MasterVolume=%f for value %s, got %f", tc.expected, tc.value, cfg.MasterVolume)
			}
		})
	}
}

// TestLoadConfigMasterVolumeClamp verifies volume clamping
func TestLoadConfigMasterVolumeClamp(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_MASTER_VOLUME")

	testCases := []struct {
		value    string
		expected float64
	}{
		{"-50", 0.0},
		{"150", 1.0},
		{"200", 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("DUOPULSE_MASTER_VOLUME", tc.value)
			cfg := LoadConfig()

			if cfg.MasterVolume != tc.expected {
				t.Errorf("Expected MasterVolume=%f for value %s (clamped), got %f", tc.expected, tc.value, cfg.MasterVolume)
			}
		})
	}
}

// TestLoadConfigSampleRate verifies loading sample rate
func TestLoadConfigSampleRate(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_SAMPLE_RATE")

	testCases := []struct {
		value    string
		expected int
	}{
		{"22050", 22050},
		{"44100", 44100},
		{"48000", 48000},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("DUOPULSE_SAMPLE_RATE", tc.value)
			cfg := LoadConfig()

			if cfg.SampleRate != tc.expected {
				t.Errorf("Expected SampleRate=%d for value %s, got %d", tc.expected, tc.value, cfg.SampleRate)
			}
		})
	}
}

// TestLoadConfigSampleRateInvalid verifies handling of invalid sample rate
func TestLoadConfigSampleRateInvalid(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_SAMPLE_RATE")

	defaultRate := DefaultConfig().SampleRate

	testCases := []string{
		"invalid",
		"-1000",
		"0",
		"",
	}

	for _, value := range testCases {
		t.Run(value, func(t *testing.T) {
			os.Setenv("DUOPULSE_SAMPLE_RATE", value)
			cfg := LoadConfig()

			if cfg.SampleRate != defaultRate {
				t.Errorf("Expected default SampleRate=%d for invalid value %s, got %d", defaultRate, value, cfg.SampleRate)
			}
		})
	}
}

// TestLoadConfigTempo verifies loading tempo
func TestLoadConfigTempo(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_TEMPO")

	testCases := []struct {
		value    string
		expected float64
	}{
		{"90", 90},
		{"128", 128},
		{"133.5", 133.5},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("DUOPULSE_TEMPO", tc.value)
			cfg := LoadConfig()

			if cfg.Tempo != tc.expected {
				t.Errorf("Expected Tempo=%f for value %s, got %f", tc.expected, tc.value, cfg.Tempo)
			}
		})
	}
}

// TestLoadConfigTempoInvalid verifies handling of invalid tempo
func TestLoadConfigTempoInvalid(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_TEMPO")

	defaultTempo := DefaultConfig().Tempo

	for _, value := range []string{"not-a-number", "-120", "0"} {
		t.Run(value, func(t *testing.T) {
			os.Setenv("DUOPULSE_TEMPO", value)
			cfg := LoadConfig()

			if cfg.Tempo != defaultTempo {
				t.Errorf("Expected default Tempo=%f for invalid value %s, got %f", defaultTempo, value, cfg.Tempo)
			}
		})
	}
}

// TestLoadConfigVoiceVolumes verifies loading per-voice volumes
func TestLoadConfigVoiceVolumes(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_VOICE_VOLUMES")

	jsonValue := `{"anchor": 0.9, "shimmer": 0.8, "aux": 0.5}`
	os.Setenv("DUOPULSE_VOICE_VOLUMES", jsonValue)

	cfg := LoadConfig()

	expectedVolumes := map[string]float64{
		"anchor":  0.9,
		"shimmer": 0.8,
		"aux":     0.5,
	}

	for voice, expectedVol := range expectedVolumes {
		if vol, ok := cfg.VoiceVolumes[voice]; !ok {
			t.Errorf("Expected volume for voice %s to be set", voice)
		} else if vol != expectedVol {
			t.Errorf("Expected volume %f for voice %s, got %f", expectedVol, voice, vol)
		}
	}
}

// TestLoadConfigVoiceVolumesInvalid verifies handling of invalid JSON
func TestLoadConfigVoiceVolumesInvalid(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_VOICE_VOLUMES")

	os.Setenv("DUOPULSE_VOICE_VOLUMES", "invalid json")

	cfg := LoadConfig()
	defaultCfg := DefaultConfig()

	for voice, expectedVol := range defaultCfg.VoiceVolumes {
		if vol, ok := cfg.VoiceVolumes[voice]; !ok {
			t.Errorf("Expected volume for voice %s to be set", voice)
		} else if vol != expectedVol {
			t.Errorf("Expected default volume %f for voice %s, got %f", expectedVol, voice, vol)
		}
	}
}

// TestLoadConfigVoiceVolumesUnknownVoice verifies unknown names are dropped
func TestLoadConfigVoiceVolumesUnknownVoice(t *testing.T) {
	defer os.Unsetenv("DUOPULSE_VOICE_VOLUMES")

	os.Setenv("DUOPULSE_VOICE_VOLUMES", `{"cowbell": 1.0, "aux": 0.4}`)

	cfg := LoadConfig()

	if _, ok := cfg.VoiceVolumes["cowbell"]; ok {
		t.Error("Expected unknown voice name to be ignored")
	}

	if vol := cfg.VoiceVolumes["aux"]; vol != 0.4 {
		t.Errorf("Expected aux volume 0.4, got %f", vol)
	}
}

// TestSaveConfig verifies saving configuration
func TestSaveConfig(t *testing.T) {
	defer func() {
		os.Unsetenv("DUOPULSE_AUDIO_ENABLED")
		os.Unsetenv("DUOPULSE_MASTER_VOLUME")
		os.Unsetenv("DUOPULSE_SAMPLE_RATE")
		os.Unsetenv("DUOPULSE_TEMPO")
		os.Unsetenv("DUOPULSE_VOICE_VOLUMES")
	}()

	cfg := &Config{
		Enabled:      true,
		MasterVolume: 0.75,
		SampleRate:   48000,
		Tempo:        128,
		VoiceVolumes: map[string]float64{
			"anchor":  0.9,
			"shimmer": 0.8,
			"aux":     0.6,
		},
	}

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if enabled := os.Getenv("DUOPULSE_AUDIO_ENABLED"); enabled != "true" {
		t.Errorf("Expected DUOPULSE_AUDIO_ENABLED=true, got %s", enabled)
	}

	if volume := os.Getenv("DUOPULSE_MASTER_VOLUME"); volume != "75" {
		t.Errorf("Expected DUOPULSE_MASTER_VOLUME=75, got %s", volume)
	}

	if rate := os.Getenv("DUOPULSE_SAMPLE_RATE"); rate != "48000" {
		t.Errorf("Expected DUOPULSE_SAMPLE_RATE=48000, got %s", rate)
	}

	// Load and verify roundtrip
	loadedCfg := LoadConfig()

	if loadedCfg.Enabled != cfg.Enabled {
		t.Errorf("Roundtrip failed: Enabled=%v, expected %v", loadedCfg.Enabled, cfg.Enabled)
	}

	if loadedCfg.MasterVolume != cfg.MasterVolume {
		t.Errorf("Roundtrip failed: MasterVolume=%f, expected %f", loadedCfg.MasterVolume, cfg.MasterVolume)
	}

	if loadedCfg.SampleRate != cfg.SampleRate {
		t.Errorf("Roundtrip failed: SampleRate=%d, expected %d", loadedCfg.SampleRate, cfg.SampleRate)
	}

	if loadedCfg.Tempo != cfg.Tempo {
		t.Errorf("Roundtrip failed: Tempo=%f, expected %f", loadedCfg.Tempo, cfg.Tempo)
	}

	for voice, expectedVol := range cfg.VoiceVolumes {
		if vol, ok := loadedCfg.VoiceVolumes[voice]; !ok {
			t.Errorf("Roundtrip failed: volume for voice %s not set", voice)
		} else if vol != expectedVol {
			t.Errorf("Roundtrip failed: volume %f for voice %s, expected %f", vol, voice, expectedVol)
		}
	}
}

// TestSaveConfigNil verifies nil config is rejected
func TestSaveConfigNil(t *testing.T) {
	if err := SaveConfig(nil); err == nil {
		t.Error("Expected error saving nil config")
	}
}
