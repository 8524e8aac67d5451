package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds the audition output settings. Values come from the
// environment so the CLI and the monitor share one configuration
// surface.
type Config struct {
	Enabled      bool
	MasterVolume float64
	SampleRate   int
	Tempo        float64
	VoiceVolumes map[string]float64
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.8,
		SampleRate:   44100,
		Tempo:        120,
		VoiceVolumes: map[string]float64{
			"anchor":  1.0,
			"shimmer": 0.9,
			"aux":     0.7,
		},
	}
}

// LoadConfig loads the audition configuration from DUOPULSE_*
// environment variables. Unparseable values keep their defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("DUOPULSE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume arrives as 0-100.
	if volume := os.Getenv("DUOPULSE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = float64(val) / 100.0
			if cfg.MasterVolume < 0 {
				cfg.MasterVolume = 0
			}
			if cfg.MasterVolume > 1 {
				cfg.MasterVolume = 1
			}
		}
	}

	if rate := os.Getenv("DUOPULSE_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if tempo := os.Getenv("DUOPULSE_TEMPO"); tempo != "" {
		if val, err := strconv.ParseFloat(tempo, 64); err == nil && val > 0 {
			cfg.Tempo = val
		}
	}

	// Per-voice volumes from JSON, keyed by voice name.
	if vols := os.Getenv("DUOPULSE_VOICE_VOLUMES"); vols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(vols), &volumes); err == nil {
			for name, v := range volumes {
				if _, ok := cfg.VoiceVolumes[name]; ok && v >= 0 && v <= 1 {
					cfg.VoiceVolumes[name] = v
				}
			}
		}
	}

	return cfg
}

// SaveConfig writes the configuration back to the environment so the
// next LoadConfig, including one in a child process, sees it.
func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil audio config")
	}

	if err := os.Setenv("DUOPULSE_AUDIO_ENABLED", strconv.FormatBool(cfg.Enabled)); err != nil {
		return err
	}
	if err := os.Setenv("DUOPULSE_MASTER_VOLUME", strconv.Itoa(int(cfg.MasterVolume*100))); err != nil {
		return err
	}
	if err := os.Setenv("DUOPULSE_SAMPLE_RATE", strconv.Itoa(cfg.SampleRate)); err != nil {
		return err
	}
	if err := os.Setenv("DUOPULSE_TEMPO", strconv.FormatFloat(cfg.Tempo, 'f', -1, 64)); err != nil {
		return err
	}

	vols, err := json.Marshal(cfg.VoiceVolumes)
	if err != nil {
		return err
	}
	return os.Setenv("DUOPULSE_VOICE_VOLUMES", string(vols))
}
