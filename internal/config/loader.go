package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a tuning file describes an impossible world.
var ErrInvalidConfig = errors.New("config: invalid runner config")

// LoadRunner loads the runner tuning.
// Search order: customPath -> ~/.neonrun/configs/runner.yaml -> ./configs/runner.yaml -> embedded default
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "runner.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultRunnerYAML)
	if err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults, so a file only needs the keys it
// changes, and validates the result.
func Parse(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunnerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a config back to YAML.
func Marshal(cfg RunnerConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neonrun", "configs", filename)
}

// Validate checks the invariants the simulation relies on.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Road.Lanes < 1:
		return fmt.Errorf("%w: road.lanes must be at least 1", ErrInvalidConfig)
	case c.Road.SegmentCount < 2:
		return fmt.Errorf("%w: road.segment_count must be at least 2", ErrInvalidConfig)
	case c.Road.SegmentLength <= 0:
		return fmt.Errorf("%w: road.segment_length must be positive", ErrInvalidConfig)
	case c.City.ChunkLength <= 0:
		return fmt.Errorf("%w: city.chunk_length must be positive", ErrInvalidConfig)
	case c.Weather.Particles < 0:
		return fmt.Errorf("%w: weather.particles must not be negative", ErrInvalidConfig)
	case c.Weather.Ceiling <= c.Weather.Floor:
		return fmt.Errorf("%w: weather.ceiling must be above weather.floor", ErrInvalidConfig)
	case c.Player.StartLane < 0 || c.Player.StartLane >= c.Road.Lanes:
		return fmt.Errorf("%w: player.start_lane out of range", ErrInvalidConfig)
	case c.Player.Smoothing <= 0 || c.Player.Smoothing > 1:
		return fmt.Errorf("%w: player.smoothing must be in (0, 1]", ErrInvalidConfig)
	case c.Obstacles.PassZ <= c.Obstacles.SpawnZ:
		return fmt.Errorf("%w: obstacles.pass_z must be ahead of obstacles.spawn_z", ErrInvalidConfig)
	case c.Obstacles.Reward < 0:
		return fmt.Errorf("%w: obstacles.reward must not be negative", ErrInvalidConfig)
	case c.Progression.BaseSpeed <= 0:
		return fmt.Errorf("%w: progression.base_speed must be positive", ErrInvalidConfig)
	case c.Progression.SpeedPerFrame < 0 || c.Progression.LevelSpeed < 0 || c.Progression.SpikeSpeed < 0:
		return fmt.Errorf("%w: speed increments must not be negative", ErrInvalidConfig)
	case len(c.Progression.Thresholds) == 0:
		return fmt.Errorf("%w: progression.thresholds must not be empty", ErrInvalidConfig)
	case c.Progression.ThresholdStep <= 0:
		return fmt.Errorf("%w: progression.threshold_step must be positive", ErrInvalidConfig)
	}

	for i := 1; i < len(c.Progression.Thresholds); i++ {
		if c.Progression.Thresholds[i] <= c.Progression.Thresholds[i-1] {
			return fmt.Errorf("%w: progression.thresholds must increase", ErrInvalidConfig)
		}
	}
	return nil
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Progression.BaseSpeed *= 0.8
		cfg.Spawn.BaseChance *= 0.75
	case DifficultyHard:
		cfg.Progression.BaseSpeed *= 1.4
		cfg.Spawn.BaseChance *= 1.5
	case DifficultyFixed:
		cfg.Progression.SpeedPerFrame = 0
		cfg.Progression.LevelSpeed = 0
		cfg.Progression.SpikeSpeed = 0
	}
}
