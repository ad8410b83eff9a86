// Package config provides YAML-based tuning for the runner and the
// difficulty presets exposed on the command line.
package config

import "time"

// RunnerConfig contains every tunable constant of the simulation.
type RunnerConfig struct {
	Road        RoadConfig        `yaml:"road"`
	City        CityConfig        `yaml:"city"`
	Weather     WeatherConfig     `yaml:"weather"`
	Player      PlayerConfig      `yaml:"player"`
	Obstacles   ObstacleConfig    `yaml:"obstacles"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	Progression ProgressionConfig `yaml:"progression"`
}

// RoadConfig defines the lanes and the recycled segment ring.
type RoadConfig struct {
	Lanes         int     `yaml:"lanes"`
	LaneWidth     float64 `yaml:"lane_width"`
	SegmentCount  int     `yaml:"segment_count"`
	SegmentLength float64 `yaml:"segment_length"`
	RecycleZ      float64 `yaml:"recycle_z"` // Front segment is recycled once past this z
}

// CityConfig defines the two-chunk background loop.
type CityConfig struct {
	ChunkLength float64 `yaml:"chunk_length"`
	Parallax    float64 `yaml:"parallax"`  // Fraction of road speed
	RecycleZ    float64 `yaml:"recycle_z"` // Chunk wraps back once past this z
	Buildings   int     `yaml:"buildings"` // Skyline blocks per chunk (render only)
}

// WeatherConfig defines the rain particle field.
type WeatherConfig struct {
	Particles int     `yaml:"particles"`
	FallRate  float64 `yaml:"fall_rate"` // Units per nominal frame
	Floor     float64 `yaml:"floor"`
	Ceiling   float64 `yaml:"ceiling"`
	Spread    float64 `yaml:"spread"` // Width and depth of the field
}

// PlayerConfig defines the player's car.
type PlayerConfig struct {
	Z          float64 `yaml:"z"`
	StartLane  int     `yaml:"start_lane"`
	Smoothing  float64 `yaml:"smoothing"`   // Fraction of the remaining lateral distance per nominal frame
	RollFactor float64 `yaml:"roll_factor"` // Banking per unit of lateral offset
}

// ObstacleConfig defines obstacle placement, scoring and hit boxes.
type ObstacleConfig struct {
	SpawnZ                float64 `yaml:"spawn_z"`
	MinSpacing            float64 `yaml:"min_spacing"` // Newest obstacle must be this far past SpawnZ
	PassZ                 float64 `yaml:"pass_z"`
	Reward                int     `yaml:"reward"`
	LateralTolerance      float64 `yaml:"lateral_tolerance"`
	LongitudinalTolerance float64 `yaml:"longitudinal_tolerance"`
}

// SpawnConfig defines the per-frame spawn probability.
type SpawnConfig struct {
	BaseChance  float64      `yaml:"base_chance"`
	LevelFactor float64      `yaml:"level_factor"`
	Bonuses     []SpawnBonus `yaml:"bonuses"`
}

// SpawnBonus adds a flat chance from a given level on.
type SpawnBonus struct {
	Level  int     `yaml:"level"`
	Chance float64 `yaml:"chance"`
}

// ProgressionConfig defines speed growth and level thresholds.
type ProgressionConfig struct {
	BaseSpeed      float64       `yaml:"base_speed"`      // Units per nominal frame at start
	SpeedPerFrame  float64       `yaml:"speed_per_frame"` // Continuous increase every frame
	LevelSpeed     float64       `yaml:"level_speed"`     // Added on every level-up
	SpikeEvery     int           `yaml:"spike_every"`     // Every Nth level adds SpikeSpeed as well
	SpikeSpeed     float64       `yaml:"spike_speed"`
	Thresholds     []int         `yaml:"thresholds"`     // Score to leave level 1, 2, ...
	ThresholdStep  int           `yaml:"threshold_step"` // Added per level past the table
	BannerDuration time.Duration `yaml:"banner_duration"`
	DisplayFactor  float64       `yaml:"display_factor"` // speed * factor = km/h readout
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
