package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the reference tuning.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Road: RoadConfig{
			Lanes:         3,
			LaneWidth:     3,
			SegmentCount:  25,
			SegmentLength: 10,
			RecycleZ:      15,
		},
		City: CityConfig{
			ChunkLength: 500,
			Parallax:    0.5,
			RecycleZ:    200,
			Buildings:   150,
		},
		Weather: WeatherConfig{
			Particles: 15000,
			FallRate:  2,
			Floor:     -10,
			Ceiling:   200,
			Spread:    400,
		},
		Player: PlayerConfig{
			Z:          5,
			StartLane:  1,
			Smoothing:  0.1,
			RollFactor: 0.1,
		},
		Obstacles: ObstacleConfig{
			SpawnZ:                -80,
			MinSpacing:            20,
			PassZ:                 10,
			Reward:                10,
			LateralTolerance:      1.0,
			LongitudinalTolerance: 2.0,
		},
		Spawn: SpawnConfig{
			BaseChance:  0.02,
			LevelFactor: 0.002,
			Bonuses: []SpawnBonus{
				{Level: 3, Chance: 0.01},
				{Level: 6, Chance: 0.01},
			},
		},
		Progression: ProgressionConfig{
			BaseSpeed:      0.25,
			SpeedPerFrame:  0.0001,
			LevelSpeed:     0.05,
			SpikeEvery:     3,
			SpikeSpeed:     0.1,
			Thresholds:     []int{100, 200, 350, 500, 650, 800, 1000},
			ThresholdStep:  200,
			BannerDuration: time.Second,
			DisplayFactor:  200,
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
