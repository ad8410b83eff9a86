package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/neon-runner/internal/config"
)

// NextLevelThreshold returns the score needed to leave level. Levels inside
// the threshold table use it directly; past the table every level costs
// ThresholdStep more than the last entry.
func NextLevelThreshold(cfg config.ProgressionConfig, level int) int {
	if level < 1 {
		level = 1
	}
	n := len(cfg.Thresholds)
	if level <= n {
		return cfg.Thresholds[level-1]
	}
	return cfg.Thresholds[n-1] + (level-n)*cfg.ThresholdStep
}

// Progression owns level and speed.
type Progression struct {
	cfg   config.ProgressionConfig
	level int
	speed float64
}

// NewProgression creates a progression at level 1 and base speed.
func NewProgression(cfg config.ProgressionConfig) *Progression {
	p := &Progression{cfg: cfg}
	p.Reset()
	return p
}

// Reset returns to level 1 at base speed.
func (p *Progression) Reset() {
	p.level = 1
	p.speed = p.cfg.BaseSpeed
}

// Accelerate applies the continuous per-step speed increase.
func (p *Progression) Accelerate() {
	p.speed += p.cfg.SpeedPerFrame
}

// CheckLevelUp raises the level by one if score reached the current
// threshold. Every SpikeEvery-th level adds the spike on top of the
// regular level speed.
func (p *Progression) CheckLevelUp(score int) bool {
	if score < NextLevelThreshold(p.cfg, p.level) {
		return false
	}
	p.level++
	p.speed += p.cfg.LevelSpeed
	if p.cfg.SpikeEvery > 0 && p.level%p.cfg.SpikeEvery == 0 {
		p.speed += p.cfg.SpikeSpeed
	}
	return true
}

// Level returns the current level.
func (p *Progression) Level() int { return p.level }

// Speed returns world units per nominal frame.
func (p *Progression) Speed() float64 { return p.speed }

// KMH returns the speed readout.
func (p *Progression) KMH() int {
	return int(math.Floor(p.speed * p.cfg.DisplayFactor))
}

// levelBanner is the text shown after a level-up.
func levelBanner(level int) string {
	return fmt.Sprintf("LEVEL %d", level)
}
