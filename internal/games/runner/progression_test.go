package runner

import (
	"math"
	"testing"

	"github.com/vovakirdan/neon-runner/internal/config"
)

func TestNextLevelThreshold(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Progression
	tests := []struct {
		level int
		want  int
	}{
		{0, 100},
		{1, 100},
		{2, 200},
		{3, 350},
		{6, 800},
		{7, 1000},
		{8, 1200},
		{9, 1400},
		{12, 2000},
	}
	for _, tt := range tests {
		if got := NextLevelThreshold(cfg, tt.level); got != tt.want {
			t.Errorf("NextLevelThreshold(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestThresholdsIncrease(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Progression
	prev := 0
	for level := 1; level < 50; level++ {
		next := NextLevelThreshold(cfg, level)
		if next <= prev {
			t.Fatalf("threshold for level %d (%d) not above previous (%d)", level, next, prev)
		}
		prev = next
	}
}

func TestLevelUpSpeedIncrements(t *testing.T) {
	p := NewProgression(config.DefaultRunnerConfig().Progression)
	base := p.Speed()

	if p.CheckLevelUp(99) {
		t.Fatal("99 points must not level up")
	}

	// Level 2: standard increment only.
	if !p.CheckLevelUp(100) || p.Level() != 2 {
		t.Fatalf("level = %d after 100 points, want 2", p.Level())
	}
	if math.Abs(p.Speed()-(base+0.05)) > 1e-12 {
		t.Errorf("speed at level 2 = %v, want %v", p.Speed(), base+0.05)
	}

	// Level 3: standard increment plus the spike.
	if !p.CheckLevelUp(200) || p.Level() != 3 {
		t.Fatalf("level = %d after 200 points, want 3", p.Level())
	}
	if math.Abs(p.Speed()-(base+0.05+0.15)) > 1e-12 {
		t.Errorf("speed at level 3 = %v, want %v", p.Speed(), base+0.2)
	}
}

func TestLevelSevenEightBoundary(t *testing.T) {
	p := NewProgression(config.DefaultRunnerConfig().Progression)
	p.level = 7

	if p.CheckLevelUp(999) {
		t.Error("999 points must not leave level 7")
	}
	if !p.CheckLevelUp(1000) || p.Level() != 8 {
		t.Fatalf("level = %d, want 8", p.Level())
	}
	if p.CheckLevelUp(1199) {
		t.Error("1199 points must not leave level 8")
	}

	before := p.Speed()
	if !p.CheckLevelUp(1200) || p.Level() != 9 {
		t.Fatalf("level = %d, want 9", p.Level())
	}
	if math.Abs(p.Speed()-before-0.15) > 1e-12 {
		t.Errorf("level 9 speed step = %v, want 0.15", p.Speed()-before)
	}
}

func TestOneLevelPerCheck(t *testing.T) {
	p := NewProgression(config.DefaultRunnerConfig().Progression)
	p.CheckLevelUp(5000)
	if p.Level() != 2 {
		t.Errorf("level = %d, want a single step to 2", p.Level())
	}
}

func TestKMH(t *testing.T) {
	p := NewProgression(config.DefaultRunnerConfig().Progression)
	if p.KMH() != 50 {
		t.Errorf("KMH at base speed = %d, want 50", p.KMH())
	}
	p.speed = 0.30499
	if p.KMH() != 60 {
		t.Errorf("KMH = %d, want floor to 60", p.KMH())
	}
}

func TestFixedPresetHoldsSpeed(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	config.ApplyPreset(&cfg, config.DifficultyFixed)
	p := NewProgression(cfg.Progression)

	for i := 0; i < 100; i++ {
		p.Accelerate()
	}
	p.CheckLevelUp(100)
	p.CheckLevelUp(200)
	if p.Speed() != cfg.Progression.BaseSpeed {
		t.Errorf("speed = %v, want constant %v", p.Speed(), cfg.Progression.BaseSpeed)
	}
	if p.Level() != 3 {
		t.Errorf("levels still count under fixed speed, got %d", p.Level())
	}
}
