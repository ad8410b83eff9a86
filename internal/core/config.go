package core

import "time"

// RuntimeConfig contains configuration passed to the simulation at start.
// The platform fills it from CLI flags and the terminal/PTY size.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Frames per second requested from the frame driver (default 60)
	Seed     int64  // RNG seed for obstacle spawning (0 = time based)
	Player   string // Player identity for score reporting, empty = anonymous
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameInterval returns the wall time between two scheduled frames.
func (c RuntimeConfig) FrameInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// GameState is the read-only session summary handed to the platform.
type GameState struct {
	Phase      Phase
	Active     bool    // Session is running and the loop should keep scheduling
	Score      int     // Current score
	FinalScore int     // Score recorded at game over
	Level      int     // Current level, starts at 1
	Speed      float64 // World units per nominal frame
	SpeedKMH   int     // Speed display value
	Banner     string  // Transient level-up banner, empty when hidden
	Frames     int     // Steps simulated in the current session
}

// GameOver reports whether the session has ended.
func (s GameState) GameOver() bool {
	return s.Phase == PhaseGameOver
}

// StepResult is returned by a simulation step.
type StepResult struct {
	State GameState

	Scored   bool // An obstacle passed the player this step
	LevelUp  bool // The level increased this step
	Collided bool // The session ended this step
}
