package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// laneOffsets returns the x offset of every lane, centred on x = 0.
func laneOffsets(lanes int, width float64) []float64 {
	offsets := make([]float64, lanes)
	mid := float64(lanes-1) / 2
	for i := range offsets {
		offsets[i] = (float64(i) - mid) * width
	}
	return offsets
}

// Lane tracks the player's discrete target lane and the smoothed lateral
// position that chases it.
type Lane struct {
	offsets    []float64
	target     int
	x          float64
	roll       float64
	smoothing  float64 // Fraction of the remaining distance closed per nominal frame
	rollFactor float64
}

// NewLane creates a lane controller parked on the given lane.
func NewLane(road config.RoadConfig, player config.PlayerConfig) *Lane {
	l := &Lane{
		offsets:    laneOffsets(road.Lanes, road.LaneWidth),
		smoothing:  player.Smoothing,
		rollFactor: player.RollFactor,
	}
	l.Reset(player.StartLane)
	return l
}

// Reset snaps the player onto a lane with no banking.
func (l *Lane) Reset(lane int) {
	l.target = core.Clamp(lane, 0, len(l.offsets)-1)
	l.x = l.offsets[l.target]
	l.roll = 0
}

// SetTarget moves the target one lane left or right. It returns false when
// the player is already on the edge lane or the action is not a lane intent.
func (l *Lane) SetTarget(intent core.Action) bool {
	next := l.target
	switch intent {
	case core.ActionLaneLeft:
		next--
	case core.ActionLaneRight:
		next++
	default:
		return false
	}

	if next < 0 || next >= len(l.offsets) {
		return false
	}
	l.target = next
	return true
}

// Tick moves x toward the target offset. At the nominal frame length exactly
// the configured fraction of the gap is closed; other deltas close the
// equivalent compounded fraction.
func (l *Lane) Tick(delta time.Duration) {
	scale := core.FrameScale(delta)
	alpha := 1 - math.Pow(1-l.smoothing, scale)

	tx := l.offsets[l.target]
	l.x += (tx - l.x) * alpha
	l.roll = (l.x - tx) * l.rollFactor
}

// Target returns the discrete target lane index.
func (l *Lane) Target() int { return l.target }

// X returns the rendered lateral position.
func (l *Lane) X() float64 { return l.x }

// Roll returns the banking angle derived from the remaining lateral gap.
func (l *Lane) Roll() float64 { return l.roll }

// Count returns the number of lanes.
func (l *Lane) Count() int { return len(l.offsets) }

// Offset returns the x offset of lane i.
func (l *Lane) Offset(i int) float64 { return l.offsets[i] }
