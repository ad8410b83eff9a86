package core

import "time"

const (
	// NominalFrame is the frame length the reference tuning was written for.
	// Motion constants are expressed per nominal frame.
	NominalFrame = time.Second / 60

	// MaxFrameDelta caps the delta handed to a step after a stall.
	MaxFrameDelta = 100 * time.Millisecond
)

// ClampDelta restricts a frame delta to [0, MaxFrameDelta].
func ClampDelta(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxFrameDelta {
		return MaxFrameDelta
	}
	return d
}

// FrameScale converts a delta into nominal frames.
func FrameScale(d time.Duration) float64 {
	return float64(ClampDelta(d)) / float64(NominalFrame)
}

// FrameClock measures wall time between frames.
type FrameClock struct {
	last  time.Time
	armed bool
}

// Arm resets the clock so the next Tick reports the nominal delta.
func (c *FrameClock) Arm() {
	c.armed = false
}

// Tick returns the clamped time elapsed since the previous tick.
func (c *FrameClock) Tick(now time.Time) time.Duration {
	if !c.armed {
		c.armed = true
		c.last = now
		return NominalFrame
	}
	d := now.Sub(c.last)
	c.last = now
	return ClampDelta(d)
}
