package core

import (
	"testing"
	"time"
)

func TestFrameClockFirstTickIsNominal(t *testing.T) {
	var c FrameClock
	if got := c.Tick(time.Now()); got != NominalFrame {
		t.Errorf("first Tick() = %v, expected %v", got, NominalFrame)
	}
}

func TestFrameClockDeltas(t *testing.T) {
	var c FrameClock
	start := time.Unix(1000, 0)
	c.Tick(start)

	if got := c.Tick(start.Add(16 * time.Millisecond)); got != 16*time.Millisecond {
		t.Errorf("Tick() = %v, expected 16ms", got)
	}

	// A stall is clamped
	if got := c.Tick(start.Add(5 * time.Second)); got != MaxFrameDelta {
		t.Errorf("Tick() after stall = %v, expected %v", got, MaxFrameDelta)
	}

	// Time going backwards yields zero, never negative
	if got := c.Tick(start); got != 0 {
		t.Errorf("Tick() with earlier time = %v, expected 0", got)
	}
}

func TestFrameClockArm(t *testing.T) {
	var c FrameClock
	start := time.Unix(1000, 0)
	c.Tick(start)
	c.Arm()
	if got := c.Tick(start.Add(time.Hour)); got != NominalFrame {
		t.Errorf("Tick() after Arm = %v, expected nominal", got)
	}
}

func TestFrameScale(t *testing.T) {
	if got := FrameScale(NominalFrame); got != 1.0 {
		t.Errorf("FrameScale(nominal) = %v, expected 1", got)
	}
	if got := FrameScale(0); got != 0 {
		t.Errorf("FrameScale(0) = %v, expected 0", got)
	}
	if got := FrameScale(time.Hour); got != FrameScale(MaxFrameDelta) {
		t.Errorf("FrameScale should clamp, got %v", got)
	}
}
