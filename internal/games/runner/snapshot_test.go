package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/neon-runner/internal/core"
)

func TestSnapshotContents(t *testing.T) {
	g := newRunning(WithSampler(&onceSampler{lane: 2}))
	stepN(g, 3)

	s := g.Snapshot()
	if s.Phase != "Running" || s.Frame != 3 {
		t.Errorf("phase/frame = %s/%d", s.Phase, s.Frame)
	}
	if len(s.Segments) != g.cfg.Road.SegmentCount {
		t.Errorf("segments = %d", len(s.Segments))
	}
	if len(s.Chunks) != cityChunks {
		t.Errorf("chunks = %d", len(s.Chunks))
	}
	if len(s.Rain) != g.cfg.Weather.Particles {
		t.Errorf("rain = %d, want %d", len(s.Rain), g.cfg.Weather.Particles)
	}
	if len(s.Obstacles) != 1 || s.Obstacles[0].Lane != 2 {
		t.Fatalf("obstacles = %+v", s.Obstacles)
	}
	if s.Obstacles[0].X != g.lane.Offset(2) {
		t.Errorf("obstacle x = %v", s.Obstacles[0].X)
	}
	if s.Player.Lane != g.cfg.Player.StartLane || s.Player.Z != g.cfg.Player.Z {
		t.Errorf("player = %+v", s.Player)
	}
}

func TestSnapshotIntoReusesSlices(t *testing.T) {
	g := newRunning(WithSampler(neverSpawn))

	var s Snapshot
	g.SnapshotInto(&s, false)
	if s.Rain != nil {
		t.Error("rain copied without withRain")
	}
	seg := &s.Segments[0]

	g.Step(core.InputFrame{}, time.Second/60)
	g.SnapshotInto(&s, false)
	if &s.Segments[0] != seg {
		t.Error("segment slice reallocated")
	}
	if s.Frame != 1 {
		t.Errorf("frame = %d, want 1", s.Frame)
	}
}
