package runner

import (
	"math"
	"math/rand"
	"testing"
)

func newTestWorld() *World {
	w := NewWorld(testConfig())
	w.Lay(rand.New(rand.NewSource(1)))
	return w
}

func assertRing(t *testing.T, w *World) {
	t.Helper()
	if len(w.Segments()) != 25 {
		t.Fatalf("ring has %d segments, want 25", len(w.Segments()))
	}
	for i := 1; i < 25; i++ {
		gap := w.Segment(i-1) - w.Segment(i)
		if math.Abs(gap-10) > 1e-6 {
			t.Fatalf("segment %d gap = %v, want 10", i, gap)
		}
	}
}

func assertChunks(t *testing.T, w *World) {
	t.Helper()
	c := w.Chunks()
	if d := math.Abs(c[0] - c[1]); math.Abs(d-500) > 1e-6 {
		t.Fatalf("chunk spacing = %v, want 500", d)
	}
}

func TestWorldLay(t *testing.T) {
	w := newTestWorld()
	if w.Segment(0) != 0 || w.Segment(24) != -240 {
		t.Errorf("segments laid at %v..%v, want 0..-240", w.Segment(0), w.Segment(24))
	}
	c := w.Chunks()
	if c[0] != 0 || c[1] != -500 {
		t.Errorf("chunks = %v, want [0 -500]", c)
	}
	for _, p := range w.Rain() {
		if p.Y < 0 || p.Y >= 200 || math.Abs(p.X) > 200 || math.Abs(p.Z) > 200 {
			t.Fatalf("rain particle out of field: %+v", p)
		}
	}
}

func TestWorldRecyclesFrontSegment(t *testing.T) {
	w := newTestWorld()

	w.Advance(15, 1)
	if w.SegmentRecycles() != 0 {
		t.Error("segment at exactly z=15 must not recycle")
	}

	w.Advance(0.5, 1)
	if w.SegmentRecycles() != 1 {
		t.Fatalf("recycles = %d, want 1", w.SegmentRecycles())
	}
	if w.Segment(24) != w.Segment(23)-10 {
		t.Errorf("recycled segment not behind the rear: %v after %v", w.Segment(24), w.Segment(23))
	}
	assertRing(t, w)
}

func TestWorldRecyclesLargeStep(t *testing.T) {
	w := newTestWorld()
	w.Advance(100, 1)

	if w.Segment(0) > 15 {
		t.Errorf("front segment left at z=%v after large step", w.Segment(0))
	}
	assertRing(t, w)
}

func TestWorldChunksWrap(t *testing.T) {
	w := newTestWorld()

	// Chunk 0 passes z=200 after 400 units of road travel at half parallax.
	w.Advance(401, 1)
	if w.ChunkWraps() != 1 {
		t.Fatalf("wraps = %d, want 1", w.ChunkWraps())
	}
	c := w.Chunks()
	if math.Abs(c[0]-(200.5-1000)) > 1e-9 {
		t.Errorf("wrapped chunk z = %v, want -799.5", c[0])
	}
	assertChunks(t, w)
}

func TestWorldRainWraps(t *testing.T) {
	w := newTestWorld()
	w.rain[0].Y = -9
	w.rain[1].Y = 100
	x, z := w.rain[0].X, w.rain[0].Z

	w.Advance(0, 1)
	if w.rain[0].Y != 200 {
		t.Errorf("particle below floor y = %v, want 200", w.rain[0].Y)
	}
	if w.rain[0].X != x || w.rain[0].Z != z {
		t.Error("wrapped particle moved horizontally")
	}
	if w.rain[1].Y != 98 {
		t.Errorf("falling particle y = %v, want 98", w.rain[1].Y)
	}
}

func TestWorldInvariantsHoldUnderRandomSteps(t *testing.T) {
	w := newTestWorld()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		w.Advance(rng.Float64()*3, rng.Float64()*6)
		assertRing(t, w)
		assertChunks(t, w)
	}
	if w.SegmentRecycles() == 0 || w.ChunkWraps() == 0 {
		t.Error("expected recycling during a long run")
	}
}
