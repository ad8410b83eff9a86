package runner

import (
	"math/rand"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// cityChunks is the number of backdrop chunks that leapfrog each other.
const cityChunks = 2

// World streams the recycled scenery: the road segment ring, the city
// backdrop chunks and the rain field. Nothing is created after Lay.
type World struct {
	road    config.RoadConfig
	city    config.CityConfig
	weather config.WeatherConfig

	segments []float64 // Ring of segment z positions
	head     int       // Index of the front (nearest) segment
	chunks   [cityChunks]float64
	rain     []core.Vec3

	segmentRecycles int
	chunkWraps      int
}

// NewWorld allocates the scenery for a config. Call Lay before use.
func NewWorld(cfg config.RunnerConfig) *World {
	return &World{
		road:     cfg.Road,
		city:     cfg.City,
		weather:  cfg.Weather,
		segments: make([]float64, cfg.Road.SegmentCount),
		rain:     make([]core.Vec3, cfg.Weather.Particles),
	}
}

// Lay puts every piece of scenery back to its starting position and
// scatters the rain field using rng.
func (w *World) Lay(rng *rand.Rand) {
	w.head = 0
	for i := range w.segments {
		w.segments[i] = -float64(i) * w.road.SegmentLength
	}
	for i := range w.chunks {
		w.chunks[i] = -float64(i) * w.city.ChunkLength
	}

	half := w.weather.Spread / 2
	for i := range w.rain {
		w.rain[i] = core.Vec3{
			X: rng.Float64()*w.weather.Spread - half,
			Y: rng.Float64() * w.weather.Ceiling,
			Z: rng.Float64()*w.weather.Spread - half,
		}
	}

	w.segmentRecycles = 0
	w.chunkWraps = 0
}

// Advance moves the scenery toward the camera by dz and lets the rain fall
// for scale nominal frames. Recycling is checked after the move and repeats
// until no piece is past its threshold.
func (w *World) Advance(dz, scale float64) {
	for i := range w.segments {
		w.segments[i] += dz
	}
	n := len(w.segments)
	for w.segments[w.head] > w.road.RecycleZ {
		rear := w.segments[(w.head+n-1)%n]
		w.segments[w.head] = rear - w.road.SegmentLength
		w.head = (w.head + 1) % n
		w.segmentRecycles++
	}

	span := w.city.ChunkLength * cityChunks
	for i := range w.chunks {
		w.chunks[i] += dz * w.city.Parallax
		for w.chunks[i] > w.city.RecycleZ {
			w.chunks[i] -= span
			w.chunkWraps++
		}
	}

	fall := w.weather.FallRate * scale
	for i := range w.rain {
		w.rain[i].Y -= fall
		if w.rain[i].Y < w.weather.Floor {
			w.rain[i].Y = w.weather.Ceiling
		}
	}
}

// Segment returns the z of the i-th segment counted from the front.
func (w *World) Segment(i int) float64 {
	return w.segments[(w.head+i)%len(w.segments)]
}

// Segments returns segment z positions ordered front to rear.
func (w *World) Segments() []float64 {
	out := make([]float64, len(w.segments))
	for i := range out {
		out[i] = w.Segment(i)
	}
	return out
}

// Chunks returns the z position of both city chunks.
func (w *World) Chunks() []float64 {
	return append([]float64(nil), w.chunks[:]...)
}

// Rain returns the live particle slice. Callers must not modify it.
func (w *World) Rain() []core.Vec3 {
	return w.rain
}

// SegmentRecycles returns how many times a segment moved to the rear.
func (w *World) SegmentRecycles() int { return w.segmentRecycles }

// ChunkWraps returns how many times a city chunk wrapped back.
func (w *World) ChunkWraps() int { return w.chunkWraps }
