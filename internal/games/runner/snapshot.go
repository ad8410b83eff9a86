package runner

import "github.com/vovakirdan/neon-runner/internal/core"

// Snapshot is a read-only copy of everything a renderer needs for a frame.
type Snapshot struct {
	Frame     int            `json:"frame" msgpack:"frame"`
	Phase     string         `json:"phase" msgpack:"phase"`
	Score     int            `json:"score" msgpack:"score"`
	Final     int            `json:"finalScore" msgpack:"finalScore"`
	Level     int            `json:"level" msgpack:"level"`
	SpeedKMH  int            `json:"speedKmh" msgpack:"speedKmh"`
	Banner    string         `json:"banner,omitempty" msgpack:"banner,omitempty"`
	Distance  float64        `json:"distance" msgpack:"distance"`
	Player    PlayerPose     `json:"player" msgpack:"player"`
	Segments  []float64      `json:"segments" msgpack:"segments"`
	Chunks    []float64      `json:"chunks" msgpack:"chunks"`
	Obstacles []ObstacleView `json:"obstacles" msgpack:"obstacles"`
	Rain      []core.Vec3    `json:"rain,omitempty" msgpack:"rain,omitempty"`
}

// PlayerPose is the player's car transform.
type PlayerPose struct {
	Lane int     `json:"lane" msgpack:"lane"`
	X    float64 `json:"x" msgpack:"x"`
	Z    float64 `json:"z" msgpack:"z"`
	Roll float64 `json:"roll" msgpack:"roll"`
}

// ObstacleView is an obstacle as seen by a renderer.
type ObstacleView struct {
	ID   uint64  `json:"id" msgpack:"id"`
	Lane int     `json:"lane" msgpack:"lane"`
	X    float64 `json:"x" msgpack:"x"`
	Z    float64 `json:"z" msgpack:"z"`
}

// Snapshot copies the current frame including the full rain field.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	g.SnapshotInto(&s, true)
	return s
}

// SnapshotInto fills dst reusing its slices. The rain field is only copied
// when withRain is set.
func (g *Game) SnapshotInto(dst *Snapshot, withRain bool) {
	st := g.State()
	dst.Frame = st.Frames
	dst.Phase = st.Phase.String()
	dst.Score = st.Score
	dst.Final = st.FinalScore
	dst.Level = st.Level
	dst.SpeedKMH = st.SpeedKMH
	dst.Banner = st.Banner
	dst.Distance = g.distance
	dst.Player = PlayerPose{
		Lane: g.lane.Target(),
		X:    g.lane.X(),
		Z:    g.cfg.Player.Z,
		Roll: g.lane.Roll(),
	}

	dst.Segments = dst.Segments[:0]
	for i := 0; i < len(g.world.segments); i++ {
		dst.Segments = append(dst.Segments, g.world.Segment(i))
	}
	dst.Chunks = append(dst.Chunks[:0], g.world.chunks[:]...)

	dst.Obstacles = dst.Obstacles[:0]
	g.pool.Each(func(o *Obstacle) bool {
		dst.Obstacles = append(dst.Obstacles, ObstacleView{
			ID:   o.Handle.ID(),
			Lane: o.Lane,
			X:    o.Pos.X,
			Z:    o.Pos.Z,
		})
		return true
	})

	if withRain {
		dst.Rain = append(dst.Rain[:0], g.world.rain...)
	} else {
		dst.Rain = dst.Rain[:0]
	}
}
