package runner

import (
	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// Handle identifies an obstacle. The generation makes a handle to a
// released obstacle distinguishable from the slot's next occupant.
type Handle struct {
	index uint32
	gen   uint32
}

// ID packs the handle into a single value for the wire.
func (h Handle) ID() uint64 {
	return uint64(h.gen)<<32 | uint64(h.index)
}

// Obstacle is an enemy car travelling toward the player.
type Obstacle struct {
	Handle Handle
	Lane   int
	Pos    core.Vec3
}

type slot struct {
	obstacle Obstacle
	gen      uint32
	live     bool
}

// ObstaclePool stores obstacles in reusable slots and remembers their spawn
// order. Release only tombstones; Compact drops dead entries from the order
// once an iteration pass is over.
type ObstaclePool struct {
	slots []slot
	free  []uint32
	order []Handle
	live  int
}

// NewObstaclePool creates a pool with room for capacity obstacles before it grows.
func NewObstaclePool(capacity int) *ObstaclePool {
	return &ObstaclePool{
		slots: make([]slot, 0, capacity),
		free:  make([]uint32, 0, capacity),
		order: make([]Handle, 0, capacity),
	}
}

// Spawn places a new obstacle and returns its handle.
func (p *ObstaclePool) Spawn(lane int, pos core.Vec3) Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}

	s := &p.slots[idx]
	h := Handle{index: idx, gen: s.gen}
	s.obstacle = Obstacle{Handle: h, Lane: lane, Pos: pos}
	s.live = true

	p.order = append(p.order, h)
	p.live++
	return h
}

// Get returns the obstacle for a handle, or false if it was released.
func (p *ObstaclePool) Get(h Handle) (*Obstacle, bool) {
	if !p.valid(h) {
		return nil, false
	}
	return &p.slots[h.index].obstacle, true
}

// Release tombstones an obstacle. Releasing a stale handle is a no-op.
func (p *ObstaclePool) Release(h Handle) bool {
	if !p.valid(h) {
		return false
	}
	s := &p.slots[h.index]
	s.live = false
	s.gen++
	p.free = append(p.free, h.index)
	p.live--
	return true
}

func (p *ObstaclePool) valid(h Handle) bool {
	if int(h.index) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.index]
	return s.live && s.gen == h.gen
}

// Compact removes released handles from the spawn order, preserving it.
func (p *ObstaclePool) Compact() {
	valid := p.order[:0]
	for _, h := range p.order {
		if p.valid(h) {
			valid = append(valid, h)
		}
	}
	p.order = valid
}

// Each visits live obstacles in spawn order until fn returns false.
// Obstacles released or spawned during the visit are skipped.
func (p *ObstaclePool) Each(fn func(o *Obstacle) bool) {
	n := len(p.order)
	for i := 0; i < n; i++ {
		o, ok := p.Get(p.order[i])
		if !ok {
			continue
		}
		if !fn(o) {
			return
		}
	}
}

// Newest returns the most recently spawned live obstacle.
func (p *ObstaclePool) Newest() (Obstacle, bool) {
	for i := len(p.order) - 1; i >= 0; i-- {
		if o, ok := p.Get(p.order[i]); ok {
			return *o, true
		}
	}
	return Obstacle{}, false
}

// Len returns the number of live obstacles.
func (p *ObstaclePool) Len() int {
	return p.live
}

// Clear releases every obstacle. Outstanding handles become stale.
func (p *ObstaclePool) Clear() {
	for _, h := range p.order {
		p.Release(h)
	}
	p.order = p.order[:0]
}

// Obstacles returns a copy of the live obstacles in spawn order.
func (p *ObstaclePool) Obstacles() []Obstacle {
	out := make([]Obstacle, 0, p.live)
	p.Each(func(o *Obstacle) bool {
		out = append(out, *o)
		return true
	})
	return out
}

// spawnChance returns the per-step spawn probability for a level.
func spawnChance(cfg config.SpawnConfig, level int) float64 {
	chance := cfg.BaseChance + cfg.LevelFactor*float64(level)
	for _, b := range cfg.Bonuses {
		if level >= b.Level {
			chance += b.Chance
		}
	}
	return chance
}

// Spawner decides when and where new obstacles appear.
type Spawner struct {
	spawn     config.SpawnConfig
	obstacles config.ObstacleConfig
	sampler   Sampler
}

// NewSpawner creates a spawner drawing from sampler.
func NewSpawner(cfg config.RunnerConfig, sampler Sampler) *Spawner {
	return &Spawner{
		spawn:     cfg.Spawn,
		obstacles: cfg.Obstacles,
		sampler:   sampler,
	}
}

// Maybe draws one sample and spawns an obstacle on a random lane when the
// sample is under the level's chance and the newest obstacle has travelled
// far enough. Only the newest obstacle is checked for spacing.
func (s *Spawner) Maybe(pool *ObstaclePool, lane *Lane, level int) (Handle, bool) {
	if s.sampler.Float64() >= spawnChance(s.spawn, level) {
		return Handle{}, false
	}
	if newest, ok := pool.Newest(); ok && newest.Pos.Z <= s.obstacles.SpawnZ+s.obstacles.MinSpacing {
		return Handle{}, false
	}

	idx := s.sampler.Intn(lane.Count())
	pos := core.Vec3{X: lane.Offset(idx), Y: 0, Z: s.obstacles.SpawnZ}
	return pool.Spawn(idx, pos), true
}
