// Package runner implements a three-lane endless runner: the player's car
// dodges traffic on a recycled road while speed and level climb.
//
// The package has no terminal, network or database dependencies. Audio, HUD
// and persistence are collaborators attached with Options, and a renderer
// either draws through Render or consumes a Snapshot.
package runner

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// Game is the session context: every piece of mutable simulation state
// lives here and is only touched from the goroutine driving Step.
type Game struct {
	cfg     config.RunnerConfig
	runtime core.RuntimeConfig

	rng     *rand.Rand // Scenery randomness, and spawns unless a Sampler is injected
	sampler Sampler
	lane    *Lane
	world   *World
	pool    *ObstaclePool
	spawner *Spawner
	prog    *Progression

	phase      core.Phase
	score      int
	finalScore int
	frames     int
	distance   float64
	banner     string
	bannerLeft time.Duration
	lastKMH    int

	audio    Audio
	hud      HUD
	reporter ScoreReporter
	logger   Logger
	reports  sync.WaitGroup
}

// New creates a runner for the given tuning. Call Reset before Start.
func New(cfg config.RunnerConfig, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		audio:  nopAudio{},
		hud:    nopHUD{},
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}

	g.lane = NewLane(cfg.Road, cfg.Player)
	g.world = NewWorld(cfg)
	g.pool = NewObstaclePool(16)
	g.prog = NewProgression(cfg.Progression)
	return g
}

// ID returns the identifier used for score storage.
func (g *Game) ID() string {
	return "runner"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Neon Runner"
}

// Reset stores the runtime config and returns to the idle title state with
// the world laid out.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.resetSession()
	g.phase = core.PhaseIdle
}

// resetSession puts every piece of session state back to its start value.
// The random sources are reseeded so repeated resets are indistinguishable.
func (g *Game) resetSession() {
	g.rng = rand.New(rand.NewSource(g.runtime.Seed))
	sampler := g.sampler
	if sampler == nil {
		sampler = rand.New(rand.NewSource(g.runtime.Seed + 1))
	}
	g.spawner = NewSpawner(g.cfg, sampler)

	g.lane.Reset(g.cfg.Player.StartLane)
	g.world.Lay(g.rng)
	g.pool.Clear()
	g.prog.Reset()

	g.score = 0
	g.finalScore = 0
	g.frames = 0
	g.distance = 0
	g.banner = ""
	g.bannerLeft = 0
	g.lastKMH = g.prog.KMH()
}

// Start begins a session from the title or game-over screen. It returns
// false if a session is already running.
func (g *Game) Start() bool {
	if g.phase == core.PhaseRunning {
		return false
	}
	g.Restart()
	return true
}

// Restart begins a fresh session from any phase.
func (g *Game) Restart() {
	g.resetSession()
	g.phase = core.PhaseRunning

	g.notify("OnMusicStart", g.audio.OnMusicStart)
	g.notify("OnScore", func() { g.hud.OnScore(g.score) })
	g.notify("OnLevel", func() { g.hud.OnLevel(g.prog.Level()) })
	g.notify("OnSpeed", func() { g.hud.OnSpeed(g.lastKMH) })
	g.notify("OnBanner", func() { g.hud.OnBanner("") })
}

// Step advances a running session by one frame of length delta. When the
// session is not running it returns the current state without touching it.
func (g *Game) Step(in core.InputFrame, delta time.Duration) core.StepResult {
	if g.phase != core.PhaseRunning {
		return core.StepResult{State: g.State()}
	}

	delta = core.ClampDelta(delta)
	scale := core.FrameScale(delta)
	g.frames++
	g.tickBanner(delta)

	if in.Lane.IsLane() {
		g.changeLane(in.Lane)
	}
	g.lane.Tick(delta)

	dz := g.prog.Speed() * scale
	g.distance += dz
	g.world.Advance(dz, scale)

	g.spawner.Maybe(g.pool, g.lane, g.prog.Level())
	pass := g.moveObstacles(dz)

	result := core.StepResult{
		Scored:  pass.passed > 0,
		LevelUp: pass.levelUp,
	}

	if pass.hit {
		g.endSession()
		result.Collided = true
		result.State = g.State()
		return result
	}

	g.prog.Accelerate()
	if kmh := g.prog.KMH(); kmh != g.lastKMH {
		g.lastKMH = kmh
		g.notify("OnSpeed", func() { g.hud.OnSpeed(kmh) })
	}

	result.State = g.State()
	return result
}

// changeLane applies a lane intent; the cue only fires on an actual move.
func (g *Game) changeLane(intent core.Action) {
	if g.lane.SetTarget(intent) {
		g.notify("OnLaneChange", g.audio.OnLaneChange)
	}
}

// addScore credits a passed obstacle and checks for a level-up.
func (g *Game) addScore(points int) bool {
	g.score += points
	g.notify("OnScore", func() { g.hud.OnScore(g.score) })

	if !g.prog.CheckLevelUp(g.score) {
		return false
	}

	level := g.prog.Level()
	g.banner = levelBanner(level)
	g.bannerLeft = g.cfg.Progression.BannerDuration
	g.notify("OnLevel", func() { g.hud.OnLevel(level) })
	g.notify("OnBanner", func() { g.hud.OnBanner(g.banner) })
	g.notify("OnLevelUp", g.audio.OnLevelUp)
	return true
}

// tickBanner counts the banner down in simulated time.
func (g *Game) tickBanner(delta time.Duration) {
	if g.banner == "" {
		return
	}
	g.bannerLeft -= delta
	if g.bannerLeft <= 0 {
		g.banner = ""
		g.bannerLeft = 0
		g.notify("OnBanner", func() { g.hud.OnBanner("") })
	}
}

// endSession stops the run after a collision and reports the score.
func (g *Game) endSession() {
	g.phase = core.PhaseGameOver
	g.finalScore = g.score

	g.notify("OnMusicStop", g.audio.OnMusicStop)
	g.notify("OnCollision", g.audio.OnCollision)
	g.reportAsync(g.runtime.Player, g.finalScore)
}

// State returns the current session summary.
func (g *Game) State() core.GameState {
	return core.GameState{
		Phase:      g.phase,
		Active:     g.phase == core.PhaseRunning,
		Score:      g.score,
		FinalScore: g.finalScore,
		Level:      g.prog.Level(),
		Speed:      g.prog.Speed(),
		SpeedKMH:   g.prog.KMH(),
		Banner:     g.banner,
		Frames:     g.frames,
	}
}
