package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// fixedSampler always returns the same sample and lane.
type fixedSampler struct {
	sample float64
	lane   int
}

func (s fixedSampler) Float64() float64 { return s.sample }
func (s fixedSampler) Intn(n int) int   { return s.lane % n }

var neverSpawn = fixedSampler{sample: 1}

// onceSampler spawns on the first draw only.
type onceSampler struct {
	lane  int
	drawn bool
}

func (s *onceSampler) Float64() float64 {
	if s.drawn {
		return 1
	}
	s.drawn = true
	return 0
}

func (s *onceSampler) Intn(n int) int { return s.lane % n }

func testConfig() config.RunnerConfig {
	cfg := config.DefaultRunnerConfig()
	cfg.Weather.Particles = 64
	return cfg
}

func testRuntime() core.RuntimeConfig {
	rt := core.DefaultConfig()
	rt.Seed = 42
	return rt
}

func newRunning(opts ...Option) *Game {
	g := New(testConfig(), opts...)
	g.Reset(testRuntime())
	g.Start()
	return g
}

type recordingAudio struct {
	laneChanges, collisions, levelUps, musicStarts, musicStops int
}

func (a *recordingAudio) OnLaneChange() { a.laneChanges++ }
func (a *recordingAudio) OnCollision()  { a.collisions++ }
func (a *recordingAudio) OnLevelUp()    { a.levelUps++ }
func (a *recordingAudio) OnMusicStart() { a.musicStarts++ }
func (a *recordingAudio) OnMusicStop()  { a.musicStops++ }

type recordingHUD struct {
	scores  []int
	levels  []int
	speeds  []int
	banners []string
}

func (h *recordingHUD) OnScore(s int)     { h.scores = append(h.scores, s) }
func (h *recordingHUD) OnSpeed(k int)     { h.speeds = append(h.speeds, k) }
func (h *recordingHUD) OnLevel(l int)     { h.levels = append(h.levels, l) }
func (h *recordingHUD) OnBanner(b string) { h.banners = append(h.banners, b) }

type panickyAudio struct{ nopAudio }

func (panickyAudio) OnMusicStart() { panic("speaker unplugged") }
func (panickyAudio) OnCollision()  { panic("speaker unplugged") }

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Error(msg interface{}, keyvals ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprint(msg))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

type reportCall struct {
	player string
	score  int
}

type fakeReporter struct {
	mu    sync.Mutex
	calls []reportCall
	err   error
}

func (r *fakeReporter) ReportScore(_ context.Context, player string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, reportCall{player, score})
	return r.err
}

func (r *fakeReporter) snapshot() []reportCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reportCall(nil), r.calls...)
}

// stepN runs n nominal frames without input and returns the last result.
func stepN(g *Game, n int) core.StepResult {
	var res core.StepResult
	for i := 0; i < n; i++ {
		res = g.Step(core.NewInputFrame(), core.NominalFrame)
	}
	return res
}

// runUntilOver steps until the session ends or max frames pass.
func runUntilOver(g *Game, max int) (core.StepResult, int) {
	for i := 1; i <= max; i++ {
		res := g.Step(core.NewInputFrame(), core.NominalFrame)
		if res.Collided {
			return res, i
		}
	}
	return core.StepResult{State: g.State()}, max
}
