package runner

import (
	"context"
	"time"
)

// ReportTimeout bounds a single asynchronous score report.
const ReportTimeout = 5 * time.Second

// Audio receives fire-and-forget sound cues.
type Audio interface {
	OnLaneChange()
	OnCollision()
	OnLevelUp()
	OnMusicStart()
	OnMusicStop()
}

// HUD is told about displayed values when they change.
type HUD interface {
	OnScore(score int)
	OnSpeed(kmh int)
	OnLevel(level int)
	OnBanner(text string) // Empty text hides the banner
}

// ScoreReporter persists a finished run for a named player.
type ScoreReporter interface {
	ReportScore(ctx context.Context, player string, score int) error
}

// Logger is the subset of *log.Logger the simulation needs.
type Logger interface {
	Error(msg interface{}, keyvals ...interface{})
}

// Sampler is the random source used for spawning. *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
	Intn(n int) int
}

type nopAudio struct{}

func (nopAudio) OnLaneChange() {}
func (nopAudio) OnCollision()  {}
func (nopAudio) OnLevelUp()    {}
func (nopAudio) OnMusicStart() {}
func (nopAudio) OnMusicStop()  {}

type nopHUD struct{}

func (nopHUD) OnScore(int)     {}
func (nopHUD) OnSpeed(int)     {}
func (nopHUD) OnLevel(int)     {}
func (nopHUD) OnBanner(string) {}

type nopLogger struct{}

func (nopLogger) Error(interface{}, ...interface{}) {}

// Option configures a Game.
type Option func(*Game)

// WithAudio attaches an audio collaborator.
func WithAudio(a Audio) Option {
	return func(g *Game) {
		if a != nil {
			g.audio = a
		}
	}
}

// WithHUD attaches a HUD collaborator.
func WithHUD(h HUD) Option {
	return func(g *Game) {
		if h != nil {
			g.hud = h
		}
	}
}

// WithReporter attaches the persistence collaborator.
func WithReporter(r ScoreReporter) Option {
	return func(g *Game) {
		g.reporter = r
	}
}

// WithLogger sets the logger used for recovered collaborator failures.
func WithLogger(l Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSampler replaces the seeded spawn source.
func WithSampler(s Sampler) Option {
	return func(g *Game) {
		g.sampler = s
	}
}

// notify runs a collaborator hook, recovering and logging a panic so it
// never unwinds into the step.
func (g *Game) notify(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("collaborator panicked", "hook", hook, "panic", r)
		}
	}()
	fn()
}

// reportAsync hands the final score to the reporter on its own goroutine.
func (g *Game) reportAsync(player string, score int) {
	if g.reporter == nil || player == "" {
		return
	}
	reporter, logger := g.reporter, g.logger
	g.reports.Add(1)
	go func() {
		defer g.reports.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("score reporter panicked", "player", player, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), ReportTimeout)
		defer cancel()
		if err := reporter.ReportScore(ctx, player, score); err != nil {
			logger.Error("cannot report score", "player", player, "score", score, "error", err)
		}
	}()
}

// WaitReports blocks until in-flight score reports have finished.
func (g *Game) WaitReports() {
	g.reports.Wait()
}
