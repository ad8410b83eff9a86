package runner

import (
	"strings"
	"testing"

	"github.com/vovakirdan/neon-runner/internal/core"
)

func TestRenderPhases(t *testing.T) {
	g := New(testConfig(), WithSampler(&onceSampler{lane: 1}))
	g.Reset(testRuntime())
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "N E O N") {
		t.Error("title missing on idle screen")
	}

	g.Start()
	stepN(g, 120)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(screen.Row(0), "SCORE 0") || !strings.Contains(screen.Row(0), "KM/H") {
		t.Errorf("HUD row = %q", screen.Row(0))
	}
	if strings.Contains(out, "GAME OVER") {
		t.Error("game over shown while running")
	}

	runUntilOver(g, 2000)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over box missing")
	}
}

func TestRenderDrawsPlayerAndObstacle(t *testing.T) {
	g := newRunning(WithSampler(neverSpawn))
	g.pool.Spawn(0, core.Vec3{X: -3, Z: -20})
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	found := map[core.Color]bool{}
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			found[screen.GetCell(x, y).Color] = true
		}
	}
	for _, c := range []core.Color{core.ColorPlayer, core.ColorEnemy, core.ColorNeonCyan, core.ColorCity} {
		if !found[c] {
			t.Errorf("no cells drawn with color %d", c)
		}
	}
}

func TestRenderTinyScreen(t *testing.T) {
	g := newRunning()
	screen := core.NewScreen(5, 3)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too s") {
		t.Errorf("tiny screen output %q", screen.String())
	}
}
