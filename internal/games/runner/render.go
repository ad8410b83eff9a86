package runner

import (
	"fmt"
	"math"

	"github.com/vovakirdan/neon-runner/internal/core"
)

// Visual characters for rendering
const (
	RoadEdgeLeft  = '▕'
	RoadEdgeRight = '▏'
	LaneDash      = '┆'
	PoleLight     = '•'
	RainChar      = '╷'
	WindowChar    = '▪'
	BuildingChar  = '█'
)

// Camera placement behind and above the player.
const (
	cameraY   = 5.0
	cameraZ   = 10.0
	nearPlane = 1.0
	poleX     = 6.0
	poleY     = 3.0
)

// Obstacle sprites by distance, nearest first. The last row sits on the road.
var carSprites = []struct {
	maxDepth float64
	rows     []string
}{
	{12, []string{"▗▄▄▄▄▖", "▐█▀▀█▌", "▝▘  ▝▘"}},
	{25, []string{"▗▄▄▖", "▐██▌"}},
	{50, []string{"▄▄▄"}},
	{math.Inf(1), []string{"▪"}},
}

// projection maps world space onto the character grid.
type projection struct {
	w, h    int
	horizon int
	fx, fy  float64
}

func (g *Game) newProjection(w, h int) projection {
	horizon := h / 3
	playerDepth := cameraZ - g.cfg.Player.Z
	fy := float64(h-3-horizon) * playerDepth / cameraY
	return projection{
		w:       w,
		h:       h,
		horizon: horizon,
		fx:      fy * 2, // Cells are about twice as tall as wide
		fy:      fy,
	}
}

// project returns the cell for a world point and its depth in front of
// the camera. ok is false behind the near plane.
func (p projection) project(v core.Vec3) (x, y int, depth float64, ok bool) {
	depth = cameraZ - v.Z
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	x = p.w/2 + int(math.Round(v.X*p.fx/depth))
	y = p.horizon + int(math.Round((cameraY-v.Y)*p.fy/depth))
	return x, y, depth, true
}

// rowDepth returns the road depth seen on a screen row below the horizon.
func (p projection) rowDepth(y int) float64 {
	return cameraY * p.fy / float64(y-p.horizon)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 10 || h < 8 {
		dst.DrawText(0, 0, "too small")
		return
	}

	p := g.newProjection(w, h)
	g.drawSkyline(dst, p)
	g.drawRoad(dst, p)
	g.drawRain(dst, p)
	g.drawObstacles(dst, p)
	g.drawPlayer(dst, p)
	g.drawHUD(dst)

	switch g.phase {
	case core.PhaseIdle:
		drawCenteredMessage(dst, "N E O N   R U N N E R", "Enter to start  |  ←/→ or A/D to steer")
	case core.PhaseGameOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.finalScore))
	}
}

// drawSkyline draws the city above the horizon. Window lights change as the
// chunks travel so the backdrop appears to move.
func (g *Game) drawSkyline(dst *core.Screen, p projection) {
	phase := int(math.Floor(g.world.chunks[0] / 25))
	for x := 0; x < p.w; x++ {
		height := 1 + int(hash2(x/3, 0)%uint32(core.Max(p.horizon-1, 1)))
		for dy := 0; dy < height; dy++ {
			y := p.horizon - 1 - dy
			r := BuildingChar
			if dy > 0 && x%3 == 1 && hash2(x*31+dy, phase)%4 == 0 {
				r = WindowChar
			}
			dst.SetColored(x, y, r, core.ColorCity)
		}
	}
}

// drawRoad draws the road edges, dashed lane markings and pole lights.
func (g *Game) drawRoad(dst *core.Screen, p projection) {
	lanes := g.lane.Count()
	half := float64(lanes) / 2 * g.cfg.Road.LaneWidth
	segLen := g.cfg.Road.SegmentLength
	front := g.world.Segment(0)

	for y := p.horizon + 1; y < p.h; y++ {
		depth := p.rowDepth(y)
		z := cameraZ - depth

		left := p.w/2 + int(math.Round(-half*p.fx/depth))
		right := p.w/2 + int(math.Round(half*p.fx/depth))
		dst.SetColored(left, y, RoadEdgeLeft, core.ColorNeonMagenta)
		dst.SetColored(right, y, RoadEdgeRight, core.ColorNeonCyan)

		m := math.Mod(front-z, segLen)
		if m < 0 {
			m += segLen
		}
		if m >= segLen/2 {
			continue
		}
		for i := 0; i < lanes-1; i++ {
			mid := (g.lane.Offset(i) + g.lane.Offset(i+1)) / 2
			x := p.w/2 + int(math.Round(mid*p.fx/depth))
			dst.SetColored(x, y, LaneDash, core.ColorRoad)
		}
	}

	for i := 0; i < len(g.world.segments); i++ {
		z := g.world.Segment(i)
		if x, y, _, ok := p.project(core.Vec3{X: -poleX, Y: poleY, Z: z}); ok {
			dst.SetColored(x, y, PoleLight, core.ColorNeonMagenta)
		}
		if x, y, _, ok := p.project(core.Vec3{X: poleX, Y: poleY, Z: z}); ok {
			dst.SetColored(x, y, PoleLight, core.ColorNeonCyan)
		}
	}
}

// drawRain draws particles that land on empty cells.
func (g *Game) drawRain(dst *core.Screen, p projection) {
	for _, v := range g.world.rain {
		x, y, _, ok := p.project(v)
		if !ok || x < 0 || x >= p.w || y < 1 || y >= p.h {
			continue
		}
		if dst.Get(x, y) == ' ' {
			dst.SetColored(x, y, RainChar, core.ColorRain)
		}
	}
}

// drawObstacles draws enemy cars farthest first so nearer ones overlap.
func (g *Game) drawObstacles(dst *core.Screen, p projection) {
	obstacles := g.pool.Obstacles()
	for i := len(obstacles) - 1; i >= 0; i-- {
		x, y, depth, ok := p.project(obstacles[i].Pos)
		if !ok {
			continue
		}
		for _, s := range carSprites {
			if depth <= s.maxDepth {
				drawSprite(dst, x, y, s.rows, core.ColorEnemy)
				break
			}
		}
	}
}

// drawPlayer draws the player's car, leaning into lane changes.
func (g *Game) drawPlayer(dst *core.Screen, p projection) {
	x, y, _, ok := p.project(g.playerPos())
	if !ok {
		return
	}
	roof := " ▄██▄ "
	switch roll := g.lane.Roll(); {
	case roll < -0.02:
		roof = "  ▄██▄"
	case roll > 0.02:
		roof = "▄██▄  "
	}
	drawSprite(dst, x, y, []string{roof, "▐████▌", "▝▘  ▝▘"}, core.ColorPlayer)
}

// drawHUD draws score, level and speed on the top row and the banner.
func (g *Game) drawHUD(dst *core.Screen) {
	w := dst.Width()
	dst.DrawRect(core.NewRect(0, 0, w, 1), ' ', core.ColorHUD)

	dst.DrawTextColored(1, 0, fmt.Sprintf("SCORE %d", g.score), core.ColorHUD)
	dst.DrawTextCentered(0, fmt.Sprintf("LEVEL %d", g.prog.Level()), core.ColorHUD)
	speed := fmt.Sprintf("%d KM/H", g.prog.KMH())
	dst.DrawTextColored(w-len(speed)-1, 0, speed, core.ColorHUD)

	if g.banner != "" {
		dst.DrawTextCentered(dst.Height()/2-2, g.banner, core.ColorBanner)
	}
}

// drawSprite draws rows centred on x with the last row on y. Spaces are
// transparent.
func drawSprite(dst *core.Screen, x, y int, rows []string, c core.Color) {
	top := y - len(rows) + 1
	for i, row := range rows {
		runes := []rune(row)
		left := x - len(runes)/2
		for j, r := range runes {
			if r != ' ' {
				dst.SetColored(left+j, top+i, r, c)
			}
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleW := len([]rune(title))
	subtitleW := len([]rune(subtitle))

	// Calculate box dimensions
	boxW := core.Min(core.Max(titleW, subtitleW)+4, w)
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorAlert)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorAlert)

	dst.DrawTextColored(boxX+(boxW-titleW)/2, boxY+1, title, core.ColorAlert)
	dst.DrawTextColored(boxX+(boxW-subtitleW)/2, boxY+3, subtitle, core.ColorHUD)
}

// hash2 is a small integer hash for stable procedural detail.
func hash2(a, b int) uint32 {
	h := uint32(a)*374761393 + uint32(b)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
