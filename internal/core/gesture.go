package core

import "math"

// SwipeThreshold is the minimum horizontal travel, in pixels, for a touch to
// count as a swipe instead of a tap.
const SwipeThreshold = 30.0

// KeyAction maps a key name (as reported by the terminal or a browser
// KeyboardEvent.key) to an action.
func KeyAction(key string) Action {
	switch key {
	case "left", "ArrowLeft", "a", "A", "h":
		return ActionLaneLeft
	case "right", "ArrowRight", "d", "D", "l":
		return ActionLaneRight
	case "enter", "Enter", " ", "space":
		return ActionStart
	case "r", "R":
		return ActionRestart
	case "b", "esc", "Escape":
		return ActionBack
	case "q", "ctrl+c":
		return ActionQuit
	}
	return ActionNone
}

// ClassifyTouch turns a completed touch into a lane intent.
//
// A horizontal travel above SwipeThreshold that also dominates the vertical
// travel is a swipe in its direction. A longer but mostly vertical drag yields
// no intent. Anything shorter is a tap, resolved by the screen half that was
// touched.
func ClassifyTouch(startX, startY, endX, endY, screenW float64) Action {
	dx := endX - startX
	dy := endY - startY

	if math.Abs(dx) > SwipeThreshold {
		if math.Abs(dx) <= math.Abs(dy) {
			return ActionNone
		}
		if dx > 0 {
			return ActionLaneRight
		}
		return ActionLaneLeft
	}

	if endX < screenW/2 {
		return ActionLaneLeft
	}
	return ActionLaneRight
}

// GestureTracker pairs touch start and end events.
type GestureTracker struct {
	startX, startY float64
	touching       bool
}

// Begin records the start of a touch.
func (g *GestureTracker) Begin(x, y float64) {
	g.startX, g.startY = x, y
	g.touching = true
}

// End completes a touch and classifies it. An end without a matching begin is
// treated as a tap at the end position.
func (g *GestureTracker) End(x, y, screenW float64) Action {
	if !g.touching {
		g.startX, g.startY = x, y
	}
	g.touching = false
	return ClassifyTouch(g.startX, g.startY, x, y, screenW)
}

// Touching reports whether a touch is in progress.
func (g *GestureTracker) Touching() bool {
	return g.touching
}
