package core

import "testing"

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key      string
		expected Action
	}{
		{"left", ActionLaneLeft},
		{"ArrowLeft", ActionLaneLeft},
		{"a", ActionLaneLeft},
		{"right", ActionLaneRight},
		{"ArrowRight", ActionLaneRight},
		{"d", ActionLaneRight},
		{"enter", ActionStart},
		{"r", ActionRestart},
		{"q", ActionQuit},
		{"x", ActionNone},
	}

	for _, tc := range tests {
		if got := KeyAction(tc.key); got != tc.expected {
			t.Errorf("KeyAction(%q) = %v, expected %v", tc.key, got, tc.expected)
		}
	}
}

func TestClassifyTouch(t *testing.T) {
	const width = 400.0

	tests := []struct {
		name           string
		sx, sy, ex, ey float64
		expected       Action
	}{
		{"swipe right", 100, 100, 180, 110, ActionLaneRight},
		{"swipe left", 300, 100, 200, 90, ActionLaneLeft},
		{"swipe left ending on right half", 390, 100, 300, 100, ActionLaneLeft},
		{"tap left half", 50, 50, 55, 52, ActionLaneLeft},
		{"tap right half", 350, 50, 345, 52, ActionLaneRight},
		{"exactly threshold is a tap", 100, 100, 130, 100, ActionLaneLeft},
		{"tap at center goes right", 200, 50, 200, 50, ActionLaneRight},
		{"vertical drag is ignored", 100, 100, 140, 300, ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTouch(tc.sx, tc.sy, tc.ex, tc.ey, width); got != tc.expected {
				t.Errorf("ClassifyTouch() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestGestureTracker(t *testing.T) {
	var g GestureTracker

	g.Begin(10, 10)
	if !g.Touching() {
		t.Fatal("Begin should start a touch")
	}
	if got := g.End(90, 12, 400); got != ActionLaneRight {
		t.Errorf("End() = %v, expected LaneRight", got)
	}
	if g.Touching() {
		t.Error("End should finish the touch")
	}

	// An orphan end is a tap where it landed
	if got := g.End(10, 10, 400); got != ActionLaneLeft {
		t.Errorf("orphan End() = %v, expected LaneLeft", got)
	}
}
