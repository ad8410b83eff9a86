package core

import "sync"

// Action represents a semantic game action, abstracted from physical input.
// Keyboard keys, taps and swipes all reduce to these intents.
type Action int

const (
	ActionNone      Action = iota
	ActionLaneLeft         // Left arrow, A, H, left swipe, tap on the left half
	ActionLaneRight        // Right arrow, D, L, right swipe, tap on the right half
	ActionStart            // Enter, Space - start from the title screen
	ActionRestart          // R - restart after game over
	ActionBack             // B, Escape - leave the game screen
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLaneLeft:
		return "LaneLeft"
	case ActionLaneRight:
		return "LaneRight"
	case ActionStart:
		return "Start"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsLane reports whether the action is one of the two lane intents.
func (a Action) IsLane() bool {
	return a == ActionLaneLeft || a == ActionLaneRight
}

// InputFrame is the input consumed by one simulation step.
// Lane intents share one slot: the last one written in a frame wins.
type InputFrame struct {
	Lane    Action // ActionLaneLeft, ActionLaneRight or ActionNone
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set records an action for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	if a.IsLane() {
		f.Lane = a
		return
	}
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if a.IsLane() {
		return f.Lane == a
	}
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Lane = ActionNone
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.Lane = f.Lane
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// InputLatch collects actions from asynchronous producers (network readers)
// and hands them to the simulation goroutine once per frame.
type InputLatch struct {
	mu    sync.Mutex
	frame InputFrame
}

// NewInputLatch creates an empty latch.
func NewInputLatch() *InputLatch {
	return &InputLatch{frame: NewInputFrame()}
}

// Push records an action. Safe for concurrent use.
func (l *InputLatch) Push(a Action) {
	l.mu.Lock()
	l.frame.Set(a)
	l.mu.Unlock()
}

// Drain returns the accumulated frame and resets the latch.
func (l *InputLatch) Drain() InputFrame {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.frame.Clone()
	l.frame.Clear()
	return out
}
