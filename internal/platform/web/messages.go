package web

import "github.com/vovakirdan/neon-runner/internal/games/runner"

// Client message types.
const (
	MsgKey        = "key"        // Key: a key name, terminal or browser style
	MsgLeft       = "left"       // Lane intent left
	MsgRight      = "right"      // Lane intent right
	MsgStart      = "start"      // Start or restart when no session is running
	MsgRestart    = "restart"    // Same as start
	MsgTouchStart = "touchstart" // X, Y
	MsgTouchEnd   = "touchend"   // X, Y, Width
)

// Server message types.
const (
	MsgHello = "hello"
	MsgFrame = "frame"
	MsgCue   = "cue"
)

// ClientMessage is sent by a remote renderer.
type ClientMessage struct {
	Type  string  `json:"type" msgpack:"type"`
	Key   string  `json:"key,omitempty" msgpack:"key,omitempty"`
	X     float64 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y     float64 `json:"y,omitempty" msgpack:"y,omitempty"`
	Width float64 `json:"width,omitempty" msgpack:"width,omitempty"`
}

// Hello describes the session right after the upgrade.
type Hello struct {
	Session  string `json:"session" msgpack:"session"`
	Player   string `json:"player,omitempty" msgpack:"player,omitempty"`
	Codec    string `json:"codec" msgpack:"codec"`
	TickRate int    `json:"tickRate" msgpack:"tickRate"`
	Lanes    int    `json:"lanes" msgpack:"lanes"`
}

// ServerMessage is sent to a remote renderer.
type ServerMessage struct {
	Type  string           `json:"type" msgpack:"type"`
	Hello *Hello           `json:"hello,omitempty" msgpack:"hello,omitempty"`
	Frame *runner.Snapshot `json:"frame,omitempty" msgpack:"frame,omitempty"`
	Cue   string           `json:"cue,omitempty" msgpack:"cue,omitempty"`
}
