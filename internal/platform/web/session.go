package web

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/games/runner"
	"github.com/vovakirdan/neon-runner/internal/loop"
)

// WebSocket heartbeat and limits.
const (
	pingInterval   = 10 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Session is one remote renderer connection and the runner it drives.
//
// Three goroutines take part: ReadPump turns client messages into latch
// input, the driver steps the game and encodes frames, WritePump flushes
// frames and pings to the socket.
type Session struct {
	id       string
	player   string
	conn     *websocket.Conn
	codec    Codec
	logger   *log.Logger
	withRain bool

	game    *runner.Game
	input   *core.InputLatch
	driver  *loop.Driver
	gesture core.GestureTracker // ReadPump only
	snap    runner.Snapshot     // Driver goroutine only

	active  atomic.Bool
	send    chan []byte
	done    chan struct{}
	stopped chan struct{} // Closed once the driver has returned
	once    sync.Once
}

// cueAudio forwards audio cues to the remote renderer.
type cueAudio struct {
	emit func(cue string)
}

func (a cueAudio) OnLaneChange() { a.emit("lane") }
func (a cueAudio) OnCollision()  { a.emit("collision") }
func (a cueAudio) OnLevelUp()    { a.emit("levelup") }
func (a cueAudio) OnMusicStart() { a.emit("music_start") }
func (a cueAudio) OnMusicStop()  { a.emit("music_stop") }

func (s *Session) hello(tickRate, lanes int) {
	s.push(ServerMessage{Type: MsgHello, Hello: &Hello{
		Session:  s.id,
		Player:   s.player,
		Codec:    s.codec.Name(),
		TickRate: tickRate,
		Lanes:    lanes,
	}})
}

// onFrame runs on the driver goroutine after every step.
func (s *Session) onFrame(f loop.Frame) {
	s.active.Store(f.Result.State.Active)
	s.pushFrame()
}

// pushFrame encodes the current game state. Driver goroutine only, or
// before the driver starts.
func (s *Session) pushFrame() {
	s.game.SnapshotInto(&s.snap, s.withRain)
	s.push(ServerMessage{Type: MsgFrame, Frame: &s.snap})
}

func (s *Session) cue(name string) {
	s.push(ServerMessage{Type: MsgCue, Cue: name})
}

// push encodes and queues a message. A slow client loses frames instead of
// stalling the simulation.
func (s *Session) push(msg ServerMessage) {
	data, err := s.codec.Marshal(msg)
	if err != nil {
		s.logger.Error("cannot encode message", "type", msg.Type, "error", err)
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	default:
	}
}

// handle applies one client message.
func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgLeft:
		s.input.Push(core.ActionLaneLeft)
	case MsgRight:
		s.input.Push(core.ActionLaneRight)
	case MsgStart, MsgRestart:
		s.begin()
	case MsgKey:
		switch action := core.KeyAction(msg.Key); action {
		case core.ActionLaneLeft, core.ActionLaneRight:
			s.input.Push(action)
		case core.ActionStart, core.ActionRestart:
			s.begin()
		case core.ActionQuit, core.ActionBack:
			s.close()
		}
	case MsgTouchStart:
		s.gesture.Begin(msg.X, msg.Y)
	case MsgTouchEnd:
		s.input.Push(s.gesture.End(msg.X, msg.Y, msg.Width))
	default:
		s.logger.Debug("unknown message", "type", msg.Type)
	}
}

// begin asks the driver for a new session unless one is running.
func (s *Session) begin() {
	if s.active.CompareAndSwap(false, true) {
		s.driver.Restart()
	}
}

func (s *Session) close() {
	s.once.Do(func() { close(s.done) })
}

// ReadPump reads client messages until the connection fails or the session
// is closed.
func (s *Session) ReadPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // A failed deadline surfaces on the next read
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("unexpected close", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := decodeClient(s.codec, messageType, data, &msg); err != nil {
			s.logger.Debug("bad client message", "error", err)
			continue
		}
		s.handle(msg)
	}
}

// WritePump flushes queued messages and keeps the connection alive.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data := <-s.send:
			//nolint:errcheck // A failed deadline surfaces on the write
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(s.codec.FrameType(), data); err != nil {
				s.logger.Debug("write failed", "error", err)
				s.close()
				return
			}

		case <-ticker.C:
			//nolint:errcheck // A failed deadline surfaces on the write
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}

		case <-s.done:
			//nolint:errcheck // Best-effort goodbye
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// run drives the game until the session closes or ctx is cancelled. No step
// is in flight once it has returned.
func (s *Session) run(ctx context.Context) {
	defer close(s.stopped)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.done:
		case <-ctx.Done():
		}
		cancel()
	}()

	//nolint:errcheck // Run only returns the cancellation cause
	s.driver.Run(ctx)
}
