package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/games/runner"
	"github.com/vovakirdan/neon-runner/internal/loop"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestServer(t *testing.T, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Tuning = config.DefaultRunnerConfig()
	cfg.Tuning.Weather.Particles = 32

	srv := NewServer(cfg, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	//nolint:errcheck
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if msg := readJSON(t, conn); match(msg) {
			return msg
		}
	}
	t.Fatal("expected message never arrived")
	return ServerMessage{}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["storage"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestLeaderboard(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, r := range []struct {
		player string
		score  int
	}{{"neo", 100}, {"neo", 40}, {"trinity", 250}} {
		if err := store.ReportScore(ctx, r.player, r.score); err != nil {
			t.Fatal(err)
		}
	}
	_, ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/v1/leaderboard?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	want := []LeaderboardEntry{
		{Rank: 1, Player: "trinity", Best: 250, Runs: 1},
		{Rank: 2, Player: "neo", Best: 100, Runs: 2},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v", entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestLeaderboardWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/v1/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestRegisterPlayer(t *testing.T) {
	_, ts := newTestServer(t, openTestStore(t))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"new name", `{"username":"morpheus"}`, http.StatusCreated},
		{"taken", `{"username":"morpheus"}`, http.StatusConflict},
		{"too short", `{"username":"mo"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/players", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	resp, err := http.Get(ts.URL + "/api/v1/players/morpheus")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("lookup status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/v1/players/nobody")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown player status = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/health", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestWebSocketSession(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts, "?player=neo")

	hello := readJSON(t, conn)
	if hello.Type != MsgHello || hello.Hello == nil {
		t.Fatalf("first message = %+v", hello)
	}
	if hello.Hello.Player != "neo" || hello.Hello.Codec != "json" || hello.Hello.Lanes != 3 {
		t.Errorf("hello = %+v", hello.Hello)
	}
	if srv.Sessions() != 1 {
		t.Errorf("sessions = %d, want 1", srv.Sessions())
	}

	idle := readJSON(t, conn)
	if idle.Type != MsgFrame || idle.Frame.Phase != "Idle" {
		t.Fatalf("second message = %+v", idle)
	}
	if len(idle.Frame.Rain) != 0 {
		t.Error("rain sent without ?rain=1")
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgStart}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgCue && m.Cue == "music_start" })
	running := readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgFrame && m.Frame.Phase == "Running"
	})
	startLane := running.Frame.Player.Lane

	if err := conn.WriteJSON(ClientMessage{Type: MsgKey, Key: "ArrowRight"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgFrame && m.Frame.Player.Lane == startLane+1
	})
}

func TestWebSocketTouch(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, "")
	readJSON(t, conn)

	if err := conn.WriteJSON(ClientMessage{Type: MsgKey, Key: "Enter"}); err != nil {
		t.Fatal(err)
	}
	running := readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgFrame && m.Frame.Phase == "Running"
	})
	startLane := running.Frame.Player.Lane

	// A tap on the left half of a 400px wide renderer
	if err := conn.WriteJSON(ClientMessage{Type: MsgTouchStart, X: 50, Y: 300}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(ClientMessage{Type: MsgTouchEnd, X: 52, Y: 301, Width: 400}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgFrame && m.Frame.Player.Lane == startLane-1
	})
}

func TestWebSocketMsgpackWithRain(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, "?codec=msgpack&rain=1")

	//nolint:errcheck
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	var hello ServerMessage
	if err := msgpack.Unmarshal(data, &hello); err != nil {
		t.Fatal(err)
	}
	if hello.Hello == nil || hello.Hello.Codec != "msgpack" {
		t.Fatalf("hello = %+v", hello)
	}

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var frame ServerMessage
	if err := msgpack.Unmarshal(data, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Frame == nil || len(frame.Frame.Rain) != 32 {
		t.Errorf("frame rain = %v", frame.Frame)
	}
}

func TestWebSocketReportsScoreAtGameOver(t *testing.T) {
	store := openTestStore(t)
	srv, ts := newTestServer(t, store)
	// Every obstacle spawns right in front of the car and hits whatever the lane
	srv.cfg.Tuning.Obstacles.LateralTolerance = 100
	srv.cfg.Tuning.Obstacles.SpawnZ = 0
	srv.cfg.Tuning.Spawn.BaseChance = 1
	conn := dial(t, ts, "?player=neo")
	readJSON(t, conn)

	if err := conn.WriteJSON(ClientMessage{Type: MsgStart}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgCue && m.Cue == "collision" })
	over := readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgFrame && m.Frame.Phase == "GameOver"
	})
	if over.Frame.Final != 0 {
		t.Errorf("final = %d, want 0", over.Frame.Final)
	}

	conn.Close()
	srv.Close()

	p, err := store.Player(context.Background(), "neo")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.Runs != 1 {
		t.Errorf("player = %+v, want one recorded run", p)
	}
}

func TestLoadConfig(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	data := "NEONRUN_WEB_ADDR=:9999\nNEONRUN_CORS_ORIGINS=https://a.example, https://b.example\nNEONRUN_TICK_RATE=30\n"
	if err := os.WriteFile(env, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	for _, k := range []string{EnvAddr, EnvOrigins, EnvTickRate} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadConfig(env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.TickRate != 30 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file: %v", err)
	}
}

// slowStep holds every step back so a session can end while one is running.
type slowStep struct {
	*runner.Game
	delay   time.Duration
	entered chan struct{}
	once    sync.Once
}

func (s *slowStep) Step(in core.InputFrame, delta time.Duration) core.StepResult {
	s.once.Do(func() { close(s.entered) })
	time.Sleep(s.delay)
	return s.Game.Step(in, delta)
}

type countingReporter struct {
	calls atomic.Int32
}

func (r *countingReporter) ReportScore(context.Context, string, int) error {
	r.calls.Add(1)
	return nil
}

func TestCloseWaitsForStepInFlight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tuning = config.DefaultRunnerConfig()
	// The first obstacle spawns beside the car and hits on the first step
	cfg.Tuning.Obstacles.SpawnZ = 4
	cfg.Tuning.Obstacles.LateralTolerance = 100
	cfg.Tuning.Spawn.BaseChance = 1
	srv := NewServer(cfg, nil, nil)

	sess := srv.newSession(nil, "neo", codecFor("json"), false)
	reporter := &countingReporter{}
	sess.game = runner.New(cfg.Tuning, runner.WithReporter(reporter))
	sess.game.Reset(core.RuntimeConfig{TickRate: cfg.TickRate, Seed: 1, Player: "neo"})
	sim := &slowStep{Game: sess.game, delay: 100 * time.Millisecond, entered: make(chan struct{})}
	sess.driver = loop.NewDriver(sim, sess.input, time.Millisecond, sess.onFrame)

	if !srv.register(sess) {
		t.Fatal("register refused a session")
	}
	go sess.run(srv.ctx)
	sess.begin()

	select {
	case <-sim.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("driver never stepped")
	}
	srv.unregister(sess)
	srv.Close()

	if got := sess.game.State().Phase; got != core.PhaseGameOver {
		t.Fatalf("phase = %v, want GameOver", got)
	}
	if got := reporter.calls.Load(); got != 1 {
		t.Errorf("reports when Close returned = %d, want 1", got)
	}
}
