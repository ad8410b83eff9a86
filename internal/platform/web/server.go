package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/games/runner"
	"github.com/vovakirdan/neon-runner/internal/loop"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

// Server is the HTTP and WebSocket gateway.
type Server struct {
	cfg    Config
	store  *storage.Store
	logger *log.Logger
	router chi.Router

	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewServer creates a gateway. store may be nil, which disables the
// leaderboard and score reporting.
func NewServer(cfg Config, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(sub chi.Router) {
		sub.Get("/health", s.handleHealth)
		sub.Get("/leaderboard", s.handleLeaderboard)
		sub.Get("/runs", s.handleRuns)
		sub.Get("/players/{name}", s.handlePlayer)
		sub.Post("/players", s.handleRegister)
	})
	r.Get("/ws", s.handleWS)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs each request through the gateway logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleWS upgrades the connection and runs a session on it until either
// side goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}

	q := r.URL.Query()
	player := ""
	if name := q.Get("player"); name != "" {
		if player, err = storage.ValidateUsername(name); err != nil {
			s.logger.Warn("username not accepted, racing anonymously", "error", err)
		}
	}

	sess := s.newSession(conn, player, codecFor(q.Get("codec")), q.Get("rain") == "1")
	if !s.register(sess) {
		conn.Close()
		return
	}
	defer s.unregister(sess)

	sess.logger.Info("session started", "remote", r.RemoteAddr, "codec", sess.codec.Name())
	sess.hello(s.cfg.TickRate, s.cfg.Tuning.Road.Lanes)
	sess.pushFrame()

	go sess.WritePump()
	go sess.run(s.ctx)
	sess.ReadPump()

	sess.logger.Info("session ended")
}

func (s *Server) newSession(conn *websocket.Conn, player string, codec Codec, withRain bool) *Session {
	id := uuid.New().String()
	sess := &Session{
		id:       id,
		player:   player,
		conn:     conn,
		codec:    codec,
		logger:   s.logger.With("session", id),
		withRain: withRain,
		input:    core.NewInputLatch(),
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	opts := []runner.Option{
		runner.WithAudio(cueAudio{emit: sess.cue}),
		runner.WithLogger(sess.logger),
	}
	if s.store != nil {
		opts = append(opts, runner.WithReporter(s.store))
	}
	sess.game = runner.New(s.cfg.Tuning, opts...)
	sess.game.Reset(core.RuntimeConfig{
		TickRate: s.cfg.TickRate,
		Seed:     time.Now().UnixNano(),
		Player:   player,
	})

	interval := core.RuntimeConfig{TickRate: s.cfg.TickRate}.FrameInterval()
	sess.driver = loop.NewDriver(sess.game, sess.input, interval, sess.onFrame)
	return sess
}

func (s *Server) register(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	return true
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	// A step still running may end the game and start a report
	sess.close()
	<-sess.stopped
	sess.game.WaitReports()
	s.wg.Done()
}

// Sessions returns the number of connected renderers.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web gateway", "address", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close ends every session and waits for their score reports.
func (s *Server) Close() {
	s.mu.Lock()
	s.cancel()
	for _, sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
