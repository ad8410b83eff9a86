package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/neon-runner/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	queryTimeout = 3 * time.Second
)

// LeaderboardEntry is one row of the racer ranking.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Best   int    `json:"best"`
	Runs   int    `json:"runs"`
}

// RunEntry is one recorded run.
type RunEntry struct {
	Rank   int       `json:"rank"`
	RunID  string    `json:"runId"`
	Player string    `json:"player"`
	Score  int       `json:"score"`
	At     time.Time `json:"at"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // The client may already be gone
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// limitParam reads ?limit=, clamped to [1, maxLimit].
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Sessions(),
		"storage":  s.store != nil,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scores are not available")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	players, err := s.store.TopPlayers(ctx, limitParam(r))
	if err != nil {
		s.logger.Error("cannot load leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load leaderboard")
		return
	}

	out := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		out[i] = LeaderboardEntry{Rank: i + 1, Player: p.Username, Best: p.BestScore, Runs: p.Runs}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scores are not available")
		return
	}

	scores, err := s.store.TopScores(storage.GameID, limitParam(r))
	if err != nil {
		s.logger.Error("cannot load runs", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load runs")
		return
	}

	out := make([]RunEntry, len(scores))
	for i, e := range scores {
		out[i] = RunEntry{Rank: i + 1, RunID: e.RunID, Player: e.Player, Score: e.Score, At: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scores are not available")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	p, err := s.store.Player(ctx, chi.URLParam(r, "name"))
	if err != nil {
		s.logger.Error("cannot load player", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load player")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "no such player")
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardEntry{Player: p.Username, Best: p.BestScore, Runs: p.Runs})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "scores are not available")
		return
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	p, err := s.store.RegisterPlayer(ctx, body.Username)
	switch {
	case errors.Is(err, storage.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, storage.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username taken")
		return
	case err != nil:
		s.logger.Error("cannot register player", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot register player")
		return
	}
	writeJSON(w, http.StatusCreated, LeaderboardEntry{Player: p.Username, Best: p.BestScore})
}
