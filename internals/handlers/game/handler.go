package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"TicTacToe/internals/ai"
)

var (
	ErrDepthLimit    = errors.New("max_depth above server limit")
	ErrBoardLimit    = errors.New("board larger than server limit")
	ErrPruningLocked = errors.New("pruning can not be disabled on this server")
)

// Limits caps what a single request may ask the engine to search. A zero
// MaxDepth falls back to the default config's depth.
type Limits struct {
	MaxDepth     int
	MaxBoardSize int
}

type moveRequest struct {
	Board         [][]int `json:"board"`
	CurrentPlayer int     `json:"current_player"`
	CurrentRound  int     `json:"current_round"`
	PlayerCount   int     `json:"player_count"`
	MaxDepth      int     `json:"max_depth"`
	Difficulty    string  `json:"difficulty"`
	Pruning       *bool   `json:"pruning"`
}

type moveResponse struct {
	Row        int      `json:"row"`
	Col        int      `json:"col"`
	Difficulty string   `json:"difficulty"`
	Score      *float64 `json:"score,omitempty"`
	Nodes      int      `json:"nodes"`
	ElapsedMs  int64    `json:"elapsed_ms"`
}

// MoveHandler answers POST /api/move with the engine's choice for the posted
// position. Fields left out of the request fall back to defaults; a missing
// current_round is derived from the number of occupied cells. Requests beyond
// limits are rejected before any search starts.
func MoveHandler(engine *ai.Engine, defaults ai.SearchConfig, limits Limits) http.HandlerFunc {
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = defaults.MaxDepth
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		cfg := defaults
		cfg.BoardSize = len(req.Board)
		if req.PlayerCount != 0 {
			cfg.PlayerCount = req.PlayerCount
		}
		if req.MaxDepth != 0 {
			cfg.MaxDepth = req.MaxDepth
		}
		if req.Pruning != nil {
			if defaults.Pruning && !*req.Pruning {
				writeError(w, http.StatusUnprocessableEntity, ErrPruningLocked.Error())
				return
			}
			cfg.Pruning = *req.Pruning
		}
		if err := limits.check(cfg); err != nil {
			log.Warn().Err(err).Int("max_depth", cfg.MaxDepth).Int("board_size", cfg.BoardSize).Msg("move request over limits")
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.Difficulty != "" {
			d, err := ai.ParseDifficulty(req.Difficulty)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			cfg.Difficulty = d
		}
		if req.CurrentRound == 0 {
			req.CurrentRound = 1
			for _, row := range req.Board {
				for _, v := range row {
					if v != 0 {
						req.CurrentRound++
					}
				}
			}
		}

		d, err := engine.Decide(req.Board, req.CurrentPlayer, req.CurrentRound, cfg)
		if err != nil {
			status := http.StatusUnprocessableEntity
			if !isContractViolation(err) {
				status = http.StatusInternalServerError
			}
			log.Warn().Err(err).Msg("rejected move request")
			writeError(w, status, err.Error())
			return
		}

		resp := moveResponse{
			Row:        d.Move.Row,
			Col:        d.Move.Col,
			Difficulty: d.Difficulty.String(),
			Nodes:      d.Nodes,
			ElapsedMs:  d.Elapsed.Milliseconds(),
		}
		for _, sm := range d.Scores {
			if sm.Move == d.Move {
				score := sm.Score
				resp.Score = &score
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func (l Limits) check(cfg ai.SearchConfig) error {
	if cfg.MaxDepth > l.MaxDepth {
		return fmt.Errorf("%w: %d > %d", ErrDepthLimit, cfg.MaxDepth, l.MaxDepth)
	}
	if l.MaxBoardSize > 0 && cfg.BoardSize > l.MaxBoardSize {
		return fmt.Errorf("%w: %d > %d", ErrBoardLimit, cfg.BoardSize, l.MaxBoardSize)
	}
	return nil
}

func isContractViolation(err error) bool {
	for _, target := range []error{
		ai.ErrNoEmptyCells, ai.ErrNotSquare, ai.ErrBoardSizeMismatch, ai.ErrTooFewPlayers,
		ai.ErrInvalidPlayer, ai.ErrInconsistentSnapshot, ai.ErrGameOver,
		ai.ErrInvalidMaxDepth, ai.ErrInvalidBoardSize, ai.ErrUnknownDifficulty,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
