package ai

import (
	"time"

	"github.com/rs/zerolog/log"
)

const calibrationRounds = 12

// Calibrate finds a max depth whose Optimal decision on an opened board of
// the given size takes between lo and hi. It starts at start, steps one ply
// per round and stops once the timing is in range, the direction would flip,
// or the depth can not move further.
func (e *Engine) Calibrate(boardSize, playerCount, start int, lo, hi time.Duration) int {
	depth := start
	if depth < 1 {
		depth = 1
	}
	limit := boardSize * boardSize
	step := 0
	for round := 0; round < calibrationRounds; round++ {
		b := NewBoard(boardSize)
		b.Place(Move{}, 1)
		b.player = 2
		cfg := SearchConfig{MaxDepth: depth, PlayerCount: playerCount, BoardSize: boardSize, Difficulty: Optimal, Pruning: true}

		begin := time.Now()
		e.scoreMoves(b, cfg)
		elapsed := time.Since(begin)
		log.Debug().Int("depth", depth).Dur("elapsed", elapsed).Msg("calibration round")

		switch {
		case elapsed > hi:
			if step > 0 {
				return depth - 1
			}
			if depth == 1 {
				return depth
			}
			depth--
			step = -1
		case elapsed < lo:
			if step < 0 || depth >= limit {
				return depth
			}
			depth++
			step = 1
		default:
			return depth
		}
	}
	return depth
}
