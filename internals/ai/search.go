package ai

import (
	"math"
	"sort"
)

type candidate struct {
	move Move
	// immediate is +1/-1 when the move ends the game on the spot in favour
	// of/against the root player, 0 otherwise. Used for ordering only.
	immediate float64
}

// searcher runs minimax over a single branch board, placing and removing
// tiles in place. It is not safe for concurrent use.
type searcher struct {
	cfg     SearchConfig
	root    PlayerID
	board   *Board
	eval    *evaluator
	tracer  Tracer
	scratch [][]candidate

	nodes   int
	deepest int
}

func newSearcher(cfg SearchConfig, root PlayerID, b *Board, tracer Tracer) *searcher {
	eval := newEvaluator(cfg, root, b.size)
	eval.reset(b)
	return &searcher{
		cfg:     cfg,
		root:    root,
		board:   b,
		eval:    eval,
		tracer:  tracer,
		scratch: make([][]candidate, cfg.MaxDepth+1),
	}
}

// evaluate scores the current board. mover is the player whose tile was
// placed last; maximizing tells whether this node picks the best or the worst
// child for the root player.
func (s *searcher) evaluate(depth int, maximizing bool, mover PlayerID, alpha, beta float64) float64 {
	s.nodes++
	if depth > s.deepest {
		s.deepest = depth
	}

	if winner, ok := CheckWin(s.board); ok {
		if winner == s.root {
			return 1
		}
		return -1
	}
	if s.board.full() {
		return 0
	}
	if depth >= s.cfg.MaxDepth {
		return s.eval.score(s.board, mover, maximizing)
	}

	next := s.cfg.next(mover)
	candidates := s.order(depth, next, maximizing)

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, c := range candidates {
		s.board.Place(c.move, next)
		s.tracer.Enter(s.board, c.move)
		score := s.evaluate(depth+1, !maximizing, next, alpha, beta)
		s.tracer.Exit(score)
		s.board.Remove(c.move)

		if maximizing {
			best = math.Max(best, score)
		} else {
			best = math.Min(best, score)
		}

		if s.cfg.Pruning {
			if maximizing {
				alpha = math.Max(alpha, best)
			} else {
				beta = math.Min(beta, best)
			}
			if beta <= alpha {
				break
			}
			continue
		}
		if maximizing && score >= 1 || !maximizing && score <= -1 {
			return score
		}
	}
	return best
}

// order lists the empty cells for player, immediate wins for the root player
// first on maximizing nodes and immediate losses first on minimizing nodes.
func (s *searcher) order(depth int, player PlayerID, maximizing bool) []candidate {
	buf := s.scratch[depth][:0]
	n := s.board.size
	for i, owner := range s.board.cells {
		if owner != Empty {
			continue
		}
		m := Move{Row: i / n, Col: i % n}
		c := candidate{move: m}
		s.board.cells[i] = player
		if s.board.completesLine(m) {
			c.immediate = -1
			if player == s.root {
				c.immediate = 1
			}
		}
		s.board.cells[i] = Empty
		buf = append(buf, c)
	}
	if maximizing {
		sort.SliceStable(buf, func(i, j int) bool { return buf[i].immediate > buf[j].immediate })
	} else {
		sort.SliceStable(buf, func(i, j int) bool { return buf[i].immediate < buf[j].immediate })
	}
	s.scratch[depth] = buf
	return buf
}
