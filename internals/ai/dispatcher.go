package ai

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

// deviation chance for OptimalWithRandomness, in tenths
const deviationTenths = 3

// Rand is the random source behind tie-breaks, difficulty rolls and Dumb
// moves. One engine may serve concurrent decisions, so sources passed to
// WithRand are serialized behind a mutex.
type Rand interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int { return frand.Intn(n) }

type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// ScoredMove is a root move with the minimax value of the position it
// leads to. Board is the branch board after the move, kept for diagnostics.
type ScoredMove struct {
	Move
	Score float64
	Board *Board
	Trace Tracer
}

// Decision is the outcome of one Decide call.
type Decision struct {
	Move       Move
	Difficulty Difficulty
	Scores     []ScoredMove
	Nodes      int
	Deepest    int
	Elapsed    time.Duration
	Cached     bool
}

type Engine struct {
	rng       Rand
	newTracer func(*Board) Tracer
	cache     ScoreCache
	workers   int
}

type Option func(*Engine)

// WithRand pins the random source, mostly for tests.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = &lockedRand{r: r} }
}

// WithTracerFactory installs a tracer per root branch.
func WithTracerFactory(f func(*Board) Tracer) Option {
	return func(e *Engine) { e.newTracer = f }
}

func WithScoreCache(c ScoreCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithWorkers bounds how many root branches are searched at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng:       frandSource{},
		newTracer: func(*Board) Tracer { return NopTracer{} },
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// ChooseMove decides a move with a shared engine backed by frand.
func ChooseMove(occupancy [][]int, currentPlayer, currentRound int, cfg SearchConfig) (Move, error) {
	return defaultEngine.ChooseMove(occupancy, currentPlayer, currentRound, cfg)
}

func (e *Engine) ChooseMove(occupancy [][]int, currentPlayer, currentRound int, cfg SearchConfig) (Move, error) {
	d, err := e.Decide(occupancy, currentPlayer, currentRound, cfg)
	if err != nil {
		return Move{}, err
	}
	return d.Move, nil
}

// Decide validates the request, searches every empty cell in parallel and
// picks a move according to the configured difficulty.
func (e *Engine) Decide(occupancy [][]int, currentPlayer, currentRound int, cfg SearchConfig) (Decision, error) {
	start := time.Now()
	b, err := prepare(occupancy, currentPlayer, currentRound, cfg)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Difficulty: cfg.Difficulty}
	if d.Difficulty == Random {
		d.Difficulty = rollable[e.rng.Intn(len(rollable))]
	}

	if d.Difficulty == Dumb {
		empty := b.EmptyCells()
		d.Move = empty[e.rng.Intn(len(empty))]
	} else {
		key := cacheKey(b, cfg)
		if e.cache != nil {
			var cached []ScoredMove
			if cached, d.Cached = e.cache.Get(key); d.Cached {
				d.Scores = append([]ScoredMove(nil), cached...)
			}
		}
		if !d.Cached {
			d.Scores, d.Nodes, d.Deepest = e.scoreMoves(b, cfg)
			if e.cache != nil {
				e.cache.Add(key, scoresOnly(d.Scores))
			}
		}
		d.Move = e.pick(d.Scores, d.Difficulty)
	}
	d.Elapsed = time.Since(start)

	log.Debug().
		Str("difficulty", d.Difficulty.String()).
		Int("player", currentPlayer).
		Int("round", currentRound).
		Int("root_moves", len(d.Scores)).
		Int("nodes", d.Nodes).
		Int("deepest", d.Deepest).
		Bool("cached", d.Cached).
		Dur("elapsed", d.Elapsed).
		Stringer("move", d.Move).
		Msg("ai decision")
	for _, sm := range d.Scores {
		if tree, ok := sm.Trace.(fmt.Stringer); ok {
			log.Debug().Stringer("root", sm.Move).Float64("score", sm.Score).Msg("search tree\n" + tree.String())
		}
	}
	return d, nil
}

// scoresOnly drops the branch boards and traces so cached entries share no
// mutable state with callers.
func scoresOnly(scores []ScoredMove) []ScoredMove {
	out := make([]ScoredMove, len(scores))
	for i, sm := range scores {
		out[i] = ScoredMove{Move: sm.Move, Score: sm.Score}
	}
	return out
}

func prepare(occupancy [][]int, currentPlayer, currentRound int, cfg SearchConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := Snapshot(occupancy, currentPlayer, currentRound)
	if err != nil {
		return nil, err
	}
	if b.size != cfg.BoardSize {
		return nil, fmt.Errorf("%w: board is %d, config says %d", ErrBoardSizeMismatch, b.size, cfg.BoardSize)
	}
	if currentPlayer > cfg.PlayerCount {
		return nil, fmt.Errorf("%w: current player %d of %d", ErrInvalidPlayer, currentPlayer, cfg.PlayerCount)
	}
	for i, owner := range b.cells {
		if int(owner) > cfg.PlayerCount {
			return nil, fmt.Errorf("%w: cell (%d,%d) owned by %d of %d players",
				ErrInvalidPlayer, i/b.size, i%b.size, owner, cfg.PlayerCount)
		}
	}
	if b.full() {
		return nil, ErrNoEmptyCells
	}
	if winner, ok := CheckWin(b); ok {
		return nil, fmt.Errorf("%w: player %d", ErrGameOver, winner)
	}
	return b, nil
}

// ScoreMoves evaluates every empty cell of b for the player to move.
func (e *Engine) ScoreMoves(b *Board, cfg SearchConfig) []ScoredMove {
	scores, _, _ := e.scoreMoves(b, cfg)
	return scores
}

type branchResult struct {
	scored  ScoredMove
	nodes   int
	deepest int
}

// scoreMoves fans one search per root move out to the worker pool. b is only
// read here; each branch clones it before placing anything.
func (e *Engine) scoreMoves(b *Board, cfg SearchConfig) ([]ScoredMove, int, int) {
	moves := b.EmptyCells()
	results := make(chan branchResult, len(moves))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, m := range moves {
		g.Go(func() error {
			results <- e.searchBranch(b, m, cfg)
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	scores := make([]ScoredMove, 0, len(moves))
	nodes, deepest := 0, 0
	for r := range results {
		scores = append(scores, r.scored)
		nodes += r.nodes
		deepest = max(deepest, r.deepest)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Row != scores[j].Row {
			return scores[i].Row < scores[j].Row
		}
		return scores[i].Col < scores[j].Col
	})
	return scores, nodes, deepest
}

func (e *Engine) searchBranch(root *Board, m Move, cfg SearchConfig) branchResult {
	b := root.Clone()
	player := b.player
	tracer := e.newTracer(b)

	b.Place(m, player)
	tracer.Enter(b, m)
	s := newSearcher(cfg, player, b, tracer)
	// The root player just moved, so the opponent's reply is a minimizing node.
	score := s.evaluate(0, false, player, math.Inf(-1), math.Inf(1))
	tracer.Exit(score)

	sm := ScoredMove{Move: m, Score: score, Board: b}
	if _, nop := tracer.(NopTracer); !nop {
		sm.Trace = tracer
	}
	return branchResult{scored: sm, nodes: s.nodes, deepest: s.deepest}
}

// pick takes a best-scoring move, breaking ties uniformly at random. With
// OptimalWithRandomness it swaps in a random non-optimal move 30% of the time.
func (e *Engine) pick(scores []ScoredMove, difficulty Difficulty) Move {
	best := math.Inf(-1)
	for _, sm := range scores {
		best = math.Max(best, sm.Score)
	}
	var optimal, rest []Move
	for _, sm := range scores {
		if sm.Score == best {
			optimal = append(optimal, sm.Move)
		} else {
			rest = append(rest, sm.Move)
		}
	}
	choice := optimal[e.rng.Intn(len(optimal))]
	if difficulty == OptimalWithRandomness && len(rest) > 0 && e.rng.Intn(10) < deviationTenths {
		choice = rest[e.rng.Intn(len(rest))]
	}
	return choice
}
