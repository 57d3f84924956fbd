package game

import (
	"TicTacToe/internals/ai"
)

// Bot plays seats of a Game through the search engine.
type Bot struct {
	Engine *ai.Engine
	Config ai.SearchConfig
}

func NewBot(engine *ai.Engine, cfg ai.SearchConfig) *Bot {
	return &Bot{Engine: engine, Config: cfg}
}

// State copies what the engine needs. Callers hold g.Mutex.
func (g *Game) State() (board [][]int, turn, round int) {
	board = make([][]int, len(g.Board))
	for i := range g.Board {
		board[i] = make([]int, len(g.Board[i]))
		copy(board[i], g.Board[i])
	}
	return board, g.Turn, g.Round
}

// NextMove decides a move for the player to move on a copied state, so the
// search can run without holding the game's lock.
func (b *Bot) NextMove(board [][]int, turn, round, players int) (ai.Move, error) {
	cfg := b.Config
	cfg.BoardSize = len(board)
	cfg.PlayerCount = players
	return b.Engine.ChooseMove(board, turn, round, cfg)
}

// Play decides and applies a move for the current player. Callers hold
// g.Mutex.
func (b *Bot) Play(g *Game) (ai.Move, error) {
	board, turn, round := g.State()
	m, err := b.NextMove(board, turn, round, len(g.Players))
	if err != nil {
		return m, err
	}
	return m, g.PlaceTile(turn, m.Row, m.Col)
}
