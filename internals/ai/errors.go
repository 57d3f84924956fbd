package ai

import "errors"

// Contract violations. The dispatcher never returns a move when one of these
// is reported.
var (
	ErrNoEmptyCells         = errors.New("no empty cells left on the board")
	ErrNotSquare            = errors.New("board is not square")
	ErrBoardSizeMismatch    = errors.New("board size does not match config")
	ErrTooFewPlayers        = errors.New("at least two players are required")
	ErrInvalidPlayer        = errors.New("player id out of range")
	ErrInconsistentSnapshot = errors.New("occupied cells do not match current round")
	ErrGameOver             = errors.New("board already has a winner")
)

// Configuration errors.
var (
	ErrInvalidMaxDepth   = errors.New("max depth must be positive")
	ErrInvalidBoardSize  = errors.New("board size must be positive")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
