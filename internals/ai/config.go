package ai

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	Random Difficulty = iota
	Dumb
	Optimal
	OptimalWithRandomness
)

// concrete difficulties Random rolls between
var rollable = []Difficulty{Dumb, Optimal, OptimalWithRandomness}

func (d Difficulty) String() string {
	switch d {
	case Random:
		return "random"
	case Dumb:
		return "dumb"
	case Optimal:
		return "optimal"
	case OptimalWithRandomness:
		return "optimal_with_randomness"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty accepts the names produced by String, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random":
		return Random, nil
	case "dumb":
		return Dumb, nil
	case "optimal":
		return Optimal, nil
	case "optimal_with_randomness", "optimalwithrandomness":
		return OptimalWithRandomness, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// SearchConfig is fixed for the duration of one move decision.
type SearchConfig struct {
	MaxDepth    int
	PlayerCount int
	BoardSize   int
	Difficulty  Difficulty
	Pruning     bool
}

func (c SearchConfig) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxDepth, c.MaxDepth)
	}
	if c.PlayerCount < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPlayers, c.PlayerCount)
	}
	if c.BoardSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBoardSize, c.BoardSize)
	}
	if c.Difficulty < Random || c.Difficulty > OptimalWithRandomness {
		return fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(c.Difficulty))
	}
	return nil
}

// next returns the player after p in rotation 1..playerCount.
func (c SearchConfig) next(p PlayerID) PlayerID {
	if int(p) >= c.PlayerCount {
		return 1
	}
	return p + 1
}
