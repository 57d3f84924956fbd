// Package arena plays engine-driven seats against each other.
package arena

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"TicTacToe/internals/ai"
	"TicTacToe/internals/handlers/game"
	"TicTacToe/internals/models"
)

var ErrNoSeats = errors.New("arena needs at least two seats")

// Seat is one bot player. Its config's board size and player count are
// overwritten by the match.
type Seat struct {
	Name   string
	Config ai.SearchConfig
}

type Result struct {
	Winner int // seat number, 0 on a draw
	Name   string
	Moves  []string
	Rounds int
}

// Record converts the result into a storable match.
func (r Result) Record(size int, seats []Seat) models.MatchRecord {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Name
	}
	return models.MatchRecord{
		Players:     names,
		Winner:      r.Name,
		Moves:       r.Moves,
		BoardSize:   size,
		PlayerCount: len(seats),
		Rounds:      r.Rounds,
	}
}

// Run plays one match to completion with seat i moving as player i+1.
func Run(engine *ai.Engine, size int, seats []Seat) (Result, error) {
	if len(seats) < 2 {
		return Result{}, ErrNoSeats
	}
	names := make([]string, len(seats))
	bots := make([]*game.Bot, len(seats))
	for i, s := range seats {
		names[i] = s.Name
		bots[i] = game.NewBot(engine, s.Config)
	}

	g := game.NewGame(fmt.Sprintf("arena-%dx%d", size, size), size, names)
	for !g.Over {
		if _, err := bots[g.Turn-1].Play(g); err != nil {
			return Result{}, fmt.Errorf("seat %d round %d: %w", g.Turn, g.Round, err)
		}
	}

	res := Result{Winner: g.Winner, Name: g.WinnerName(), Moves: g.Moves, Rounds: g.Round - 1}
	log.Debug().Str("winner", res.Name).Int("rounds", res.Rounds).Msg("arena match finished")
	return res, nil
}
