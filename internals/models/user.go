package models

import "time"

type User struct {
	Id       int    `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Password string `db:"password"` // bcrypt hash
}

// MatchRecord is a finished match as stored in the games table.
type MatchRecord struct {
	Id          int       `db:"id" json:"id"`
	Players     []string  `db:"players" json:"players"`
	Winner      string    `db:"winner" json:"winner"`
	Moves       []string  `db:"moves" json:"moves"`
	BoardSize   int       `db:"board_size" json:"board_size"`
	PlayerCount int       `db:"player_count" json:"player_count"`
	Rounds      int       `db:"rounds" json:"rounds"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Ranking struct {
	Username string `db:"username" json:"username"`
	Score    int    `db:"score" json:"score"`
}
