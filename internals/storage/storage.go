package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"TicTacToe/internals/models"
)

var (
	ErrUserExists   = errors.New("username already taken")
	ErrUserNotFound = errors.New("user not found")
)

// Store keeps users, finished matches and rankings in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rankings (
	username TEXT PRIMARY KEY,
	score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	players TEXT NOT NULL,
	winner TEXT,
	moves TEXT,
	board_size INTEGER NOT NULL,
	player_count INTEGER NOT NULL,
	rounds INTEGER NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Migrate creates missing tables and gives every known user a ranking row.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	_, err := s.db.Exec(`
		INSERT INTO rankings (username, score)
		SELECT username, 0
		FROM users
		WHERE username NOT IN (SELECT username FROM rankings)`)
	if err != nil {
		return fmt.Errorf("backfill rankings: %w", err)
	}
	return nil
}

// SaveMatch stores a finished match and returns its id. Winner is "draw"
// when nobody completed a line.
func (s *Store) SaveMatch(m models.MatchRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO games (players, winner, moves, board_size, player_count, rounds)
		VALUES (?, ?, ?, ?, ?, ?)`,
		strings.Join(m.Players, ","), m.Winner, strings.Join(m.Moves, ","),
		m.BoardSize, m.PlayerCount, m.Rounds)
	if err != nil {
		return 0, fmt.Errorf("save match: %w", err)
	}
	return res.LastInsertId()
}

// RecentMatches returns up to limit matches, newest first.
func (s *Store) RecentMatches(limit int) ([]models.MatchRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, players, winner, moves, board_size, player_count, rounds, created_at
		FROM games ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var m models.MatchRecord
		var players, moves string
		if err := rows.Scan(&m.Id, &players, &m.Winner, &moves, &m.BoardSize, &m.PlayerCount, &m.Rounds, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Players = strings.Split(players, ",")
		if moves != "" {
			m.Moves = strings.Split(moves, ",")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddWin increases a player's score.
func (s *Store) AddWin(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO rankings (username, score)
		VALUES (?, 1)
		ON CONFLICT(username) DO UPDATE SET score = score + 1`, username)
	if err != nil {
		return fmt.Errorf("add win for %s: %w", username, err)
	}
	return nil
}

// Rankings lists players by score, highest first, then by name.
func (s *Store) Rankings() ([]models.Ranking, error) {
	rows, err := s.db.Query(`SELECT username, score FROM rankings`)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	var ranking []models.Ranking
	for rows.Next() {
		var r models.Ranking
		if err := rows.Scan(&r.Username, &r.Score); err != nil {
			log.Warn().Err(err).Msg("skipping ranking row")
			continue
		}
		ranking = append(ranking, r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score == ranking[j].Score {
			return ranking[i].Username < ranking[j].Username
		}
		return ranking[i].Score > ranking[j].Score
	})
	return ranking, rows.Err()
}

// CreateUser inserts a user with an already hashed password and opens a
// ranking row for them.
func (s *Store) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}
	if _, err := s.db.Exec(`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		u.Username, u.Password, u.Email); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO rankings (username, score) VALUES (?, 0)`, u.Username); err != nil {
		log.Warn().Err(err).Str("username", u.Username).Msg("failed to open ranking row")
	}
	return nil
}

func (s *Store) UserByName(username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRow(`SELECT id, username, password, email FROM users WHERE username = ?`, username).
		Scan(&u.Id, &u.Username, &u.Password, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}
