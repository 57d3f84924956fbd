package matchmaking

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"TicTacToe/internals/handlers/game"
	"TicTacToe/internals/models"
	"TicTacToe/internals/storage"
)

type Player struct {
	Username string
	Conn     *websocket.Conn
	ID       int // seat number, 1-based
	Bot      bool
}

// Move is the message a client sends to place a tile. Player is filled in
// from the connection, never trusted from the payload.
type Move struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player int    `json:"player"`
	Round  int    `json:"round,omitempty"`
}

type Settings struct {
	BoardSize   int
	PlayerCount int
	Timeout     time.Duration // how long to wait for more humans
	BotDelay    time.Duration
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Lobby seats players into matches and runs them.
type Lobby struct {
	settings Settings
	bot      *game.Bot
	store    *storage.Store
	queue    chan *Player
	mutex    sync.Mutex // protects games
	games    map[string]*game.Game
	started  atomic.Uint64
}

func NewLobby(settings Settings, bot *game.Bot, store *storage.Store) *Lobby {
	return &Lobby{
		settings: settings,
		bot:      bot,
		store:    store,
		queue:    make(chan *Player, settings.PlayerCount),
		games:    make(map[string]*game.Game),
	}
}

// gameID is unique per lobby even for matches started in the same second.
func (l *Lobby) gameID(first string) string {
	return fmt.Sprintf("%s-%d-%s", time.Now().Format("150405"), l.started.Add(1), first)
}

// ActiveGames reports how many matches are running.
func (l *Lobby) ActiveGames() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.games)
}

// Matchmaker groups queued players into matches until ctx is cancelled.
// Seats still empty when the timeout fires are given to bots.
func (l *Lobby) Matchmaker(ctx context.Context) {
	log.Info().Int("seats", l.settings.PlayerCount).Msg("matchmaker started")
	for {
		var first *Player
		select {
		case <-ctx.Done():
			return
		case first = <-l.queue:
		}
		log.Info().Str("player", first.Username).Msg("waiting for opponents")

		seats := []*Player{first}
		timer := time.NewTimer(l.settings.Timeout)
	collect:
		for len(seats) < l.settings.PlayerCount {
			select {
			case p := <-l.queue:
				seats = append(seats, p)
			case <-timer.C:
				break collect
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
		timer.Stop()

		for i := len(seats); i < l.settings.PlayerCount; i++ {
			seats = append(seats, &Player{Username: fmt.Sprintf("Bot %d", i+1), Bot: true})
		}
		go l.startGame(seats)
	}
}

// HandleGame upgrades /ws/game?username=... and queues the player.
func (l *Lobby) HandleGame(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	log.Info().Str("player", username).Msg("player connected")
	l.queue <- &Player{Username: username, Conn: conn}
}

func (l *Lobby) startGame(seats []*Player) {
	names := make([]string, len(seats))
	for i, p := range seats {
		p.ID = i + 1
		names[i] = p.Username
	}
	id := l.gameID(seats[0].Username)
	g := game.NewGame(id, l.settings.BoardSize, names)

	l.mutex.Lock()
	l.games[id] = g
	l.mutex.Unlock()
	log.Info().Str("game", id).Strs("players", names).Msg("match started")

	for _, p := range seats {
		l.send(p, map[string]interface{}{
			"type":            "GAME_START",
			"game_id":         g.ID,
			"board":           g.Board,
			"player_number":   p.ID,
			"players":         names,
			"starting_player": g.Turn,
		})
	}
	l.play(g, seats)
}

// play owns the match: it is the only goroutine writing to the connections
// and to the game state.
func (l *Lobby) play(g *game.Game, seats []*Player) {
	moves := make(chan Move)
	done := make(chan struct{})
	defer func() {
		close(done)
		for _, p := range seats {
			if p.Conn != nil {
				p.Conn.Close()
			}
		}
		l.mutex.Lock()
		delete(l.games, g.ID)
		l.mutex.Unlock()
		log.Info().Str("game", g.ID).Msg("match cleaned up")
	}()

	for _, p := range seats {
		if !p.Bot {
			go readMoves(p, moves, done)
		}
	}
	l.scheduleBot(g, seats, moves, done)

	for move := range moves {
		switch move.Type {
		case "LEAVE":
			p := seats[move.Player-1]
			p.Bot, p.Conn = true, nil
			l.broadcast(seats, map[string]interface{}{
				"type":    "PLAYER_REPLACED",
				"player":  move.Player,
				"message": p.Username + " left, a bot takes over the seat",
			})
			if allBots(seats) {
				log.Info().Str("game", g.ID).Msg("all humans left, match abandoned")
				return
			}
			g.Mutex.Lock()
			onTurn := g.Turn == move.Player
			g.Mutex.Unlock()
			if onTurn {
				l.scheduleBot(g, seats, moves, done)
			}
		case "MOVE":
			placed, over := l.applyMove(g, seats, move)
			if over {
				return
			}
			if placed {
				l.scheduleBot(g, seats, moves, done)
			}
		}
	}
}

func readMoves(p *Player, moves chan<- Move, done <-chan struct{}) {
	for {
		var m Move
		if err := p.Conn.ReadJSON(&m); err != nil {
			log.Info().Err(err).Str("player", p.Username).Msg("player disconnected")
			select {
			case moves <- Move{Type: "LEAVE", Player: p.ID}:
			case <-done:
			}
			return
		}
		m.Player = p.ID
		select {
		case moves <- m:
		case <-done:
			return
		}
	}
}

// applyMove places a tile. It reports whether the tile was placed and
// whether the match just ended.
func (l *Lobby) applyMove(g *game.Game, seats []*Player, move Move) (placed, over bool) {
	g.Mutex.Lock()
	if move.Player != g.Turn || move.Round != 0 && move.Round != g.Round {
		g.Mutex.Unlock()
		l.send(seats[move.Player-1], map[string]interface{}{"type": "ERROR", "message": game.ErrNotYourTurn.Error()})
		return false, false
	}
	if err := g.PlaceTile(move.Player, move.Row, move.Col); err != nil {
		g.Mutex.Unlock()
		log.Warn().Err(err).Str("game", g.ID).Int("player", move.Player).Msg("invalid move")
		l.send(seats[move.Player-1], map[string]interface{}{"type": "ERROR", "message": err.Error()})
		return false, false
	}
	response := map[string]interface{}{
		"type":      "MOVE",
		"row":       move.Row,
		"col":       move.Col,
		"player":    move.Player,
		"next_turn": g.Turn,
		"round":     g.Round,
		"over":      g.Over,
	}
	over = g.Over
	g.Mutex.Unlock()

	log.Debug().Str("game", g.ID).Int("player", move.Player).Int("row", move.Row).Int("col", move.Col).Msg("move")
	l.broadcast(seats, response)
	if over {
		l.finish(g, seats)
	}
	return true, over
}

func (l *Lobby) finish(g *game.Game, seats []*Player) {
	g.Mutex.Lock()
	record := models.MatchRecord{
		Players:     g.Players,
		Winner:      g.WinnerName(),
		Moves:       g.Moves,
		BoardSize:   g.Size(),
		PlayerCount: len(g.Players),
		Rounds:      g.Round - 1,
	}
	winner := g.Winner
	g.Mutex.Unlock()

	if _, err := l.store.SaveMatch(record); err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("failed to save match")
	}
	message := "It's a draw!"
	if winner != 0 {
		message = record.Winner + " wins!"
		if err := l.store.AddWin(record.Winner); err != nil {
			log.Error().Err(err).Str("game", g.ID).Msg("failed to update ranking")
		}
	}
	log.Info().Str("game", g.ID).Str("winner", record.Winner).Int("rounds", record.Rounds).Msg("match over")
	l.broadcast(seats, map[string]interface{}{
		"type":    "GAME_OVER",
		"winner":  winner,
		"message": message,
	})
}

// scheduleBot starts a search when the seat on turn is a bot. The search
// runs on a copy of the board and the result comes back through moves like
// any human move.
func (l *Lobby) scheduleBot(g *game.Game, seats []*Player, moves chan<- Move, done <-chan struct{}) {
	g.Mutex.Lock()
	if g.Over || !seats[g.Turn-1].Bot {
		g.Mutex.Unlock()
		return
	}
	board, turn, round := g.State()
	g.Mutex.Unlock()

	go func() {
		select {
		case <-time.After(l.settings.BotDelay):
		case <-done:
			return
		}
		m, err := l.bot.NextMove(board, turn, round, len(seats))
		if err != nil {
			log.Error().Err(err).Str("game", g.ID).Int("player", turn).Msg("bot failed to move")
			return
		}
		select {
		case moves <- Move{Type: "MOVE", Row: m.Row, Col: m.Col, Player: turn, Round: round}:
		case <-done:
		}
	}()
}

func (l *Lobby) send(p *Player, msg interface{}) {
	if p.Bot || p.Conn == nil {
		return
	}
	if err := p.Conn.WriteJSON(msg); err != nil {
		log.Warn().Err(err).Str("player", p.Username).Msg("write failed")
	}
}

func (l *Lobby) broadcast(seats []*Player, msg interface{}) {
	for _, p := range seats {
		l.send(p, msg)
	}
}

func allBots(seats []*Player) bool {
	for _, p := range seats {
		if !p.Bot {
			return false
		}
	}
	return true
}
