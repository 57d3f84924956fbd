package game

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TicTacToe/internals/ai"
)

func newMoveServer() http.HandlerFunc {
	engine := ai.NewEngine(ai.WithRand(rand.New(rand.NewSource(1))))
	return MoveHandler(engine, ai.SearchConfig{MaxDepth: 9, PlayerCount: 2, Difficulty: ai.Optimal, Pruning: true}, Limits{MaxBoardSize: 4})
}

func TestMoveHandlerBlocksThreat(t *testing.T) {
	body := `{"board":[[1,1,0],[0,2,0],[0,0,0]],"current_player":2}`
	rec := httptest.NewRecorder()
	newMoveServer()(rec, httptest.NewRequest(http.MethodPost, "/api/move", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var resp moveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Row != 0 || resp.Col != 2 {
		t.Fatalf("expected (0,2), got (%d,%d)", resp.Row, resp.Col)
	}
	if resp.Score == nil || *resp.Score != 0 || resp.Difficulty != "optimal" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestMoveHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"board":`, http.StatusBadRequest},
		{"full board", `{"board":[[1,2,1],[1,2,2],[2,1,1]],"current_player":2}`, http.StatusUnprocessableEntity},
		{"not square", `{"board":[[0,0],[0,0,0]],"current_player":1}`, http.StatusUnprocessableEntity},
		{"empty board", `{"board":[],"current_player":1}`, http.StatusUnprocessableEntity},
		{"bad difficulty", `{"board":[[0,0],[0,0]],"current_player":1,"difficulty":"expert"}`, http.StatusUnprocessableEntity},
		{"one player", `{"board":[[0,0],[0,0]],"current_player":1,"player_count":1}`, http.StatusUnprocessableEntity},
		{"depth over limit", `{"board":[[0,0,0],[0,0,0],[0,0,0]],"current_player":1,"max_depth":25}`, http.StatusUnprocessableEntity},
		{"board over limit", `{"board":[[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0]],"current_player":1,"max_depth":1}`, http.StatusUnprocessableEntity},
		{"pruning disabled", `{"board":[[0,0,0],[0,0,0],[0,0,0]],"current_player":1,"max_depth":1,"pruning":false}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMoveServer()(rec, httptest.NewRequest(http.MethodPost, "/api/move", strings.NewReader(tt.body)))
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body)
			}
		})
	}
}

func TestMoveHandlerLimits(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"depth at limit", `{"board":[[1,1,0],[0,2,0],[0,0,0]],"current_player":2,"max_depth":9}`, http.StatusOK, ""},
		{"depth over limit", `{"board":[[1,1,0],[0,2,0],[0,0,0]],"current_player":2,"max_depth":10}`, http.StatusUnprocessableEntity, ErrDepthLimit.Error()},
		{"board at limit", `{"board":[[1,2,1,2],[2,1,2,1],[1,2,0,0],[0,0,0,0]],"current_player":1,"max_depth":2}`, http.StatusOK, ""},
		{"board over limit", `{"board":[[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0],[0,0,0,0,0]],"current_player":1}`, http.StatusUnprocessableEntity, ErrBoardLimit.Error()},
		{"pruning kept on", `{"board":[[1,1,0],[0,2,0],[0,0,0]],"current_player":2,"pruning":true}`, http.StatusOK, ""},
		{"pruning turned off", `{"board":[[1,1,0],[0,2,0],[0,0,0]],"current_player":2,"pruning":false}`, http.StatusUnprocessableEntity, ErrPruningLocked.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMoveServer()(rec, httptest.NewRequest(http.MethodPost, "/api/move", strings.NewReader(tt.body)))
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body)
			}
			if tt.want != "" && !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, rec.Body)
			}
		})
	}
}
