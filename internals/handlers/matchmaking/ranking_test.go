package matchmaking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"TicTacToe/internals/models"
	"TicTacToe/internals/storage"
)

func TestRankingAndMatchesHandlers(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "ranking.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, name := range []string{"bob", "alice", "bob"} {
		if err := store.AddWin(name); err != nil {
			t.Fatalf("add win: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		rec := models.MatchRecord{Players: []string{"alice", "bob"}, Winner: "bob", Moves: []string{"1:0:0"}, BoardSize: 3, PlayerCount: 2, Rounds: 1}
		if _, err := store.SaveMatch(rec); err != nil {
			t.Fatalf("save match: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	RankingHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/api/rankings", nil))
	var ranking []models.Ranking
	if err := json.NewDecoder(rec.Body).Decode(&ranking); err != nil {
		t.Fatalf("decode rankings: %v", err)
	}
	if len(ranking) != 2 || ranking[0].Username != "bob" || ranking[0].Score != 2 {
		t.Fatalf("unexpected ranking %+v", ranking)
	}

	rec = httptest.NewRecorder()
	MatchesHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/api/matches?limit=2", nil))
	var matches []models.MatchRecord
	if err := json.NewDecoder(rec.Body).Decode(&matches); err != nil {
		t.Fatalf("decode matches: %v", err)
	}
	if len(matches) != 2 || matches[0].Id <= matches[1].Id {
		t.Fatalf("expected the two newest matches, got %+v", matches)
	}

	rec = httptest.NewRecorder()
	MatchesHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/api/matches?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad limit, got %d", rec.Code)
	}
}
