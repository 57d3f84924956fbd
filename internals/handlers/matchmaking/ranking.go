package matchmaking

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"TicTacToe/internals/storage"
)

// RankingHandler serves GET /api/rankings.
func RankingHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranking, err := store.Rankings()
		if err != nil {
			log.Error().Err(err).Msg("fetch rankings")
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ranking)
	}
}

// MatchesHandler serves GET /api/matches?limit=N, newest first.
func MatchesHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		matches, err := store.RecentMatches(limit)
		if err != nil {
			log.Error().Err(err).Msg("fetch matches")
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matches)
	}
}
