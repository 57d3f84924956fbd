package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"TicTacToe/internals/models"
	"TicTacToe/internals/storage"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// SignupHandler registers a player. Bot seat names are reserved.
func SignupHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			http.Error(w, "Username and password required", http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(req.Username, "Bot ") {
			http.Error(w, "Username reserved", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("hash password")
			http.Error(w, "Error hashing password", http.StatusInternalServerError)
			return
		}
		err = store.CreateUser(models.User{Username: req.Username, Email: req.Email, Password: string(hash)})
		if errors.Is(err, storage.ErrUserExists) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("username", req.Username).Msg("create user")
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		log.Info().Str("username", req.Username).Msg("user signed up")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("Signup successful"))
	}
}

func LoginHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		user, err := store.UserByName(req.Username)
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		} else if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("Login successful"))
	}
}
