package users

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"TicTacToe/internals/storage"
)

func TestSignupAndLogin(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	signup, login := SignupHandler(store), LoginHandler(store)

	call := func(h http.HandlerFunc, body string) int {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return rec.Code
	}

	steps := []struct {
		name    string
		handler http.HandlerFunc
		body    string
		code    int
	}{
		{"signup", signup, `{"username":"erin","password":"s3cret","email":"erin@example.com"}`, http.StatusCreated},
		{"duplicate signup", signup, `{"username":"erin","password":"other"}`, http.StatusConflict},
		{"missing password", signup, `{"username":"frank"}`, http.StatusBadRequest},
		{"reserved name", signup, `{"username":"Bot 2","password":"x"}`, http.StatusBadRequest},
		{"bad json", signup, `{`, http.StatusBadRequest},
		{"login", login, `{"username":"erin","password":"s3cret"}`, http.StatusOK},
		{"wrong password", login, `{"username":"erin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", login, `{"username":"gina","password":"x"}`, http.StatusUnauthorized},
	}
	for _, s := range steps {
		if got := call(s.handler, s.body); got != s.code {
			t.Fatalf("%s: expected %d, got %d", s.name, s.code, got)
		}
	}
}
