package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"TicTacToe/internals/ai"
	"TicTacToe/internals/config"
	"TicTacToe/internals/handlers/game"
	"TicTacToe/internals/handlers/matchmaking"
	"TicTacToe/internals/handlers/users"
	"TicTacToe/internals/storage"
)

func main() {
	cfg := config.MustLoad()
	cfg.SetupLogger()
	log.Info().Msg("config loaded")

	store, err := storage.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.SQLitePath).Msg("database ready")

	searchCfg, err := cfg.SearchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ai config")
	}
	engine := newEngine(cfg)
	if cfg.AI.Calibrate {
		searchCfg.MaxDepth = engine.Calibrate(searchCfg.BoardSize, searchCfg.PlayerCount, searchCfg.MaxDepth,
			time.Duration(cfg.AI.CalibrateMinMs)*time.Millisecond, time.Duration(cfg.AI.CalibrateMaxMs)*time.Millisecond)
		log.Info().Int("max_depth", searchCfg.MaxDepth).Msg("search depth calibrated")
	}

	lobby := matchmaking.NewLobby(matchmaking.Settings{
		BoardSize:   cfg.Game.BoardSize,
		PlayerCount: cfg.Game.PlayerCount,
		Timeout:     cfg.MatchmakingTimeout(),
		BotDelay:    cfg.BotDelay(),
	}, game.NewBot(engine, searchCfg), store)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go lobby.Matchmaker(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/signup", users.SignupHandler(store))
	router.Post("/api/login", users.LoginHandler(store))
	router.Post("/api/move", game.MoveHandler(engine, searchCfg, game.Limits{
		MaxDepth:     searchCfg.MaxDepth,
		MaxBoardSize: cfg.Game.MaxBoardSize,
	}))
	router.Get("/api/rankings", matchmaking.RankingHandler(store))
	router.Get("/api/matches", matchmaking.MatchesHandler(store))
	router.Get("/ws/game", lobby.HandleGame)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: c.Handler(router),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-done
	log.Info().Msg("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("failed to gracefully shutdown server")
	}
	log.Info().Int("active_games", lobby.ActiveGames()).Msg("server stopped")
}

func newEngine(cfg *config.Config) *ai.Engine {
	var opts []ai.Option
	if cfg.AI.ScoreCacheSize > 0 {
		cache, err := ai.NewLRUScoreCache(cfg.AI.ScoreCacheSize)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create score cache")
		}
		opts = append(opts, ai.WithScoreCache(cache))
	}
	if cfg.AI.Trace {
		opts = append(opts, ai.WithTracerFactory(func(b *ai.Board) ai.Tracer { return ai.NewTreeTracer(b) }))
	}
	return ai.NewEngine(opts...)
}
