package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"TicTacToe/internals/ai"
	"TicTacToe/internals/arena"
	"TicTacToe/internals/config"
	"TicTacToe/internals/storage"
)

func main() {
	games := flag.Int("games", 10, "number of matches to play")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to configuration file")
	store := flag.Bool("store", true, "save finished matches to the database")
	flag.Parse()

	if *configPath == "" {
		log.Fatal().Msg("config path is not set")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.SetupLogger()

	searchCfg, err := cfg.SearchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ai config")
	}

	var opts []ai.Option
	if cfg.AI.ScoreCacheSize > 0 {
		cache, err := ai.NewLRUScoreCache(cfg.AI.ScoreCacheSize)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create score cache")
		}
		opts = append(opts, ai.WithScoreCache(cache))
	}
	engine := ai.NewEngine(opts...)

	if cfg.AI.Calibrate {
		searchCfg.MaxDepth = engine.Calibrate(searchCfg.BoardSize, searchCfg.PlayerCount, searchCfg.MaxDepth,
			time.Duration(cfg.AI.CalibrateMinMs)*time.Millisecond, time.Duration(cfg.AI.CalibrateMaxMs)*time.Millisecond)
		log.Info().Int("max_depth", searchCfg.MaxDepth).Msg("search depth calibrated")
	}

	var db *storage.Store
	if *store {
		db, err = storage.Open(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	seats := make([]arena.Seat, searchCfg.PlayerCount)
	for i := range seats {
		seats[i] = arena.Seat{Name: fmt.Sprintf("Bot %d", i+1), Config: searchCfg}
	}

	tally := make(map[string]int)
	start := time.Now()
	for i := 0; i < *games; i++ {
		res, err := arena.Run(engine, searchCfg.BoardSize, seats)
		if err != nil {
			log.Fatal().Err(err).Int("game", i+1).Msg("match failed")
		}
		tally[res.Name]++
		log.Info().Int("game", i+1).Str("winner", res.Name).Int("rounds", res.Rounds).Msg("match finished")

		if db == nil {
			continue
		}
		if _, err := db.SaveMatch(res.Record(searchCfg.BoardSize, seats)); err != nil {
			log.Error().Err(err).Msg("failed to save match")
		}
		if res.Winner != 0 {
			if err := db.AddWin(res.Name); err != nil {
				log.Error().Err(err).Msg("failed to record win")
			}
		}
	}

	fmt.Printf("%d games on %dx%d, %d players, depth %d, %s (%s)\n", *games, searchCfg.BoardSize,
		searchCfg.BoardSize, searchCfg.PlayerCount, searchCfg.MaxDepth, searchCfg.Difficulty, time.Since(start).Round(time.Millisecond))
	for _, s := range seats {
		fmt.Printf("  %-8s %d\n", s.Name, tally[s.Name])
	}
	fmt.Printf("  %-8s %d\n", "draw", tally["draw"])
}
