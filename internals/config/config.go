package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TicTacToe/internals/ai"
)

type Config struct {
	Server struct {
		Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
		Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"tictactoe.db"`
	} `yaml:"database"`

	Game struct {
		BoardSize                 int `yaml:"board_size" env:"GAME_BOARD_SIZE" env-default:"3"`
		PlayerCount               int `yaml:"player_count" env:"GAME_PLAYER_COUNT" env-default:"2"`
		MatchmakingTimeoutSeconds int `yaml:"matchmaking_timeout_seconds" env:"GAME_MATCHMAKING_TIMEOUT" env-default:"10"`
		BotDelayMs                int `yaml:"bot_delay_ms" env:"GAME_BOT_DELAY_MS" env-default:"500"`
		MaxBoardSize              int `yaml:"max_board_size" env:"GAME_MAX_BOARD_SIZE" env-default:"5"`
	} `yaml:"game"`

	AI struct {
		MaxDepth       int    `yaml:"max_depth" env:"AI_MAX_DEPTH" env-default:"7"`
		Difficulty     string `yaml:"difficulty" env:"AI_DIFFICULTY" env-default:"optimal"`
		Pruning        bool   `yaml:"pruning" env:"AI_PRUNING"`
		Trace          bool   `yaml:"trace" env:"AI_TRACE"`
		ScoreCacheSize int    `yaml:"score_cache_size" env:"AI_SCORE_CACHE_SIZE" env-default:"1024"`
		Calibrate      bool   `yaml:"calibrate" env:"AI_CALIBRATE"`
		CalibrateMinMs int    `yaml:"calibrate_min_ms" env:"AI_CALIBRATE_MIN_MS" env-default:"10"`
		CalibrateMaxMs int    `yaml:"calibrate_max_ms" env:"AI_CALIBRATE_MAX_MS" env-default:"100"`
	} `yaml:"ai"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"log"`
}

// MustLoad reads the file named by CONFIG_PATH or the -config flag and exits
// on any error.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configFlag := flag.String("config", "", "Path to configuration file")
		flag.Parse()
		configPath = *configFlag
		if configPath == "" {
			log.Fatal().Msg("config path is not set")
		}
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	return cfg
}

// Load reads and validates one config file. Environment variables override
// file values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := cfg.SearchConfig(); err != nil {
		return nil, fmt.Errorf("ai config: %w", err)
	}
	if cfg.Game.MaxBoardSize < cfg.Game.BoardSize {
		return nil, fmt.Errorf("game config: max_board_size %d below board_size %d", cfg.Game.MaxBoardSize, cfg.Game.BoardSize)
	}
	return &cfg, nil
}

// SearchConfig turns the game and ai sections into the engine's config.
func (c *Config) SearchConfig() (ai.SearchConfig, error) {
	difficulty, err := ai.ParseDifficulty(c.AI.Difficulty)
	if err != nil {
		return ai.SearchConfig{}, err
	}
	sc := ai.SearchConfig{
		MaxDepth:    c.AI.MaxDepth,
		PlayerCount: c.Game.PlayerCount,
		BoardSize:   c.Game.BoardSize,
		Difficulty:  difficulty,
		Pruning:     c.AI.Pruning,
	}
	return sc, sc.Validate()
}

func (c *Config) MatchmakingTimeout() time.Duration {
	return time.Duration(c.Game.MatchmakingTimeoutSeconds) * time.Second
}

func (c *Config) BotDelay() time.Duration {
	return time.Duration(c.Game.BotDelayMs) * time.Millisecond
}

// SetupLogger applies the log section to the global zerolog logger.
func (c *Config) SetupLogger() {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
