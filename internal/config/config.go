package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds the game timing table and room defaults
type GameConfig struct {
	MinPlayers int
	MaxPlayers int
	MaxRounds  int
	MaxScore   int

	JudgeRevealSeconds     int
	PromptSelectionSeconds int
	SoundSelectionSeconds  int
	ResultsPauseSeconds    int

	GracePeriod            time.Duration
	ReconnectWindowSeconds int

	BotDelayMin time.Duration
	BotDelayMax time.Duration

	EmptyRoomDelay       time.Duration
	BotOnlyDelay         time.Duration
	BotOnlyDelayPostGame time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults. A .env
// file in the working directory is applied first when present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MinPlayers: getEnvInt("MIN_PLAYERS", 3),
			MaxPlayers: getEnvInt("MAX_PLAYERS", 8),
			MaxRounds:  getEnvInt("MAX_ROUNDS", 5),
			MaxScore:   getEnvInt("MAX_SCORE", 3),

			JudgeRevealSeconds:     getEnvInt("JUDGE_REVEAL_SECONDS", 5),
			PromptSelectionSeconds: getEnvInt("PROMPT_SELECTION_SECONDS", 30),
			SoundSelectionSeconds:  getEnvInt("SOUND_SELECTION_SECONDS", 60),
			ResultsPauseSeconds:    getEnvInt("RESULTS_PAUSE_SECONDS", 8),

			GracePeriod:            getEnvDuration("GRACE_PERIOD_SECONDS", 15*time.Second),
			ReconnectWindowSeconds: getEnvInt("RECONNECT_WINDOW_SECONDS", 60),

			BotDelayMin: getEnvDuration("BOT_DELAY_MIN_SECONDS", 2*time.Second),
			BotDelayMax: getEnvDuration("BOT_DELAY_MAX_SECONDS", 6*time.Second),

			EmptyRoomDelay:       getEnvDuration("EMPTY_ROOM_DELAY_SECONDS", 30*time.Second),
			BotOnlyDelay:         getEnvDuration("BOT_ONLY_DELAY_SECONDS", 600*time.Second),
			BotOnlyDelayPostGame: getEnvDuration("BOT_ONLY_POST_GAME_SECONDS", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration returns an environment variable, given in whole
// seconds, as a duration.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}
