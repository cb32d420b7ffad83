package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config carries all runtime settings. Debug and pacing toggles are threaded
// through here rather than read from package globals.
type Config struct {
	Environment string
	LogLevel    slog.Level

	// StoryDir is the directory holding story markup files.
	StoryDir string

	// SaveBackend selects the save-game store: "file" or "redis".
	SaveBackend string
	SaveDir     string
	RedisURL    string

	// FastMode disables the typewriter pacing of the plain console.
	FastMode bool

	// WrapWidth is the column to wrap story text at in plain mode.
	WrapWidth int

	// Rating enables the content filter for G/PG/PG-13.
	Rating string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		StoryDir:    getEnv("STORY_DIR", "./stories"),
		SaveBackend: getEnv("SAVE_BACKEND", "file"),
		SaveDir:     getEnv("SAVE_DIR", "./saves"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		FastMode:    parseBool(getEnv("FAST_MODE", "true")),
		WrapWidth:   parseInt(getEnv("WRAP_WIDTH", "100")),
		Rating:      getEnv("RATING", ""),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}

func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
