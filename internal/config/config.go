package config

import (
	"log/slog"
	"os"
	"strings"
)

// Vocabulary selects the tool naming scheme.
type Vocabulary string

const (
	VocabularyStep Vocabulary = "step"
	VocabularyTask Vocabulary = "task"
)

// Config holds all configuration values.
type Config struct {
	// Step definition
	StepsFile string

	// Cursor persistence
	CursorBackend string
	CursorFile    string
	CursorDB      string
	Runbook       string

	// Protocol
	Vocabulary Vocabulary
	ServerName string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Defaults match the historical step_orchestrator layout in the working directory.
func Load() Config {
	vocab := ParseVocabulary(getEnv("STEPMCP_VOCABULARY", string(VocabularyStep)))

	return Config{
		StepsFile: getEnv("STEPMCP_STEPS_FILE", "steps.yaml"),

		CursorBackend: getEnv("STEPMCP_CURSOR_BACKEND", "file"),
		CursorFile:    getEnv("STEPMCP_CURSOR_FILE", ".step_index"),
		CursorDB:      getEnv("STEPMCP_CURSOR_DB", ".stepmcp.db"),
		Runbook:       getEnv("STEPMCP_RUNBOOK", "default"),

		Vocabulary: vocab,
		ServerName: getEnv("STEPMCP_SERVER_NAME", DefaultServerName(vocab)),

		LogFile:  getEnv("STEPMCP_LOG_FILE", "/tmp/stepmcp.log"),
		LogLevel: ParseLogLevel(getEnv("STEPMCP_LOG_LEVEL", "INFO")),
	}
}

// DefaultServerName returns the server name advertised for a vocabulary.
func DefaultServerName(v Vocabulary) string {
	return string(v) + "_orchestrator"
}

// ParseVocabulary maps a name to a Vocabulary, defaulting to step.
func ParseVocabulary(s string) Vocabulary {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task", "tasks":
		return VocabularyTask
	default:
		return VocabularyStep
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
