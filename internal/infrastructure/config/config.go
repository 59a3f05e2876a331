package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level

	RolesPath string

	// LLM
	LLMProvider       string // "ollama" or "openai" (any OpenAI-compatible server)
	LLMURL            string
	LLMModel          string
	LLMAPIKey         string
	LLMRequestTimeout time.Duration
	LLMMaxAttempts    int
	LLMRetryBaseDelay time.Duration
	FeedbackDeadline  time.Duration

	// Persistence
	StoreBackend       string // "sqlite", "memory" or "mysql"
	SQLitePath         string
	MySQLDSN           string
	WriteBehindWorkers int
	WriteBehindBuffer  int

	HealthCheckSchedule string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        parseLevel(getenvDefault("LOG_LEVEL", "info")),

		RolesPath: getenvDefault("ROLES_PATH", "config/roles.yaml"),

		LLMProvider:       oneOf("LLM_PROVIDER", "ollama", "ollama", "openai"),
		LLMURL:            getenvDefault("LLM_URL", "http://localhost:11434"),
		LLMModel:          getenvDefault("LLM_MODEL", "llama3.1:8b"),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMRequestTimeout: getDurationDefault("LLM_REQUEST_TIMEOUT", 60*time.Second),
		LLMMaxAttempts:    getIntDefault("LLM_MAX_ATTEMPTS", 3),
		LLMRetryBaseDelay: getDurationDefault("LLM_RETRY_BASE_DELAY", time.Second),
		FeedbackDeadline:  getDurationDefault("FEEDBACK_DEADLINE", 10*time.Second),

		StoreBackend:       oneOf("STORE_BACKEND", "sqlite", "sqlite", "memory", "mysql"),
		SQLitePath:         getenvDefault("SQLITE_PATH", "interview_practice.db"),
		MySQLDSN:           mysqlDSN(),
		WriteBehindWorkers: getIntDefault("WRITE_BEHIND_WORKERS", 2),
		WriteBehindBuffer:  getIntDefault("WRITE_BEHIND_BUFFER", 64),

		HealthCheckSchedule: getenvDefault("HEALTH_CHECK_SCHEDULE", "@every 30s"),
	}
}

func mysqlDSN() string {
	c := mysql.NewConfig()
	c.User = getenvDefault("MYSQL_USER", "root")
	c.Passwd = os.Getenv("MYSQL_PASSWORD")
	c.Net = "tcp"
	c.Addr = getenvDefault("MYSQL_HOST", "127.0.0.1") + ":" + getenvDefault("MYSQL_PORT", "3306")
	c.DBName = getenvDefault("MYSQL_DATABASE", "interview_practice")
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func oneOf(k, fallback string, allowed ...string) string {
	v := strings.ToLower(getenvDefault(k, fallback))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Fatalf("config: %s=%q must be one of %s", k, v, strings.Join(allowed, ", "))
	return ""
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		log.Fatalf("config: LOG_LEVEL=%q is not a valid level", s)
	}
	return l
}
