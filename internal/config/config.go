// Load envs from .env
// Provide default values
// Validate required fields

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseDSN string

	GeminiAPIKey string
	GeminiModel  string

	DataDir string

	// Fallback keywords when a user has no desired roles
	SearchKeywords string

	TailorTimeout time.Duration
	SourceTimeout time.Duration

	EmailPollInterval time.Duration
	GhostAfterDays    int

	GmailCredentialsFile string
	GmailTokenFile       string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseDSN:          getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=jobagent port=5432 sslmode=disable"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		DataDir:              getenv("DATA_DIR", "data"),
		SearchKeywords:       getenv("SEARCH_KEYWORDS", "software engineer"),
		TailorTimeout:        time.Duration(getenvInt("TAILOR_TIMEOUT_SECONDS", 60)) * time.Second,
		SourceTimeout:        time.Duration(getenvInt("SOURCE_TIMEOUT_SECONDS", 15)) * time.Second,
		EmailPollInterval:    time.Duration(getenvInt("EMAIL_POLL_MINUTES", 15)) * time.Minute,
		GhostAfterDays:       getenvInt("GHOST_AFTER_DAYS", 14),
		GmailCredentialsFile: getenv("GMAIL_CREDENTIALS_FILE", "credential.json"),
		GmailTokenFile:       getenv("GMAIL_TOKEN_FILE", "token.json"),
	}

	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}
