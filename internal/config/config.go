// Package config loads application configuration from environment
// variables, optionally seeded from .env.local / .env files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the web server.
type Config struct {
	Env  string // application environment (dev, prod)
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // empty allowed
	DBHost string
	DBPort string
	DBName string

	SiteLive bool // when false every page redirects to /coming-soon

	LogLevel  string
	LogFormat string // console | json

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	QueryTimeout time.Duration // per-page budget for theater reads

	RabbitURL string // optional; photo events are only published when set
}

// requiredDB lists the variables without which the theaters table can't be reached.
var requiredDB = []string{"DB_USER", "DB_HOST", "DB_NAME"}

// LoadDotenv seeds the process environment from .env.local and .env.
// Variables already set win, and missing files are ignored.
func LoadDotenv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load reads the configuration. Missing database settings are an error
// outside APP_ENV=dev; in dev the server starts without a database and
// every listing renders empty.
func Load() (Config, error) {
	LoadDotenv()

	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8080"),
		DBUser:       getenv("DB_USER", ""),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       getenv("DB_HOST", ""),
		DBPort:       getenv("DB_PORT", "3306"),
		DBName:       getenv("DB_NAME", ""),
		SiteLive:     envBool("SITE_LIVE", false),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "console"),
		ReadTimeout:  envDur("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: envDur("HTTP_WRITE_TIMEOUT", 20*time.Second),
		QueryTimeout: envDur("QUERY_TIMEOUT", 5*time.Second),
		RabbitURL:    getenv("RABBITMQ_URL", getenv("AMQP_URL", "")),
	}

	if missing := cfg.MissingDB(); len(missing) > 0 && !cfg.IsDev() {
		return cfg, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// MissingDB returns the names of unset database variables.
func (c Config) MissingDB() []string {
	vals := map[string]string{"DB_USER": c.DBUser, "DB_HOST": c.DBHost, "DB_NAME": c.DBName}
	var missing []string
	for _, k := range requiredDB {
		if vals[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// HasDatabase reports whether enough settings exist to open the database.
func (c Config) HasDatabase() bool {
	return len(c.MissingDB()) == 0
}

// Redacted describes configuration for diagnostics without exposing
// secrets: set values show only a short prefix.
func (c Config) Redacted() map[string]string {
	return map[string]string{
		"DB_USER":      mask(c.DBUser, 4),
		"DB_PASS":      mask(c.DBPass, 0),
		"DB_HOST":      mask(c.DBHost, 30),
		"DB_NAME":      mask(c.DBName, 30),
		"RABBITMQ_URL": mask(c.RabbitURL, 0),
	}
}

func mask(v string, keep int) string {
	if v == "" {
		return "NOT SET"
	}
	if keep <= 0 {
		return "SET"
	}
	if r := []rune(v); len(r) > keep {
		v = string(r[:keep])
	}
	return fmt.Sprintf("SET (%s...)", v)
}
