// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/dragrace.
package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Division registry
// --------------------------------------------------------------------------

// DefaultDivisions is the division list used when DIVISIONS is not set.
var DefaultDivisions = []string{
	"2X4_4CYL",
	"4X4_4CYL",
	"4X4_6CYL_PETROL",
	"4X4_6CYL_DIESEL",
	"4X4_V8_PETROL",
	"4X4_V8_DIESEL",
	"DAMES",
	"OPEN",
}

// --------------------------------------------------------------------------
// Table and channel names, shared by internal/db and internal/store
// --------------------------------------------------------------------------

const (
	SnapshotsTable   = "tournament_snapshots"
	SnapshotsChannel = "snapshot_saved" // LISTEN/NOTIFY, payload is a store.Event
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Tournament
	TournamentName string
	Divisions      []string

	// Database (optional; empty URL keeps state in memory only)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration
	SnapshotKeep   int

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Autosave of the tournament snapshot; zero disables
	AutosaveInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		TournamentName: envOr("TOURNAMENT_NAME", "Drag Race"),
		Divisions:      envList("DIVISIONS", slices.Clone(DefaultDivisions)),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		SnapshotKeep:   envInt("SNAPSHOT_KEEP", 50),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 5000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		AutosaveInterval: time.Duration(envInt("AUTOSAVE_INTERVAL_SECONDS", 60)) * time.Second,
	}, nil
}

// HasDatabase reports whether snapshot persistence is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
