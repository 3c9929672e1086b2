package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider is the read-only view of the configuration that the rest of the
// application depends on.
type Provider interface {
	GetServerAddr() string
	GetDataDir() string
	GetStatePath() string
	GetDefaultMapPath() string
	GetBackupDir() string
	GetStatsDir() string
	GetStatsWatch() bool
	GetRosterFile() string
	GetTurnTime() time.Duration
	GetMissedTurnGrace() time.Duration
	GetRateLimit() float64
	GetLogFormat() string
	GetLogLevel() string
	GetLogFile() string
	GetStorageDriver() string
	GetDatabaseURL() string
	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr      string
	DataDir         string
	StateSlot       string
	DefaultMapSlot  string
	BackupDir       string
	StatsDir        string
	StatsWatch      bool
	RosterFile      string
	TurnTime        time.Duration
	MissedTurnGrace time.Duration
	RateLimit       float64
	LogFormat       string
	LogLevel        string
	LogFile         string
	// StorageDriver selects where snapshots live: "file" or "postgres".
	StorageDriver string
	DatabaseURL   string
	// Tracing exports game event spans to Zipkin when enabled.
	TracingEnabled     bool
	TracingServiceName string
	TracingZipkinURL   string
}

// New loads configuration from a .env file, if present, and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() *Config {
	return &Config{
		ServerAddr:      getString("SERVER_ADDR", ":8000"),
		DataDir:         getString("DATA_DIR", "data"),
		StateSlot:       getString("STATE_SLOT", "state.json"),
		DefaultMapSlot:  getString("DEFAULT_MAP_SLOT", "default-map.json"),
		BackupDir:       getString("BACKUP_DIR", "backups"),
		StatsDir:        getString("STATS_DIR", filepath.Join("data", "stats")),
		StatsWatch:      getBool("STATS_WATCH", true),
		RosterFile:      getString("ROSTER_FILE", filepath.Join("config", "roster.yaml")),
		TurnTime:        getMillis("TURN_TIME_MS", 60000),
		MissedTurnGrace: getMillis("MISSED_TURN_GRACE_MS", 2000),
		RateLimit:       getFloat("RATE_LIMIT_RPS", 20),
		LogFormat:       getString("LOG_FORMAT", "text"),
		LogLevel:        getString("LOG_LEVEL", "debug"),
		LogFile:         os.Getenv("LOG_FILE"),
		StorageDriver:   getString("STORAGE_DRIVER", "file"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		TracingEnabled:     getBool("PUBSUB_TRACING_ENABLED", false),
		TracingServiceName: getString("PUBSUB_TRACING_SERVICE_NAME", "fogwar"),
		TracingZipkinURL:   os.Getenv("PUBSUB_TRACING_ZIPKIN_URL"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getMillis(key string, fallback int64) time.Duration {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetDataDir() string { return c.DataDir }

// GetStatePath returns the live snapshot path inside the data directory.
func (c *Config) GetStatePath() string { return filepath.Join(c.DataDir, c.StateSlot) }

// GetDefaultMapPath returns the initial map path inside the data directory.
func (c *Config) GetDefaultMapPath() string { return filepath.Join(c.DataDir, c.DefaultMapSlot) }

// GetBackupDir returns the backup directory inside the data directory.
func (c *Config) GetBackupDir() string { return filepath.Join(c.DataDir, c.BackupDir) }

func (c *Config) GetStatsDir() string { return c.StatsDir }
func (c *Config) GetStatsWatch() bool { return c.StatsWatch }
func (c *Config) GetRosterFile() string { return c.RosterFile }
func (c *Config) GetTurnTime() time.Duration { return c.TurnTime }
func (c *Config) GetMissedTurnGrace() time.Duration { return c.MissedTurnGrace }
func (c *Config) GetRateLimit() float64 { return c.RateLimit }
func (c *Config) GetLogFormat() string { return c.LogFormat }
func (c *Config) GetLogLevel() string { return c.LogLevel }
func (c *Config) GetLogFile() string { return c.LogFile }
func (c *Config) GetStorageDriver() string { return c.StorageDriver }
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) GetTracingEnabled() bool { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string { return c.TracingServiceName }
func (c *Config) GetTracingZipkinURL() string { return c.TracingZipkinURL }
