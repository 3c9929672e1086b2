package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "DATA_DIR", "STATE_SLOT", "TURN_TIME_MS", "STATS_WATCH", "RATE_LIMIT_RPS", "LOG_FILE", "STORAGE_DRIVER", "DATABASE_URL", "PUBSUB_TRACING_ENABLED", "PUBSUB_TRACING_SERVICE_NAME", "PUBSUB_TRACING_ZIPKIN_URL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8000", cfg.GetServerAddr())
	assert.Equal(t, filepath.Join("data", "state.json"), cfg.GetStatePath())
	assert.Equal(t, filepath.Join("data", "default-map.json"), cfg.GetDefaultMapPath())
	assert.Equal(t, filepath.Join("data", "backups"), cfg.GetBackupDir())
	assert.Equal(t, time.Minute, cfg.GetTurnTime())
	assert.Equal(t, 2*time.Second, cfg.GetMissedTurnGrace())
	assert.True(t, cfg.GetStatsWatch())
	assert.Equal(t, 20.0, cfg.GetRateLimit())
	assert.Empty(t, cfg.GetLogFile())
	assert.Equal(t, "file", cfg.GetStorageDriver())
	assert.Empty(t, cfg.GetDatabaseURL())
	assert.False(t, cfg.GetTracingEnabled())
	assert.Equal(t, "fogwar", cfg.GetTracingServiceName())
	assert.Empty(t, cfg.GetTracingZipkinURL())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("DATA_DIR", "/var/lib/fogwar")
	t.Setenv("TURN_TIME_MS", "30000")
	t.Setenv("STATS_WATCH", "false")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://fogwar@localhost/fogwar")
	t.Setenv("PUBSUB_TRACING_ENABLED", "true")
	t.Setenv("PUBSUB_TRACING_ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")

	cfg := FromEnv()
	assert.Equal(t, ":9000", cfg.GetServerAddr())
	assert.Equal(t, filepath.Join("/var/lib/fogwar", "state.json"), cfg.GetStatePath())
	assert.Equal(t, 30*time.Second, cfg.GetTurnTime())
	assert.False(t, cfg.GetStatsWatch())
	assert.Equal(t, 5.0, cfg.GetRateLimit())
	assert.Equal(t, "postgres", cfg.GetStorageDriver())
	assert.Equal(t, "postgres://fogwar@localhost/fogwar", cfg.GetDatabaseURL())
	assert.True(t, cfg.GetTracingEnabled())
	assert.Equal(t, "http://zipkin:9411/api/v2/spans", cfg.GetTracingZipkinURL())
}

func TestFromEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("TURN_TIME_MS", "soon")
	t.Setenv("STATS_WATCH", "maybe")
	t.Setenv("RATE_LIMIT_RPS", "-1")

	cfg := FromEnv()
	assert.Equal(t, time.Minute, cfg.GetTurnTime())
	assert.True(t, cfg.GetStatsWatch())
	assert.Equal(t, 20.0, cfg.GetRateLimit())
}
