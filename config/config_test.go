package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.Ledger.RecomputeTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.NotificationCooldown)
	assert.Equal(t, 80, cfg.Ledger.NearLimitPercent)
	assert.Equal(t, 3, cfg.Ledger.RenewalWindowDays)
	assert.Equal(t, "log", cfg.Notification.Transport)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECOMPUTE_TIMEOUT", "750ms")
	t.Setenv("BUDGET_NEAR_LIMIT_PERCENT", "90")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.RecomputeTimeout)
	assert.Equal(t, 90, cfg.Ledger.NearLimitPercent)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
}
