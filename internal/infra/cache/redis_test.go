package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("bare address", func(t *testing.T) {
		client, err := NewRedisClient(&config.RedisConfig{URL: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		assert.True(t, HealthCheck(client)())
	})

	t.Run("url with db", func(t *testing.T) {
		client, err := NewRedisClient(&config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
		require.NoError(t, err)
		defer client.Close()

		assert.True(t, HealthCheck(client)())
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := NewRedisClient(&config.RedisConfig{URL: "127.0.0.1:1"})
		assert.Error(t, err)
	})

	t.Run("health check fails after close", func(t *testing.T) {
		client, err := NewRedisClient(&config.RedisConfig{URL: mr.Addr()})
		require.NoError(t, err)
		check := HealthCheck(client)
		require.NoError(t, client.Close())

		assert.False(t, check())
	})
}
