package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"go-welfare/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnlyKeys(t *testing.T) {
	t.Setenv("WELFARE_DATABASE_HOST", "db.internal")
	t.Setenv("WELFARE_DATABASE_PASSWORD", "s3cret")
	t.Setenv("WELFARE_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("WELFARE_KAFKA_BROKER", "kafka.internal:9092")
	t.Setenv("WELFARE_JWT_SECRET", "env-jwt-secret")
	t.Setenv("WELFARE_LINE_CHANNEL_SECRET", "line-secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "kafka.internal:9092", cfg.Kafka.Broker)
	assert.Equal(t, "env-jwt-secret", cfg.JWT.Secret)
	assert.Equal(t, "line-secret", cfg.Line.ChannelSecret)

	// Defaults still apply for keys the environment leaves unset.
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n  name: welfare\n"), 0o600))

	t.Setenv("WELFARE_DATABASE_HOST", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "welfare", cfg.Database.Name)
}

func TestLoad_JWTSecretFallsBackToBareEnv(t *testing.T) {
	t.Setenv("WELFARE_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "bare-secret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "bare-secret", cfg.JWT.Secret)
}
