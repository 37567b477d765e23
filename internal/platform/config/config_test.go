package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
}

func TestLoad_Defaults(t *testing.T) {
	requiredEnv(t)
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "SkillChain", cfg.ServiceName)
	assert.Equal(t, 5*time.Minute, cfg.MessageMaxAge)
	assert.Equal(t, 24*time.Hour, cfg.DomainCooldown)
	assert.Equal(t, 2*time.Minute, cfg.TxConfirmTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	requiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":9000\"\nservice_name: Acme\ntx_confirm_timeout: 45s\nkafka_brokers:\n  - k1:9092\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVICE_NAME", "FromEnv")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "FromEnv", cfg.ServiceName)
	assert.Equal(t, 45*time.Second, cfg.TxConfirmTimeout)
	assert.Equal(t, []string{"k1:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown yaml key", func(t *testing.T) {
		requiredEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("not_a_key: 1\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		requiredEnv(t)
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("TOKEN_TTL", "forever")

		_, err := Load()
		assert.ErrorContains(t, err, "TOKEN_TTL")
	})

	t.Run("production requires a signing key", func(t *testing.T) {
		requiredEnv(t)
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SIGNING_KEY", "")

		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SIGNING_KEY")
	})
}

func TestValidate_RequiresLedger(t *testing.T) {
	err := Default().Validate()
	assert.ErrorContains(t, err, "RPC_URL")
	assert.ErrorContains(t, err, "CONTRACT_ADDRESS")
}
