package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "testtoken")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "testtoken", cfg.TelegramToken)
	require.Equal(t, "https://api.telegram.org", cfg.TelegramBaseURL)
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, 60*time.Second, cfg.SweepInterval)
	require.Equal(t, 30, cfg.PollTimeout)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "testtoken")
	t.Setenv("STORAGE", StoragePostgres)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "testtoken")
	t.Setenv("SWEEP_INTERVAL", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("TELEGRAM_POLL_TIMEOUT", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.SweepInterval)
	require.Equal(t, "9090", cfg.HTTPPort)
	require.Equal(t, 10, cfg.PollTimeout)
}
