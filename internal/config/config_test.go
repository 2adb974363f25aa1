package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Behyna/pawn-services/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

const localConfig = `
auth:
  secret: local-secret
approval:
  mode: local
  pins:
    manager-1: "$2a$10$abcdefghijklmnopqrstuu"
ledger:
  timezone: Asia/Tehran
  reversal_window: 12h
`

func TestLoadFrom(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, localConfig))

	require.NoError(t, err)
	assert.Equal(t, "local-secret", cfg.Auth.Secret)
	assert.Equal(t, config.ApprovalModeLocal, cfg.Approval.Mode)
	assert.Contains(t, cfg.Approval.PINs, "manager-1")
	assert.Equal(t, 12*time.Hour, cfg.Ledger.ReversalWindow)

	// defaults
	assert.Equal(t, 3, cfg.Ledger.MaxDailyReversals)
	assert.Equal(t, 5*time.Second, cfg.Ledger.CacheTTL)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.API.SlowRequest)
	assert.Equal(t, "pawn.ledger", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "@every 15m", cfg.Worker.Schedule)

	loc, err := cfg.Ledger.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tehran", loc.String())
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("PAWN_AUTH_SECRET", "from-env")
	t.Setenv("PAWN_LEDGER_MAX_DAILY_REVERSALS", "5")

	cfg, err := config.LoadFrom(writeConfig(t, localConfig))

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 5, cfg.Ledger.MaxDailyReversals)
}

func TestLoadFrom_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
		err  string
	}{
		{name: "missing secret", body: "approval:\n  mode: local\n  pins:\n    m: x\n", err: "auth.secret"},
		{name: "remote without url", body: "auth:\n  secret: s\n", err: "base_url"},
		{name: "local without pins", body: "auth:\n  secret: s\napproval:\n  mode: local\n", err: "approval.pins"},
		{name: "unknown mode", body: "auth:\n  secret: s\napproval:\n  mode: sms\n", err: "unknown approval mode"},
		{name: "bad timezone", body: "auth:\n  secret: s\napproval:\n  mode: local\n  pins:\n    m: x\nledger:\n  timezone: Mars/Olympus\n", err: "timezone"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadFrom(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := config.LoadFrom(t.TempDir())
	assert.ErrorContains(t, err, "failed to load config")
}
