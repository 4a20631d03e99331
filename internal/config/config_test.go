package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 10800.0, cfg.Affiliate.DefaultCommissionRate)
	assert.Equal(t, 50000.0, cfg.Affiliate.DefaultMinimumWithdrawal)
	assert.Equal(t, 30*24*time.Hour, cfg.Affiliate.CookieTTL)
	assert.Equal(t, "/products", cfg.Affiliate.DefaultDestination)
	assert.False(t, cfg.IsProduction())
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9000"
  app_env: production
database:
  driver: postgres
affiliate:
  default_commission_rate: 12000
  default_minimum_withdrawal: 75000
  cookie_ttl_days: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("DEFAULT_MINIMUM_WITHDRAWAL", "60000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 12000.0, cfg.Affiliate.DefaultCommissionRate)
	assert.Equal(t, 60000.0, cfg.Affiliate.DefaultMinimumWithdrawal)
	assert.Equal(t, 7*24*time.Hour, cfg.Affiliate.CookieTTL)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
