package config

import (
	"os"
	"path/filepath"
	"testing"

	"expense-ledger/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "expenses.db", cfg.DBPath)
	assert.Equal(t, ledger.DefaultCurrency, cfg.Currency())
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/tmp/test_expenses.db")
	t.Setenv("ADMIN_USER", "testuser")
	t.Setenv("ADMIN_PASSWORD", "testpass123")
	t.Setenv("SECURE_COOKIE", "true")
	t.Setenv("DEFAULT_CURRENCY", "inr")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "/tmp/test_expenses.db", cfg.DBPath)
	assert.Equal(t, "testuser", cfg.AdminUser)
	assert.Equal(t, "testpass123", cfg.AdminPassword)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, ledger.Currency("INR"), cfg.Currency())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "port: 9000\ndefault_currency: EUR\nlog_format: json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.yml"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, ledger.Currency("EUR"), cfg.Currency())
	assert.Equal(t, "json", cfg.LogFormat)

	t.Setenv("PORT", "9100")
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port, "environment wins over file")
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger.yml"), []byte("port: [unterminated\n"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{
		Port:            0,
		DBPath:          " ",
		DefaultCurrency: "XXX",
		LogLevel:        "loud",
		LogFormat:       "xml",
		AdminUser:       "root",
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid port 0")
	assert.Contains(t, msg, "database path cannot be empty")
	assert.Contains(t, msg, "default currency")
	assert.Contains(t, msg, "invalid log level 'loud'")
	assert.Contains(t, msg, "invalid log format 'xml'")
	assert.Contains(t, msg, "ADMIN_PASSWORD is required")
	assert.Equal(t, ledger.DefaultCurrency, cfg.Currency())
}
