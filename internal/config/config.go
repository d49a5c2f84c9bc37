package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"expense-ledger/internal/ledger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string `mapstructure:"app_env"`
	Port            int    `mapstructure:"port"`
	DBPath          string `mapstructure:"db_path"`
	TemplateDir     string `mapstructure:"template_dir"`
	StaticDir       string `mapstructure:"static_dir"`
	SecureCookie    bool   `mapstructure:"secure_cookie"`
	DefaultCurrency string `mapstructure:"default_currency"`
	AdminUser       string `mapstructure:"admin_user"`
	AdminPassword   string `mapstructure:"admin_password"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"app_env":          "development",
	"port":             8080,
	"db_path":          "expenses.db",
	"template_dir":     "web/templates",
	"static_dir":       "web/static",
	"secure_cookie":    false,
	"default_currency": string(ledger.DefaultCurrency),
	"admin_user":       "",
	"admin_password":   "",
	"log_level":        "info",
	"log_format":       "text",
}

// Load reads configuration from, in increasing precedence: defaults,
// <dir>/ledger.yml, <dir>/.env and the process environment. Keys map to
// upper-case variables (db_path -> DB_PATH). A missing file is not an error.
func Load(dir string) (*Config, error) {
	// .env never overrides variables already set
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AddConfigPath(dir)
	v.SetConfigName("ledger")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "database path cannot be empty")
	}
	if _, err := ledger.ParseCurrency(c.DefaultCurrency); err != nil {
		errs = append(errs, fmt.Sprintf("default currency: %v", err))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if !slices.Contains([]string{"json", "text"}, c.LogFormat) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be json or text", c.LogFormat))
	}
	if c.AdminUser != "" && c.AdminPassword == "" {
		errs = append(errs, "ADMIN_PASSWORD is required when ADMIN_USER is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Currency returns the validated default currency.
func (c *Config) Currency() ledger.Currency {
	cur, err := ledger.ParseCurrency(c.DefaultCurrency)
	if err != nil {
		return ledger.DefaultCurrency
	}
	return cur
}
