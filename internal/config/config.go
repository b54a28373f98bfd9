// Package config loads server and CLI settings from defaults, an optional
// TOML file and ARISAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Finance  FinanceConfig  `mapstructure:"finance"`
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// FinanceConfig holds contribution defaults.
type FinanceConfig struct {
	// MainGroupName names the group that gets the full category breakdown.
	MainGroupName     string `mapstructure:"main_group_name"`
	DefaultMainAmount string `mapstructure:"default_main_amount"`
	Currency          string `mapstructure:"currency"`
}

// MainAmount parses DefaultMainAmount.
func (c FinanceConfig) MainAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(c.DefaultMainAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("finance.default_main_amount: %w", err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("finance.default_main_amount must not be negative, got %s", amount)
	}
	return amount, nil
}

// Load reads configuration from file and env. Env var overrides use prefix ARISAN_,
// e.g. ARISAN_DATABASE_PATH.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.path", "./data/arisan.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("finance.main_group_name", "Arisan Keluarga")
	v.SetDefault("finance.default_main_amount", "50000")
	v.SetDefault("finance.currency", "IDR")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ARISAN_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "arisan"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ARISAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.Finance.MainAmount(); err != nil {
		return Config{}, err
	}
	return c, nil
}
