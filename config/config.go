// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Payment PaymentConfig `mapstructure:"payment"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type WalletConfig struct {
	RPCURL       string        `mapstructure:"rpc_url"`
	PrivateKey   string        `mapstructure:"private_key"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type PaymentConfig struct {
	RedirectDelay   time.Duration `mapstructure:"redirect_delay"`
	InfuraProjectID string        `mapstructure:"infura_project_id"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from an optional file and environment variables.
// Environment variables override file values. Prefix: PAYLINK_. Nested keys
// use underscore: PAYLINK_WALLET_RPC_URL, PAYLINK_LOG_LEVEL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("wallet.poll_interval", 10*time.Second)
	v.SetDefault("payment.redirect_delay", 2*time.Second)
	v.SetDefault("metrics.enabled", false)

	v.SetEnvPrefix("PAYLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Payment.RedirectDelay < 0 {
		return fmt.Errorf("payment.redirect_delay cannot be negative")
	}
	if c.Wallet.PollInterval < 0 {
		return fmt.Errorf("wallet.poll_interval cannot be negative")
	}
	return nil
}
