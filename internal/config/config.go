// Package config provides Viper-based configuration loading for lotteryd.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"lotteryd/internal/lottery/types"
)

// EnvPrefix prefixes every environment override, e.g. LOTTERYD_LOTTERY_OWNER.
const EnvPrefix = "LOTTERYD"

// ABCIConfig holds the ABCI server settings.
type ABCIConfig struct {
	// Addr is the ABCI listen address, e.g. "tcp://127.0.0.1:26658".
	Addr string `mapstructure:"addr"`
	// Transport is "socket" or "grpc".
	Transport string `mapstructure:"transport"`
}

// DBConfig holds the state database settings.
type DBConfig struct {
	// Backend is a cosmos-db backend name: "goleveldb" or "memdb".
	Backend string `mapstructure:"backend"`
	Name    string `mapstructure:"name"`
}

// LotteryConfig holds the draw settings. Both values are fixed for the
// lifetime of the process.
type LotteryConfig struct {
	// Owner is the hex ed25519 public key of the only identity allowed to draw.
	Owner     string `mapstructure:"owner"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "json" or "plain".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Home    string        `mapstructure:"home"`
	ABCI    ABCIConfig    `mapstructure:"abci"`
	DB      DBConfig      `mapstructure:"db"`
	Lottery LotteryConfig `mapstructure:"lottery"`
	Log     LogConfig     `mapstructure:"log"`
}

// SetDefaults registers every key with its default so env overrides apply.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("home", ".lotteryd")
	v.SetDefault("abci.addr", "tcp://127.0.0.1:26658")
	v.SetDefault("abci.transport", "socket")
	v.SetDefault("db.backend", "goleveldb")
	v.SetDefault("db.name", "lottery")
	v.SetDefault("lottery.owner", "")
	v.SetDefault("lottery.namespace", types.DefaultNamespace)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "plain")
}

// Load reads defaults, <home>/config.yaml (if present) and LOTTERYD_* env
// vars, in increasing precedence, then validates the result.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("home"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DataDir is where the state database lives.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// AccessPolicy parses the configured owner.
func (c Config) AccessPolicy() (types.AccessPolicy, error) {
	owner, err := types.ParseIdentity(c.Lottery.Owner)
	if err != nil {
		return types.AccessPolicy{}, fmt.Errorf("lottery.owner: %w", err)
	}
	return types.NewAccessPolicy(owner)
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if c.Home == "" {
		errs = append(errs, "home must not be empty")
	}
	if err := validateABCI(c.ABCI); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDB(c.DB); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLottery(c.Lottery); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLog(c.Log); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateABCI(a ABCIConfig) error {
	var errs []string
	if a.Addr == "" {
		errs = append(errs, "abci.addr must not be empty")
	}
	if a.Transport != "socket" && a.Transport != "grpc" {
		errs = append(errs, fmt.Sprintf("abci.transport must be one of [socket, grpc], got %q", a.Transport))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDB(d DBConfig) error {
	var errs []string
	if d.Backend != "goleveldb" && d.Backend != "memdb" {
		errs = append(errs, fmt.Sprintf("db.backend must be one of [goleveldb, memdb], got %q", d.Backend))
	}
	if d.Name == "" {
		errs = append(errs, "db.name must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLottery(l LotteryConfig) error {
	var errs []string
	if l.Owner == "" {
		errs = append(errs, "lottery.owner must not be empty")
	} else if _, err := types.ParseIdentity(l.Owner); err != nil {
		errs = append(errs, fmt.Sprintf("lottery.owner: %v", err))
	}
	if l.Namespace == "" {
		errs = append(errs, "lottery.namespace must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLog(l LogConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("log.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if l.Format != "json" && l.Format != "plain" {
		return fmt.Errorf("log.format must be one of [json, plain], got %q", l.Format)
	}
	return nil
}
