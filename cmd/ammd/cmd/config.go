package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/cpamm/app"
)

const (
	envPrefix = "AMMD"

	configDir      = "config"
	configFileName = "config.toml"
	genesisName    = "genesis.json"

	keyLogLevel       = "log_level"
	keyLogFormat      = "log_format"
	keyDBBackend      = "db_backend"
	keyListenAddr     = "listen_addr"
	keyKeyringBackend = "keyring_backend"

	keyTelemetryEnabled = "telemetry_enabled"
	keyOTLPEndpoint     = "otlp_endpoint"
	keyTraceSampleRate  = "trace_sample_rate"

	keyCORSAllowedOrigins = "cors_allowed_origins"
	keyRateLimitRPS       = "rate_limit_rps"
	keyRateLimitBurst     = "rate_limit_burst"
)

// Config is the node configuration read from config.toml, AMMD_* environment
// variables and command-line flags, in increasing order of precedence.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	DBBackend      string `mapstructure:"db_backend"`
	ListenAddr     string `mapstructure:"listen_addr"`
	KeyringBackend string `mapstructure:"keyring_backend"`

	TelemetryEnabled bool    `mapstructure:"telemetry_enabled"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	TraceSampleRate  float64 `mapstructure:"trace_sample_rate"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	RateLimitRPS       float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
}

// DefaultConfig returns the configuration written by `ammd init`.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "plain",
		DBBackend:      string(dbm.GoLevelDBBackend),
		ListenAddr:     "127.0.0.1:1318",
		KeyringBackend: keyring.BackendTest,

		TelemetryEnabled: false,
		TraceSampleRate:  1.0,

		CORSAllowedOrigins: []string{},
		RateLimitRPS:       50,
		RateLimitBurst:     100,
	}
}

// TelemetryConfig returns the telemetry part of the configuration.
func (c Config) TelemetryConfig() app.TelemetryConfig {
	return app.TelemetryConfig{
		Enabled:      c.TelemetryEnabled,
		OTLPEndpoint: c.OTLPEndpoint,
		SampleRate:   c.TraceSampleRate,
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("trace_sample_rate must be within [0, 1], got %v", c.TraceSampleRate)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}
	return nil
}

func configPath(home string) string {
	return filepath.Join(home, configDir, configFileName)
}

func genesisPath(home string) string {
	return filepath.Join(home, configDir, genesisName)
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(configPath(home))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFormat, def.LogFormat)
	v.SetDefault(keyDBBackend, def.DBBackend)
	v.SetDefault(keyListenAddr, def.ListenAddr)
	v.SetDefault(keyKeyringBackend, def.KeyringBackend)
	v.SetDefault(keyTelemetryEnabled, def.TelemetryEnabled)
	v.SetDefault(keyOTLPEndpoint, def.OTLPEndpoint)
	v.SetDefault(keyTraceSampleRate, def.TraceSampleRate)
	v.SetDefault(keyCORSAllowedOrigins, def.CORSAllowedOrigins)
	v.SetDefault(keyRateLimitRPS, def.RateLimitRPS)
	v.SetDefault(keyRateLimitBurst, def.RateLimitBurst)
	return v
}

// loadConfig resolves the configuration for home. A missing config file is
// not an error; defaults apply.
func loadConfig(home string, flags *pflag.FlagSet) (Config, error) {
	v := newViper(home)

	for key, flag := range map[string]string{
		keyLogLevel:       flagLogLevel,
		keyLogFormat:      flagLogFormat,
		keyDBBackend:      flagDBBackend,
		keyListenAddr:     flagListenAddr,
		keyKeyringBackend: flagKeyringBackend,
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", configPath(home), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// writeConfig writes cfg to home/config/config.toml.
func writeConfig(home string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(home, configDir), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set(keyLogLevel, cfg.LogLevel)
	v.Set(keyLogFormat, cfg.LogFormat)
	v.Set(keyDBBackend, cfg.DBBackend)
	v.Set(keyListenAddr, cfg.ListenAddr)
	v.Set(keyKeyringBackend, cfg.KeyringBackend)
	v.Set(keyTelemetryEnabled, cfg.TelemetryEnabled)
	v.Set(keyOTLPEndpoint, cfg.OTLPEndpoint)
	v.Set(keyTraceSampleRate, cfg.TraceSampleRate)
	v.Set(keyCORSAllowedOrigins, cfg.CORSAllowedOrigins)
	v.Set(keyRateLimitRPS, cfg.RateLimitRPS)
	v.Set(keyRateLimitBurst, cfg.RateLimitBurst)
	return v.WriteConfigAs(configPath(home))
}
