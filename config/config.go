// Package config loads fairdice settings from flags, FAIRDICE_*
// environment variables and an optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/f3rmion/fairdice/commit"
)

// EnvPrefix is the prefix of environment variables read by [New].
const EnvPrefix = "FAIRDICE"

// Keys.
const (
	KeyAlgorithm  = "algorithm"
	KeySecretSize = "secret_size"
	KeyRounds     = "rounds"
	KeyPreset     = "preset"
	KeyDiceFile   = "dice_file"
	KeyLogLevel   = "log_level"
	KeyLogJSON    = "log_json"
)

// Config holds the validated settings.
type Config struct {
	Algorithm  string `mapstructure:"algorithm"`
	SecretSize int    `mapstructure:"secret_size"`
	Rounds     int    `mapstructure:"rounds"`
	Preset     string `mapstructure:"preset"`
	DiceFile   string `mapstructure:"dice_file"`
	LogLevel   string `mapstructure:"log_level"`
	LogJSON    bool   `mapstructure:"log_json"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAlgorithm, commit.DefaultAlgorithm)
	v.SetDefault(KeySecretSize, commit.MinSecretSize)
	v.SetDefault(KeyRounds, 3)
	v.SetDefault(KeyPreset, "nontransitive")
	v.SetDefault(KeyDiceFile, "")
	v.SetDefault(KeyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(KeyLogJSON, false)
}

// ReadFile merges the YAML file at path into v. An empty path is ignored.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := commit.Lookup(c.Algorithm); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyAlgorithm, err))
	}
	if c.SecretSize < commit.MinSecretSize {
		errs = append(errs, fmt.Errorf("%s: must be at least %d bytes, got %d", KeySecretSize, commit.MinSecretSize, c.SecretSize))
	}
	if c.Rounds < 1 {
		errs = append(errs, fmt.Errorf("%s: must be positive, got %d", KeyRounds, c.Rounds))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	return errors.Join(errs...)
}

// Hasher returns the configured digest algorithm.
func (c Config) Hasher() (commit.Hasher, error) {
	return commit.Lookup(c.Algorithm)
}

// Logger builds a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level), log.ColorOption(false)}
	if c.LogJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...).With("module", "fairdice"), nil
}
