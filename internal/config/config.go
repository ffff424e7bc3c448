// Package config provides Viper-based configuration loading for the scrawl server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP/WebSocket listener settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// AllowedOrigins are the origins permitted to open WebSocket connections.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// EventRate is the sustained inbound events/second allowed per connection.
	EventRate float64 `mapstructure:"event_rate"`
	// EventBurst is the inbound event burst allowed per connection.
	EventBurst int `mapstructure:"event_burst"`
	// WriteTimeout is the per-write timeout for WebSocket connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// PongTimeout is the duration without a pong after which a connection is dropped.
	PongTimeout time.Duration `mapstructure:"pong_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds round engine tunables.
type GameConfig struct {
	// TotalRounds is the number of drawer turns in one game.
	TotalRounds int `mapstructure:"total_rounds"`
	// RoundDuration is the drawing time per round, in time units.
	RoundDuration int `mapstructure:"round_duration"`
	// WordOptions is the number of distinct words offered to the drawer.
	WordOptions int `mapstructure:"word_options"`
	// TickInterval is the wall-clock length of one time unit.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// StartDelay is the pause between game start and the first word offer.
	StartDelay time.Duration `mapstructure:"start_delay"`
	// RoundPause is the pause between a round ending and the next word offer.
	RoundPause time.Duration `mapstructure:"round_pause"`
	// WordsFile is an optional YAML word-list file; empty uses the built-in list.
	WordsFile string `mapstructure:"words_file"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.EventRate <= 0 {
		errs = append(errs, fmt.Sprintf("server.event_rate must be > 0, got %v", s.EventRate))
	}
	if s.EventBurst < 1 {
		errs = append(errs, fmt.Sprintf("server.event_burst must be >= 1, got %d", s.EventBurst))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be > 0")
	}
	if s.PongTimeout <= 0 {
		errs = append(errs, "server.pong_timeout must be > 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.TotalRounds < 1 {
		errs = append(errs, fmt.Sprintf("game.total_rounds must be >= 1, got %d", g.TotalRounds))
	}
	if g.RoundDuration < 1 {
		errs = append(errs, fmt.Sprintf("game.round_duration must be >= 1, got %d", g.RoundDuration))
	}
	if g.WordOptions < 1 {
		errs = append(errs, fmt.Sprintf("game.word_options must be >= 1, got %d", g.WordOptions))
	}
	if g.TickInterval <= 0 {
		errs = append(errs, "game.tick_interval must be > 0")
	}
	if g.StartDelay < 0 {
		errs = append(errs, "game.start_delay must not be negative")
	}
	if g.RoundPause < 0 {
		errs = append(errs, "game.round_pause must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SCRAWL_ prefix
	v.SetEnvPrefix("SCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		// Defaults are maintained alongside Validate; a failure here is a bug.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.event_rate", 40.0)
	v.SetDefault("server.event_burst", 120)
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.pong_timeout", "60s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.total_rounds", 3)
	v.SetDefault("game.round_duration", 60)
	v.SetDefault("game.word_options", 4)
	v.SetDefault("game.tick_interval", "1s")
	v.SetDefault("game.start_delay", "500ms")
	v.SetDefault("game.round_pause", "3s")
	v.SetDefault("game.words_file", "")
}
