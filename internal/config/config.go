// Package config provides configuration management for mediacore using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8089
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultUpstreamTimeout = 15 * time.Second
	defaultMaxClipSeconds  = 30.0
	defaultMaxSegments     = 128
	defaultMaxCandidateLen = 24
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the lookup term store's connection configuration.
type DatabaseConfig struct {
	// Path is the filesystem location of the SQLite database file.
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds structured-logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`  // debug, info, warn, error
	Format    string `mapstructure:"format"` // json, text
	AddSource bool   `mapstructure:"add_source"`
}

// UpstreamConfig holds the Suwayomi upstream the audio-clip core fetches
// playlists and segments from.
type UpstreamConfig struct {
	// BaseURL is the Suwayomi server base, e.g. http://127.0.0.1:4567.
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single playlist/segment HTTP round trip.
	Timeout time.Duration `mapstructure:"timeout"`
	// ForwardHeaders lists the request headers forwarded verbatim upstream.
	ForwardHeaders []string `mapstructure:"forward_headers"`
}

// AudioConfig holds audio-clip core settings. MaxClipSeconds and MaxSegments
// are validated here but not read by audioclip.Service, which applies its
// own MaxClipDuration and MaxSegments constants.
type AudioConfig struct {
	MaxClipSeconds float64 `mapstructure:"max_clip_seconds"`
	MaxSegments    int     `mapstructure:"max_segments"`
	FFmpegPath     string  `mapstructure:"ffmpeg_path"`
	FFprobePath    string  `mapstructure:"ffprobe_path"`
}

// LookupConfig holds dictionary-lookup core tunables.
type LookupConfig struct {
	MaxCandidateLength int `mapstructure:"max_candidate_length"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with MEDIACORE_ and use underscores for
// nesting, e.g. MEDIACORE_UPSTREAM_BASE_URL. The upstream base URL can also be
// set with the bare SUWAYOMI_URL variable, matching the original Suwayomi
// deployment convention.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/mediacore")
		v.AddConfigPath("$HOME/.mediacore")
	}

	v.SetEnvPrefix("MEDIACORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if url := v.GetString("suwayomi_url"); url != "" && cfg.Upstream.BaseURL == defaultUpstreamBaseURL {
		cfg.Upstream.BaseURL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

const defaultUpstreamBaseURL = "http://127.0.0.1:4567"

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)

	v.SetDefault("database.path", "./data/yomitan.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.add_source", false)

	v.SetDefault("upstream.base_url", defaultUpstreamBaseURL)
	v.SetDefault("upstream.timeout", defaultUpstreamTimeout)
	v.SetDefault("upstream.forward_headers", []string{"Cookie", "Authorization"})

	v.SetDefault("audio.max_clip_seconds", defaultMaxClipSeconds)
	v.SetDefault("audio.max_segments", defaultMaxSegments)
	v.SetDefault("audio.ffmpeg_path", "ffmpeg")
	v.SetDefault("audio.ffprobe_path", "ffprobe")

	v.SetDefault("lookup.max_candidate_length", defaultMaxCandidateLen)

	_ = v.BindEnv("suwayomi_url", "SUWAYOMI_URL")
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url must not be empty")
	}
	if c.Audio.MaxClipSeconds <= 0 {
		return errors.New("audio.max_clip_seconds must be positive")
	}
	if c.Audio.MaxSegments <= 0 {
		return errors.New("audio.max_segments must be positive")
	}
	if c.Lookup.MaxCandidateLength <= 0 {
		return errors.New("lookup.max_candidate_length must be positive")
	}
	return nil
}

// Address returns the host:port the HTTP server should bind to.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
