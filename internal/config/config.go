package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
}

type SourceConfig struct {
	// Kind is overpass, osmapi or file.
	Kind       string        `mapstructure:"kind"`
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Attempts   int           `mapstructure:"attempts"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type CacheConfig struct {
	// Backend is none, file, memory or redis. MemorySize is the capacity of
	// the memory backend in bytes.
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	MemorySize    int           `mapstructure:"memory_size"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxSize      float64       `mapstructure:"max_size"`
}

type RenderConfig struct {
	Width   float64 `mapstructure:"width"`
	Height  float64 `mapstructure:"height"`
	Format  string  `mapstructure:"format"`
	Workers int     `mapstructure:"workers"`
	// Styles is an optional TOML file with style overrides.
	Styles string `mapstructure:"styles"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", "overpass")
	v.SetDefault("source.endpoint", "")
	v.SetDefault("source.timeout", 60*time.Second)
	v.SetDefault("source.attempts", 3)
	v.SetDefault("source.retry_delay", time.Second)
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.memory_size", 256<<20)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.max_size", 8192.0)
	v.SetDefault("render.width", 1024.0)
	v.SetDefault("render.height", 1024.0)
	v.SetDefault("render.format", "svg")
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.styles", "")
}

// Load reads configuration from defaults, an optional config file and
// environment variables. An empty path searches osmvec.{yaml,toml,json} in
// the working directory and ~/.config/osmvec; a missing file is fine there,
// but an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("osmvec")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/osmvec")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: OSMVEC_SOURCE_KIND → source.kind
	v.SetEnvPrefix("OSMVEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	switch c.Source.Kind {
	case "overpass", "osmapi":
	case "file":
		if c.Source.Endpoint == "" {
			errs = append(errs, "source.endpoint must name the input file for source.kind=file")
		}
	default:
		errs = append(errs, fmt.Sprintf("source.kind must be overpass, osmapi or file, got %q", c.Source.Kind))
	}
	if c.Source.Attempts <= 0 {
		errs = append(errs, "source.attempts must be positive")
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, "source.timeout must be positive")
	}

	switch c.Cache.Backend {
	case "none", "file":
	case "memory":
		if c.Cache.MemorySize <= 0 {
			errs = append(errs, "cache.memory_size must be positive for cache.backend=memory")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			errs = append(errs, "cache.redis_addr is required for cache.backend=redis")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be none, file, memory or redis, got %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, "cache.ttl must not be negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Sprintf("render.width and render.height must be positive, got %vx%v", c.Render.Width, c.Render.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
