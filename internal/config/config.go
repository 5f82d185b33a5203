package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpggio/trinity/internal/domain/settings"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig          `yaml:"server"`
	DB        DBConfig              `yaml:"db"`
	Log       LogConfig             `yaml:"log"`
	Transport TransportConfig       `yaml:"transport"`
	Auth      AuthConfig            `yaml:"auth"`
	Gateway   GatewayConfig         `yaml:"gateway"`
	Models    settings.SystemConfig `yaml:"models"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type GatewayConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

// Default returns the configuration used before any file or environment overrides.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Gateway: GatewayConfig{
			BaseURL:   "https://generativelanguage.googleapis.com",
			Timeout:   120 * time.Second,
			RateLimit: 2,
			Burst:     4,
		},
		Models: settings.Defaults(),
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("TRINITY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	env := envReader{getenv: getenv}
	env.strVar("TRINITY_SERVER_HOST", &cfg.Server.Host)
	env.intVar("TRINITY_SERVER_PORT", &cfg.Server.Port)
	env.strVar("TRINITY_DB_PATH", &cfg.DB.Path)
	env.strVar("TRINITY_LOG_LEVEL", &cfg.Log.Level)
	env.strVar("TRINITY_LOG_PATH", &cfg.Log.Path)
	env.strVar("TRINITY_TRANSPORT_MODE", &cfg.Transport.Mode)
	env.boolVar("TRINITY_AUTH_ENABLED", &cfg.Auth.Enabled)

	env.strVar("TRINITY_GATEWAY_BASE_URL", &cfg.Gateway.BaseURL)
	env.strVar("GEMINI_API_KEY", &cfg.Gateway.APIKey)
	env.strVar("TRINITY_GATEWAY_API_KEY", &cfg.Gateway.APIKey)
	env.durationVar("TRINITY_GATEWAY_TIMEOUT", &cfg.Gateway.Timeout)
	env.floatVar("TRINITY_GATEWAY_RATE_LIMIT", &cfg.Gateway.RateLimit)
	env.intVar("TRINITY_GATEWAY_BURST", &cfg.Gateway.Burst)

	env.strVar("TRINITY_MODEL_CONDUCTOR", &cfg.Models.ConductorModel)
	env.strVar("TRINITY_MODEL_RESEARCH", &cfg.Models.ResearchModel)
	env.strVar("TRINITY_MODEL_CODER", &cfg.Models.CoderModel)
	env.strVar("TRINITY_MODEL_VALIDATOR", &cfg.Models.ValidatorModel)
	env.strVar("TRINITY_SEARCH_ENGINE_ID", &cfg.Models.SearchEngineID)

	if env.err != nil {
		return Config{}, env.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("invalid gateway timeout %s", c.Gateway.Timeout)
	}
	if err := settings.Validate(c.Models); err != nil {
		return fmt.Errorf("invalid models: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// envReader applies set variables and keeps the first parse error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(e.getenv(key))
	return v, v != ""
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (e *envReader) strVar(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) intVar(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) floatVar(key string, dst *float64) {
	if v, ok := e.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) boolVar(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) durationVar(key string, dst *time.Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = d
	}
}
