// Package config assembles runtime configuration from an optional YAML file
// overridden by BOT_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "5m"-style values from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds everything the serve command needs to wire the bot.
type Config struct {
	// Port the webhook listener binds to.
	Port string `yaml:"port"`

	// BackendURL is the base URL of the PFC API.
	BackendURL string `yaml:"backend_url"`

	// Evolution relay settings.
	EvolutionURL      string `yaml:"evolution_url"`
	EvolutionAPIKey   string `yaml:"evolution_api_key"`
	EvolutionInstance string `yaml:"evolution_instance"`

	// SessionTTL is the sliding idle window before a session expires.
	SessionTTL Duration `yaml:"session_ttl"`

	// QuotesPath points at the CSV file with the "frase" column.
	QuotesPath string `yaml:"quotes_path"`

	// SessionStore selects "memory" (default) or "redis".
	SessionStore  string `yaml:"session_store"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

func defaults() *Config {
	return &Config{
		Port:              "3001",
		BackendURL:        "http://localhost:8000/",
		EvolutionInstance: "BOT-SEPLAG",
		SessionTTL:        Duration(5 * time.Minute),
		QuotesPath:        "frases_desmotivacionais.csv",
		SessionStore:      "memory",
		RedisAddr:         "localhost:6379",
	}
}

// Load builds the configuration. path may be empty to skip the file step.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("BOT_PORT", &cfg.Port)
	setString("BOT_BACKEND_URL", &cfg.BackendURL)
	setString("BOT_EVOLUTION_URL", &cfg.EvolutionURL)
	setString("BOT_EVOLUTION_APIKEY", &cfg.EvolutionAPIKey)
	setString("BOT_EVOLUTION_INSTANCE", &cfg.EvolutionInstance)
	setString("BOT_QUOTES_PATH", &cfg.QuotesPath)
	setString("BOT_SESSION_STORE", &cfg.SessionStore)
	setString("BOT_REDIS_ADDR", &cfg.RedisAddr)
	setString("BOT_REDIS_PASSWORD", &cfg.RedisPassword)

	if v := os.Getenv("BOT_SESSION_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = Duration(ttl)
		}
	}
}

func (c *Config) validate() error {
	if c.EvolutionURL == "" {
		return fmt.Errorf("evolution relay URL is required (BOT_EVOLUTION_URL)")
	}
	if c.EvolutionAPIKey == "" {
		return fmt.Errorf("evolution API key is required (BOT_EVOLUTION_APIKEY)")
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session store %q (want memory or redis)", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL.Std())
	}
	return nil
}
