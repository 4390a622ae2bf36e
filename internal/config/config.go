// Package config loads CLI configuration from a YAML file with environment
// variable overrides. Flags beat env, env beats file, file beats defaults;
// the merge lives here so commands only ever see a resolved Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied before the file and the environment are consulted.
const (
	DefaultBaseURL = "http://localhost:8477"
	DefaultStore   = "file"
	DefaultTimeout = 10 * time.Second
)

// Config is the resolved CLI configuration.
type Config struct {
	// BaseURL is the backend root, without the version prefix.
	BaseURL string `yaml:"base_url"`
	// Store selects the credential store backend: file, memory or redis.
	Store string `yaml:"store"`
	// Dir is where the file store keeps its credentials file.
	// Empty means the default directory under the user config dir.
	Dir string `yaml:"dir"`
	// EncryptionKeyFile enables at-rest encryption for the file store.
	EncryptionKeyFile string        `yaml:"encryption_key_file"`
	Timeout           time.Duration `yaml:"timeout"`
	Debug             bool          `yaml:"debug"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis credential store.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Store:   DefaultStore,
		Timeout: DefaultTimeout,
		Redis:   RedisConfig{Address: "localhost:6379"},
	}
}

// DefaultPath returns the conventional config file location,
// e.g. ~/.config/tripkit/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "tripkit", "config.yaml"), nil
}

// Load resolves the configuration: defaults, then the YAML file at path,
// then environment overrides. A missing file is not an error unless the
// path was given explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// Optional file, fall through to env.
		default:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TRIPKIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("TRIPKIT_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("TRIPKIT_DIR"); v != "" {
		c.Dir = v
	}
	if v := os.Getenv("TRIPKIT_ENCRYPTION_KEY_FILE"); v != "" {
		c.EncryptionKeyFile = v
	}
	if v := os.Getenv("TRIPKIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing TRIPKIT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("TRIPKIT_REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("TRIPKIT_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("TRIPKIT_DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
	return nil
}

// Validate rejects configurations no store or client can be built from.
func (c Config) Validate() error {
	switch c.Store {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("unknown store %q (want file, memory or redis)", c.Store)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
