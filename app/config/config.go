package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort   = 8080
	defaultDBPath = "data/badger"
)

type Config struct {
	Port int `toml:"port"`
	// storage
	DBPath   string `toml:"db_path"`
	InMemory bool   `toml:"in_memory"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// admin basic auth; password hash is bcrypt
	AdminUsername     string `toml:"admin_username"`
	AdminPasswordHash string `toml:"admin_password_hash"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no [%s] section in config", strings.ToLower(env))
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DBPath == "" && !c.InMemory {
		c.DBPath = defaultDBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return t.Get(env)
}

// Default is the development configuration used when no file is given.
func Default() *Config {
	cfg := &Config{LogToStdout: true, LogLevel: "debug"}
	cfg.applyDefaults()
	return cfg
}
