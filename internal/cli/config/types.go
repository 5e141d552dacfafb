// Package config provides configuration management for the reflectsql CLI.
package config

import "github.com/code-vine/reflectivesql/pkg/core"

// Config holds all CLI configuration options.
type Config struct {
	Store    StoreConfig `koanf:"store"`
	Fixtures string      `koanf:"fixtures"`
	Verbose  bool        `koanf:"verbose"`
}

// StoreConfig selects and configures the executable store.
type StoreConfig struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// Core converts the CLI store section to the shared connection config.
func (s StoreConfig) Core() core.StoreConfig {
	return core.StoreConfig{
		Type:     s.Type,
		Path:     s.Path,
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		Username: s.Username,
		Password: s.Password,
		Options:  s.Options,
		Params:   s.Params,
	}
}

// Default configuration values.
const (
	DefaultStoreType = "sqlite"
	DefaultDatabase  = "reflectsql.db"
	DefaultFixtures  = "fixtures.yaml"
	EnvPrefix        = "REFLECTSQL_"
)

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: DefaultStoreType,
			Path: DefaultDatabase,
		},
		Fixtures: DefaultFixtures,
	}
}
