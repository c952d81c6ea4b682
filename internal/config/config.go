package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "quill.toml"

// Environment variables that override values from the config file.
const (
	EnvDatabaseDSN   = "QUILL_DATABASE_DSN"
	EnvServerAddress = "QUILL_SERVER_ADDRESS"
)

// Database types
const (
	SqliteDbType   = "sqlite"
	PostgresDbType = "postgres"
)

// DefaultMaxDepth is the deepest field nesting a GraphQL operation may use.
const DefaultMaxDepth = 5

var ErrInvalid = errors.New("invalid configuration")

// Config holds the quill configuration.
type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Database DatabaseConfig `toml:"database" yaml:"database"`
	GraphQL  GraphQLConfig  `toml:"graphql" yaml:"graphql"`
	Logger   LoggerSettings `toml:"logger" yaml:"logger"`
}

// ServerConfig defines the HTTP listener and the routes it exposes.
type ServerConfig struct {
	Address          string   `toml:"address" yaml:"address" validate:"required"`
	ReadTimeoutSecs  int      `toml:"read_timeout_secs" yaml:"read_timeout_secs" validate:"gte=0"`
	WriteTimeoutSecs int      `toml:"write_timeout_secs" yaml:"write_timeout_secs" validate:"gte=0"`
	Playground       bool     `toml:"playground" yaml:"playground"`
	Metrics          bool     `toml:"metrics" yaml:"metrics"`
	CORSOrigins      []string `toml:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// DatabaseConfig selects the SQL backend behind the store.
type DatabaseConfig struct {
	Type         string `toml:"type" yaml:"type" validate:"required,oneof=sqlite postgres"`
	DSN          string `toml:"dsn" yaml:"dsn"`
	Name         string `toml:"name,omitempty" yaml:"name,omitempty"`
	MaxOpenConns int    `toml:"max_open_conns" yaml:"max_open_conns" validate:"gte=0"`
	AutoMigrate  bool   `toml:"auto_migrate" yaml:"auto_migrate"`
	Seed         bool   `toml:"seed" yaml:"seed"`
}

// GraphQLConfig tunes query validation and execution.
type GraphQLConfig struct {
	// MaxDepth rejects operations nested deeper than this; 0 disables the check.
	MaxDepth int `toml:"max_depth" yaml:"max_depth" validate:"gte=0"`
	// QueryCacheSize is how many parsed and validated documents are kept.
	QueryCacheSize int `toml:"query_cache_size" yaml:"query_cache_size" validate:"gte=1"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:          ":8000",
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 15,
			Playground:       true,
			Metrics:          true,
			CORSOrigins:      []string{"*"},
		},
		Database: DatabaseConfig{
			Type:        SqliteDbType,
			DSN:         "quill.db",
			AutoMigrate: true,
			Seed:        true,
		},
		GraphQL: GraphQLConfig{
			MaxDepth:       DefaultMaxDepth,
			QueryCacheSize: 1000,
		},
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
	}
}

// Load reads configuration from the given file path.
// An empty path means ConfigFile in the working directory.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given file path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigFile
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks struct tags and the cross-field rules the tags can't express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Database.Type == PostgresDbType && c.Database.DSN == "" {
		return fmt.Errorf("%w: database.dsn is required for postgres", ErrInvalid)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ReadTimeout returns the server read timeout as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the server write timeout as a duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSecs) * time.Second
}

func (c *Config) applyEnv() {
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		c.Database.DSN = dsn
	}
	if addr := os.Getenv(EnvServerAddress); addr != "" {
		c.Server.Address = addr
	}
}

// applyDefaults fills values a partial config file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Database.Type == "" {
		c.Database.Type = def.Database.Type
	}
	if c.Database.Type == SqliteDbType && c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.GraphQL.QueryCacheSize == 0 {
		c.GraphQL.QueryCacheSize = def.GraphQL.QueryCacheSize
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = def.Logger.LogLevel
	}
	if c.Logger.LogType == "" {
		c.Logger.LogType = def.Logger.LogType
	}
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return toml.Unmarshal(data, cfg)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}
