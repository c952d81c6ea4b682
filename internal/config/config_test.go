package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GraphQL.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.GraphQL.MaxDepth)
	}
	if cfg.Database.Type != SqliteDbType {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, SqliteDbType)
	}
	if cfg.Server.Address != ":8000" {
		t.Errorf("Server.Address = %q, want \":8000\"", cfg.Server.Address)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GraphQL.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.GraphQL.MaxDepth, DefaultMaxDepth)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `
[server]
address = "127.0.0.1:9000"
playground = false

[graphql]
max_depth = 0

[database]
type = "sqlite"
dsn = ":memory:"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Server.Playground {
		t.Error("Playground should be disabled")
	}
	if cfg.GraphQL.MaxDepth != 0 {
		t.Errorf("MaxDepth = %d, want 0 (disabled)", cfg.GraphQL.MaxDepth)
	}
	// Values missing from the file keep their defaults
	if cfg.GraphQL.QueryCacheSize != 1000 {
		t.Errorf("QueryCacheSize = %d, want 1000", cfg.GraphQL.QueryCacheSize)
	}
	if cfg.Logger.LogType != LogTypeConsole {
		t.Errorf("LogType = %q, want console", cfg.Logger.LogType)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	content := `
database:
  type: postgres
  dsn: "host=localhost user=postgres password=postgres sslmode=disable"
  name: quill
graphql:
  max_depth: 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Type != PostgresDbType {
		t.Errorf("Database.Type = %q, want postgres", cfg.Database.Type)
	}
	if cfg.Database.Name != "quill" {
		t.Errorf("Database.Name = %q, want quill", cfg.Database.Name)
	}
	if cfg.GraphQL.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.GraphQL.MaxDepth)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown database type", "[database]\ntype = \"mysql\"\n"},
		{"postgres without dsn", "[database]\ntype = \"postgres\"\ndsn = \"\"\n"},
		{"negative depth", "[graphql]\nmax_depth = -1\n"},
		{"bad log level", "[logger]\nlog_level = \"loud\"\n"},
		{"file logger without path", "[logger]\nlog_type = \"file\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvDatabaseDSN, "override.db")
	t.Setenv(EnvServerAddress, ":1234")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "override.db" {
		t.Errorf("Database.DSN = %q, want override.db", cfg.Database.DSN)
	}
	if cfg.Server.Address != ":1234" {
		t.Errorf("Server.Address = %q, want :1234", cfg.Server.Address)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"quill.toml", "quill.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.GraphQL.MaxDepth = 9
			cfg.Server.CORSOrigins = []string{"http://localhost:3000"}

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.GraphQL.MaxDepth != 9 {
				t.Errorf("MaxDepth = %d, want 9", loaded.GraphQL.MaxDepth)
			}
			if len(loaded.Server.CORSOrigins) != 1 || loaded.Server.CORSOrigins[0] != "http://localhost:3000" {
				t.Errorf("CORSOrigins = %v", loaded.Server.CORSOrigins)
			}
		})
	}
}
