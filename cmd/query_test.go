package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/logger"
	"github.com/quillgraph/quill/internal/model"
	"github.com/quillgraph/quill/internal/store"
)

func setupQueryTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	// Save and restore the globals
	oldCfg, oldLog := cfg, log
	cfg = config.Default()
	cfg.Database.DSN = ":memory:"
	log = logger.Discard()

	testStore, closeStore, err := openStore(context.Background())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	cleanup := func() {
		closeStore()
		cfg, log = oldCfg, oldLog
	}
	return testStore, cleanup
}

func createQueryTestUser(t *testing.T, s *store.Store, name string) *model.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), model.CreateUserInput{Name: name, Balance: 1})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func TestExecuteQuery(t *testing.T) {
	testStore, cleanup := setupQueryTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first := createQueryTestUser(t, testStore, "First")
	second := createQueryTestUser(t, testStore, "Second")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, u := range []*model.User{first, second} {
		err := testStore.DB().Model(&model.User{}).Where("id = ?", u.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error
		if err != nil {
			t.Fatalf("failed to stamp created_at: %v", err)
		}
	}

	t.Run("list users", func(t *testing.T) {
		result, err := executeQuery(ctx, testStore, `{ users { name } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}

		var resp struct {
			Users []struct {
				Name string `json:"name"`
			} `json:"users"`
		}
		if err := json.Unmarshal(result, &resp); err != nil {
			t.Fatalf("failed to unmarshal result: %v", err)
		}
		if len(resp.Users) != 2 {
			t.Fatalf("got %d users, want 2", len(resp.Users))
		}
		if resp.Users[0].Name != "First" || resp.Users[1].Name != "Second" {
			t.Errorf("users = %+v, want First then Second", resp.Users)
		}
	})

	t.Run("variables and operation name", func(t *testing.T) {
		query := `query A { users { id } } query B($id: UUID!) { user(id: $id) { name } }`
		result, err := executeQuery(ctx, testStore, query, map[string]any{"id": second.ID.String()}, "B")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}
		if got := string(result); got != `{"user":{"name":"Second"}}` {
			t.Errorf("result = %s", got)
		}
	})

	t.Run("mutation", func(t *testing.T) {
		result, err := executeQuery(ctx, testStore, `mutation { createUser(dto: {name: "Third", balance: 3}) { name } }`, nil, "")
		if err != nil {
			t.Fatalf("executeQuery() error = %v", err)
		}
		if !strings.Contains(string(result), "Third") {
			t.Errorf("result = %s, want the created user", result)
		}
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := executeQuery(ctx, testStore, `{ nope }`, nil, "")
		if err == nil {
			t.Fatal("executeQuery() expected error for unknown field")
		}
		if !strings.HasPrefix(err.Error(), "graphql: ") {
			t.Errorf("error = %q, want graphql prefix", err)
		}
	})

	t.Run("too deep", func(t *testing.T) {
		_, err := executeQuery(ctx, testStore, `{ users { posts { author { profile { memberType { profiles { id } } } } } } }`, nil, "")
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum operation depth of 5") {
			t.Errorf("error = %v, want depth error", err)
		}
	})
}

func TestFormatGraphQLErrors(t *testing.T) {
	if err := formatGraphQLErrors(nil); err != nil {
		t.Errorf("formatGraphQLErrors(nil) = %v, want nil", err)
	}
}

func TestGetGraphQLSchema(t *testing.T) {
	schema, err := GetGraphQLSchema()
	if err != nil {
		t.Fatalf("GetGraphQLSchema() error = %v", err)
	}
	for _, want := range []string{"scalar UUID", "enum MemberTypeId", "type UserType", "type Mutation"} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema does not contain %q", want)
		}
	}
}

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	prettyPrint(&buf, []byte(`{"users":[]}`), false)
	if got := buf.String(); got != "{\n  \"users\": []\n}\n" {
		t.Errorf("prettyPrint() = %q", got)
	}
	if isTerminal(&buf) {
		t.Error("a buffer is not a terminal")
	}
}

func TestInitWritesConfig(t *testing.T) {
	oldPath := configPath
	defer func() { configPath = oldPath }()
	configPath = filepath.Join(t.TempDir(), "quill.toml")

	var out bytes.Buffer
	initCmd.SetOut(&out)
	if err := initCmd.RunE(initCmd, nil); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.GraphQL.MaxDepth != config.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", loaded.GraphQL.MaxDepth, config.DefaultMaxDepth)
	}

	if err := initCmd.RunE(initCmd, nil); err == nil {
		t.Error("init should refuse to overwrite an existing file")
	}
}
