//go:build integration
// +build integration

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/model"
)

// startPostgresContainer starts PostgreSQL and returns the container and a key/value DSN
func startPostgresContainer(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "quill",
			"POSTGRES_PASSWORD": "quill",
			"POSTGRES_DB":       "quill",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=quill password=quill sslmode=disable", host, port.Port())
	return container, dsn
}

func TestIntegration_PostgresStore(t *testing.T) {
	ctx := context.Background()
	container, dsn := startPostgresContainer(ctx, t)
	defer container.Terminate(ctx)

	db, err := NewDBConnection(config.DatabaseConfig{
		Type: config.PostgresDbType,
		DSN:  dsn,
		Name: "quill_test",
	}, nil)
	require.NoError(t, err)
	defer CloseDB(db)

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	s := New(db)
	require.NoError(t, s.Ping(ctx))

	types, err := s.MemberTypes.FindMany(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	user, err := s.Users.Create(ctx, model.CreateUserInput{Name: "pg", Balance: 1.5})
	require.NoError(t, err)
	author, err := s.Users.Create(ctx, model.CreateUserInput{Name: "author", Balance: 0})
	require.NoError(t, err)

	profile, err := s.Profiles.Create(ctx, model.CreateProfileInput{
		IsMale:       true,
		YearOfBirth:  1995,
		UserID:       user.ID,
		MemberTypeID: model.MemberTypeBusiness,
	})
	require.NoError(t, err)

	year := 2000
	updated, err := s.Profiles.Update(ctx, profile.ID, model.ChangeProfileInput{YearOfBirth: &year})
	require.NoError(t, err)
	assert.Equal(t, 2000, updated.YearOfBirth)
	assert.True(t, updated.IsMale)

	require.NoError(t, s.Subscriptions.Create(ctx, user.ID, author.ID))
	require.NoError(t, s.Subscriptions.Create(ctx, user.ID, author.ID))
	authors, err := s.Subscriptions.Authors(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	require.NoError(t, s.Users.Delete(ctx, user.ID))
	gone, err := s.Profiles.FindUnique(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = s.Users.Delete(ctx, user.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
