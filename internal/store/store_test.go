package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDBConnection(config.DatabaseConfig{Type: config.SqliteDbType, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB(db) })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Seed(ctx, db))

	return New(db)
}

func createUser(t *testing.T, s *Store, name string) *model.User {
	t.Helper()
	user, err := s.Users.Create(context.Background(), model.CreateUserInput{Name: name, Balance: 10})
	require.NoError(t, err)
	return user
}

// setCreatedAt pins a row's creation time so ordering does not depend on the clock.
func setCreatedAt(t *testing.T, s *Store, row any, id uuid.UUID, at time.Time) {
	t.Helper()
	require.NoError(t, s.DB().Model(row).Where("id = ?", id).UpdateColumn("created_at", at).Error)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, s.DB()))

	types, err := s.MemberTypes.FindMany(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, model.MemberTypeBasic, types[0].ID)
	assert.Equal(t, 2.3, types[0].Discount)
	assert.Equal(t, 20, types[0].PostsLimitPerMonth)
	assert.Equal(t, model.MemberTypeBusiness, types[1].ID)
	assert.Equal(t, 100, types[1].PostsLimitPerMonth)
}

func TestUserRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("create assigns an id", func(t *testing.T) {
		user := createUser(t, s, "alice")
		assert.NotEqual(t, uuid.Nil, user.ID)

		found, err := s.Users.FindUnique(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "alice", found.Name)
		assert.Equal(t, 10.0, found.Balance)
	})

	t.Run("find missing returns nil", func(t *testing.T) {
		found, err := s.Users.FindUnique(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update applies only provided fields", func(t *testing.T) {
		user := createUser(t, s, "bob")
		name := "robert"

		updated, err := s.Users.Update(ctx, user.ID, model.ChangeUserInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "robert", updated.Name)
		assert.Equal(t, 10.0, updated.Balance)
	})

	t.Run("update with no fields returns the row", func(t *testing.T) {
		user := createUser(t, s, "carol")

		updated, err := s.Users.Update(ctx, user.ID, model.ChangeUserInput{})
		require.NoError(t, err)
		assert.Equal(t, "carol", updated.Name)
	})

	t.Run("update missing is not found", func(t *testing.T) {
		name := "ghost"
		_, err := s.Users.Update(ctx, uuid.New(), model.ChangeUserInput{Name: &name})
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

		_, err = s.Users.Update(ctx, uuid.New(), model.ChangeUserInput{})
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		user := createUser(t, s, "dave")
		require.NoError(t, s.Users.Delete(ctx, user.ID))

		found, err := s.Users.FindUnique(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		err = s.Users.Delete(ctx, user.ID)
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})
}

func TestFindManyOrdersByCreation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	users, err := s.Users.FindMany(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"third", "second", "first"} {
		user := createUser(t, s, name)
		setCreatedAt(t, s, &model.User{}, user.ID, base.Add(time.Duration(2-i)*time.Hour))
	}

	users, err = s.Users.FindMany(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "first", users[0].Name)
	assert.Equal(t, "second", users[1].Name)
	assert.Equal(t, "third", users[2].Name)
}

func TestProfileRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "erin")

	profile, err := s.Profiles.Create(ctx, model.CreateProfileInput{
		IsMale:       false,
		YearOfBirth:  1990,
		UserID:       user.ID,
		MemberTypeID: model.MemberTypeBasic,
	})
	require.NoError(t, err)

	t.Run("find by user", func(t *testing.T) {
		found, err := s.Profiles.FindByUser(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, profile.ID, found.ID)

		none, err := s.Profiles.FindByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("one profile per user", func(t *testing.T) {
		_, err := s.Profiles.Create(ctx, model.CreateProfileInput{
			YearOfBirth:  2000,
			UserID:       user.ID,
			MemberTypeID: model.MemberTypeBusiness,
		})
		assert.Error(t, err)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		_, err := s.Profiles.Create(ctx, model.CreateProfileInput{
			YearOfBirth:  2000,
			UserID:       uuid.New(),
			MemberTypeID: model.MemberTypeBasic,
		})
		assert.Error(t, err)
	})

	t.Run("partial update", func(t *testing.T) {
		year := 2000
		updated, err := s.Profiles.Update(ctx, profile.ID, model.ChangeProfileInput{YearOfBirth: &year})
		require.NoError(t, err)
		assert.Equal(t, 2000, updated.YearOfBirth)
		assert.False(t, updated.IsMale)
		assert.Equal(t, model.MemberTypeBasic, updated.MemberTypeID)
		assert.Equal(t, user.ID, updated.UserID)
	})

	t.Run("by member type", func(t *testing.T) {
		basic, err := s.Profiles.FindByMemberType(ctx, model.MemberTypeBasic)
		require.NoError(t, err)
		assert.Len(t, basic, 1)

		business, err := s.Profiles.FindByMemberType(ctx, model.MemberTypeBusiness)
		require.NoError(t, err)
		assert.Empty(t, business)
	})
}

func TestPostRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	author := createUser(t, s, "frank")
	other := createUser(t, s, "grace")

	post, err := s.Posts.Create(ctx, model.CreatePostInput{Title: "hello", Content: "world", AuthorID: author.ID})
	require.NoError(t, err)
	_, err = s.Posts.Create(ctx, model.CreatePostInput{Title: "other", Content: "post", AuthorID: other.ID})
	require.NoError(t, err)

	byAuthor, err := s.Posts.FindByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, post.ID, byAuthor[0].ID)

	content := "updated"
	updated, err := s.Posts.Update(ctx, post.ID, model.ChangePostInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Title)
	assert.Equal(t, "updated", updated.Content)

	require.NoError(t, s.Posts.Delete(ctx, post.ID))
	assert.True(t, errors.Is(s.Posts.Delete(ctx, post.ID), ErrNotFound))
}

func TestSubscriptionRepository(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	reader := createUser(t, s, "reader")
	writer := createUser(t, s, "writer")

	require.NoError(t, s.Subscriptions.Create(ctx, reader.ID, writer.ID))
	require.NoError(t, s.Subscriptions.Create(ctx, reader.ID, writer.ID), "repeat subscribe is a no-op")

	authors, err := s.Subscriptions.Authors(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, writer.ID, authors[0].ID)

	subscribers, err := s.Subscriptions.Subscribers(ctx, writer.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, reader.ID, subscribers[0].ID)

	_, err = s.Subscriptions.DeleteMany(ctx, SubscriptionFilter{})
	assert.Error(t, err)

	n, err := s.Subscriptions.DeleteMany(ctx, SubscriptionFilter{SubscriberID: reader.ID, AuthorID: writer.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	authors, err = s.Subscriptions.Authors(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestDeleteUserCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	user := createUser(t, s, "henry")
	follower := createUser(t, s, "ivy")

	profile, err := s.Profiles.Create(ctx, model.CreateProfileInput{YearOfBirth: 1980, UserID: user.ID, MemberTypeID: model.MemberTypeBusiness})
	require.NoError(t, err)
	post, err := s.Posts.Create(ctx, model.CreatePostInput{Title: "t", Content: "c", AuthorID: user.ID})
	require.NoError(t, err)
	require.NoError(t, s.Subscriptions.Create(ctx, follower.ID, user.ID))

	require.NoError(t, s.Users.Delete(ctx, user.ID))

	gotProfile, err := s.Profiles.FindUnique(ctx, profile.ID)
	require.NoError(t, err)
	assert.Nil(t, gotProfile)

	gotPost, err := s.Posts.FindUnique(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPost)

	authors, err := s.Subscriptions.Authors(ctx, follower.ID)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestPing(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewDBConnectionUnsupportedType(t *testing.T) {
	_, err := NewDBConnection(config.DatabaseConfig{Type: "mysql"}, nil)
	assert.Error(t, err)
}
