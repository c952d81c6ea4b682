package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"gorm.io/gorm"

	"github.com/quillgraph/quill/internal/config"
	"github.com/quillgraph/quill/internal/model"
	"github.com/quillgraph/quill/internal/store"
)

func setupTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()

	db, err := store.NewDBConnection(config.DatabaseConfig{Type: config.SqliteDbType, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.CloseDB(db) })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx, db))
	require.NoError(t, store.Seed(ctx, db))

	s := store.New(db)
	return &Resolver{Store: s}, s
}

func setupTestExecutor(t *testing.T) (*executor.Executor, *store.Store) {
	t.Helper()
	resolver, s := setupTestResolver(t)
	return NewExecutor(resolver, config.Default().GraphQL), s
}

func createTestUser(t *testing.T, s *store.Store, name string, balance float64) *model.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), model.CreateUserInput{Name: name, Balance: balance})
	require.NoError(t, err)
	return u
}

func createTestProfile(t *testing.T, s *store.Store, userID uuid.UUID, memberType model.MemberTypeID) *model.Profile {
	t.Helper()
	p, err := s.Profiles.Create(context.Background(), model.CreateProfileInput{
		IsMale:       true,
		YearOfBirth:  1990,
		UserID:       userID,
		MemberTypeID: memberType,
	})
	require.NoError(t, err)
	return p
}

// run executes query and decodes the data object.
func run(t *testing.T, e *executor.Executor, query string, vars map[string]any) (map[string]any, gqlerror.List) {
	t.Helper()
	resp := Execute(context.Background(), e, &graphql.RawParams{Query: query, Variables: vars})
	if resp.Data == nil {
		return nil, resp.Errors
	}
	var data map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data, resp.Errors
}

func errorCode(err *gqlerror.Error) any {
	if err.Extensions == nil {
		return nil
	}
	return err.Extensions["code"]
}

func TestSchema(t *testing.T) {
	schema := Schema()

	for _, name := range []string{"UUID", "MemberTypeId", "UserType", "ProfileType", "PostType", "MemberType"} {
		assert.NotNil(t, schema.Types[name], name)
	}
	assert.NotNil(t, schema.Mutation)
	assert.Nil(t, schema.Subscription)
}

func TestQueryUser(t *testing.T) {
	resolver, s := setupTestResolver(t)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice", 10)

	t.Run("exact match", func(t *testing.T) {
		got, err := resolver.Query().User(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		got, err := resolver.Query().User(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestQueryByIDNotFoundIsNull(t *testing.T) {
	e, _ := setupTestExecutor(t)
	missing := uuid.NewString()

	for _, field := range []string{"user", "post", "profile"} {
		t.Run(field, func(t *testing.T) {
			data, errs := run(t, e, `query($id: UUID!) { item: `+field+`(id: $id) { id } }`, map[string]any{"id": missing})
			require.Empty(t, errs)
			require.Contains(t, data, "item")
			assert.Nil(t, data["item"])
		})
	}
}

func TestQueryCollections(t *testing.T) {
	e, s := setupTestExecutor(t)

	t.Run("empty", func(t *testing.T) {
		data, errs := run(t, e, `{ users { id } posts { id } profiles { id } }`, nil)
		require.Empty(t, errs)
		assert.Equal(t, []any{}, data["users"])
		assert.Equal(t, []any{}, data["posts"])
		assert.Equal(t, []any{}, data["profiles"])
	})

	// created in reverse and stamped, so the order comes from created_at alone
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := createTestUser(t, s, "second", 2)
	first := createTestUser(t, s, "first", 1)
	require.NoError(t, s.DB().Model(&model.User{}).Where("id = ?", first.ID).UpdateColumn("created_at", base).Error)
	require.NoError(t, s.DB().Model(&model.User{}).Where("id = ?", second.ID).UpdateColumn("created_at", base.Add(time.Hour)).Error)

	t.Run("ordered by creation", func(t *testing.T) {
		data, errs := run(t, e, `{ users { name balance } }`, nil)
		require.Empty(t, errs)
		assert.Equal(t, []any{
			map[string]any{"name": "first", "balance": 1.0},
			map[string]any{"name": "second", "balance": 2.0},
		}, data["users"])
	})
}

func TestQueryMemberTypes(t *testing.T) {
	e, _ := setupTestExecutor(t)

	data, errs := run(t, e, `{
		memberTypes { id discount postsLimitPerMonth }
		business: memberType(id: BUSINESS) { id postsLimitPerMonth }
	}`, nil)
	require.Empty(t, errs)
	assert.Equal(t, []any{
		map[string]any{"id": "BASIC", "discount": 2.3, "postsLimitPerMonth": 20.0},
		map[string]any{"id": "BUSINESS", "discount": 7.7, "postsLimitPerMonth": 100.0},
	}, data["memberTypes"])
	assert.Equal(t, map[string]any{"id": "BUSINESS", "postsLimitPerMonth": 100.0}, data["business"])

	_, errs = run(t, e, `{ memberType(id: GOLD) { id } }`, nil)
	assert.NotEmpty(t, errs)
}

func TestCreateUserThenQuery(t *testing.T) {
	e, _ := setupTestExecutor(t)

	data, errs := run(t, e, `mutation { createUser(dto: {name: "A", balance: 10}) { id name balance } }`, nil)
	require.Empty(t, errs)
	created := data["createUser"].(map[string]any)
	id := created["id"].(string)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	data, errs = run(t, e, `query($id: UUID!) { user(id: $id) { id name balance } }`, map[string]any{"id": id})
	require.Empty(t, errs)
	assert.Equal(t, map[string]any{"id": id, "name": "A", "balance": 10.0}, data["user"])
}

func TestChangeUser(t *testing.T) {
	e, s := setupTestExecutor(t)
	u := createTestUser(t, s, "Alice", 10)
	query := `mutation($id: UUID!, $dto: ChangeUserInput!) { changeUser(id: $id, dto: $dto) { name balance } }`

	t.Run("partial", func(t *testing.T) {
		data, errs := run(t, e, query, map[string]any{"id": u.ID.String(), "dto": map[string]any{"balance": 42.5}})
		require.Empty(t, errs)
		assert.Equal(t, map[string]any{"name": "Alice", "balance": 42.5}, data["changeUser"])
	})

	t.Run("explicit null leaves field unchanged", func(t *testing.T) {
		data, errs := run(t, e, query, map[string]any{"id": u.ID.String(), "dto": map[string]any{"name": nil}})
		require.Empty(t, errs)
		assert.Equal(t, map[string]any{"name": "Alice", "balance": 42.5}, data["changeUser"])
	})

	t.Run("unknown id", func(t *testing.T) {
		data, errs := run(t, e, query, map[string]any{"id": uuid.NewString(), "dto": map[string]any{"name": "x"}})
		require.Len(t, errs, 1)
		assert.Equal(t, CodeNotFound, errorCode(errs[0]))
		assert.Nil(t, data["changeUser"])
	})
}

func TestDeleteUser(t *testing.T) {
	e, s := setupTestExecutor(t)
	u := createTestUser(t, s, "Alice", 10)
	createTestProfile(t, s, u.ID, model.MemberTypeBasic)
	vars := map[string]any{"id": u.ID.String()}

	data, errs := run(t, e, `mutation($id: UUID!) { deleteUser(id: $id) }`, vars)
	require.Empty(t, errs)
	assert.Contains(t, data["deleteUser"], u.ID.String())

	data, errs = run(t, e, `query($id: UUID!) { user(id: $id) { id } }`, vars)
	require.Empty(t, errs)
	assert.Nil(t, data["user"])

	data, errs = run(t, e, `{ profiles { id } }`, nil)
	require.Empty(t, errs)
	assert.Equal(t, []any{}, data["profiles"], "profile removed with its user")

	data, errs = run(t, e, `mutation($id: UUID!) { deleteUser(id: $id) }`, vars)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeNotFound, errorCode(errs[0]))
	assert.Equal(t, "deleteUser", errs[0].Path.String())
	assert.Nil(t, data["deleteUser"])
}

func TestProfileMutations(t *testing.T) {
	e, s := setupTestExecutor(t)
	u := createTestUser(t, s, "Alice", 10)

	create := `mutation($dto: CreateProfileInput!) { createProfile(dto: $dto) { id isMale yearOfBirth userId memberTypeId } }`
	dto := map[string]any{"isMale": false, "yearOfBirth": 1985, "userId": u.ID.String(), "memberTypeId": "BASIC"}

	data, errs := run(t, e, create, map[string]any{"dto": dto})
	require.Empty(t, errs)
	profile := data["createProfile"].(map[string]any)
	assert.Equal(t, u.ID.String(), profile["userId"])
	assert.Equal(t, "BASIC", profile["memberTypeId"])

	t.Run("change only yearOfBirth", func(t *testing.T) {
		data, errs := run(t, e, `mutation($id: UUID!) { changeProfile(id: $id, dto: {yearOfBirth: 2000}) { id isMale yearOfBirth userId memberTypeId } }`,
			map[string]any{"id": profile["id"]})
		require.Empty(t, errs)
		changed := data["changeProfile"].(map[string]any)
		assert.Equal(t, 2000.0, changed["yearOfBirth"])
		for _, field := range []string{"id", "isMale", "userId", "memberTypeId"} {
			assert.Equal(t, profile[field], changed[field], field)
		}
	})

	t.Run("change member type", func(t *testing.T) {
		data, errs := run(t, e, `mutation($id: UUID!) { changeProfile(id: $id, dto: {memberTypeId: BUSINESS}) { memberTypeId memberType { discount } } }`,
			map[string]any{"id": profile["id"]})
		require.Empty(t, errs)
		assert.Equal(t, map[string]any{"memberTypeId": "BUSINESS", "memberType": map[string]any{"discount": 7.7}}, data["changeProfile"])
	})

	t.Run("second profile for the same user", func(t *testing.T) {
		data, errs := run(t, e, create, map[string]any{"dto": dto})
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInvalidInput, errorCode(errs[0]))
		assert.Nil(t, data["createProfile"])
	})

	t.Run("unknown user", func(t *testing.T) {
		other := map[string]any{"isMale": true, "yearOfBirth": 1990, "userId": uuid.NewString(), "memberTypeId": "BASIC"}
		_, errs := run(t, e, create, map[string]any{"dto": other})
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInvalidInput, errorCode(errs[0]))
	})

	t.Run("delete", func(t *testing.T) {
		data, errs := run(t, e, `mutation($id: UUID!) { deleteProfile(id: $id) }`, map[string]any{"id": profile["id"]})
		require.Empty(t, errs)
		assert.NotEmpty(t, data["deleteProfile"])

		data, errs = run(t, e, `query($id: UUID!) { profile(id: $id) { id } }`, map[string]any{"id": profile["id"]})
		require.Empty(t, errs)
		assert.Nil(t, data["profile"])
	})
}

func TestPostMutations(t *testing.T) {
	e, s := setupTestExecutor(t)
	u := createTestUser(t, s, "Alice", 10)

	data, errs := run(t, e, `mutation($dto: CreatePostInput!) { createPost(dto: $dto) { id title content authorId author { name } } }`,
		map[string]any{"dto": map[string]any{"title": "Hello", "content": "World", "authorId": u.ID.String()}})
	require.Empty(t, errs)
	post := data["createPost"].(map[string]any)
	assert.Equal(t, "Hello", post["title"])
	assert.Equal(t, map[string]any{"name": "Alice"}, post["author"])

	data, errs = run(t, e, `mutation($id: UUID!) { changePost(id: $id, dto: {content: "Go"}) { title content } }`,
		map[string]any{"id": post["id"]})
	require.Empty(t, errs)
	assert.Equal(t, map[string]any{"title": "Hello", "content": "Go"}, data["changePost"])

	data, errs = run(t, e, `mutation($id: UUID!) { a: deletePost(id: $id) b: deletePost(id: $id) }`,
		map[string]any{"id": post["id"]})
	require.Len(t, errs, 1, "mutations run in order, so the second delete finds nothing")
	assert.NotNil(t, data["a"])
	assert.Nil(t, data["b"])
}

func TestSubscriptions(t *testing.T) {
	e, s := setupTestExecutor(t)
	reader := createTestUser(t, s, "reader", 1)
	writer := createTestUser(t, s, "writer", 2)
	vars := map[string]any{"userId": reader.ID.String(), "authorId": writer.ID.String()}

	subscribe := `mutation($userId: UUID!, $authorId: UUID!) {
		subscribeTo(userId: $userId, authorId: $authorId) { id userSubscribedTo { id } }
	}`

	for i := 0; i < 2; i++ {
		data, errs := run(t, e, subscribe, vars)
		require.Empty(t, errs)
		assert.Equal(t, map[string]any{
			"id":               reader.ID.String(),
			"userSubscribedTo": []any{map[string]any{"id": writer.ID.String()}},
		}, data["subscribeTo"], "subscribing is idempotent")
	}

	data, errs := run(t, e, `query($authorId: UUID!) { user(id: $authorId) { subscribedToUser { name } userSubscribedTo { name } } }`,
		map[string]any{"authorId": writer.ID.String()})
	require.Empty(t, errs)
	assert.Equal(t, map[string]any{
		"subscribedToUser": []any{map[string]any{"name": "reader"}},
		"userSubscribedTo": []any{},
	}, data["user"])

	unsubscribe := `mutation($userId: UUID!, $authorId: UUID!) { unsubscribeFrom(userId: $userId, authorId: $authorId) }`
	data, errs = run(t, e, unsubscribe, vars)
	require.Empty(t, errs)
	assert.NotEmpty(t, data["unsubscribeFrom"])

	data, errs = run(t, e, `query($userId: UUID!) { user(id: $userId) { userSubscribedTo { id } } }`,
		map[string]any{"userId": reader.ID.String()})
	require.Empty(t, errs)
	assert.Equal(t, map[string]any{"userSubscribedTo": []any{}}, data["user"])

	_, errs = run(t, e, unsubscribe, vars)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeNotFound, errorCode(errs[0]))

	t.Run("unknown author", func(t *testing.T) {
		_, errs := run(t, e, subscribe, map[string]any{"userId": reader.ID.String(), "authorId": uuid.NewString()})
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInvalidInput, errorCode(errs[0]))
	})
}

func TestNestedRelations(t *testing.T) {
	e, s := setupTestExecutor(t)
	ctx := context.Background()
	u := createTestUser(t, s, "Alice", 10)
	createTestProfile(t, s, u.ID, model.MemberTypeBusiness)
	_, err := s.Posts.Create(ctx, model.CreatePostInput{Title: "one", Content: "c", AuthorID: u.ID})
	require.NoError(t, err)

	data, errs := run(t, e, `{
		users {
			name
			profile { yearOfBirth memberType { id } user { name } }
			posts { title author { name } }
		}
		memberTypes { id profiles { userId } }
	}`, nil)
	require.Empty(t, errs)
	assert.Equal(t, []any{map[string]any{
		"name": "Alice",
		"profile": map[string]any{
			"yearOfBirth": 1990.0,
			"memberType":  map[string]any{"id": "BUSINESS"},
			"user":        map[string]any{"name": "Alice"},
		},
		"posts": []any{map[string]any{"title": "one", "author": map[string]any{"name": "Alice"}}},
	}}, data["users"])
	assert.Equal(t, []any{
		map[string]any{"id": "BASIC", "profiles": []any{}},
		map[string]any{"id": "BUSINESS", "profiles": []any{map[string]any{"userId": u.ID.String()}}},
	}, data["memberTypes"])
}

func TestDepthLimit(t *testing.T) {
	e, s := setupTestExecutor(t)
	createTestUser(t, s, "Alice", 10)

	var queries atomic.Int32
	require.NoError(t, s.DB().Callback().Query().Before("gorm:query").Register("test:count", func(*gorm.DB) {
		queries.Add(1)
	}))

	t.Run("depth 5 is allowed", func(t *testing.T) {
		_, errs := run(t, e, `{ users { posts { author { profile { memberType { id } } } } } }`, nil)
		require.Empty(t, errs)
		assert.Positive(t, queries.Load())
	})

	t.Run("depth 6 is rejected without touching the store", func(t *testing.T) {
		queries.Store(0)
		resp := Execute(context.Background(), e, &graphql.RawParams{
			Query: `query Deep { users { posts { author { profile { memberType { profiles { id } } } } } } }`,
		})
		assert.Nil(t, resp.Data)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "'Deep' exceeds maximum operation depth of 5", resp.Errors[0].Message)
		assert.Equal(t, ErrDepthLimit, errorCode(resp.Errors[0]))
		require.Len(t, resp.Errors[0].Locations, 1)
		assert.Equal(t, int32(0), queries.Load())
	})

	t.Run("fragments add no depth but their fields do", func(t *testing.T) {
		_, errs := run(t, e, `
			{ users { ...U } }
			fragment U on UserType { posts { author { ... on UserType { profile { memberType { profiles { id } } } } } } }
		`, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "'' exceeds maximum operation depth of 5", errs[0].Message)
	})

	t.Run("introspection is not counted", func(t *testing.T) {
		_, errs := run(t, e, `{ __schema { types { fields { type { ofType { ofType { name } } } } } } }`, nil)
		assert.Empty(t, errs)
	})

	t.Run("disabled", func(t *testing.T) {
		resolver, _ := setupTestResolver(t)
		open := NewExecutor(resolver, config.GraphQLConfig{MaxDepth: 0})
		_, errs := run(t, open, `{ users { posts { author { profile { memberType { profiles { id } } } } } } }`, nil)
		assert.Empty(t, errs)
	})
}

func TestRejectedDocumentsHaveNoData(t *testing.T) {
	e, _ := setupTestExecutor(t)

	tests := []struct {
		name  string
		query string
	}{
		{"syntax error", `{ users `},
		{"unknown field", `{ nope }`},
		{"missing argument", `{ user { id } }`},
		{"subscription", `subscription { users { id } }`},
		{"ambiguous operation", `query A { users { id } } query B { posts { id } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Execute(context.Background(), e, &graphql.RawParams{Query: tt.query})
			assert.NotEmpty(t, resp.Errors)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestOperationName(t *testing.T) {
	e, s := setupTestExecutor(t)
	createTestUser(t, s, "Alice", 10)
	doc := `query A { users { name } } query B { people: users { balance } }`

	resp := Execute(context.Background(), e, &graphql.RawParams{Query: doc, OperationName: "B"})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"people":[{"balance":10}]}`, string(resp.Data))

	resp = Execute(context.Background(), e, &graphql.RawParams{Query: doc, OperationName: "C"})
	require.Len(t, resp.Errors, 1)
	assert.Nil(t, resp.Data)
}

func TestFragmentsAndDirectives(t *testing.T) {
	e, s := setupTestExecutor(t)
	createTestUser(t, s, "Alice", 10)
	query := `query($full: Boolean!) {
		users { ...Names balance @include(if: $full) id @skip(if: true) }
	}
	fragment Names on UserType { name }`

	data, errs := run(t, e, query, map[string]any{"full": true})
	require.Empty(t, errs)
	assert.Equal(t, []any{map[string]any{"name": "Alice", "balance": 10.0}}, data["users"])

	data, errs = run(t, e, query, map[string]any{"full": false})
	require.Empty(t, errs)
	assert.Equal(t, []any{map[string]any{"name": "Alice"}}, data["users"])
}

func TestVariableNumbers(t *testing.T) {
	e, s := setupTestExecutor(t)
	u := createTestUser(t, s, "Alice", 10)
	create := `mutation($dto: CreateProfileInput!) { createProfile(dto: $dto) { yearOfBirth } }`

	t.Run("json number", func(t *testing.T) {
		dto := map[string]any{"isMale": true, "yearOfBirth": json.Number("1990"), "userId": u.ID.String(), "memberTypeId": "BASIC"}
		data, errs := run(t, e, create, map[string]any{"dto": dto})
		require.Empty(t, errs)
		assert.Equal(t, map[string]any{"yearOfBirth": 1990.0}, data["createProfile"])
	})

	t.Run("fractional int is rejected", func(t *testing.T) {
		dto := map[string]any{"isMale": true, "yearOfBirth": json.Number("1990.5"), "userId": u.ID.String(), "memberTypeId": "BASIC"}
		_, errs := run(t, e, create, map[string]any{"dto": dto})
		assert.NotEmpty(t, errs)
	})
}

func TestResolverPanicIsRecovered(t *testing.T) {
	// a resolver without a store panics on first use
	e := NewExecutor(&Resolver{}, config.Default().GraphQL)

	data, errs := run(t, e, `{ users { id } }`, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "internal system error", errs[0].Message)
	assert.Equal(t, CodeInternal, errorCode(errs[0]))
	assert.Nil(t, data["users"])
}

func TestInvalidUUIDArgument(t *testing.T) {
	e, _ := setupTestExecutor(t)

	data, errs := run(t, e, `{ user(id: "not-a-uuid") { id } }`, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, `UUID cannot represent value: "not-a-uuid"`, errs[0].Message)
	assert.Equal(t, CodeInvalidInput, errorCode(errs[0]))
	assert.Nil(t, data["user"])

	data, errs = run(t, e, `query($id: UUID!) { user(id: $id) { id } }`, map[string]any{"id": "nope"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidInput, errorCode(errs[0]))
	assert.Nil(t, data["user"])
}

func TestIntrospection(t *testing.T) {
	e, _ := setupTestExecutor(t)

	data, errs := run(t, e, `{
		__schema { queryType { name } mutationType { name } }
		__type(name: "MemberTypeId") { kind enumValues { name } }
	}`, nil)
	require.Empty(t, errs)
	assert.Equal(t, map[string]any{
		"queryType":    map[string]any{"name": "Query"},
		"mutationType": map[string]any{"name": "Mutation"},
	}, data["__schema"])
	assert.Equal(t, map[string]any{
		"kind":       "ENUM",
		"enumValues": []any{map[string]any{"name": "BASIC"}, map[string]any{"name": "BUSINESS"}},
	}, data["__type"])
}

func TestPresentError(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not found", store.ErrNotFound, CodeNotFound},
		{"bad uuid", fmt.Errorf("%w: %q", model.ErrInvalidUUID, "x"), CodeInvalidInput},
		{"bad member type", fmt.Errorf("%w: GOLD", model.ErrInvalidMemberTypeID), CodeInvalidInput},
		{"duplicate", gorm.ErrDuplicatedKey, CodeInvalidInput},
		{"foreign key", gorm.ErrForeignKeyViolated, CodeInvalidInput},
		{"cancelled", context.Canceled, CodeCancelled},
		{"timeout", context.DeadlineExceeded, CodeTimeout},
		{"other", assert.AnError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.presentError(ctx, tt.err)
			assert.Equal(t, tt.code, errorCode(got))
		})
	}

	t.Run("input errors keep their message", func(t *testing.T) {
		got := resolver.presentError(ctx, fmt.Errorf("%w: %q", model.ErrInvalidUUID, "x"))
		assert.Equal(t, `UUID cannot represent value: "x"`, got.Message)
	})

	t.Run("coded errors pass through", func(t *testing.T) {
		coded := &gqlerror.Error{Message: "too deep", Extensions: map[string]any{"code": ErrDepthLimit}}
		got := resolver.presentError(ctx, coded)
		assert.Equal(t, "too deep", got.Message)
		assert.Equal(t, ErrDepthLimit, errorCode(got))
	})

	t.Run("internal errors hide details", func(t *testing.T) {
		got := resolver.presentError(ctx, assert.AnError)
		assert.NotContains(t, got.Message, assert.AnError.Error())
	})
}
