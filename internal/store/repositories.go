package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quillgraph/quill/internal/model"
)

// UserRepository reads and writes users.
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindMany(ctx context.Context) ([]model.User, error) {
	users, err := findMany[model.User](ctx, r.db, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// FindUnique returns the user with the given id, or nil if there is none.
func (r *UserRepository) FindUnique(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := findUnique[model.User](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	user := &model.User{Name: in.Name, Balance: in.Balance}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, in model.ChangeUserInput) (*model.User, error) {
	user, err := update[model.User](ctx, r.db, id, in.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// Delete removes the user. The database cascades to their profile, posts and subscriptions.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID[model.User](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// PostRepository reads and writes posts.
type PostRepository struct {
	db *gorm.DB
}

func (r *PostRepository) FindMany(ctx context.Context) ([]model.Post, error) {
	posts, err := findMany[model.Post](ctx, r.db, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

// FindByAuthor lists the posts written by the given user.
func (r *PostRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	posts, err := findMany[model.Post](ctx, r.db, "author_id = ?", authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts of %s: %w", authorID, err)
	}
	return posts, nil
}

// FindUnique returns the post with the given id, or nil if there is none.
func (r *PostRepository) FindUnique(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := findUnique[model.Post](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, in model.CreatePostInput) (*model.Post, error) {
	post := &model.Post{Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, in model.ChangePostInput) (*model.Post, error) {
	post, err := update[model.Post](ctx, r.db, id, in.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID[model.Post](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// ProfileRepository reads and writes profiles.
type ProfileRepository struct {
	db *gorm.DB
}

func (r *ProfileRepository) FindMany(ctx context.Context) ([]model.Profile, error) {
	profiles, err := findMany[model.Profile](ctx, r.db, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	return profiles, nil
}

// FindByMemberType lists the profiles on the given tier.
func (r *ProfileRepository) FindByMemberType(ctx context.Context, id model.MemberTypeID) ([]model.Profile, error) {
	profiles, err := findMany[model.Profile](ctx, r.db, "member_type_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles of %s: %w", id, err)
	}
	return profiles, nil
}

// FindUnique returns the profile with the given id, or nil if there is none.
func (r *ProfileRepository) FindUnique(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := findUnique[model.Profile](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", id, err)
	}
	return profile, nil
}

// FindByUser returns the profile of the given user, or nil if they have none.
func (r *ProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := findUnique[model.Profile](ctx, r.db, "user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile of %s: %w", userID, err)
	}
	return profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, in model.CreateProfileInput) (*model.Profile, error) {
	profile := &model.Profile{
		IsMale:       in.IsMale,
		YearOfBirth:  in.YearOfBirth,
		UserID:       in.UserID,
		MemberTypeID: in.MemberTypeID,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, in model.ChangeProfileInput) (*model.Profile, error) {
	profile, err := update[model.Profile](ctx, r.db, id, in.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	return profile, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID[model.Profile](ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	return nil
}

// MemberTypeRepository reads membership tiers. Tiers are seeded, never written through the API.
type MemberTypeRepository struct {
	db *gorm.DB
}

func (r *MemberTypeRepository) FindMany(ctx context.Context) ([]model.MemberType, error) {
	types := []model.MemberType{}
	if err := r.db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch member types: %w", err)
	}
	return types, nil
}

// FindUnique returns the tier with the given id, or nil if there is none.
func (r *MemberTypeRepository) FindUnique(ctx context.Context, id model.MemberTypeID) (*model.MemberType, error) {
	mt, err := findUnique[model.MemberType](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member type %s: %w", id, err)
	}
	return mt, nil
}

// SubscriptionRepository manages the subscriber/author edges between users.
type SubscriptionRepository struct {
	db *gorm.DB
}

// SubscriptionFilter selects edges by either end. A zero field matches any user.
type SubscriptionFilter struct {
	SubscriberID uuid.UUID
	AuthorID     uuid.UUID
}

// Authors lists the users that subscriberID follows.
func (r *SubscriptionRepository) Authors(ctx context.Context, subscriberID uuid.UUID) ([]model.User, error) {
	users, err := r.joinedUsers(ctx, "author_id", "subscriber_id", subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authors of %s: %w", subscriberID, err)
	}
	return users, nil
}

// Subscribers lists the users that follow authorID.
func (r *SubscriptionRepository) Subscribers(ctx context.Context, authorID uuid.UUID) ([]model.User, error) {
	users, err := r.joinedUsers(ctx, "subscriber_id", "author_id", authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscribers of %s: %w", authorID, err)
	}
	return users, nil
}

func (r *SubscriptionRepository) joinedUsers(ctx context.Context, joinCol, whereCol string, id uuid.UUID) ([]model.User, error) {
	users := []model.User{}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins(fmt.Sprintf("JOIN subscribers_on_authors soa ON soa.%s = users.id", joinCol)).
		Where(fmt.Sprintf("soa.%s = ?", whereCol), id).
		Order("users.created_at, users.id").
		Find(&users).Error
	return users, err
}

// Create records that subscriberID follows authorID. Repeating an existing edge is a no-op.
func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	edge := &model.SubscribersOnAuthors{SubscriberID: subscriberID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error; err != nil {
		return fmt.Errorf("failed to subscribe %s to %s: %w", subscriberID, authorID, err)
	}
	return nil
}

// DeleteMany removes the matching edges and reports how many were removed.
func (r *SubscriptionRepository) DeleteMany(ctx context.Context, filter SubscriptionFilter) (int64, error) {
	if filter.SubscriberID == uuid.Nil && filter.AuthorID == uuid.Nil {
		return 0, fmt.Errorf("refusing to delete subscriptions without a filter")
	}

	tx := r.db.WithContext(ctx)
	if filter.SubscriberID != uuid.Nil {
		tx = tx.Where("subscriber_id = ?", filter.SubscriberID)
	}
	if filter.AuthorID != uuid.Nil {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	res := tx.Delete(&model.SubscribersOnAuthors{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete subscriptions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
