package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quillgraph/quill/internal/model"
	"github.com/quillgraph/quill/internal/store"
)

// MemberTypes is the resolver for the memberTypes field.
func (r *queryResolver) MemberTypes(ctx context.Context) ([]model.MemberType, error) {
	return r.Store.MemberTypes.FindMany(ctx)
}

// MemberType is the resolver for the memberType field.
func (r *queryResolver) MemberType(ctx context.Context, id model.MemberTypeID) (*model.MemberType, error) {
	return r.Store.MemberTypes.FindUnique(ctx, id)
}

// Posts is the resolver for the posts field.
func (r *queryResolver) Posts(ctx context.Context) ([]model.Post, error) {
	return r.Store.Posts.FindMany(ctx)
}

// Post is the resolver for the post field.
func (r *queryResolver) Post(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return r.Store.Posts.FindUnique(ctx, id)
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context) ([]model.User, error) {
	return r.Store.Users.FindMany(ctx)
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.Store.Users.FindUnique(ctx, id)
}

// Profiles is the resolver for the profiles field.
func (r *queryResolver) Profiles(ctx context.Context) ([]model.Profile, error) {
	return r.Store.Profiles.FindMany(ctx)
}

// Profile is the resolver for the profile field.
func (r *queryResolver) Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.Store.Profiles.FindUnique(ctx, id)
}

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, dto model.CreateUserInput) (*model.User, error) {
	return r.Store.Users.Create(ctx, dto)
}

// ChangeUser is the resolver for the changeUser field.
func (r *mutationResolver) ChangeUser(ctx context.Context, id uuid.UUID, dto model.ChangeUserInput) (*model.User, error) {
	return r.Store.Users.Update(ctx, id, dto)
}

// DeleteUser is the resolver for the deleteUser field.
func (r *mutationResolver) DeleteUser(ctx context.Context, id uuid.UUID) (*string, error) {
	if err := r.Store.Users.Delete(ctx, id); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("User %s deleted", id)
	return &msg, nil
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, dto model.CreatePostInput) (*model.Post, error) {
	return r.Store.Posts.Create(ctx, dto)
}

// ChangePost is the resolver for the changePost field.
func (r *mutationResolver) ChangePost(ctx context.Context, id uuid.UUID, dto model.ChangePostInput) (*model.Post, error) {
	return r.Store.Posts.Update(ctx, id, dto)
}

// DeletePost is the resolver for the deletePost field.
func (r *mutationResolver) DeletePost(ctx context.Context, id uuid.UUID) (*string, error) {
	if err := r.Store.Posts.Delete(ctx, id); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Post %s deleted", id)
	return &msg, nil
}

// CreateProfile is the resolver for the createProfile field.
func (r *mutationResolver) CreateProfile(ctx context.Context, dto model.CreateProfileInput) (*model.Profile, error) {
	return r.Store.Profiles.Create(ctx, dto)
}

// ChangeProfile is the resolver for the changeProfile field.
func (r *mutationResolver) ChangeProfile(ctx context.Context, id uuid.UUID, dto model.ChangeProfileInput) (*model.Profile, error) {
	return r.Store.Profiles.Update(ctx, id, dto)
}

// DeleteProfile is the resolver for the deleteProfile field.
func (r *mutationResolver) DeleteProfile(ctx context.Context, id uuid.UUID) (*string, error) {
	if err := r.Store.Profiles.Delete(ctx, id); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Profile %s deleted", id)
	return &msg, nil
}

// SubscribeTo is the resolver for the subscribeTo field.
func (r *mutationResolver) SubscribeTo(ctx context.Context, userID uuid.UUID, authorID uuid.UUID) (*model.User, error) {
	if err := r.Store.Subscriptions.Create(ctx, userID, authorID); err != nil {
		return nil, err
	}
	return r.Store.Users.FindUnique(ctx, userID)
}

// UnsubscribeFrom is the resolver for the unsubscribeFrom field.
func (r *mutationResolver) UnsubscribeFrom(ctx context.Context, userID uuid.UUID, authorID uuid.UUID) (*string, error) {
	n, err := r.Store.Subscriptions.DeleteMany(ctx, store.SubscriptionFilter{SubscriberID: userID, AuthorID: authorID})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("user %s is not subscribed to %s: %w", userID, authorID, store.ErrNotFound)
	}
	msg := fmt.Sprintf("User %s unsubscribed from %s", userID, authorID)
	return &msg, nil
}

// Profiles is the resolver for the profiles field.
func (r *memberTypeResolver) Profiles(ctx context.Context, obj *model.MemberType) ([]model.Profile, error) {
	return r.Store.Profiles.FindByMemberType(ctx, obj.ID)
}

// Author is the resolver for the author field.
func (r *postTypeResolver) Author(ctx context.Context, obj *model.Post) (*model.User, error) {
	return r.Store.Users.FindUnique(ctx, obj.AuthorID)
}

// MemberType is the resolver for the memberType field.
func (r *profileTypeResolver) MemberType(ctx context.Context, obj *model.Profile) (*model.MemberType, error) {
	return r.Store.MemberTypes.FindUnique(ctx, obj.MemberTypeID)
}

// User is the resolver for the user field.
func (r *profileTypeResolver) User(ctx context.Context, obj *model.Profile) (*model.User, error) {
	return r.Store.Users.FindUnique(ctx, obj.UserID)
}

// Profile is the resolver for the profile field.
func (r *userTypeResolver) Profile(ctx context.Context, obj *model.User) (*model.Profile, error) {
	return r.Store.Profiles.FindByUser(ctx, obj.ID)
}

// Posts is the resolver for the posts field.
func (r *userTypeResolver) Posts(ctx context.Context, obj *model.User) ([]model.Post, error) {
	return r.Store.Posts.FindByAuthor(ctx, obj.ID)
}

// UserSubscribedTo is the resolver for the userSubscribedTo field.
func (r *userTypeResolver) UserSubscribedTo(ctx context.Context, obj *model.User) ([]model.User, error) {
	return r.Store.Subscriptions.Authors(ctx, obj.ID)
}

// SubscribedToUser is the resolver for the subscribedToUser field.
func (r *userTypeResolver) SubscribedToUser(ctx context.Context, obj *model.User) ([]model.User, error) {
	return r.Store.Subscriptions.Subscribers(ctx, obj.ID)
}

// MemberType returns MemberTypeResolver implementation.
func (r *Resolver) MemberType() MemberTypeResolver { return &memberTypeResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// PostType returns PostTypeResolver implementation.
func (r *Resolver) PostType() PostTypeResolver { return &postTypeResolver{r} }

// ProfileType returns ProfileTypeResolver implementation.
func (r *Resolver) ProfileType() ProfileTypeResolver { return &profileTypeResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

// UserType returns UserTypeResolver implementation.
func (r *Resolver) UserType() UserTypeResolver { return &userTypeResolver{r} }

type memberTypeResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type postTypeResolver struct{ *Resolver }
type profileTypeResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type userTypeResolver struct{ *Resolver }
