package model

import "github.com/google/uuid"

// CreateUserInput is the payload of createUser.
type CreateUserInput struct {
	Name    string
	Balance float64
}

// ChangeUserInput is a partial update; nil fields are left untouched.
type ChangeUserInput struct {
	Name    *string
	Balance *float64
}

// Columns returns the column assignments for the fields that were provided.
func (in ChangeUserInput) Columns() map[string]any {
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.Balance != nil {
		cols["balance"] = *in.Balance
	}
	return cols
}

// CreatePostInput is the payload of createPost.
type CreatePostInput struct {
	Title    string
	Content  string
	AuthorID uuid.UUID
}

// ChangePostInput is a partial update; nil fields are left untouched.
type ChangePostInput struct {
	Title   *string
	Content *string
}

// Columns returns the column assignments for the fields that were provided.
func (in ChangePostInput) Columns() map[string]any {
	cols := map[string]any{}
	if in.Title != nil {
		cols["title"] = *in.Title
	}
	if in.Content != nil {
		cols["content"] = *in.Content
	}
	return cols
}

// CreateProfileInput is the payload of createProfile.
type CreateProfileInput struct {
	IsMale       bool
	YearOfBirth  int
	UserID       uuid.UUID
	MemberTypeID MemberTypeID
}

// ChangeProfileInput is a partial update; nil fields are left untouched.
type ChangeProfileInput struct {
	IsMale       *bool
	YearOfBirth  *int
	MemberTypeID *MemberTypeID
}

// Columns returns the column assignments for the fields that were provided.
func (in ChangeProfileInput) Columns() map[string]any {
	cols := map[string]any{}
	if in.IsMale != nil {
		cols["is_male"] = *in.IsMale
	}
	if in.YearOfBirth != nil {
		cols["year_of_birth"] = *in.YearOfBirth
	}
	if in.MemberTypeID != nil {
		cols["member_type_id"] = *in.MemberTypeID
	}
	return cols
}
