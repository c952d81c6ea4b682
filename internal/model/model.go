// Package model defines the persisted entities and the input shapes used to create and
// change them. The structs double as GORM models; relation fields exist so migrations emit
// foreign keys and are never populated by the GraphQL layer.
package model

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberTypeID identifies a membership tier.
type MemberTypeID string

const (
	MemberTypeBasic    MemberTypeID = "BASIC"
	MemberTypeBusiness MemberTypeID = "BUSINESS"
)

func (id MemberTypeID) String() string {
	return string(id)
}

// IsValid reports whether id names a known tier.
func (id MemberTypeID) IsValid() bool {
	switch id {
	case MemberTypeBasic, MemberTypeBusiness:
		return true
	}
	return false
}

func (id *MemberTypeID) UnmarshalGQL(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: enums must be strings", ErrInvalidMemberTypeID)
	}

	*id = MemberTypeID(str)
	if !id.IsValid() {
		return fmt.Errorf("%w: %s is not a valid MemberTypeId", ErrInvalidMemberTypeID, str)
	}
	return nil
}

func (id MemberTypeID) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(id.String()))
}

// User is a registered account.
type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Balance   float64   `gorm:"not null" json:"balance"`
	CreatedAt time.Time `gorm:"index" json:"-"`
	UpdatedAt time.Time `json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Posts   []Post   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a random id when none was set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile holds per-user membership details. A user has at most one profile.
type Profile struct {
	ID           uuid.UUID    `gorm:"primaryKey;type:uuid" json:"id"`
	IsMale       bool         `gorm:"not null" json:"isMale"`
	YearOfBirth  int          `gorm:"not null" json:"yearOfBirth"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	MemberTypeID MemberTypeID `gorm:"type:varchar(16);not null;index" json:"memberTypeId"`
	CreatedAt    time.Time    `gorm:"index" json:"-"`
	UpdatedAt    time.Time    `json:"-"`

	MemberType *MemberType `gorm:"foreignKey:MemberTypeID;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate assigns a random id when none was set.
func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Post is a piece of content written by a user.
type Post struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	CreatedAt time.Time `gorm:"index" json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns a random id when none was set.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MemberType is a membership tier with its perks.
type MemberType struct {
	ID                 MemberTypeID `gorm:"primaryKey;type:varchar(16)" json:"id"`
	Discount           float64      `gorm:"not null" json:"discount"`
	PostsLimitPerMonth int          `gorm:"not null" json:"postsLimitPerMonth"`
}

// SubscribersOnAuthors is the join row recording that Subscriber follows Author.
type SubscribersOnAuthors struct {
	SubscriberID uuid.UUID `gorm:"primaryKey;type:uuid" json:"subscriberId"`
	AuthorID     uuid.UUID `gorm:"primaryKey;type:uuid;index" json:"authorId"`

	Subscriber *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	Author     *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (SubscribersOnAuthors) TableName() string {
	return "subscribers_on_authors"
}

// All returns every model in migration order.
func All() []any {
	return []any{&MemberType{}, &User{}, &Profile{}, &Post{}, &SubscribersOnAuthors{}}
}

// DefaultMemberTypes are the tiers seeded into a fresh database.
func DefaultMemberTypes() []MemberType {
	return []MemberType{
		{ID: MemberTypeBasic, Discount: 2.3, PostsLimitPerMonth: 20},
		{ID: MemberTypeBusiness, Discount: 7.7, PostsLimitPerMonth: 100},
	}
}
