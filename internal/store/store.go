// Package store is the data-access layer behind the GraphQL resolvers. Every method performs
// a single round trip through GORM using the caller's context; nothing is cached.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned by writes that target a row which does not exist.
// Reads of a missing row return a nil entity and a nil error instead.
var ErrNotFound = errors.New("record not found")

// Store groups the per-entity repositories over one database handle.
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Posts         *PostRepository
	Profiles      *ProfileRepository
	MemberTypes   *MemberTypeRepository
	Subscriptions *SubscriptionRepository
}

// New creates a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &UserRepository{db: db},
		Posts:         &PostRepository{db: db},
		Profiles:      &ProfileRepository{db: db},
		MemberTypes:   &MemberTypeRepository{db: db},
		Subscriptions: &SubscriptionRepository{db: db},
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// creation order, with the primary key as tie-breaker
const defaultOrder = "created_at, id"

func findMany[T any](ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	rows := []T{}
	tx := db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Order(defaultOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func findUnique[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// update applies cols to the row with the given id and returns the row as stored afterwards.
// An empty cols only checks that the row exists.
func update[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, cols map[string]any) (*T, error) {
	if len(cols) > 0 {
		var zero T
		if err := db.WithContext(ctx).Model(&zero).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, err
		}
	}

	row, err := findUnique[T](ctx, db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var zero T
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
