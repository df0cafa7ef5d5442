package repository

import (
	"context"
	"errors"

	"github.com/dietia/dietia-backend/internal/domain/entity"
)

// ErrNotFound is returned by every repository when no row matches.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write.
var ErrConflict = errors.New("conflict")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	// Delete removes the user; assessments, plans and audit rows cascade.
	Delete(ctx context.Context, id string) error
}
