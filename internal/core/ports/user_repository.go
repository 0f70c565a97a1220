package ports

import (
	"context"

	"github.com/usermgmt/user-service/internal/core/domain"
)

// ListUsersFilter carries the search parameters for listing users.
type ListUsersFilter struct {
	Username string // optional: case-insensitive substring of username
	FullName string // optional: case-insensitive substring of fullName
	Page     PageRequest
}

// UserUpdate lists every mutable user field. Nil fields are left untouched.
type UserUpdate struct {
	Username   *string
	Password   *string
	Email      *string
	FullName   *string
	AvatarURL  *string
	Status     *bool
	RoleID     *string
	LoginCount *int
}

// UserRepository persists users. Every lookup and write target excludes
// soft-deleted users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmailAndUsername matches both fields exactly.
	FindByEmailAndUsername(ctx context.Context, email, username string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) (*domain.User, error)
}
