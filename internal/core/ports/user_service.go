package ports

import (
	"context"

	"github.com/usermgmt/user-service/internal/core/domain"
)

// CreateUserInput carries the data needed to create a user.
type CreateUserInput struct {
	Username       string
	Password       string
	Email          string
	FullName       string
	AvatarURL      string
	Status         bool
	RoleID         string
	LoginCount     int
	IdempotencyKey string
}

// CreateUserResult is returned after creating a user.
type CreateUserResult struct {
	User           *domain.PopulatedUser
	AlreadyExisted bool
}

// ListUsersInput carries the search and paging parameters of the list endpoint.
type ListUsersInput struct {
	Username string
	FullName string
	Page     int
	Limit    int
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Items      []*domain.PopulatedUser
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ActivateUserInput identifies the account to activate. Both fields are required.
type ActivateUserInput struct {
	Email    string
	Username string
}

// UserService defines use-case operations for users.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error)
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetUser(ctx context.Context, id string) (*domain.PopulatedUser, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.PopulatedUser, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*domain.PopulatedUser, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	ActivateUser(ctx context.Context, input ActivateUserInput) (*domain.PopulatedUser, error)
}
