package ports

import (
	"context"

	"github.com/usermgmt/user-service/internal/core/domain"
)

// CreateRoleInput carries the data needed to create a role.
type CreateRoleInput struct {
	Name           string
	Description    string
	IdempotencyKey string
}

// CreateRoleResult is returned after creating a role.
type CreateRoleResult struct {
	Role *domain.Role
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// ListRolesInput carries raw paging parameters; zero values select defaults.
type ListRolesInput struct {
	Page  int
	Limit int
}

// ListRolesResult is returned by ListRoles.
type ListRolesResult struct {
	Items      []*domain.Role
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// RoleService defines use-case operations for roles.
type RoleService interface {
	CreateRole(ctx context.Context, input CreateRoleInput) (*CreateRoleResult, error)
	ListRoles(ctx context.Context, input ListRolesInput) (*ListRolesResult, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, update RoleUpdate) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) (*domain.Role, error)
}
