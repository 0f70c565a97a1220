package ports

import (
	"context"
	"math"

	"github.com/usermgmt/user-service/internal/core/domain"
)

// PageRequest is a 1-based page window. Limit is always positive once it
// reaches a repository.
type PageRequest struct {
	Page  int
	Limit int
}

// Skip returns the number of records preceding the page, saturating at
// math.MaxInt64 so huge page numbers yield an empty page.
func (p PageRequest) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	prev, limit := int64(p.Page-1), int64(p.Limit)
	if prev > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return prev * limit
}

// RoleUpdate lists every mutable role field. Nil fields are left untouched.
type RoleUpdate struct {
	Name        *string
	Description *string
}

// RoleRepository persists roles. Every lookup and write target excludes
// soft-deleted roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// List returns a page of live roles ordered newest first and the total
	// number of live roles.
	List(ctx context.Context, page PageRequest) ([]*domain.Role, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	// FindByIDs returns the live roles among ids. Unknown, malformed and
	// deleted ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Role, error)
	Update(ctx context.Context, id string, update RoleUpdate) (*domain.Role, error)
	SoftDelete(ctx context.Context, id string) (*domain.Role, error)
}
