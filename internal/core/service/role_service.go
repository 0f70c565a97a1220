package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
	"github.com/usermgmt/user-service/internal/pkg/metrics"
)

const scopeRoles = "roles"

type RoleService struct {
	repo   ports.RoleRepository
	opts   Options
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, opts Options, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, opts: opts.withDefaults(), logger: logger}
}

// CreateRole persists a new live role. A name already used by a live role is
// rejected by the store with a duplicate-key error. When an idempotency key is
// provided and already seen, the previously created role is returned.
func (s *RoleService) CreateRole(ctx context.Context, input ports.CreateRoleInput) (*ports.CreateRoleResult, error) {
	log := loggerFrom(ctx, s.logger)

	if strings.TrimSpace(input.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "name is required"}
	}

	if existing := s.replay(ctx, input.IdempotencyKey); existing != nil {
		log.Info().Str("idempotency_key", input.IdempotencyKey).Str("role_id", existing.ID).Msg("idempotent replay")
		metrics.IdempotentReplaysTotal.WithLabelValues(metrics.EntityRole).Inc()
		return &ports.CreateRoleResult{Role: existing, AlreadyExisted: true}, nil
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Role{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		countDuplicate(metrics.EntityRole, err)
		return nil, err
	}

	if input.IdempotencyKey != "" && s.opts.Idempotency != nil {
		if err := s.opts.Idempotency.Remember(ctx, scopeRoles, input.IdempotencyKey, created.ID); err != nil {
			log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.RecordsCreatedTotal.WithLabelValues(metrics.EntityRole).Inc()
	log.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return &ports.CreateRoleResult{Role: created}, nil
}

// replay returns the live role an earlier request with the same key created.
// Store failures are logged and treated as a miss.
func (s *RoleService) replay(ctx context.Context, key string) *domain.Role {
	if key == "" || s.opts.Idempotency == nil {
		return nil
	}
	log := loggerFrom(ctx, s.logger)

	id, ok, err := s.opts.Idempotency.Lookup(ctx, scopeRoles, key)
	if err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrRoleNotFound) {
			log.Warn().Err(err).Str("role_id", id).Msg("idempotent replay lookup failed")
		}
		return nil
	}
	return role
}

// ListRoles returns a page of live roles, newest first.
func (s *RoleService) ListRoles(ctx context.Context, input ports.ListRolesInput) (*ports.ListRolesResult, error) {
	page := s.opts.Pagination.page(input.Page, input.Limit)

	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	return &ports.ListRolesResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages(total, page.Limit),
	}, nil
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateRole applies the non-nil fields of update to a live role.
func (s *RoleService) UpdateRole(ctx context.Context, id string, update ports.RoleUpdate) (*domain.Role, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "name cannot be empty"}
	}

	role, err := s.repo.Update(ctx, id, update)
	if err != nil {
		countDuplicate(metrics.EntityRole, err)
		return nil, err
	}

	log := loggerFrom(ctx, s.logger)
	log.Info().Str("role_id", role.ID).Msg("role updated")
	return role, nil
}

// DeleteRole flags a live role as deleted. Users referencing it keep the
// dangling reference.
func (s *RoleService) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.RecordsSoftDeletedTotal.WithLabelValues(metrics.EntityRole).Inc()
	log := loggerFrom(ctx, s.logger)
	log.Info().Str("role_id", role.ID).Msg("role soft-deleted")
	return role, nil
}

func countDuplicate(entity string, err error) {
	var dup *domain.DuplicateKeyError
	if !errors.As(err, &dup) {
		return
	}
	field := dup.Field
	if field == "" {
		field = "unknown"
	}
	metrics.DuplicateKeyRejectionsTotal.WithLabelValues(entity, field).Inc()
}
