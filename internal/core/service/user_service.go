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

const scopeUsers = "users"

type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	opts   Options
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, opts Options, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, opts: opts.withDefaults(), logger: logger}
}

// CreateUser validates the role reference, persists the user with defaults
// applied and returns it with its role resolved on a best-effort basis.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*ports.CreateUserResult, error) {
	log := loggerFrom(ctx, s.logger)

	if err := requireCreateFields(input); err != nil {
		return nil, err
	}

	if existing := s.replay(ctx, input.IdempotencyKey); existing != nil {
		log.Info().Str("idempotency_key", input.IdempotencyKey).Str("user_id", existing.User.ID).Msg("idempotent replay")
		metrics.IdempotentReplaysTotal.WithLabelValues(metrics.EntityUser).Inc()
		return &ports.CreateUserResult{User: existing, AlreadyExisted: true}, nil
	}

	if err := s.checkRole(ctx, input.RoleID); err != nil {
		return nil, err
	}

	password, err := s.opts.Hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:   input.Username,
		Password:   password,
		Email:      input.Email,
		FullName:   input.FullName,
		AvatarURL:  input.AvatarURL,
		Status:     input.Status,
		RoleID:     input.RoleID,
		LoginCount: input.LoginCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		countDuplicate(metrics.EntityUser, err)
		return nil, err
	}

	if input.IdempotencyKey != "" && s.opts.Idempotency != nil {
		if err := s.opts.Idempotency.Remember(ctx, scopeUsers, input.IdempotencyKey, created.ID); err != nil {
			log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.RecordsCreatedTotal.WithLabelValues(metrics.EntityUser).Inc()
	log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")

	return &ports.CreateUserResult{
		User: &domain.PopulatedUser{User: created, Role: s.bestEffortRole(ctx, "create", created.RoleID)},
	}, nil
}

func requireCreateFields(input ports.CreateUserInput) error {
	switch {
	case input.Username == "":
		return &domain.ValidationError{Field: "username", Message: "username is required"}
	case input.Password == "":
		return &domain.ValidationError{Field: "password", Message: "password is required"}
	case input.Email == "":
		return &domain.ValidationError{Field: "email", Message: "email is required"}
	case input.LoginCount < 0:
		return &domain.ValidationError{Field: "loginCount", Message: "loginCount must be at least 0"}
	}
	return nil
}

// checkRole verifies that roleID names a live role.
func (s *UserService) checkRole(ctx context.Context, roleID string) error {
	if roleID == "" {
		return domain.ErrInvalidReference
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.ErrInvalidReference
		}
		return err
	}
	return nil
}

// bestEffortRole resolves roleID after a write. Failures never fail the
// caller: a deleted role resolves to nil and any other error is logged.
func (s *UserService) bestEffortRole(ctx context.Context, operation, roleID string) *domain.Role {
	if roleID == "" {
		return nil
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if !errors.Is(err, domain.ErrRoleNotFound) {
			metrics.RolePopulateFailuresTotal.WithLabelValues(operation).Inc()
			log := loggerFrom(ctx, s.logger)
			log.Warn().Err(err).
				Str("role_id", roleID).
				Str("operation", operation).
				Msg("could not populate role, returning user without it")
		}
		return nil
	}
	return role
}

// populate resolves the roles of users with a single query. Users whose role
// is missing or deleted come back with a nil Role.
func (s *UserService) populate(ctx context.Context, users []*domain.User) ([]*domain.PopulatedUser, error) {
	ids := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u.RoleID == "" {
			continue
		}
		if _, ok := seen[u.RoleID]; ok {
			continue
		}
		seen[u.RoleID] = struct{}{}
		ids = append(ids, u.RoleID)
	}

	byID := make(map[string]*domain.Role, len(ids))
	if len(ids) > 0 {
		roles, err := s.roles.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range roles {
			byID[r.ID] = r
		}
	}

	out := make([]*domain.PopulatedUser, len(users))
	for i, u := range users {
		out[i] = &domain.PopulatedUser{User: u, Role: byID[u.RoleID]}
	}
	return out, nil
}

func (s *UserService) populateOne(ctx context.Context, user *domain.User) (*domain.PopulatedUser, error) {
	out, err := s.populate(ctx, []*domain.User{user})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// replay returns the live user an earlier request with the same key created.
func (s *UserService) replay(ctx context.Context, key string) *domain.PopulatedUser {
	if key == "" || s.opts.Idempotency == nil {
		return nil
	}
	log := loggerFrom(ctx, s.logger)

	id, ok, err := s.opts.Idempotency.Lookup(ctx, scopeUsers, key)
	if err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			log.Warn().Err(err).Str("user_id", id).Msg("idempotent replay lookup failed")
		}
		return nil
	}
	return &domain.PopulatedUser{User: user, Role: s.bestEffortRole(ctx, "create", user.RoleID)}
}

// ListUsers returns a page of live users, newest first, optionally filtered by
// case-insensitive username and fullName substrings.
func (s *UserService) ListUsers(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := s.opts.Pagination.page(input.Page, input.Limit)

	users, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Username: input.Username,
		FullName: input.FullName,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.populate(ctx, users)
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages(total, page.Limit),
	}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.PopulatedUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, user)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.PopulatedUser, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, user)
}

// UpdateUser applies the non-nil fields of update to a live user. The role
// reference is only re-validated when it is part of the update.
func (s *UserService) UpdateUser(ctx context.Context, id string, update ports.UserUpdate) (*domain.PopulatedUser, error) {
	if err := validateUpdate(update); err != nil {
		return nil, err
	}
	if update.RoleID != nil {
		if err := s.checkRole(ctx, *update.RoleID); err != nil {
			return nil, err
		}
	}
	if update.Password != nil {
		hashed, err := s.opts.Hasher.Hash(*update.Password)
		if err != nil {
			return nil, err
		}
		update.Password = &hashed
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		countDuplicate(metrics.EntityUser, err)
		return nil, err
	}

	log := loggerFrom(ctx, s.logger)
	log.Info().Str("user_id", user.ID).Msg("user updated")
	return &domain.PopulatedUser{User: user, Role: s.bestEffortRole(ctx, "update", user.RoleID)}, nil
}

func validateUpdate(update ports.UserUpdate) error {
	empty := func(p *string) bool { return p != nil && strings.TrimSpace(*p) == "" }
	switch {
	case empty(update.Username):
		return &domain.ValidationError{Field: "username", Message: "username cannot be empty"}
	case empty(update.Email):
		return &domain.ValidationError{Field: "email", Message: "email cannot be empty"}
	case update.Password != nil && *update.Password == "":
		return &domain.ValidationError{Field: "password", Message: "password cannot be empty"}
	case update.LoginCount != nil && *update.LoginCount < 0:
		return &domain.ValidationError{Field: "loginCount", Message: "loginCount must be at least 0"}
	}
	return nil
}

// DeleteUser flags a live user as deleted and returns the updated record.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.RecordsSoftDeletedTotal.WithLabelValues(metrics.EntityUser).Inc()
	log := loggerFrom(ctx, s.logger)
	log.Info().Str("user_id", user.ID).Msg("user soft-deleted")
	return user, nil
}

// ActivateUser sets status=true on the live user matching both email and
// username. An already active account yields *domain.AlreadyActivatedError
// carrying the current record.
func (s *UserService) ActivateUser(ctx context.Context, input ports.ActivateUserInput) (*domain.PopulatedUser, error) {
	if input.Email == "" || input.Username == "" {
		metrics.UserActivationsTotal.WithLabelValues("missing_fields").Inc()
		return nil, &domain.MissingFieldsError{Fields: []string{"email", "username"}}
	}

	user, err := s.users.FindByEmailAndUsername(ctx, input.Email, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.UserActivationsTotal.WithLabelValues("not_found").Inc()
			return nil, domain.ErrNoMatchingUser
		}
		return nil, err
	}

	if user.Status {
		current, err := s.populateOne(ctx, user)
		if err != nil {
			return nil, err
		}
		metrics.UserActivationsTotal.WithLabelValues("already_activated").Inc()
		return nil, &domain.AlreadyActivatedError{User: current}
	}

	active := true
	updated, err := s.users.Update(ctx, user.ID, ports.UserUpdate{Status: &active})
	if err != nil {
		return nil, err
	}

	metrics.UserActivationsTotal.WithLabelValues("activated").Inc()
	log := loggerFrom(ctx, s.logger)
	log.Info().Str("user_id", updated.ID).Msg("user activated")
	return &domain.PopulatedUser{User: updated, Role: s.bestEffortRole(ctx, "update", updated.RoleID)}, nil
}
