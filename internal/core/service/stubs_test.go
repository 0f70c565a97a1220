package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. They mirror the Mongo adapter: every lookup
// skips soft-deleted records, role names are unique among live roles and
// usernames/emails are unique across all users.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errStore = errors.New("store unavailable")

type stubRoleRepo struct {
	roles []*domain.Role // insertion order == creation order

	findCalls  int
	failFindAt int   // 1-based FindByID call that returns errStore; 0 = never
	listErr    error // returned by List and FindByIDs when set
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{}
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if !existing.IsDeleted && existing.Name == role.Name {
			return nil, &domain.DuplicateKeyError{Field: "name"}
		}
	}
	clone := *role
	clone.ID = fmt.Sprintf("role-%02d", len(r.roles)+1)
	r.roles = append(r.roles, &clone)
	out := clone
	return &out, nil
}

func (r *stubRoleRepo) live(id string) *domain.Role {
	for _, role := range r.roles {
		if role.ID == id && !role.IsDeleted {
			return role
		}
	}
	return nil
}

func (r *stubRoleRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.Role, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var matched []*domain.Role
	for i := len(r.roles) - 1; i >= 0; i-- {
		if !r.roles[i].IsDeleted {
			clone := *r.roles[i]
			matched = append(matched, &clone)
		}
	}
	return window(matched, page), int64(len(matched)), nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.findCalls++
	if r.failFindAt != 0 && r.findCalls == r.failFindAt {
		return nil, errStore
	}
	role := r.live(id)
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Role, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Role
	for _, id := range ids {
		if role := r.live(id); role != nil {
			clone := *role
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, id string, update ports.RoleUpdate) (*domain.Role, error) {
	role := r.live(id)
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	if update.Name != nil {
		for _, other := range r.roles {
			if other != role && !other.IsDeleted && other.Name == *update.Name {
				return nil, &domain.DuplicateKeyError{Field: "name"}
			}
		}
		role.Name = *update.Name
	}
	if update.Description != nil {
		role.Description = *update.Description
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) SoftDelete(_ context.Context, id string) (*domain.Role, error) {
	role := r.live(id)
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	role.IsDeleted = true
	clone := *role
	return &clone, nil
}

type stubUserRepo struct {
	users []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) collision(self *domain.User, username, email string) error {
	for _, u := range r.users {
		if u == self {
			continue
		}
		if u.Username == username {
			return &domain.DuplicateKeyError{Field: "username"}
		}
		if u.Email == email {
			return &domain.DuplicateKeyError{Field: "email"}
		}
	}
	return nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := r.collision(nil, user.Username, user.Email); err != nil {
		return nil, err
	}
	clone := *user
	clone.ID = fmt.Sprintf("user-%02d", len(r.users)+1)
	r.users = append(r.users, &clone)
	out := clone
	return &out, nil
}

func (r *stubUserRepo) live(match func(*domain.User) bool) *domain.User {
	for _, u := range r.users {
		if !u.IsDeleted && match(u) {
			return u
		}
	}
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for i := len(r.users) - 1; i >= 0; i-- {
		u := r.users[i]
		if u.IsDeleted {
			continue
		}
		if f.Username != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(f.Username)) {
			continue
		}
		if f.FullName != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(f.FullName)) {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	return window(matched, f.Page), int64(len(matched)), nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	u := r.live(match)
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmailAndUsername(_ context.Context, email, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email && u.Username == username })
}

func (r *stubUserRepo) Update(_ context.Context, id string, up ports.UserUpdate) (*domain.User, error) {
	u := r.live(func(u *domain.User) bool { return u.ID == id })
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	next := *u
	if up.Username != nil {
		next.Username = *up.Username
	}
	if up.Email != nil {
		next.Email = *up.Email
	}
	if err := r.collision(u, next.Username, next.Email); err != nil {
		return nil, err
	}
	if up.Password != nil {
		next.Password = *up.Password
	}
	if up.FullName != nil {
		next.FullName = *up.FullName
	}
	if up.AvatarURL != nil {
		next.AvatarURL = *up.AvatarURL
	}
	if up.Status != nil {
		next.Status = *up.Status
	}
	if up.RoleID != nil {
		next.RoleID = *up.RoleID
	}
	if up.LoginCount != nil {
		next.LoginCount = *up.LoginCount
	}
	*u = next
	return &next, nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) (*domain.User, error) {
	u := r.live(func(u *domain.User) bool { return u.ID == id })
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	u.IsDeleted = true
	clone := *u
	return &clone, nil
}

// window applies skip/limit the way the Mongo find options do.
func window[T any](items []T, page ports.PageRequest) []T {
	skip := int(page.Skip())
	if skip >= len(items) {
		return []T{}
	}
	end := skip + page.Limit
	if page.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

type stubIdempotencyStore struct {
	ids       map[string]string
	lookupErr error
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{ids: make(map[string]string)}
}

func (s *stubIdempotencyStore) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.ids[scope+":"+key]
	return id, ok, nil
}

func (s *stubIdempotencyStore) Remember(_ context.Context, scope, key, id string) error {
	if _, ok := s.ids[scope+":"+key]; !ok {
		s.ids[scope+":"+key] = id
	}
	return nil
}
