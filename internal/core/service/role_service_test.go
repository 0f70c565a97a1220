package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

func newRoleService(repo *stubRoleRepo) *RoleService {
	return NewRoleService(repo, Options{}, discardLogger)
}

func mustCreateRole(t *testing.T, svc *RoleService, name string) *domain.Role {
	t.Helper()
	res, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: name})
	if err != nil {
		t.Fatalf("create role %q: %v", name, err)
	}
	return res.Role
}

// ---------------------------------------------------------------------------
// CreateRole
// ---------------------------------------------------------------------------

func TestRoleService_Create_Success(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	res, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for a new role")
	}
	role := res.Role
	if role.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if role.Description != "" {
		t.Errorf("expected empty description, got %q", role.Description)
	}
	if role.IsDeleted {
		t.Error("new role must not be deleted")
	}
	if role.CreatedAt.IsZero() || role.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestRoleService_Create_DuplicateLiveName(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	mustCreateRole(t, svc, "admin")

	_, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: "admin"})

	var dup *domain.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.Field != "name" {
		t.Errorf("expected field name, got %q", dup.Field)
	}
}

func TestRoleService_Create_ReusesNameOfDeletedRole(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	first := mustCreateRole(t, svc, "admin")
	if _, err := svc.DeleteRole(context.Background(), first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: "admin"}); err != nil {
		t.Fatalf("expected name of deleted role to be reusable, got %v", err)
	}
}

func TestRoleService_Create_EmptyName(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)

	_, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: "   "})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected ValidationError on name, got %v", err)
	}
	if len(repo.roles) != 0 {
		t.Error("nothing should be persisted")
	}
}

func TestRoleService_Create_IdempotentReplay(t *testing.T) {
	repo := newStubRoleRepo()
	store := newStubIdempotencyStore()
	svc := NewRoleService(repo, Options{Idempotency: store}, discardLogger)
	in := ports.CreateRoleInput{Name: "editor", IdempotencyKey: "key-1"}

	first, err := svc.CreateRole(context.Background(), in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.CreateRole(context.Background(), in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if !second.AlreadyExisted {
		t.Error("expected AlreadyExisted=true on replay")
	}
	if second.Role.ID != first.Role.ID {
		t.Errorf("expected replay to return %s, got %s", first.Role.ID, second.Role.ID)
	}
	if len(repo.roles) != 1 {
		t.Errorf("expected a single stored role, got %d", len(repo.roles))
	}
}

func TestRoleService_Create_IdempotencyStoreDownStillCreates(t *testing.T) {
	repo := newStubRoleRepo()
	store := newStubIdempotencyStore()
	store.lookupErr = errStore
	svc := NewRoleService(repo, Options{Idempotency: store}, discardLogger)

	res, err := svc.CreateRole(context.Background(), ports.CreateRoleInput{Name: "editor", IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("lookup failure must not be treated as a replay")
	}
}

// ---------------------------------------------------------------------------
// ListRoles
// ---------------------------------------------------------------------------

func TestRoleService_List_SecondPage(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	for i := 1; i <= 15; i++ {
		mustCreateRole(t, svc, fmt.Sprintf("r%02d", i))
	}

	res, err := svc.ListRoles(context.Background(), ports.ListRolesInput{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(res.Items))
	}
	if res.Total != 15 || res.TotalPages != 2 || res.Page != 2 {
		t.Errorf("unexpected pagination: total=%d pages=%d page=%d", res.Total, res.TotalPages, res.Page)
	}
	// Newest first: page 2 holds the five oldest roles.
	if res.Items[0].Name != "r05" || res.Items[4].Name != "r01" {
		t.Errorf("unexpected order: first=%s last=%s", res.Items[0].Name, res.Items[4].Name)
	}
}

func TestRoleService_List_Defaults(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())

	res, err := svc.ListRoles(context.Background(), ports.ListRolesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 || res.Limit != defaultPageSize {
		t.Errorf("expected page 1 limit %d, got page %d limit %d", defaultPageSize, res.Page, res.Limit)
	}
	if res.Total != 0 || len(res.Items) != 0 {
		t.Errorf("expected empty result, got total=%d items=%d", res.Total, len(res.Items))
	}
	if res.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", res.TotalPages)
	}
}

func TestRoleService_List_LimitCapped(t *testing.T) {
	svc := NewRoleService(newStubRoleRepo(), Options{Pagination: Pagination{DefaultLimit: 5, MaxLimit: 20}}, discardLogger)

	res, _ := svc.ListRoles(context.Background(), ports.ListRolesInput{Page: 1, Limit: 500})
	if res.Limit != 20 {
		t.Errorf("expected limit capped at 20, got %d", res.Limit)
	}
}

func TestRoleService_List_RepositoryError(t *testing.T) {
	repo := newStubRoleRepo()
	repo.listErr = errStore
	svc := newRoleService(repo)

	if _, err := svc.ListRoles(context.Background(), ports.ListRolesInput{}); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / Update / Delete
// ---------------------------------------------------------------------------

func TestRoleService_SoftDeletedRoleIsInvisible(t *testing.T) {
	repo := newStubRoleRepo()
	svc := newRoleService(repo)
	ctx := context.Background()
	role := mustCreateRole(t, svc, "viewer")

	deleted, err := svc.DeleteRole(ctx, role.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted.IsDeleted {
		t.Error("expected returned record to be flagged deleted")
	}

	if _, err := svc.GetRole(ctx, role.ID); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Errorf("get: expected ErrRoleNotFound, got %v", err)
	}
	name := "renamed"
	if _, err := svc.UpdateRole(ctx, role.ID, ports.RoleUpdate{Name: &name}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Errorf("update: expected ErrRoleNotFound, got %v", err)
	}
	if _, err := svc.DeleteRole(ctx, role.ID); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Errorf("delete: expected ErrRoleNotFound, got %v", err)
	}
	list, _ := svc.ListRoles(ctx, ports.ListRolesInput{})
	if list.Total != 0 || len(list.Items) != 0 {
		t.Errorf("deleted role must be excluded from listing, got total=%d", list.Total)
	}
	if len(repo.roles) != 1 {
		t.Error("soft delete must keep the record in storage")
	}
}

func TestRoleService_Update_Success(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	role := mustCreateRole(t, svc, "viewer")

	desc := "read only"
	updated, err := svc.UpdateRole(context.Background(), role.ID, ports.RoleUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != desc || updated.Name != "viewer" {
		t.Errorf("unexpected role after update: %+v", updated)
	}
}

func TestRoleService_Update_DuplicateName(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	mustCreateRole(t, svc, "admin")
	viewer := mustCreateRole(t, svc, "viewer")

	name := "admin"
	_, err := svc.UpdateRole(context.Background(), viewer.ID, ports.RoleUpdate{Name: &name})

	var dup *domain.DuplicateKeyError
	if !errors.As(err, &dup) || dup.Field != "name" {
		t.Fatalf("expected DuplicateKeyError on name, got %v", err)
	}
}

func TestRoleService_Update_EmptyName(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	role := mustCreateRole(t, svc, "viewer")

	empty := ""
	_, err := svc.UpdateRole(context.Background(), role.ID, ports.RoleUpdate{Name: &empty})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRoleService_Get_Unknown(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())

	if _, err := svc.GetRole(context.Background(), "missing"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Pagination helpers
// ---------------------------------------------------------------------------

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{15, 0, 0},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestPagination_Page(t *testing.T) {
	p := Options{}.withDefaults().Pagination

	got := p.page(-3, -1)
	if got.Page != 1 || got.Limit != defaultPageSize {
		t.Errorf("expected defaults, got %+v", got)
	}
	if skip := p.page(3, 10).Skip(); skip != 20 {
		t.Errorf("expected skip 20, got %d", skip)
	}
}

func TestPagination_SkipSaturates(t *testing.T) {
	p := Pagination{DefaultLimit: 10, MaxLimit: 100}

	if skip := p.page(math.MaxInt, 100).Skip(); skip != math.MaxInt64 {
		t.Errorf("expected skip to saturate at MaxInt64, got %d", skip)
	}
	if skip := p.page(math.MaxInt/100, 100).Skip(); skip <= 0 {
		t.Errorf("expected a positive skip, got %d", skip)
	}
}

func TestListRoles_HugePageReturnsEmptyPage(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	mustCreateRole(t, svc, "admin")

	res, err := svc.ListRoles(context.Background(), ports.ListRolesInput{Page: math.MaxInt, Limit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 0 || res.Total != 1 {
		t.Errorf("expected an empty page with total 1, got %d roles total %d", len(res.Items), res.Total)
	}
}

func TestRoleService_UpdateAndDeleteLogThroughRequestLogger(t *testing.T) {
	svc := newRoleService(newStubRoleRepo())
	role := mustCreateRole(t, svc, "admin")

	var buf bytes.Buffer
	reqLog := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := reqLog.WithContext(context.Background())

	desc := "administrators"
	if _, err := svc.UpdateRole(ctx, role.ID, ports.RoleUpdate{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.DeleteRole(ctx, role.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"message":"role updated"`, `"message":"role soft-deleted"`, `"request_id":"req-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %s, got %s", want, out)
		}
	}
}
