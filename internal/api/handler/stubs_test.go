package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

type stubRoleService struct {
	createFn func(ctx context.Context, in ports.CreateRoleInput) (*ports.CreateRoleResult, error)
	listFn   func(ctx context.Context, in ports.ListRolesInput) (*ports.ListRolesResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Role, error)
	updateFn func(ctx context.Context, id string, up ports.RoleUpdate) (*domain.Role, error)
	deleteFn func(ctx context.Context, id string) (*domain.Role, error)
}

func (s *stubRoleService) CreateRole(ctx context.Context, in ports.CreateRoleInput) (*ports.CreateRoleResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubRoleService) ListRoles(ctx context.Context, in ports.ListRolesInput) (*ports.ListRolesResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubRoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.getFn(ctx, id)
}

func (s *stubRoleService) UpdateRole(ctx context.Context, id string, up ports.RoleUpdate) (*domain.Role, error) {
	return s.updateFn(ctx, id, up)
}

func (s *stubRoleService) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.deleteFn(ctx, id)
}

type stubUserService struct {
	createFn    func(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error)
	listFn      func(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error)
	getFn       func(ctx context.Context, id string) (*domain.PopulatedUser, error)
	getByNameFn func(ctx context.Context, username string) (*domain.PopulatedUser, error)
	updateFn    func(ctx context.Context, id string, up ports.UserUpdate) (*domain.PopulatedUser, error)
	deleteFn    func(ctx context.Context, id string) (*domain.User, error)
	activateFn  func(ctx context.Context, in ports.ActivateUserInput) (*domain.PopulatedUser, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.PopulatedUser, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) GetUserByUsername(ctx context.Context, username string) (*domain.PopulatedUser, error) {
	return s.getByNameFn(ctx, username)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, up ports.UserUpdate) (*domain.PopulatedUser, error) {
	return s.updateFn(ctx, id, up)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ActivateUser(ctx context.Context, in ports.ActivateUserInput) (*domain.PopulatedUser, error) {
	return s.activateFn(ctx, in)
}

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleRole() *domain.Role {
	return &domain.Role{ID: "665f1c2e8a1b2c3d4e5f6a7b", Name: "admin", CreatedAt: fixedTime, UpdatedAt: fixedTime}
}

func sampleUser() *domain.PopulatedUser {
	role := sampleRole()
	return &domain.PopulatedUser{
		User: &domain.User{
			ID:        "665f1c2e8a1b2c3d4e5f6a7c",
			Username:  "neo",
			Password:  "secret",
			Email:     "neo@example.com",
			FullName:  "Thomas Anderson",
			RoleID:    role.ID,
			CreatedAt: fixedTime,
			UpdatedAt: fixedTime,
		},
		Role: role,
	}
}

// newContext builds an Echo context with the validator installed.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}
