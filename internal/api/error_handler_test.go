package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-service/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		code     int
		message  string
		field    string
		required []string
		errText  string
	}{
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "endpoint not found", "", nil, ""},
		{"method not allowed", echo.ErrMethodNotAllowed, http.StatusNotFound, "endpoint not found", "", nil, ""},
		{"echo bad request", echo.NewHTTPError(http.StatusBadRequest, "bad json"), http.StatusBadRequest, "bad json", "", nil, ""},
		{"validation", &domain.ValidationError{Field: "email", Message: "email must be a valid email"}, http.StatusBadRequest, "email must be a valid email", "email", nil, ""},
		{"duplicate", &domain.DuplicateKeyError{Field: "username"}, http.StatusBadRequest, "username already exists", "username", nil, ""},
		{"missing fields", &domain.MissingFieldsError{Fields: []string{"email", "username"}}, http.StatusBadRequest, "email and username are required", "", []string{"email", "username"}, ""},
		{"invalid reference", domain.ErrInvalidReference, http.StatusBadRequest, "role does not exist or has been deleted", "role", nil, ""},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound, "role not found", "", nil, ""},
		{"no matching user", domain.ErrNoMatchingUser, http.StatusNotFound, "user not found with this email and username", "", nil, ""},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrUserNotFound), http.StatusNotFound, "lookup: user not found", "", nil, ""},
		{"unknown", errors.New("socket closed"), http.StatusInternalServerError, "internal server error", "", nil, "socket closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := resolveError(tc.err)
			if code != tc.code {
				t.Errorf("expected %d, got %d", tc.code, code)
			}
			if body.Message != tc.message || body.Field != tc.field || body.Error != tc.errText {
				t.Errorf("unexpected envelope: %+v", body)
			}
			if !reflect.DeepEqual(body.Required, tc.required) {
				t.Errorf("expected required %v, got %v", tc.required, body.Required)
			}
		})
	}
}
