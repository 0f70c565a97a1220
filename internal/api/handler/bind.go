package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-service/internal/core/domain"
)

const headerIdempotencyKey = "Idempotency-Key"

// bindJSON decodes the request body into dst and rejects fields dst does not
// declare as well as anything after the first JSON value. An empty body
// leaves dst untouched.
func bindJSON(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if !errors.Is(dec.Decode(&json.RawMessage{}), io.EOF) {
			return &domain.ValidationError{Message: "request body must contain a single JSON object"}
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &domain.ValidationError{Field: typeErr.Field, Message: typeErr.Field + " has an invalid type"}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return &domain.ValidationError{Field: field, Message: "unknown field " + field}
	}
	return &domain.ValidationError{Message: "invalid JSON body"}
}

// queryInt returns the integer query parameter name, or 0 when it is absent
// or not a number. The services map 0 to their defaults.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
