package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/usermgmt/user-service/internal/api/handler"
	"github.com/usermgmt/user-service/internal/core/domain"
)

const msgEndpointNotFound = "endpoint not found"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and envelope fields.
//   - Answers unmatched routes with 404 "endpoint not found".
//   - Returns anything else as 500 with the error text in "error".
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code >= http.StatusInternalServerError {
			l := log
			if ctxLog := zerolog.Ctx(c.Request().Context()); ctxLog.GetLevel() != zerolog.Disabled {
				l = *ctxLog
			}
			l.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, handler.Envelope) {
	var (
		he        *echo.HTTPError
		dup       *domain.DuplicateKeyError
		missing   *domain.MissingFieldsError
		invalid   *domain.ValidationError
		activated *domain.AlreadyActivatedError
	)

	switch {
	case errors.As(err, &he):
		// Echo's own errors: unmatched routes, malformed bodies, body limit.
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			return http.StatusNotFound, handler.Envelope{Message: msgEndpointNotFound}
		}
		return he.Code, handler.Envelope{Message: fmt.Sprintf("%v", he.Message)}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, handler.Envelope{Message: invalid.Message, Field: invalid.Field}
	case errors.As(err, &dup):
		return http.StatusBadRequest, handler.Envelope{Message: dup.Error(), Field: dup.Field}
	case errors.As(err, &missing):
		return http.StatusBadRequest, handler.Envelope{Message: missing.Error(), Required: missing.Fields}
	case errors.As(err, &activated):
		return http.StatusBadRequest, handler.Envelope{Message: activated.Error()}
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, handler.Envelope{Message: err.Error(), Field: "role"}
	case domain.IsNotFound(err):
		return http.StatusNotFound, handler.Envelope{Message: err.Error()}
	}

	return http.StatusInternalServerError, handler.Envelope{Message: "internal server error", Error: err.Error()}
}
