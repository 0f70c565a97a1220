package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/usermgmt/user-service/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Pagination bounds the page size accepted by list operations.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// Options carries the optional collaborators shared by the services.
type Options struct {
	Pagination Pagination
	// Idempotency is nil when no Idempotency-Key store is configured.
	Idempotency ports.IdempotencyStore
	// Hasher defaults to storing passwords as given.
	Hasher PasswordHasher
}

func (o Options) withDefaults() Options {
	if o.Pagination.DefaultLimit <= 0 {
		o.Pagination.DefaultLimit = defaultPageSize
	}
	if o.Pagination.MaxLimit <= 0 {
		o.Pagination.MaxLimit = maxPageSize
	}
	if o.Pagination.DefaultLimit > o.Pagination.MaxLimit {
		o.Pagination.DefaultLimit = o.Pagination.MaxLimit
	}
	if o.Hasher == nil {
		o.Hasher = PlainPasswords{}
	}
	return o
}

// page normalises raw page/limit values: non-positive values select the
// defaults and limit is capped at MaxLimit.
func (p Pagination) page(page, limit int) ports.PageRequest {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return ports.PageRequest{Page: page, Limit: limit}
}

// totalPages returns ceil(total/limit).
func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// loggerFrom prefers the request-scoped logger stored in ctx.
func loggerFrom(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return fallback
}
