package ports

import "context"

// IdempotencyStore remembers which record a client-supplied Idempotency-Key
// produced, per scope ("roles", "users").
type IdempotencyStore interface {
	// Lookup returns the record id stored for key, or ok=false.
	Lookup(ctx context.Context, scope, key string) (id string, ok bool, err error)
	// Remember stores id for key unless the key is already taken.
	Remember(ctx context.Context, scope, key, id string) error
}
