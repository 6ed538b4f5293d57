// Package metadata is the client's key/value table. The session store keeps
// its persisted token and user record here.
package metadata

import "context"

// Repository reads and writes string values by key.
type Repository interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
