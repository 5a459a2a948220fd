// Package kv provides the durable key-value persistence the ledger writes
// its JSON snapshots to. Values are opaque text produced and consumed
// atomically per key; there are no partial or merge writes.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the persistence layer cannot be reached.
// Callers degrade rather than crash: reads fall back to the empty snapshot
// and writes are dropped, with the condition surfaced to the user.
var ErrUnavailable = errors.New("storage unavailable")

// Store is the persistence contract: get/set/delete of text values by key.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
