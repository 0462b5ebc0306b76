package driven

import "context"

// KVStore is an opaque durable map. It backs the session collection and is the
// only persistence contract the collection store depends on.
type KVStore interface {
	// Get returns the value for a key and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value for a key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
