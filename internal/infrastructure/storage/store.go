// Package storage persists the small set of client state keys (session
// token, current user, cart) and notifies watchers when another client
// instance mutates them. Coordination is last-writer-wins; there is no
// versioning or merge.
package storage

import "context"

// Persisted client state keys. Stores prefix them with the configured
// namespace.
const (
	KeyToken = "auth:token"
	KeyUser  = "auth:user"
	KeyCart  = "cart"
)

// Op is the kind of mutation a Change describes.
type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
)

// Change is a single observed key mutation.
type Change struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Op    Op     `json:"op"`
}

// Store is the persisted client-state store. Implementations must deliver
// Watch changes in the order the writes were observed.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a single key.
	Set(ctx context.Context, key, value string) error
	// SetMulti writes several keys in one atomic step. The session layer
	// relies on this to write token and user together.
	SetMulti(ctx context.Context, kv map[string]string) error
	// Delete removes the given keys in one atomic step.
	Delete(ctx context.Context, keys ...string) error
	// Watch returns a channel of changes made to the namespace. The channel
	// closes when ctx is cancelled or the store is closed.
	Watch(ctx context.Context) (<-chan Change, error)
	// Close releases the store's resources.
	Close() error
}
