package ports

import "context"

// Backend is one storage medium in the persistence fallback chain. Save
// and Load move the serialized progress record for a single user key;
// backends never interpret the payload. Load returns ErrNotFound when no
// record exists under the key.
type Backend interface {
	Name() string
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}
