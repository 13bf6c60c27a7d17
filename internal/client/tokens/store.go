package tokens

import "context"

// KV is a string key/value view. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is a KV that can apply several writes atomically: Update runs fn
// against a view whose changes become visible together or not at all.
type Store interface {
	KV
	Update(ctx context.Context, fn func(kv KV) error) error
}
