package storecore

import "context"

// Store is the durable key-value contract behind the persistence adapter.
// Entries never expire on their own; they live until deleted or flushed.
type Store interface {
	Driver() Driver
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
}
