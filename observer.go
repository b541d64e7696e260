package dataservice

import (
	"context"
	"time"
)

// Operation names reported to an Observer.
const (
	OpHydrate    = "hydrate"
	OpGetData    = "get_data"
	OpForceFetch = "force_fetch"
	OpPost       = "post"
	OpReset      = "reset"
	OpPersist    = "persist"
	OpRemove     = "remove"
)

// Observer receives events for service operations.
// It is called after each operation completes, outside the service lock.
type Observer interface {
	OnServiceOp(ctx context.Context, op string, key string, err error, dur time.Duration, mode CacheMode)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, key string, err error, dur time.Duration, mode CacheMode)

// OnServiceOp implements Observer.
func (f ObserverFunc) OnServiceOp(ctx context.Context, op string, key string, err error, dur time.Duration, mode CacheMode) {
	if f == nil {
		return
	}
	f(ctx, op, key, err, dur, mode)
}
