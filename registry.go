package dataservice

import (
	"context"
	"sync"
)

// Resetter is anything the registry can reset.
type Resetter interface {
	Reset(ctx context.Context)
}

// Registry is an append-only list of services used to broadcast a reset.
// Entries are never removed.
type Registry struct {
	mu      sync.Mutex
	entries []Resetter
}

// NewRegistry returns an empty registry, useful for isolating tests.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends s. Duplicates are kept.
func (r *Registry) Register(s Resetter) {
	r.mu.Lock()
	r.entries = append(r.entries, s)
	r.mu.Unlock()
}

// ResetAll resets every registered entry in registration order.
func (r *Registry) ResetAll(ctx context.Context) {
	r.mu.Lock()
	entries := make([]Resetter, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	for _, s := range entries {
		s.Reset(ctx)
	}
}

// Len reports how many entries have been registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry, created on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// ResetAll resets every service registered with DefaultRegistry.
//
// Example: reset all services between tests
//
//	dataservice.ResetAll(context.Background())
func ResetAll(ctx context.Context) {
	DefaultRegistry().ResetAll(ctx)
}
