package storefake

import (
	"context"
	"sync"
	"testing"

	"github.com/goforj/dataservice/storecore"
)

// Op identifies a store operation for assertions.
type Op string

const (
	OpGet        Op = "get"
	OpSet        Op = "set"
	OpDelete     Op = "delete"
	OpDeleteMany Op = "delete_many"
	OpFlush      Op = "flush"
)

// Fake is a deterministic in-memory store plus assertion helpers for tests.
// Failures can be injected per op to exercise fail-soft paths.
type Fake struct {
	mu     sync.Mutex
	data   map[string][]byte
	counts map[Op]map[string]int
	fail   map[Op]error
}

var _ storecore.Store = (*Fake)(nil)

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		data:   make(map[string][]byte),
		counts: make(map[Op]map[string]int),
		fail:   make(map[Op]error),
	}
}

// Driver reports the memory driver.
func (f *Fake) Driver() storecore.Driver { return storecore.DriverMemory }

func (f *Fake) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(OpGet, key)
	if err := f.fail[OpGet]; err != nil {
		return nil, false, err
	}
	v, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (f *Fake) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(OpSet, key)
	if err := f.fail[OpSet]; err != nil {
		return err
	}
	f.data[key] = clone(value)
	return nil
}

func (f *Fake) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(OpDelete, key)
	if err := f.fail[OpDelete]; err != nil {
		return err
	}
	delete(f.data, key)
	return nil
}

func (f *Fake) DeleteMany(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.record(OpDeleteMany, k)
	}
	if err := f.fail[OpDeleteMany]; err != nil {
		return err
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *Fake) Flush(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(OpFlush, "")
	if err := f.fail[OpFlush]; err != nil {
		return err
	}
	f.data = make(map[string][]byte)
	return nil
}

// Fail makes every later call to op return err. A nil err clears the failure.
func (f *Fake) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Seed writes raw bytes for key without counting the call.
func (f *Fake) Seed(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = clone(value)
}

// Raw returns the stored bytes for key without counting the call.
func (f *Fake) Raw(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return clone(v), ok
}

// Reset clears recorded counts. Stored data is kept.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
}

// AssertCalled verifies key was touched by op the expected number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, key string, times int) {
	t.Helper()
	if got := f.Count(op, key); got != times {
		t.Fatalf("expected %s %q called %d times, got %d", op, key, times, got)
	}
}

// AssertNotCalled ensures key was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, key string) {
	t.Helper()
	if got := f.Count(op, key); got != 0 {
		t.Fatalf("expected %s %q not called, got %d", op, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

// Count returns calls for op+key.
func (f *Fake) Count(op Op, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op][key]
}

// Total returns total calls for an op across keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts[op] {
		sum += v
	}
	return sum
}

// record must be called with f.mu held.
func (f *Fake) record(op Op, key string) {
	if f.counts[op] == nil {
		f.counts[op] = make(map[string]int)
	}
	f.counts[op][key]++
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
