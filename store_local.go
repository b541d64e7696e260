package dataservice

import (
	"context"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
)

// memoryItem is one record held by the memory driver. Set replaces the whole
// item, so a decoded record can never outlive the bytes it came from.
type memoryItem struct {
	body    []byte
	decoded atomic.Pointer[decodedRecord]
}

// memoryStore keeps records for the life of the process and lets services of
// the same payload type share the decoded value. go-cache runs without a
// janitor since nothing here expires.
type memoryStore struct {
	cache *gocache.Cache
}

func newMemoryStore() Store {
	return &memoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) item(key string) (*memoryItem, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	it, ok := v.(*memoryItem)
	return it, ok
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	it, ok := s.item(key)
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(it.body), true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, &memoryItem{body: cloneBytes(value)}, gocache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *memoryStore) DeleteMany(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}

func (s *memoryStore) Flush(context.Context) error {
	s.cache.Flush()
	return nil
}

func (s *memoryStore) recall(key, codec string, body []byte) (any, bool) {
	it, ok := s.item(key)
	if !ok {
		return nil, false
	}
	d := it.decoded.Load()
	if !d.matches(codec, body) {
		return nil, false
	}
	return d.value, true
}

func (s *memoryStore) retain(key, codec string, body []byte, rec any) {
	it, ok := s.item(key)
	if !ok {
		return
	}
	d := &decodedRecord{codec: codec, body: it.body, value: rec}
	if d.matches(codec, body) {
		it.decoded.Store(d)
	}
}

// nullStore accepts every write and never returns a record.
type nullStore struct{}

func newNullStore() Store { return nullStore{} }

func (nullStore) Driver() Driver                                    { return DriverNull }
func (nullStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nullStore) Set(context.Context, string, []byte) error         { return nil }
func (nullStore) Delete(context.Context, string) error              { return nil }
func (nullStore) DeleteMany(context.Context, ...string) error       { return nil }
func (nullStore) Flush(context.Context) error                       { return nil }
