package dataservice

import (
	"bytes"
	"context"
	"sync"
)

// NewMemoStore decorates store with per-process read memoization. Many
// services hydrating from one backing store then cost one backend read per
// key, and services of the same payload type share one decoded record.
//
// Writes go through to store and replace the memoized bytes. Delete, the
// path Service.Reset takes, drops the key so the next read reaches store.
//
// Example: memoize a backing store
//
//	ctx := context.Background()
//	base := dataservice.NewFileStore(ctx, "/var/lib/app/records")
//	svc, _ := dataservice.New(ctx, fetcher, Settings{},
//		dataservice.WithStore(dataservice.NewMemoStore(base)),
//		dataservice.WithCacheMode(dataservice.CacheModeFull),
//	)
//	_ = svc
func NewMemoStore(store Store) Store {
	return &memoStore{
		store: store,
		slots: make(map[string]*memoSlot),
	}
}

// memoSlot is what the memo knows about one key. A nil body with found false
// is a memoized miss.
type memoSlot struct {
	body    []byte
	found   bool
	decoded *decodedRecord
}

type memoStore struct {
	store Store
	mu    sync.RWMutex
	slots map[string]*memoSlot
}

func (s *memoStore) Driver() Driver {
	return s.store.Driver()
}

func (s *memoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	slot, ok := s.slots[key]
	s.mu.RUnlock()
	if ok {
		return cloneBytes(slot.body), slot.found, nil
	}

	body, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	if _, raced := s.slots[key]; !raced {
		s.slots[key] = &memoSlot{body: cloneBytes(body), found: found}
	}
	s.mu.Unlock()
	return body, found, nil
}

func (s *memoStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.drop(key)
		return err
	}
	s.mu.Lock()
	s.slots[key] = &memoSlot{body: cloneBytes(value), found: true}
	s.mu.Unlock()
	return nil
}

func (s *memoStore) Delete(ctx context.Context, key string) error {
	s.drop(key)
	return s.store.Delete(ctx, key)
}

func (s *memoStore) DeleteMany(ctx context.Context, keys ...string) error {
	s.drop(keys...)
	return s.store.DeleteMany(ctx, keys...)
}

func (s *memoStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.slots = make(map[string]*memoSlot)
	s.mu.Unlock()
	return s.store.Flush(ctx)
}

func (s *memoStore) drop(keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.slots, key)
	}
	s.mu.Unlock()
}

func (s *memoStore) recall(key, codec string, body []byte) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[key]
	if !ok || !slot.decoded.matches(codec, body) {
		return nil, false
	}
	return slot.decoded.value, true
}

func (s *memoStore) retain(key, codec string, body []byte, rec any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok || !slot.found || !bytes.Equal(slot.body, body) {
		return
	}
	slot.decoded = &decodedRecord{codec: codec, body: slot.body, value: rec}
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
