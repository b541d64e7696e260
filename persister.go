package dataservice

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Record is the persisted form of a service payload.
type Record[T any] struct {
	Key      string    `json:"key" cbor:"key"`
	Data     T         `json:"data" cbor:"data"`
	StoredAt time.Time `json:"stored_at" cbor:"stored_at"`
}

// Persister reads and writes typed records through a Store.
// It is the only component that serializes payloads.
type Persister[T any] struct {
	store  Store
	codec  Codec
	logger zerolog.Logger
	now    func() time.Time
}

// NewPersister binds a store and codec. A nil codec means JSON.
func NewPersister[T any](store Store, codec Codec, logger zerolog.Logger) *Persister[T] {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Persister[T]{
		store:  store,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the stored payload for key. It fails soft: store errors,
// undecodable bytes, and records stored under another key are all misses.
func (p *Persister[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	body, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.Warn().Err(err).Str("cache_key", key).Msg("cache read failed")
		return zero, false
	}
	if !ok {
		return zero, false
	}
	if rec, ok := p.recall(key, body); ok {
		return rec.Data, true
	}
	var rec Record[T]
	if err := p.codec.Unmarshal(body, &rec); err != nil {
		p.logger.Warn().Err(err).Str("cache_key", key).Str("codec", p.codec.Name()).Msg("discarding undecodable cache record")
		return zero, false
	}
	if rec.Key != key {
		p.logger.Warn().Str("cache_key", key).Str("record_key", rec.Key).Msg("discarding cache record stored under another key")
		return zero, false
	}
	p.retain(key, body, rec)
	return rec.Data, true
}

// Set serializes v and overwrites any existing record for key.
func (p *Persister[T]) Set(ctx context.Context, key string, v T) error {
	rec := Record[T]{Key: key, Data: v, StoredAt: p.now().UTC()}
	body, err := p.codec.Marshal(rec)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, key, body); err != nil {
		return err
	}
	p.retain(key, body, rec)
	return nil
}

// Remove deletes the record for key. Removing a missing key is not an error.
func (p *Persister[T]) Remove(ctx context.Context, key string) error {
	return p.store.Delete(ctx, key)
}

// recordHolder is implemented by in-process stores that can keep a decoded
// record next to the bytes it was decoded from. A held record is only handed
// back while the store still holds those exact bytes under the same codec.
type recordHolder interface {
	recall(key, codec string, body []byte) (any, bool)
	retain(key, codec string, body []byte, rec any)
}

// decodedRecord is a typed Record tagged with the codec that produced it.
type decodedRecord struct {
	codec string
	body  []byte
	value any
}

func (d *decodedRecord) matches(codec string, body []byte) bool {
	return d != nil && d.codec == codec && bytes.Equal(d.body, body)
}

// recall skips the codec when the store already holds a decoded record for
// these bytes. Services with different payload types sharing a key just miss.
func (p *Persister[T]) recall(key string, body []byte) (Record[T], bool) {
	holder, ok := p.store.(recordHolder)
	if !ok {
		return Record[T]{}, false
	}
	held, ok := holder.recall(key, p.codec.Name(), body)
	if !ok {
		return Record[T]{}, false
	}
	rec, ok := held.(Record[T])
	if !ok || rec.Key != key {
		return Record[T]{}, false
	}
	rec.Data = cloneValue(rec.Data)
	p.logger.Debug().Str("cache_key", key).Msg("cache record served decoded")
	return rec, true
}

func (p *Persister[T]) retain(key string, body []byte, rec Record[T]) {
	holder, ok := p.store.(recordHolder)
	if !ok {
		return
	}
	rec.Data = cloneValue(rec.Data)
	holder.retain(key, p.codec.Name(), body, rec)
}
