package dataservice

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/nats-io/nats.go"
)

// NATSKeyValue captures the subset of nats.KeyValue used by the store.
type NATSKeyValue interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Purge(key string, opts ...nats.DeleteOpt) error
	Watch(keys string, opts ...nats.WatchOpt) (nats.KeyWatcher, error)
}

var errNATSUnavailable = errors.New("nats store key-value unavailable")

// natsStore keeps one JetStream KV entry per service record. Keys are
// "p.<prefix>.k.<service key>" with both parts base64url-encoded, since
// service keys carry characters such as ':' and '[' that JetStream rejects.
// The fixed layout lets Flush watch only its own prefix.
type natsStore struct {
	kv    NATSKeyValue
	scope string
}

func newNATSStore(kv NATSKeyValue, prefix string) Store {
	if prefix == "" {
		prefix = defaultStorePrefix
	}
	return &natsStore{kv: kv, scope: "p." + encodeNATSKeyPart(prefix) + ".k."}
}

func (s *natsStore) Driver() Driver { return DriverNATS }

func (s *natsStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.kv == nil {
		return nil, false, errNATSUnavailable
	}
	entry, err := s.kv.Get(s.storeKey(key))
	if isNATSMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	switch entry.Operation() {
	case nats.KeyValueDelete, nats.KeyValuePurge:
		return nil, false, nil
	}
	return cloneBytes(entry.Value()), true, nil
}

func (s *natsStore) Set(_ context.Context, key string, value []byte) error {
	if s.kv == nil {
		return errNATSUnavailable
	}
	_, err := s.kv.Put(s.storeKey(key), value)
	return err
}

// Delete purges history for the key so a removed record cannot be replayed.
func (s *natsStore) Delete(_ context.Context, key string) error {
	if s.kv == nil {
		return errNATSUnavailable
	}
	return s.purge(s.storeKey(key))
}

func (s *natsStore) DeleteMany(_ context.Context, keys ...string) error {
	if s.kv == nil {
		return errNATSUnavailable
	}
	for _, key := range keys {
		if err := s.purge(s.storeKey(key)); err != nil {
			return err
		}
	}
	return nil
}

func (s *natsStore) Flush(ctx context.Context) error {
	if s.kv == nil {
		return errNATSUnavailable
	}
	keys, err := s.scopedKeys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.purge(key); err != nil {
			return err
		}
	}
	return nil
}

// scopedKeys collects the live keys under this store's prefix. The watcher
// sends a nil entry once the current values have been delivered.
func (s *natsStore) scopedKeys(ctx context.Context) ([]string, error) {
	w, err := s.kv.Watch(s.scope+">", nats.IgnoreDeletes(), nats.MetaOnly())
	if err != nil {
		return nil, err
	}
	defer func() { _ = w.Stop() }()

	var keys []string
	for {
		select {
		case entry, ok := <-w.Updates():
			if !ok || entry == nil {
				return keys, nil
			}
			keys = append(keys, entry.Key())
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *natsStore) purge(key string) error {
	if err := s.kv.Purge(key); err != nil && !isNATSMiss(err) {
		return err
	}
	return nil
}

func (s *natsStore) storeKey(key string) string {
	return s.scope + encodeNATSKeyPart(key)
}

func isNATSMiss(err error) bool {
	return errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrKeyDeleted)
}

func encodeNATSKeyPart(part string) string {
	if part == "" {
		return "_"
	}
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}
