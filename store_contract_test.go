package dataservice

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goforj/dataservice/storefake"
	"github.com/goforj/dataservice/storetest"
)

func TestStoreContract_InProcessDrivers(t *testing.T) {
	ctx := context.Background()
	encKey := []byte("0123456789abcdef0123456789abcdef")

	cases := []struct {
		name  string
		store func(t *testing.T) Store
		opts  storetest.Options
	}{
		{name: "memory", store: func(*testing.T) Store { return NewMemoryStore(ctx) }},
		{name: "file", store: func(t *testing.T) Store { return NewFileStore(ctx, t.TempDir()) }},
		{name: "null", store: func(*testing.T) Store { return NewNullStore(ctx) }, opts: storetest.Options{NullSemantics: true}},
		{name: "memo", store: func(*testing.T) Store { return NewMemoryStore(ctx, WithMemoize()) }},
		{name: "gzip", store: func(*testing.T) Store { return NewMemoryStore(ctx, WithCompression(CompressionGzip)) }},
		{name: "encrypted", store: func(*testing.T) Store { return NewMemoryStore(ctx, WithEncryptionKey(encKey)) }},
		{name: "file_layered", store: func(t *testing.T) Store {
			return NewFileStore(ctx, t.TempDir(), WithEncryptionKey(encKey), WithCompression(CompressionGzip), WithMemoize())
		}},
		{name: "redis_stub", store: func(*testing.T) Store { return NewRedisStore(ctx, newStubRedisClient()) }},
		{name: "nats_stub", store: func(*testing.T) Store { return NewNATSStore(ctx, newStubNATSKeyValue("b")) }},
		{name: "dynamo_stub", store: func(*testing.T) Store { return NewDynamoStore(ctx, WithDynamoClient(newDynStub())) }},
		{name: "sqlite", store: func(t *testing.T) Store {
			return NewSQLStore(ctx, "sqlite", filepath.Join(t.TempDir(), "contract.db"), "records")
		}},
		{name: "fake", store: func(*testing.T) Store { return storefake.New() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storetest.RunStoreContract(t, tc.store(t), tc.opts)
		})
	}
}
