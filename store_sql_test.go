package dataservice

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goforj/dataservice/storecore"
)

func newSQLiteStore(t *testing.T, prefix string) Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "records.db")
	store, err := newSQLStore(StoreConfig{
		SQLDriverName: "sqlite",
		SQLDSN:        dsn,
		SQLTable:      "dataservice_records",
		BaseConfig:    storecore.BaseConfig{Prefix: prefix},
	})
	if err != nil {
		t.Fatalf("sqlite store create failed: %v", err)
	}
	return store
}

func TestSQLStoreBasics(t *testing.T) {
	store := newSQLiteStore(t, "p")
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(body) != "v" {
		t.Fatalf("get failed: ok=%v err=%v val=%s", ok, err, string(body))
	}

	if err := store.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	body, _, _ = store.Get(ctx, "k")
	if string(body) != "v2" {
		t.Fatalf("expected upsert to overwrite, got %s", string(body))
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}

	_ = store.Set(ctx, "a", []byte("1"))
	_ = store.Set(ctx, "b", []byte("2"))
	if err := store.DeleteMany(ctx, "a", "b"); err != nil {
		t.Fatalf("delete many failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Fatalf("expected a removed")
	}
	if err := store.DeleteMany(ctx); err != nil {
		t.Fatalf("empty delete many failed: %v", err)
	}
}

func TestSQLStoreBinaryValues(t *testing.T) {
	store := newSQLiteStore(t, "p")
	ctx := context.Background()
	payload := []byte{0x00, 0xff, 0x10, 0x00, 0x7f}
	if err := store.Set(ctx, "bin", payload); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := store.Get(ctx, "bin")
	if err != nil || !ok || string(body) != string(payload) {
		t.Fatalf("binary round trip failed: ok=%v err=%v body=%v", ok, err, body)
	}
}

func TestSQLStoreFlushScopedToPrefix(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "shared.db")
	open := func(prefix string) Store {
		store, err := newSQLStore(StoreConfig{
			SQLDriverName: "sqlite",
			SQLDSN:        dsn,
			SQLTable:      "shared",
			BaseConfig:    storecore.BaseConfig{Prefix: prefix},
		})
		if err != nil {
			t.Fatalf("sqlite store create failed: %v", err)
		}
		return store
	}
	ctx := context.Background()
	a := open("alpha")
	b := open("beta")

	_ = a.Set(ctx, "k", []byte("a"))
	_ = b.Set(ctx, "k", []byte("b"))
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "k"); ok {
		t.Fatalf("expected alpha key flushed")
	}
	if body, ok, _ := b.Get(ctx, "k"); !ok || string(body) != "b" {
		t.Fatalf("expected beta key retained")
	}
}

func TestNewSQLStoreHelper(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "helper.db")
	store := NewSQLStore(context.Background(), "sqlite", dsn, "records", WithPrefix("svc"))
	if store.Driver() != DriverSQL {
		t.Fatalf("expected driver sql, got %s", store.Driver())
	}
	if err := store.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("set through helper failed: %v", err)
	}
}
