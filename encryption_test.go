package dataservice

import (
	"context"
	"errors"
	"testing"
)

var testEncryptionKey = []byte("01234567890123456789012345678901")

func TestEncryptingStoreRoundTrip(t *testing.T) {
	base := newMemoryStore()
	store, err := newEncryptingStore(base, testEncryptionKey)
	if err != nil {
		t.Fatalf("encrypting store: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("secret")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(got) != "secret" {
		t.Fatalf("unexpected get: ok=%v err=%v val=%s", ok, err, string(got))
	}
	raw, _, _ := base.Get(ctx, "k")
	if string(raw) == "secret" || string(raw[:len(encryptionMagic)]) != string(encryptionMagic) {
		t.Fatalf("expected ciphertext envelope in backing store")
	}
}

func TestEncryptingStoreRejectsTamperedAndPlaintext(t *testing.T) {
	base := newMemoryStore()
	store, _ := newEncryptingStore(base, testEncryptionKey)
	ctx := context.Background()

	_ = base.Set(ctx, "bad", []byte("ENC1bad"))
	if _, _, err := store.Get(ctx, "bad"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected decrypt error, got %v", err)
	}

	_ = base.Set(ctx, "plain", []byte(`{"key":"plain"}`))
	if _, _, err := store.Get(ctx, "plain"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected plaintext rejected, got %v", err)
	}
}

func TestEncryptingStoreBindsKey(t *testing.T) {
	base := newMemoryStore()
	store, _ := newEncryptingStore(base, testEncryptionKey)
	ctx := context.Background()
	if err := store.Set(ctx, "a", []byte("secret")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	raw, _, _ := base.Get(ctx, "a")
	_ = base.Set(ctx, "b", raw)
	if _, _, err := store.Get(ctx, "b"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ciphertext moved to another key to fail, got %v", err)
	}
}

func TestEncryptingStoreUnsupportedKey(t *testing.T) {
	if _, err := newEncryptingStore(newMemoryStore(), []byte("short")); !errors.Is(err, ErrEncryptionKey) {
		t.Fatalf("expected key error, got %v", err)
	}
}

func TestEncryptingStorePassThroughWhenDisabled(t *testing.T) {
	base := newMemoryStore()
	store, err := newEncryptingStore(base, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store != base {
		t.Fatalf("expected identity when no key")
	}
}

func TestFactoryAppliesEncryption(t *testing.T) {
	store := NewStoreWith(context.Background(), DriverMemory, WithEncryptionKey(testEncryptionKey))
	if _, ok := store.(*encryptingStore); !ok {
		t.Fatalf("expected encrypting store wrapper, got %T", store)
	}
}

func TestFactoryBadEncryptionKeyYieldsErrorStore(t *testing.T) {
	store := NewStoreWith(context.Background(), DriverMemory, WithEncryptionKey([]byte("short")))
	if _, _, err := store.Get(context.Background(), "k"); !errors.Is(err, ErrEncryptionKey) {
		t.Fatalf("expected key error from every call, got %v", err)
	}
}

func TestFactoryCompressesBeforeEncrypting(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWith(ctx, DriverMemory,
		WithEncryptionKey(testEncryptionKey),
		WithCompression(CompressionGzip),
	)
	value := []byte("a long repetitive payload a long repetitive payload a long repetitive payload")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(got) != string(value) {
		t.Fatalf("unexpected round trip: ok=%v err=%v", ok, err)
	}
}
