package storetest

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goforj/dataservice/storecore"
)

// Options configures shared store contract checks.
type Options struct {
	// CaseName namespaces keys. Defaults to t.Name().
	CaseName string
	// NullSemantics expects every read to miss, as the null driver does.
	NullSemantics bool
	// SkipFlush disables the flush check for drivers where it is expensive or unavailable.
	SkipFlush bool
}

// Store is the minimal contract required by RunStoreContract.
type Store = storecore.Store

// RunStoreContract checks the behavior services rely on when they persist
// records. A record written under a service key reads back byte for byte
// and a second write replaces it. Removal is idempotent.
func RunStoreContract(t *testing.T, store Store, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	c := &contract{store: store, opts: opts, ns: sanitize(caseName)}

	t.Run("record round trip", c.roundTrip)
	t.Run("overwrite", c.overwrite)
	t.Run("service key characters", c.keyCharacters)
	t.Run("missing record", c.missing)
	t.Run("remove", c.remove)
	if !opts.SkipFlush {
		t.Run("flush", c.flush)
	}
}

type contract struct {
	store Store
	opts  Options
	ns    string
}

// key builds a service key the way services derive them: a namespace and a
// type name separated by colons.
func (c *contract) key(name string) string {
	return "dataservice:" + c.ns + ":" + name
}

// record is a payload shaped like a persisted record. The NUL and high bytes
// stand in for binary codecs such as CBOR.
func record(version string) []byte {
	return append([]byte(`{"key":"svc","data":{"version":"`+version+`"}}`), 0x00, 0xff, 0xa1)
}

func (c *contract) mustSet(t *testing.T, key string, body []byte) {
	t.Helper()
	if err := c.store.Set(context.Background(), key, body); err != nil {
		t.Fatalf("set %q failed: %v", key, err)
	}
}

func (c *contract) expect(t *testing.T, key string, want []byte) {
	t.Helper()
	got, ok, err := c.store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %q failed: %v", key, err)
	}
	if c.opts.NullSemantics || want == nil {
		if ok {
			t.Fatalf("expected miss for %q, got %q", key, got)
		}
		return
	}
	if !ok || !bytes.Equal(got, want) {
		t.Fatalf("unexpected record for %q: ok=%v got=%q want=%q", key, ok, got, want)
	}
}

func (c *contract) roundTrip(t *testing.T) {
	key := c.key("settings")
	body := record("1")
	c.mustSet(t, key, body)
	body[0] = 'X'
	c.expect(t, key, record("1"))

	if c.opts.NullSemantics {
		return
	}
	got, _, _ := c.store.Get(context.Background(), key)
	got[0] = 'X'
	c.expect(t, key, record("1"))
}

func (c *contract) overwrite(t *testing.T) {
	key := c.key("overwrite")
	c.mustSet(t, key, record("1"))
	c.mustSet(t, key, record("2"))
	c.expect(t, key, record("2"))
}

func (c *contract) keyCharacters(t *testing.T) {
	keys := []string{
		c.key("app.Settings[v1]"),
		c.key("tenant/42 profile"),
		c.key("ünïcode"),
	}
	for i, key := range keys {
		c.mustSet(t, key, record(strings.Repeat("k", i+1)))
	}
	for i, key := range keys {
		c.expect(t, key, record(strings.Repeat("k", i+1)))
	}
}

func (c *contract) missing(t *testing.T) {
	c.expect(t, c.key("never-written"), nil)
}

func (c *contract) remove(t *testing.T) {
	ctx := context.Background()
	a, b, kept := c.key("remove-a"), c.key("remove-b"), c.key("remove-kept")
	c.mustSet(t, a, record("a"))
	c.mustSet(t, b, record("b"))
	c.mustSet(t, kept, record("kept"))

	if err := c.store.Delete(ctx, a); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := c.store.DeleteMany(ctx, b); err != nil {
		t.Fatalf("delete many failed: %v", err)
	}
	c.expect(t, a, nil)
	c.expect(t, b, nil)
	c.expect(t, kept, record("kept"))

	if err := c.store.Delete(ctx, a); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	if err := c.store.DeleteMany(ctx); err != nil {
		t.Fatalf("expected empty delete many to succeed, got %v", err)
	}
}

func (c *contract) flush(t *testing.T) {
	key := c.key("flush")
	c.mustSet(t, key, record("f"))
	if err := c.store.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	c.expect(t, key, nil)
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(s)
}
