package dataservice

import (
	"context"
	"reflect"
	"testing"
)

type recordingResetter struct {
	name string
	log  *[]string
}

func (r recordingResetter) Reset(context.Context) { *r.log = append(*r.log, r.name) }

func TestRegistryResetAllInRegistrationOrder(t *testing.T) {
	var log []string
	reg := NewRegistry()
	a := recordingResetter{name: "a", log: &log}
	reg.Register(a)
	reg.Register(recordingResetter{name: "b", log: &log})
	reg.Register(a)

	reg.ResetAll(context.Background())
	if want := []string{"a", "b", "a"}; !reflect.DeepEqual(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected duplicates kept, got %d entries", reg.Len())
	}
}

func TestRegistryResetAllOnEmpty(t *testing.T) {
	NewRegistry().ResetAll(context.Background())
}

func TestDefaultRegistryIsShared(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Fatalf("expected a single process-wide registry")
	}
}

func TestPackageResetAllUsesDefaultRegistry(t *testing.T) {
	ctx := context.Background()
	svc, err := New[profile](ctx, &seqFetcher{}, defaultProfile())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	svc.PostNewData(ctx, profile{Name: "posted"})

	ResetAll(ctx)
	if svc.FetchFlag() || !reflect.DeepEqual(svc.Data(), defaultProfile()) {
		t.Fatalf("expected service registered by default to be reset")
	}
}
