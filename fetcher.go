package dataservice

import (
	"context"
	"reflect"
	"runtime"
)

const cacheKeyPrefix = "dataservice:"

// Fetcher produces the payload a Service holds.
type Fetcher[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context) (T, error)

// Fetch implements Fetcher.
func (f FetcherFunc[T]) Fetch(ctx context.Context) (T, error) {
	return f(ctx)
}

// defaultCacheKey derives a storage key from the fetcher's concrete type,
// so fetchers of the same type share a key and different types never do.
// FetcherFunc values are identified by the wrapped function's symbol.
func defaultCacheKey[T any](f Fetcher[T]) string {
	if fn, ok := f.(FetcherFunc[T]); ok {
		if name := funcName(fn); name != "" {
			return cacheKeyPrefix + name
		}
	}
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return cacheKeyPrefix + t.String()
	}
	return cacheKeyPrefix + t.PkgPath() + "." + t.Name()
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	return rf.Name()
}
