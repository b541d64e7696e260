package dataservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// State names the lifecycle stage a Service is in.
type State string

const (
	// StateFreshDefault means no fetch was attempted and no cache was loaded.
	StateFreshDefault State = "fresh_default"
	// StateCacheOptimistic means a boot-only cache value is shown but not confirmed.
	StateCacheOptimistic State = "cache_optimistic"
	// StateCacheReady means a full-mode cache value is held as authoritative.
	StateCacheReady State = "cache_ready"
	// StateFetching means a fetch is in flight.
	StateFetching State = "fetching"
	// StateReady means a fetch or a post succeeded.
	StateReady State = "ready"
)

const fetchGroupKey = "fetch"

// Service is a fetch-once, cache-forever, observable data container.
//
// The payload is fetched lazily through a Fetcher, optionally persisted
// through a Store, and multicast to subscribers on every update. Concurrent
// fetches on the same Service share one in-flight call.
type Service[T any] struct {
	fetcher   Fetcher[T]
	key       string
	mode      CacheMode
	logger    zerolog.Logger
	observer  Observer
	persister *Persister[T]

	feed  Feed[T]
	group singleflight.Group
	bg    sync.WaitGroup

	defaultData T

	mu              sync.Mutex
	data            T
	fetched         bool
	started         bool
	loadedFromCache bool
	cacheReady      bool
	failed          bool
	inflight        int
}

type fetchResult[T any] struct {
	value T
}

// New constructs a Service around fetcher with defaultData as its initial
// and reset value. Persisted data is hydrated according to the cache mode
// and the service is added to the configured Registry.
// @group Service
//
// Example: boot-only service over a file store
//
//	ctx := context.Background()
//	svc, _ := dataservice.New(ctx, dataservice.FetcherFunc[[]string](loadNames), nil,
//		dataservice.WithCacheMode(dataservice.CacheModeBootOnly),
//		dataservice.WithStore(dataservice.NewFileStore(ctx, "/var/cache/app")),
//	)
//	names, _ := svc.GetData(ctx)
//	fmt.Println(len(names))
func New[T any](ctx context.Context, fetcher Fetcher[T], defaultData T, opts ...Option) (*Service[T], error) {
	cfg := ServiceConfig{}
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}
	return NewWithConfig(ctx, fetcher, defaultData, cfg)
}

// NewWithConfig is New with an explicit ServiceConfig.
// @group Service
func NewWithConfig[T any](ctx context.Context, fetcher Fetcher[T], defaultData T, cfg ServiceConfig) (*Service[T], error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if fn, ok := fetcher.(FetcherFunc[T]); ok && fn == nil {
		return nil, ErrNilFetcher
	}
	if _, ok := ParseCacheMode(string(cfg.CacheMode)); !ok {
		return nil, fmt.Errorf("dataservice: unknown cache mode %q", cfg.CacheMode)
	}
	cfg = cfg.withDefaults()

	own := cloneValue(defaultData)

	key := cfg.CacheKey
	if key == "" {
		key = defaultCacheKey(fetcher)
	}
	logger := cfg.Logger.With().
		Str("component", "dataservice").
		Str("cache_key", key).
		Logger()

	s := &Service[T]{
		fetcher:     fetcher,
		key:         key,
		mode:        cfg.CacheMode,
		logger:      logger,
		observer:    cfg.Observer,
		defaultData: own,
		data:        cloneValue(own),
	}
	if s.mode.Persistent() {
		s.persister = NewPersister[T](cfg.Store, cfg.Codec, logger)
		s.hydrate(ctx)
	}
	cfg.Registry.Register(s)
	return s, nil
}

func (s *Service[T]) hydrate(ctx context.Context) {
	start := time.Now()
	v, ok := s.persister.Get(ctx, s.key)
	if ok {
		s.mu.Lock()
		s.data = v
		s.loadedFromCache = true
		if s.mode == CacheModeFull {
			s.fetched = true
			s.started = true
			s.cacheReady = true
		}
		s.mu.Unlock()
		s.logger.Debug().Str("cache_mode", string(s.mode)).Msg("hydrated from cache")
	}
	s.observe(ctx, OpHydrate, nil, start)
}

// GetData returns the held data when it is already confirmed, otherwise it
// fetches.
// @group Service
func (s *Service[T]) GetData(ctx context.Context) (T, error) {
	start := time.Now()
	s.mu.Lock()
	if s.fetched {
		data := s.data
		s.mu.Unlock()
		s.observe(ctx, OpGetData, nil, start)
		return data, nil
	}
	s.mu.Unlock()

	data, err := s.ForceFetchData(ctx)
	s.observe(ctx, OpGetData, err, start)
	return data, err
}

// ForceFetchData always fetches, publishes the result to subscribers, and
// persists it when the cache mode allows. On failure both flags are cleared,
// the held data is left untouched, and a *FetchError is returned.
// Callers arriving while a fetch is in flight share its outcome.
// @group Service
func (s *Service[T]) ForceFetchData(ctx context.Context) (T, error) {
	start := time.Now()
	s.mu.Lock()
	s.started = true
	s.cacheReady = false
	s.inflight++
	s.mu.Unlock()

	res, err, _ := s.group.Do(fetchGroupKey, func() (any, error) {
		return s.runFetch(ctx)
	})
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
	s.observe(ctx, OpForceFetch, err, start)
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(fetchResult[T]).value, nil
}

func (s *Service[T]) runFetch(ctx context.Context) (any, error) {
	v, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.fetched = false
		s.started = false
		s.cacheReady = false
		s.failed = true
		s.mu.Unlock()
		return nil, &FetchError{Key: s.key, Err: err}
	}

	s.mu.Lock()
	s.data = v
	s.fetched = true
	s.started = true
	s.cacheReady = false
	s.failed = false
	s.mu.Unlock()

	s.feed.Publish(v)
	s.persist(ctx, v)
	return fetchResult[T]{value: v}, nil
}

// AttachDataSubs subscribes fn to every future update and returns a function
// that removes the subscription.
//
// When nothing has been started, the cached value (if one was loaded) is
// delivered to fn first and a fetch starts in the background. When data is
// already confirmed, it is replayed to fn only. When a fetch is in flight,
// fn waits for its publication.
// @group Service
func (s *Service[T]) AttachDataSubs(ctx context.Context, fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	unsubscribe = s.feed.Subscribe(fn)
	started, fetched, fromCache, current := s.started, s.fetched, s.loadedFromCache, s.data
	if !started {
		s.started = true
	}
	s.mu.Unlock()

	switch {
	case !started:
		if fromCache {
			fn(current)
		}
		s.fetchInBackground(ctx)
	case fetched:
		fn(current)
	}
	return unsubscribe
}

// TriggerLoad starts a background fetch unless one was already started or
// data is already confirmed. It does not wait for the fetch.
// @group Service
func (s *Service[T]) TriggerLoad(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.fetched {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	s.fetchInBackground(ctx)
}

func (s *Service[T]) fetchInBackground(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if _, err := s.ForceFetchData(ctx); err != nil {
			s.logger.Error().Err(err).Msg("background fetch failed")
		}
	}()
}

// AwaitToLoad blocks until data is confirmed or ctx ends. It does not start
// a fetch on its own.
// @group Service
func (s *Service[T]) AwaitToLoad(ctx context.Context) error {
	s.mu.Lock()
	if s.fetched {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	var once sync.Once
	unsubscribe := s.feed.Subscribe(func(T) {
		once.Do(func() { close(done) })
	})
	s.mu.Unlock()
	defer unsubscribe()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every background fetch started by AttachDataSubs or
// TriggerLoad has returned, including its persistence write.
// @group Service
func (s *Service[T]) Wait() {
	s.bg.Wait()
}

// PostNewData stores a deep copy of v as confirmed data, publishes it, and
// persists it when the cache mode allows.
// @group Service
func (s *Service[T]) PostNewData(ctx context.Context, v T) {
	start := time.Now()
	data := cloneValue(v)

	s.mu.Lock()
	s.data = data
	s.fetched = true
	s.started = true
	s.cacheReady = false
	s.failed = false
	s.mu.Unlock()

	s.feed.Publish(data)
	s.persist(ctx, data)
	s.observe(ctx, OpPost, nil, start)
}

// Reset restores the default data, clears every flag, and removes the
// persisted record when the cache mode persists. Subscribers are kept and
// are not notified.
// @group Service
func (s *Service[T]) Reset(ctx context.Context) {
	start := time.Now()
	data := s.DefaultData()

	s.mu.Lock()
	s.data = data
	s.fetched = false
	s.started = false
	s.loadedFromCache = false
	s.cacheReady = false
	s.failed = false
	s.mu.Unlock()

	if s.persister != nil {
		removeStart := time.Now()
		err := s.persister.Remove(ctx, s.key)
		if err != nil {
			s.logger.Error().Err(err).Msg("cache remove failed")
		}
		s.observe(ctx, OpRemove, err, removeStart)
	}
	s.observe(ctx, OpReset, nil, start)
}

func (s *Service[T]) persist(ctx context.Context, v T) {
	if s.persister == nil {
		return
	}
	start := time.Now()
	err := s.persister.Set(ctx, s.key, v)
	if err != nil {
		s.logger.Error().Err(err).Msg("cache write failed")
	}
	s.observe(ctx, OpPersist, err, start)
}

func (s *Service[T]) observe(ctx context.Context, op string, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.OnServiceOp(ctx, op, s.key, err, time.Since(start), s.mode)
}

// Data returns the held value as-is, without copying or fetching.
func (s *Service[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// DefaultData returns a fresh deep copy of the default value.
func (s *Service[T]) DefaultData() T {
	return cloneValue(s.defaultData)
}

// FetchFlag reports whether data is confirmed by a fetch, a post, or a
// full-mode cache hit.
func (s *Service[T]) FetchFlag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched
}

// FetchStartedFlag reports whether a fetch is in flight or has completed.
func (s *Service[T]) FetchStartedFlag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// LoadedFromCache reports whether a persisted value was hydrated at construction.
func (s *Service[T]) LoadedFromCache() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedFromCache
}

// CacheKey returns the storage key resolved at construction.
func (s *Service[T]) CacheKey() string { return s.key }

// CacheMode returns the configured persistence strategy.
func (s *Service[T]) CacheMode() CacheMode { return s.mode }

// Subscribers reports how many subscriptions are attached.
func (s *Service[T]) Subscribers() int { return s.feed.Len() }

// State reports the current lifecycle stage. A failed fetch reports
// StateFreshDefault even though the held data keeps its last value.
func (s *Service[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.inflight > 0:
		return StateFetching
	case s.cacheReady:
		return StateCacheReady
	case s.fetched:
		return StateReady
	case s.started:
		return StateFetching
	case s.failed:
		return StateFreshDefault
	case s.loadedFromCache:
		return StateCacheOptimistic
	default:
		return StateFreshDefault
	}
}
