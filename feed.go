package dataservice

import "sync"

// Feed is a synchronous multicast point. Publish delivers to every current
// subscriber in subscription order before returning. It keeps no history.
type Feed[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []feedSub[T]
}

type feedSub[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes exactly that
// registration. Calling the returned function more than once is a no-op.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, feedSub[T]{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed[T]) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every current subscriber with v. Subscribers may subscribe
// or unsubscribe from within the callback; changes apply to the next Publish.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	subs := make([]feedSub[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len reports the number of current subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
