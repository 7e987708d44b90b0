package query

import (
	"context"
	"sync"
)

// Observer is a page's view onto one key at a time. Switching keys drops interest in the
// previous one: its result may still land in the cache but is never delivered here.
type Observer[T any] struct {
	cache    *Cache
	onChange func(State[T])
	fetch    FetchFunc[T]
	unsub    func()
	cancel   context.CancelFunc
	key      Key
	mu       sync.Mutex
	closed   bool
}

// NewObserver creates an observer with no key. onChange may be nil and is called outside all locks.
func NewObserver[T any](c *Cache, onChange func(State[T])) *Observer[T] {
	return &Observer[T]{cache: c, onChange: onChange}
}

// SetKey points the observer at key and starts loading it if needed.
// It returns the state to show immediately.
func (o *Observer[T]) SetKey(key Key, fn FetchFunc[T]) State[T] {
	return o.switchTo(key, fn, false)
}

// Refetch reloads the current key, keeping its data visible meanwhile.
func (o *Observer[T]) Refetch() State[T] {
	o.mu.Lock()
	key, fn := o.key, o.fetch
	o.mu.Unlock()

	if key == nil || fn == nil {
		return o.State()
	}
	return o.switchTo(key, fn, true)
}

// Key returns the current key, or nil before the first SetKey.
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append(Key(nil), o.key...)
}

// State returns the snapshot for the current key.
func (o *Observer[T]) State() State[T] {
	o.mu.Lock()
	key := o.key
	o.mu.Unlock()

	if key == nil {
		return State[T]{Status: StatusIdle}
	}
	return Get[T](o.cache, key)
}

// Close stops delivery. Later calls are no-ops.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.detachLocked()
}

func (o *Observer[T]) switchTo(key Key, fn FetchFunc[T], force bool) State[T] {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return State[T]{Key: key, Status: StatusIdle}
	}

	sameKey := o.key != nil && o.key.Equal(key)
	if !sameKey {
		o.detachLocked()
		o.key = append(Key(nil), key...)
		watched := o.key
		o.unsub = o.cache.Subscribe(watched, func() { o.deliver(watched) })
	}
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.fetch = fn
	o.mu.Unlock()

	snap, gen, wait := begin[T](o.cache, key, force)
	if wait {
		go await(ctx, o.cache, key, gen, fn)
	}
	return snap
}

// deliver forwards a change for key if the observer still watches it.
func (o *Observer[T]) deliver(key Key) {
	o.mu.Lock()
	current := !o.closed && o.key.Equal(key)
	onChange := o.onChange
	o.mu.Unlock()

	if !current || onChange == nil {
		return
	}
	onChange(Get[T](o.cache, key))
}

func (o *Observer[T]) detachLocked() {
	if o.unsub != nil {
		o.unsub()
		o.unsub = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}
