// Package query is a keyed cache for backend reads.
//
// Each key moves through idle, loading, then success or error. Concurrent reads of one key
// share a single call, fresh successes are served without a call, and a refetch keeps the
// previous data visible while it runs. Resolutions apply in issuance order: when a newer call
// has been issued for a key, an older call's result is discarded on arrival.
package query

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Veraticus/meddoc/internal/metrics"
)

// FetchFunc loads the value for a key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type entry struct {
	updatedAt time.Time
	lastUsed  time.Time
	data      any
	err       error
	listeners map[uint64]func()
	key       Key
	issued    uint64
	status    Status
	hasData   bool
	stale     bool
	inflight  bool
}

// Cache holds query state. Create one per process and pass it to every page.
type Cache struct {
	entries      map[string]*entry
	metrics      *metrics.ClientMetrics
	now          func() time.Time
	stopCh       chan struct{}
	group        singleflight.Group
	staleTime    time.Duration
	gcTime       time.Duration
	nextGen      uint64
	nextListener uint64
	mu           sync.Mutex
	closeOnce    sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime sets how long a success is served without refetching. Zero means always refetch.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithGCTime sets how long an unobserved, idle entry is kept. Zero disables collection.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) { c.gcTime = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMetrics records hits, misses, joined calls and discarded resolutions.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		now:       time.Now,
		stopCh:    make(chan struct{}),
		staleTime: 30 * time.Second,
		gcTime:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.gcTime > 0 {
		go c.cleanup()
	}
	return c
}

// Close stops background collection. The cache stays usable.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stopCh) })
}

// Fetch returns the cached value for key when it is fresh, otherwise it joins the call in flight
// for key or issues a new one and waits for it. When ctx ends first, Fetch returns the current
// snapshot; the call keeps running and still lands in the cache.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn FetchFunc[T]) State[T] {
	snap, gen, wait := begin[T](c, key, false)
	if !wait {
		return snap
	}
	return await(ctx, c, key, gen, fn)
}

// Refetch always issues a new call for key, superseding any call already in flight.
func Refetch[T any](ctx context.Context, c *Cache, key Key, fn FetchFunc[T]) State[T] {
	_, gen, _ := begin[T](c, key, true)
	return await(ctx, c, key, gen, fn)
}

// Get returns the current snapshot for key without fetching.
func Get[T any](c *Cache, key Key) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.hash()]
	if !ok {
		return State[T]{Key: append(Key(nil), key...), Status: StatusIdle}
	}
	return snapshotLocked[T](c, e)
}

// Invalidate marks every entry whose key starts with prefix as stale, so the next Fetch refetches.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	var notify []func()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			notify = append(notify, e.listenerList()...)
		}
	}
	c.mu.Unlock()

	slog.Debug("Invalidated queries", "prefix", prefix.String())
	runAll(notify)
}

// Clear drops every entry. Calls in flight finish but their results are discarded.
func (c *Cache) Clear() {
	c.mu.Lock()
	var notify []func()
	old := c.entries
	c.entries = make(map[string]*entry, len(old))
	for _, e := range old {
		if len(e.listeners) > 0 {
			// Keep subscriptions alive across a reset; only the data goes.
			fresh := &entry{key: e.key, listeners: e.listeners}
			c.entries[e.key.hash()] = fresh
			notify = append(notify, e.listenerList()...)
		}
	}
	c.mu.Unlock()

	runAll(notify)
}

// Subscribe calls fn after every change to key. The returned func removes the subscription.
func (c *Cache) Subscribe(key Key, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	c.nextListener++
	id := c.nextListener
	e.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if current, ok := c.entries[key.hash()]; ok {
			delete(current.listeners, id)
		}
	}
}

// Len returns the number of entries, including idle ones held by subscribers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// begin decides whether key needs a call. It returns the snapshot to show now, the generation
// to wait on, and whether waiting is needed at all.
func begin[T any](c *Cache, key Key, force bool) (State[T], uint64, bool) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.lastUsed = c.now()

	if !force && e.status == StatusSuccess && !c.staleLocked(e) {
		snap := snapshotLocked[T](c, e)
		c.mu.Unlock()
		c.metrics.RecordCacheEvent(metrics.CacheHit)
		return snap, 0, false
	}

	var notify []func()
	if !force && e.inflight {
		c.metrics.RecordCacheEvent(metrics.CacheDedupe)
	} else {
		c.nextGen++
		e.issued = c.nextGen
		e.inflight = true
		e.status = StatusLoading
		notify = e.listenerList()
		c.metrics.RecordCacheEvent(metrics.CacheMiss)
	}
	gen := e.issued
	snap := snapshotLocked[T](c, e)
	c.mu.Unlock()

	runAll(notify)
	return snap, gen, true
}

// await runs or joins the call for (key, gen) and waits for it or for ctx.
func await[T any](ctx context.Context, c *Cache, key Key, gen uint64, fn FetchFunc[T]) State[T] {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.hash()+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		if !c.pending(key, gen) {
			return nil, nil
		}
		data, err := fn(flightCtx)
		c.resolve(key, gen, data, err)
		return nil, nil
	})

	select {
	case <-ctx.Done():
	case <-ch:
	}
	return Get[T](c, key)
}

// pending reports whether gen is still the unresolved latest call for key.
func (c *Cache) pending(key Key, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.hash()]
	return ok && e.inflight && e.issued == gen
}

func (c *Cache) resolve(key Key, gen uint64, data any, err error) {
	c.mu.Lock()
	e, ok := c.entries[key.hash()]
	if !ok || !e.inflight || e.issued != gen {
		c.mu.Unlock()
		c.metrics.RecordCacheEvent(metrics.CacheSuperseded)
		slog.Debug("Discarded superseded query result", "key", key.String(), "generation", gen)
		return
	}

	e.inflight = false
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.err = nil
		e.data = data
		e.hasData = true
		e.stale = false
		e.updatedAt = c.now()
	}
	notify := e.listenerList()
	c.mu.Unlock()

	runAll(notify)
}

func (c *Cache) entryLocked(key Key) *entry {
	h := key.hash()
	e, ok := c.entries[h]
	if !ok {
		e = &entry{
			key:       append(Key(nil), key...),
			status:    StatusIdle,
			listeners: make(map[uint64]func()),
		}
		c.entries[h] = e
	}
	if e.listeners == nil {
		e.listeners = make(map[uint64]func())
	}
	return e
}

func (c *Cache) staleLocked(e *entry) bool {
	if !e.hasData {
		return false
	}
	return e.stale || c.now().Sub(e.updatedAt) >= c.staleTime
}

func snapshotLocked[T any](c *Cache, e *entry) State[T] {
	s := State[T]{
		Key:       append(Key(nil), e.key...),
		Status:    e.status,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
		Stale:     c.staleLocked(e),
	}
	if e.hasData {
		if v, ok := e.data.(T); ok {
			s.Data = v
			s.HasData = true
		}
	}
	s.Refreshing = s.Status == StatusLoading && s.HasData
	return s
}

func (e *entry) listenerList() []func() {
	list := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		list = append(list, fn)
	}
	return list
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// cleanup periodically drops idle entries nobody has used or observed for gcTime.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(c.gcTime)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *Cache) collect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for h, e := range c.entries {
		if e.inflight || len(e.listeners) > 0 {
			continue
		}
		if now.Sub(e.lastUsed) >= c.gcTime {
			delete(c.entries, h)
		}
	}
}
