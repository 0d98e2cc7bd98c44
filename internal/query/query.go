// Package query holds the locally cached copy of the remote task collection.
//
// The cache is the single shared snapshot read by presentation layers. It is
// written only by fetch completions. Invalidate marks it stale and starts a
// re-fetch; only the fetch started by the latest invalidation may settle the
// snapshot, so a successful mutation is always followed by exactly one
// re-fetch before the snapshot is ready again.
package query

import (
	"context"
	"fmt"
	"sync"

	"todo/internal/log"
	"todo/internal/service"
)

// Status is the state of the snapshot.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Snapshot is a read-only view of the cache.
type Snapshot struct {
	Status Status
	// Tasks are the tasks as of the last successful fetch. They are kept while
	// a re-fetch is loading or after it failed.
	Tasks []service.Task
	// Err is the last fetch error when Status is StatusError.
	Err error
}

// Fetcher loads the whole collection.
type Fetcher func(ctx context.Context) ([]service.Task, error)

// CacheConfig is the configuration of the cache.
type CacheConfig struct {
	Fetcher Fetcher
	// Context bounds every fetch started by the cache. Defaults to context.Background.
	Context context.Context
	Logger  log.Logger
}

func (c *CacheConfig) defaults() error {
	if c.Fetcher == nil {
		return fmt.Errorf("fetcher is required")
	}
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "query.Cache"})
	return nil
}

// Cache is the explicit cache object owned by the view model.
type Cache struct {
	fetch  Fetcher
	ctx    context.Context
	logger log.Logger

	mu         sync.Mutex
	snapshot   Snapshot
	stale      bool
	generation uint64
	inflight   bool
	fetches    uint64
	settled    chan struct{}
	subs       map[int]chan struct{}
	nextSub    int
}

// NewCache creates a new cache. The snapshot starts stale and loading; the
// first read starts the initial fetch.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Cache{
		fetch:    cfg.Fetcher,
		ctx:      cfg.Context,
		logger:   cfg.Logger,
		snapshot: Snapshot{Status: StatusLoading},
		stale:    true,
		settled:  make(chan struct{}),
		subs:     make(map[int]chan struct{}),
	}, nil
}

// Snapshot returns the current snapshot. A stale snapshot with no fetch in
// flight starts one.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale && !c.inflight {
		c.startFetchLocked()
	}
	return c.copyLocked()
}

// Invalidate marks the snapshot stale and starts a re-fetch. Any fetch still
// in flight is superseded: its result will be dropped.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.stale = true
	if c.snapshot.Status != StatusLoading {
		c.snapshot.Status = StatusLoading
		c.snapshot.Err = nil
		c.settled = make(chan struct{})
		c.notifyLocked()
	}
	c.startFetchLocked()
}

// Await blocks until the snapshot is no longer loading and returns it.
func (c *Cache) Await(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		if c.stale && !c.inflight {
			c.startFetchLocked()
		}
		if c.snapshot.Status != StatusLoading {
			s := c.copyLocked()
			c.mu.Unlock()
			return s, nil
		}
		settled := c.settled
		c.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}

// Subscribe returns a channel that receives a value whenever the snapshot
// changes. Notifications are coalesced; readers should call Snapshot after
// each one. The returned func releases the subscription.
func (c *Cache) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
		})
	}
}

// Fetches returns how many fetches the cache has started.
func (c *Cache) Fetches() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func (c *Cache) startFetchLocked() {
	c.inflight = true
	c.fetches++
	gen := c.generation
	c.logger.Debugf("fetching collection (generation %d)", gen)

	go func() {
		tasks, err := c.fetch(c.ctx)
		c.complete(gen, tasks, err)
	}()
}

func (c *Cache) complete(gen uint64, tasks []service.Task, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A newer invalidation owns the snapshot and has its own fetch in flight.
		c.logger.Debugf("dropping superseded fetch result (generation %d, current %d)", gen, c.generation)
		return
	}

	c.inflight = false
	c.stale = false
	if err != nil {
		c.logger.Debugf("could not fetch collection: %s", err)
		c.snapshot.Status = StatusError
		c.snapshot.Err = err
	} else {
		c.snapshot = Snapshot{Status: StatusReady, Tasks: tasks}
	}

	close(c.settled)
	c.notifyLocked()
}

func (c *Cache) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (c *Cache) copyLocked() Snapshot {
	s := c.snapshot
	if s.Tasks != nil {
		tasks := make([]service.Task, len(s.Tasks))
		copy(tasks, s.Tasks)
		s.Tasks = tasks
	}
	return s
}
