// Package viewmodel implements the synchronized view model: it owns the edit
// session, issues mutations against the remote collection and keeps the
// query cache consistent by invalidating it after every successful mutation.
//
// The cache is never patched with a mutation response; a re-fetch is the only
// source of truth after a write.
package viewmodel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todo/internal/log"
	"todo/internal/query"
	"todo/internal/service"
)

// EditSession is the transient input state.
type EditSession struct {
	// Draft is the text being composed.
	Draft string
	// Editing is the task the draft will overwrite, nil when adding.
	Editing *service.Task
}

// IsEditing reports whether an existing task is being edited.
func (e EditSession) IsEditing() bool { return e.Editing != nil }

// Config is the configuration of the view model.
type Config struct {
	Service service.Service
	// Cache defaults to a new cache fetching from Service.
	Cache *query.Cache
	// Context bounds the default cache fetches.
	Context context.Context
	Logger  log.Logger
}

func (c *Config) defaults() error {
	if c.Service == nil {
		return fmt.Errorf("service is required")
	}
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "viewmodel.ViewModel"})

	if c.Cache == nil {
		cache, err := query.NewCache(query.CacheConfig{
			Fetcher: c.Service.ListTasks,
			Context: c.Context,
			Logger:  c.Logger,
		})
		if err != nil {
			return fmt.Errorf("could not create cache: %w", err)
		}
		c.Cache = cache
	}

	return nil
}

// ViewModel is safe for concurrent use. Mutations may overlap; nothing
// serializes them and the last invalidation decides the final snapshot.
type ViewModel struct {
	svc    service.Service
	cache  *query.Cache
	logger log.Logger

	mu      sync.Mutex
	session EditSession
	lastErr error
}

// New creates a new view model.
func New(cfg Config) (*ViewModel, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &ViewModel{
		svc:    cfg.Service,
		cache:  cfg.Cache,
		logger: cfg.Logger,
	}, nil
}

// Cache returns the cache the view model invalidates.
func (v *ViewModel) Cache() *query.Cache { return v.cache }

// CurrentSnapshot reflects the most recent fetch outcome.
func (v *ViewModel) CurrentSnapshot() query.Snapshot { return v.cache.Snapshot() }

// Session returns a copy of the edit session.
func (v *ViewModel) Session() EditSession {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.session
	if s.Editing != nil {
		t := *s.Editing
		s.Editing = &t
	}
	return s
}

// SetDraft replaces the draft text.
func (v *ViewModel) SetDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.session.Draft = text
}

// LastError returns the most recent mutation failure. It is cleared by the
// next successful mutation.
func (v *ViewModel) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// BeginAdd creates a task from text. Whitespace-only text is a no-op and
// returns false without any remote call. On success the cache is invalidated
// and the draft text cleared, unless the session moved on to an edit or a
// different draft while the call was in flight.
func (v *ViewModel) BeginAdd(ctx context.Context, text string) (*Mutation, bool) {
	if strings.TrimSpace(text) == "" {
		v.logger.Debugf("skipping add: empty text")
		return nil, false
	}

	m := newMutation("add")
	go func() {
		task, err := v.svc.CreateTask(ctx, text)
		v.settle(m, task, err, func(s *EditSession) {
			if s.Editing == nil && s.Draft == text {
				s.Draft = ""
			}
		})
	}()

	return m, true
}

// BeginEdit copies the task text into the draft and makes it the editing
// target, replacing any previous target.
func (v *ViewModel) BeginEdit(task service.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()

	t := task
	v.session = EditSession{Draft: task.Text, Editing: &t}
}

// CancelEdit drops the editing target and the draft.
func (v *ViewModel) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.session = EditSession{}
}

// CommitEdit updates the editing target with the draft text. Without a target
// or with a whitespace-only draft it is a no-op and returns false. On success
// the cache is invalidated and the edit session cleared if it still targets
// the same task.
func (v *ViewModel) CommitEdit(ctx context.Context) (*Mutation, bool) {
	v.mu.Lock()
	target := v.session.Editing
	draft := v.session.Draft
	v.mu.Unlock()

	if target == nil || strings.TrimSpace(draft) == "" {
		v.logger.Debugf("skipping edit commit: no target or empty draft")
		return nil, false
	}

	id := target.ID
	m := newMutation("update")
	go func() {
		task, err := v.svc.UpdateTask(ctx, id, draft)
		v.settle(m, task, err, func(s *EditSession) {
			if s.Editing != nil && s.Editing.ID == id {
				*s = EditSession{}
			}
		})
	}()

	return m, true
}

// Submit commits the edit when a task is being edited, otherwise adds the
// draft as a new task.
func (v *ViewModel) Submit(ctx context.Context) (*Mutation, bool) {
	s := v.Session()
	if s.IsEditing() {
		return v.CommitEdit(ctx)
	}
	return v.BeginAdd(ctx, s.Draft)
}

// RemoveTask deletes a task unconditionally. On success the cache is
// invalidated.
func (v *ViewModel) RemoveTask(ctx context.Context, id service.ID) *Mutation {
	m := newMutation("delete")
	go func() {
		err := v.svc.DeleteTask(ctx, id)
		v.settle(m, service.Task{}, err, nil)
	}()

	return m
}

// settle records the outcome of a mutation. On failure neither the cache nor
// the edit session are touched.
func (v *ViewModel) settle(m *Mutation, task service.Task, err error, onSuccess func(s *EditSession)) {
	v.mu.Lock()
	if err != nil {
		v.lastErr = fmt.Errorf("could not %s task: %w", m.op, err)
		v.mu.Unlock()
		v.logger.Debugf("%s", v.lastErr)
		m.settle(task, err)
		return
	}

	v.lastErr = nil
	if onSuccess != nil {
		onSuccess(&v.session)
	}
	v.mu.Unlock()

	v.logger.Debugf("%s succeeded, invalidating cache", m.op)
	v.cache.Invalidate()
	m.settle(task, nil)
}
