// Package cache mediates all list/detail reads of remote state behind a
// staleness-aware in-process cache, and centralizes the invalidation that
// keeps those views consistent after writes.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueriesDisabled is returned when no user is authenticated. Queries are
// not attempted at all in that state; this is not a failure of the store.
var ErrQueriesDisabled = errors.New("cache: queries disabled, no authenticated user")

// Identity is the narrow slice of the session provider the coordinator
// needs: whether a user is attached to the operation at hand.
type Identity interface {
	CurrentUser(ctx context.Context) (string, bool)
}

// Entity classes have different staleness tolerances: workspaces change
// rarely and may be minutes stale, form lists only about a minute.
type Entity string

const (
	EntityForm      Entity = "form"
	EntityWorkspace Entity = "workspace"
)

// FetchFunc loads the value for a key from the remote store.
type FetchFunc func(ctx context.Context) (any, error)

// readRetries bounds transparent retries of transient read failures. Writes
// are never retried automatically: a duplicate create is worse than an error.
const readRetries = 2

// dependents is the declarative invalidation table: which cache keys a
// mutation of an entity dirties. scope is the workspace id for forms and the
// owner id for workspaces.
var dependents = map[Entity]func(id, scope string) []string{
	EntityForm: func(id, scope string) []string {
		return []string{FormKey(id), FormsKey(scope), FormCountKey(scope)}
	},
	EntityWorkspace: func(id, scope string) []string {
		return []string{WorkspaceKey(id), WorkspacesKey(scope)}
	},
}

func FormKey(id string) string { return "form:" + id }

func FormsKey(workspaceID string) string { return "forms:" + workspaceID }

func FormCountKey(workspaceID string) string { return "formcount:" + workspaceID }

func WorkspaceKey(id string) string { return "workspace:" + id }

func WorkspacesKey(ownerID string) string { return "workspaces:" + ownerID }

type entry struct {
	value      any
	hasValue   bool
	fetchedAt  time.Time
	generation uint64
	refreshing bool
}

// Coordinator owns the cache map; nothing else writes it. All invalidation
// for one mutation happens under a single lock acquisition, so the detail
// entry and the list rows for the same form never diverge in-process.
type Coordinator struct {
	identity Identity
	ttl      map[Entity]time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func New(identity Identity, formsTTL, workspacesTTL time.Duration) *Coordinator {
	return &Coordinator{
		identity: identity,
		ttl: map[Entity]time.Duration{
			EntityForm:      formsTTL,
			EntityWorkspace: workspacesTTL,
		},
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Query returns the cached value for key when fresh. A stale entry is
// returned immediately while one background refetch runs; a missing entry is
// fetched synchronously with bounded retries. With no authenticated user it
// returns ErrQueriesDisabled without touching the store.
func (c *Coordinator) Query(ctx context.Context, entity Entity, key string, fetch FetchFunc) (any, error) {
	if _, ok := c.identity.CurrentUser(ctx); !ok {
		return nil, ErrQueriesDisabled
	}

	c.mu.Lock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}
	if e.hasValue {
		fresh := c.now().Sub(e.fetchedAt) < c.ttl[entity]
		value := e.value
		if !fresh && !e.refreshing {
			e.refreshing = true
			gen := e.generation
			go c.refresh(key, gen, fetch)
		}
		c.mu.Unlock()
		return value, nil
	}
	gen := e.generation
	c.mu.Unlock()

	value, err := fetchWithRetry(ctx, fetch)
	if err != nil {
		return nil, err
	}
	c.store(key, gen, value)
	return value, nil
}

// refresh runs detached from the requesting context: the caller already has
// a value to render, and the result only feeds the cache.
func (c *Coordinator) refresh(key string, gen uint64, fetch FetchFunc) {
	value, err := fetchWithRetry(context.Background(), fetch)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil {
		return
	}
	e.refreshing = false
	if err != nil {
		// Keep serving the previous value; the next stale read retries.
		return
	}
	// Latest request wins: an invalidation issued after this refetch
	// started supersedes its response.
	if e.generation != gen {
		return
	}
	e.value = value
	e.hasValue = true
	e.fetchedAt = c.now()
}

func (c *Coordinator) store(key string, gen uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil || e.generation != gen {
		return
	}
	e.value = value
	e.hasValue = true
	e.fetchedAt = c.now()
}

func fetchWithRetry(ctx context.Context, fetch FetchFunc) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= readRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := fetch(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Mutate runs op and, only on success, drops every cache key the dependency
// table lists for the entity. op is never retried; its error is returned to
// the caller untouched.
func (c *Coordinator) Mutate(ctx context.Context, entity Entity, id, scope string, op func(ctx context.Context) error) error {
	if _, ok := c.identity.CurrentUser(ctx); !ok {
		return ErrQueriesDisabled
	}
	if err := op(ctx); err != nil {
		return err
	}
	c.Invalidate(dependents[entity](id, scope)...)
	return nil
}

// Create runs op for a write that produces a new entity id, then drops the
// dependent keys for that id. Like Mutate, op is never retried.
func (c *Coordinator) Create(ctx context.Context, entity Entity, scope string, op func(ctx context.Context) (string, error)) (string, error) {
	if _, ok := c.identity.CurrentUser(ctx); !ok {
		return "", ErrQueriesDisabled
	}
	id, err := op(ctx)
	if err != nil {
		return "", err
	}
	c.Invalidate(dependents[entity](id, scope)...)
	return id, nil
}

// Reset drops every entry. Called when the authenticated user changes so one
// user's views never leak into the next session.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Invalidate drops the given keys and bumps their generations so in-flight
// refetches started earlier cannot resurrect stale data.
func (c *Coordinator) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		e := c.entries[key]
		if e == nil {
			continue
		}
		e.generation++
		e.hasValue = false
		e.value = nil
	}
}
