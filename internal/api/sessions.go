package api

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/rental"
)

// session is a grade book or rental desk loaded from the store. version
// is the document version it reflects and is guarded by the key's lock.
type session struct {
	value   store.Snapshotter
	fresh   func() store.Snapshotter
	version uint64
}

// docLock serializes access to one stored document and outlives cache
// eviction. version counts writes; a session behind it reloads from the
// store before use.
type docLock struct {
	mu      sync.Mutex
	version uint64
}

// SessionCache is a thread-safe LRU cache of loaded sessions.
type SessionCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*session
	order   []string // oldest first
	locks   map[string]*docLock
}

// NewSessionCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 20.
func NewSessionCache(maxSize int) *SessionCache {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &SessionCache{
		maxSize: maxSize,
		entries: make(map[string]*session),
		locks:   make(map[string]*docLock),
	}
}

// NewSessionCacheFromEnv creates a cache with size from TALLY_CACHE_SIZE.
func NewSessionCacheFromEnv() *SessionCache {
	size := 20
	if v := os.Getenv("TALLY_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewSessionCache(size)
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *SessionCache) lockFor(key string) *docLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[key]
	if !ok {
		l = &docLock{}
		c.locks[key] = l
	}
	return l
}

func (c *SessionCache) get(key string) *session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.moveToEnd(key)
	return s
}

// putIfAbsent stores s unless another request cached the key first, and
// returns the session that ends up cached.
func (c *SessionCache) putIfAbsent(key string, s *session) *session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		c.moveToEnd(key)
		return existing
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = s
	c.order = append(c.order, key)
	return s
}

func (c *SessionCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *SessionCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

// load returns the cached session for kind/id, restoring it from the
// store on a miss. A document that was never saved starts empty.
func (h *Handler) load(ctx context.Context, kind, id string, fresh func() store.Snapshotter) (*session, error) {
	if err := store.CheckKey(id); err != nil {
		return nil, err
	}
	key := kind + "/" + id
	l := h.sessions.lockFor(key)
	l.mu.Lock()
	defer l.mu.Unlock()

	if s := h.sessions.get(key); s != nil {
		if err := h.refresh(ctx, kind, id, l, s); err != nil {
			return nil, err
		}
		return s, nil
	}

	v := fresh()
	if _, err := store.Load(ctx, h.docs, Namespace, kind, id, v); err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return h.sessions.putIfAbsent(key, &session{value: v, fresh: fresh, version: l.version}), nil
}

// refresh reloads s from the store when a write through another session,
// or a failed save, left it behind. The caller holds l.mu.
func (h *Handler) refresh(ctx context.Context, kind, id string, l *docLock, s *session) error {
	if s.version == l.version {
		return nil
	}
	found, err := store.Load(ctx, h.docs, Namespace, kind, id, s.value)
	if err != nil {
		return fmt.Errorf("reload %s/%s: %w", kind, id, err)
	}
	if !found {
		data, err := s.fresh().Snapshot()
		if err != nil {
			return err
		}
		if err := s.value.Restore(data); err != nil {
			return err
		}
	}
	s.version = l.version
	return nil
}

// mutate runs fn on the up-to-date session under the document lock and
// saves the result. When the save fails the session is dropped and every
// other holder reloads before its next use.
func (h *Handler) mutate(ctx context.Context, kind, id string, s *session, fn func() error) error {
	key := kind + "/" + id
	l := h.sessions.lockFor(key)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := h.refresh(ctx, kind, id, l, s); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	l.version++
	if err := store.Save(ctx, h.docs, Namespace, kind, id, s.value); err != nil {
		h.sessions.remove(key)
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.version = l.version
	return nil
}

func (h *Handler) book(ctx context.Context, id string) (*gradebook.Book, *session, error) {
	s, err := h.load(ctx, store.KindGradebook, id, func() store.Snapshotter { return gradebook.NewBook() })
	if err != nil {
		return nil, nil, err
	}
	return s.value.(*gradebook.Book), s, nil
}

func (h *Handler) desk(ctx context.Context, id string) (*rental.Desk, *session, error) {
	s, err := h.load(ctx, store.KindDesk, id, func() store.Snapshotter { return rental.NewDesk() })
	if err != nil {
		return nil, nil, err
	}
	return s.value.(*rental.Desk), s, nil
}
