package memory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/testhr/llamagate/internal/core"
)

// Cache is the volatile session-scoped recent-turn window. Sessions are
// evicted LRU once maxSessions distinct sessions have been seen; within a
// session the window keeps the most recent windowSize turns. Mutations
// for one session are serialized by that session's own lock, so
// concurrent requests cannot lose appends.
type Cache struct {
	mu         sync.Mutex
	sessions   *lru.Cache[string, *window]
	windowSize int
}

type window struct {
	mu    sync.Mutex
	turns []core.Turn
}

func NewCache(maxSessions, windowSize int) *Cache {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	if windowSize <= 0 {
		windowSize = 10
	}
	sessions, _ := lru.New[string, *window](maxSessions)
	return &Cache{
		sessions:   sessions,
		windowSize: windowSize,
	}
}

func (c *Cache) Append(sessionID string, t core.Turn) {
	c.mu.Lock()
	w, ok := c.sessions.Get(sessionID)
	if !ok {
		w = &window{}
		c.sessions.Add(sessionID, w)
	}
	c.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = append(w.turns, t)
	if len(w.turns) > c.windowSize {
		w.turns = w.turns[len(w.turns)-c.windowSize:]
	}
}

// Get returns up to limit turns, oldest-first. Unknown sessions yield nil.
func (c *Cache) Get(sessionID string, limit int) []core.Turn {
	c.mu.Lock()
	w, ok := c.sessions.Get(sessionID)
	c.mu.Unlock()
	if !ok {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.turns)
	if n == 0 {
		return nil
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]core.Turn, limit)
	copy(out, w.turns[n-limit:])
	return out
}

// Sessions reports how many sessions are currently cached.
func (c *Cache) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.Len()
}
