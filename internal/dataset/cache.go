package dataset

import (
	"context"
	"sync"
)

// Cache memoizes dataset loads. The first caller for a name performs the
// load and publishes the result; concurrent racers block on the same entry
// and observe the published rows instead of loading again. After first load
// all reads are against immutable slices and need no locking.
//
// Load failures are memoized too: the backing sources are fixed for the
// process lifetime, so a retry would reproduce the same failure.
type Cache struct {
	src Source

	mu      sync.Mutex
	players map[string]*playerEntry
	teams   map[string]*teamEntry
	status  map[string]bool // completed loads only; entry fields stay once-guarded
}

type playerEntry struct {
	once sync.Once
	rows []PlayerRow
	err  error
}

type teamEntry struct {
	once sync.Once
	rows []TeamRow
	err  error
}

// NewCache wraps a Source with load-once memoization.
func NewCache(src Source) *Cache {
	return &Cache{
		src:     src,
		players: make(map[string]*playerEntry),
		teams:   make(map[string]*teamEntry),
		status:  make(map[string]bool),
	}
}

// Players returns the rows of a player-level dataset, loading it on first
// access. The returned slice is shared and must not be mutated.
func (c *Cache) Players(ctx context.Context, name string) ([]PlayerRow, error) {
	c.mu.Lock()
	e, ok := c.players[name]
	if !ok {
		e = &playerEntry{}
		c.players[name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.rows, e.err = c.src.Players(ctx, name)
		c.setStatus(name, e.err == nil)
	})
	return e.rows, e.err
}

// Teams returns the rows of a team-level dataset, loading it on first
// access. The returned slice is shared and must not be mutated.
func (c *Cache) Teams(ctx context.Context, name string) ([]TeamRow, error) {
	c.mu.Lock()
	e, ok := c.teams[name]
	if !ok {
		e = &teamEntry{}
		c.teams[name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.rows, e.err = c.src.Teams(ctx, name)
		c.setStatus(name, e.err == nil)
	})
	return e.rows, e.err
}

func (c *Cache) setStatus(name string, ok bool) {
	c.mu.Lock()
	c.status[name] = ok
	c.mu.Unlock()
}

// Loaded reports the datasets whose load has completed and whether each
// succeeded. In-flight loads are absent until they finish. Used by the
// bridge's health endpoint.
func (c *Cache) Loaded() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.status))
	for name, ok := range c.status {
		out[name] = ok
	}
	return out
}
