package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type cacheEntry struct {
	val     []byte
	expires time.Time
}

// Cache stores JSON-encoded values with a TTL, the same contract as the
// redis client. Used when redis is not configured.
type Cache struct {
	mu   sync.Mutex
	data map[string]cacheEntry
	now  func() time.Time
}

func NewCache() *Cache {
	return &Cache{data: make(map[string]cacheEntry), now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.data[key]
	if ok && !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.data, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	e := cacheEntry{val: b}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
