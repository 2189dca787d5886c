package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	c.Set("key", "value", time.Minute)

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	current := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return current }

	c.Set("key", 42, 5*time.Minute)

	current = current.Add(4 * time.Minute)
	_, ok := c.Get("key")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get("key")
	assert.False(t, ok)

	// Expired entries are dropped, not resurrected.
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestMemoryCacheDeleteAndFlush(t *testing.T) {
	c := NewMemoryCache()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Flush()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
