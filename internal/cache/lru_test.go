package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "2")
	v, _ = c.Get("a")
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Size())

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	clock.t = clock.t.Add(2 * time.Minute)
	c.Set("c", "3")

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())

	clock.t = clock.t.Add(2 * time.Minute)
	_, ok := c.Get("c")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_DeleteFunc(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("user-1:x", "a")
	c.Set("user-1:y", "b")
	c.Set("user-2:x", "c")

	removed := c.DeleteFunc(func(key string) bool { return strings.HasPrefix(key, "user-1:") })

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Size())
	c.Delete("user-2:x")
	assert.Equal(t, 0, c.Size())
}

func TestManager_CleanNowAndStop(t *testing.T) {
	c, clock := newTestCache(10, time.Second)
	c.Set("a", "1")
	clock.t = clock.t.Add(time.Hour)

	m := NewManager()
	m.Register(c)
	assert.Equal(t, 1, m.CleanNow())

	m.Start(time.Hour)
	m.Stop()
	m.Stop()
}
