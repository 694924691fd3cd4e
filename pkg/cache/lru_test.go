package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUBasic(t *testing.T) {
	c := NewLRUCache(3)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRUEvictsLeastRecentlyAccessed(t *testing.T) {
	c := NewLRUCache(2)

	// 注入可控时钟
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Put("a", 1)
	now = now.Add(time.Second)
	c.Put("b", 2)

	// 访问a刷新其时间戳，b成为最久未访问
	now = now.Add(time.Second)
	c.Get("a")

	now = now.Add(time.Second)
	c.Put("c", 3)

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB, "最久未访问的条目应被淘汰")
	assert.True(t, okC)
}

func TestLRUEntryExpiresAfterMaxAge(t *testing.T) {
	c := NewLRUCacheWithTTL(4, 10*time.Minute)

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Put("a", 1)

	now = now.Add(5 * time.Minute)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// Get刷新访问时间但不刷新写入时间，超龄后按未命中处理
	now = now.Add(6 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUZeroMaxAgeNeverExpires(t *testing.T) {
	c := NewLRUCache(4)

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Put("a", 1)
	now = now.Add(240 * time.Hour)

	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestLRUOverwriteDoesNotEvict(t *testing.T) {
	c := NewLRUCache(2)

	c.Put("a", 1)
	c.Put("b", 2)
	// 覆盖已有键不触发淘汰
	c.Put("a", 10)

	assert.Equal(t, 2, c.Len())
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}
