package cache

import (
	"sync"
	"time"
)

// lruEntry LRU缓存条目
type lruEntry struct {
	value      interface{}
	storedAt   time.Time
	lastAccess time.Time
}

// LRUCache 固定容量的进程内LRU缓存
// 主缓存路径的过期由Redis负责，这里是独立的小型辅助工具：
// 容量满时淘汰最近最久未访问的条目，时间相同者任意淘汰。
// maxAge>0时条目写入后超过该时长视为未命中，限制多实例部署下
// 本地副本的陈旧窗口（跨实例失效只作用于Redis层）。
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	maxAge   time.Duration
	entries  map[string]*lruEntry
	now      func() time.Time // 可注入时钟，测试用
}

// NewLRUCache 创建不带过期的LRU缓存
func NewLRUCache(capacity int) *LRUCache {
	return NewLRUCacheWithTTL(capacity, 0)
}

// NewLRUCacheWithTTL 创建带条目最大存活时间的LRU缓存，maxAge为0表示不过期
func NewLRUCacheWithTTL(capacity int, maxAge time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 10
	}
	return &LRUCache{
		capacity: capacity,
		maxAge:   maxAge,
		entries:  make(map[string]*lruEntry, capacity),
		now:      time.Now,
	}
}

// Get 读取并刷新访问时间，返回值和是否命中；过期条目按未命中处理并删除
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && c.now().Sub(entry.storedAt) > c.maxAge {
		delete(c.entries, key)
		return nil, false
	}
	entry.lastAccess = c.now()
	return entry.value, true
}

// Put 写入条目，容量满时先淘汰最久未访问的条目
func (c *LRUCache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	now := c.now()
	c.entries[key] = &lruEntry{value: value, storedAt: now, lastAccess: now}
}

// Len 当前条目数量
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear 清空缓存
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*lruEntry, c.capacity)
}

// evictLocked 淘汰最近最久未访问的条目（调用方持锁）
func (c *LRUCache) evictLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = entry.lastAccess
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
