// Package cache 缓存层 mock 实现
package cache

import (
	"context"
	"sync"
)

// ============================================================================
// NoOpCache - 空操作的 Cache 实现（未配置 Redis 时使用）
// ============================================================================

// NoOpCache 是一个不做任何操作的 NoticeCache 实现，永远未命中
type NoOpCache struct{}

// NewNoOpCache 创建 NoOpCache 实例
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetNoticeList(ctx context.Context) ([]byte, bool, error) {
	return nil, false, nil
}
func (c *NoOpCache) SetNoticeList(ctx context.Context, data []byte) error { return nil }
func (c *NoOpCache) InvalidateNotices(ctx context.Context) error          { return nil }
func (c *NoOpCache) Close() error                                         { return nil }

// ============================================================================
// MemoryCache - 进程内实现（用于测试）
// ============================================================================

// MemoryCache 进程内通知缓存，不过期
type MemoryCache struct {
	mu          sync.Mutex
	data        []byte
	ok          bool
	Invalidated int // InvalidateNotices 调用次数
}

// NewMemoryCache 创建 MemoryCache 实例
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) GetNoticeList(ctx context.Context) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok {
		return nil, false, nil
	}
	return append([]byte(nil), c.data...), true, nil
}

func (c *MemoryCache) SetNoticeList(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]byte(nil), data...)
	c.ok = true
	return nil
}

func (c *MemoryCache) InvalidateNotices(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.ok = false
	c.Invalidated++
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// 确保实现了 NoticeCache 接口
var (
	_ NoticeCache = (*NoOpCache)(nil)
	_ NoticeCache = (*MemoryCache)(nil)
)
