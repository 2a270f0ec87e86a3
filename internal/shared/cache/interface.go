// Package cache 缓存层抽象接口
//
// 提供通知列表的读穿缓存，当前由 Redis 实现；未配置 Redis 时使用 NoOpCache。
package cache

import (
	"context"
)

// ============================================================================
// 缓存接口定义
// ============================================================================

// NoticeCache 通知列表缓存接口
//
// 缓存内容是 /getAllNotices 的完整响应体，命中时原样返回。
type NoticeCache interface {
	// GetNoticeList 读取缓存，未命中返回 (nil, false, nil)
	GetNoticeList(ctx context.Context) ([]byte, bool, error)
	SetNoticeList(ctx context.Context, data []byte) error
	// InvalidateNotices 任何通知写操作成功后调用
	InvalidateNotices(ctx context.Context) error
	Close() error
}
