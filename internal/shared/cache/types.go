// Package cache 缓存层类型定义
package cache

import (
	"time"
)

// ============================================================================
// Key 前缀和 TTL 常量
// ============================================================================

const (
	// KeyNoticeList 通知列表（整表 JSON）
	KeyNoticeList = "portal:notices:all"

	// TTLNoticeList 默认过期时间，写操作会主动失效
	TTLNoticeList = 5 * time.Minute
)
