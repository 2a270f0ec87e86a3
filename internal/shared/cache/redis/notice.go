// Package redis 通知列表缓存操作
package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"school-portal/internal/shared/cache"
)

// GetNoticeList 读取通知列表缓存
func (s *Store) GetNoticeList(ctx context.Context) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, cache.KeyNoticeList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// SetNoticeList 写入通知列表缓存
func (s *Store) SetNoticeList(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, cache.KeyNoticeList, data, s.ttl).Err()
}

// InvalidateNotices 删除通知列表缓存
func (s *Store) InvalidateNotices(ctx context.Context) error {
	return s.client.Del(ctx, cache.KeyNoticeList).Err()
}
