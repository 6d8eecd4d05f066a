package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はイベントごとの残チケット数キャッシュを管理する
// 表示用のベストエフォートな読み取りであり、古い値が返ることは許容される
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetRemainingCount はイベントの残チケット数をキャッシュから取得する
func (c *AvailabilityCache) GetRemainingCount(ctx context.Context, eventID string) (int, error) {
	key := c.remainingCountKey(eventID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetRemainingCount はイベントの残チケット数をキャッシュに保存する
func (c *AvailabilityCache) SetRemainingCount(ctx context.Context, eventID string, count int, ttl time.Duration) error {
	key := c.remainingCountKey(eventID)
	err := c.client.Set(ctx, key, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID string) error {
	key := c.remainingCountKey(eventID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) remainingCountKey(eventID string) string {
	return fmt.Sprintf("tickets:remaining:%s", eventID)
}
