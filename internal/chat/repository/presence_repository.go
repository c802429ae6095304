package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// presenceKey 每個場次一個在線人數 key
func presenceKey(showID string) string {
	return fmt.Sprintf("chat:presence:%s", showID)
}

// presenceTTL 人數 key 存活時間，場次結束後自動清掉
const presenceTTL = 24 * time.Hour

// PresenceRepository definition viewer presence counter
type PresenceRepository interface {
	// Join 進場 +1，回傳目前人數
	Join(ctx context.Context, showID string) (int64, error)
	// Leave 離場 -1，回傳目前人數
	Leave(ctx context.Context, showID string) (int64, error)
	// Count 查目前人數
	Count(ctx context.Context, showID string) (int64, error)
}

type redisPresenceRepository struct {
	client *redis.Client
}

// NewRedisPresenceRepository create a PresenceRepository
func NewRedisPresenceRepository(client *redis.Client) PresenceRepository {
	return &redisPresenceRepository{client: client}
}

func (r *redisPresenceRepository) Join(ctx context.Context, showID string) (int64, error) {
	key := presenceKey(showID)
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// 順手續 TTL，場次結束後 key 自己過期
	r.client.Expire(ctx, key, presenceTTL)
	return n, nil
}

// Leave 離場 -1，異常斷線造成的負數直接歸零
func (r *redisPresenceRepository) Leave(ctx context.Context, showID string) (int64, error) {
	key := presenceKey(showID)
	n, err := r.client.Decr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		r.client.Set(ctx, key, 0, presenceTTL)
		n = 0
	}
	return n, nil
}

func (r *redisPresenceRepository) Count(ctx context.Context, showID string) (int64, error) {
	n, err := r.client.Get(ctx, presenceKey(showID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
