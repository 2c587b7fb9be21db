package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
)

// keyPrefix 最後拉霸時間的 key 前綴
const keyPrefix = "slots:last:"

// CooldownStore 以 Redis 記錄最後拉霸時間，多個服務實例可以共用冷卻狀態
// 紀錄以冷卻時間作為 TTL，過期後自動消失
type CooldownStore struct {
	rdb redis.UniversalClient
}

func NewCooldownStore(rdb redis.UniversalClient) *CooldownStore {
	return &CooldownStore{rdb: rdb}
}

func cooldownKey(key domain.AccountKey) string {
	return keyPrefix + key.Community + ":" + key.Identity
}

// LastPlay 取得最後一次拉霸時間
func (c *CooldownStore) LastPlay(ctx context.Context, key domain.AccountKey) (time.Time, bool, error) {
	val, err := c.rdb.Get(ctx, cooldownKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis cooldown value %q: %w", val, err)
	}
	return time.UnixMilli(ms), true, nil
}

// MarkPlay 記錄拉霸時間，ttl <= 0 代表沒有冷卻時間，不需要記錄
func (c *CooldownStore) MarkPlay(ctx context.Context, key domain.AccountKey, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, cooldownKey(key), at.UnixMilli(), ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

var _ usecase.CooldownStore = (*CooldownStore)(nil)
