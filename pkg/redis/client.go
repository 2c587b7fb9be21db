package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config 定義 Redis 連線配置
type Config struct {
	Addr         []string      `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Enabled 是否有設定 Redis
func (c *Config) Enabled() bool {
	return len(c.Addr) > 0
}

// NewClient 建立並回傳 Redis 客戶端，連線失敗時回傳錯誤
//
// 參數:
//
//	cfg: Config - Redis 連線配置
//
// 回傳值:
//
//	redis.UniversalClient: 單機或叢集客戶端
//	error: ping 失敗時回傳錯誤
func NewClient(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		// 連線池設定
		PoolSize:        50,
		MinIdleConns:    10,
		PoolTimeout:     5 * time.Second,
		ConnMaxLifetime: 10 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
