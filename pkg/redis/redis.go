package redis

import (
	"context"
	"fmt"
	"sync"

	"MatchServer/config"

	"github.com/redis/go-redis/v9"
)

var (
	global   *redis.Client
	globalMu sync.RWMutex
)

// Client 返回全局 Redis 客户端（未初始化时为 nil）。
func Client() *redis.Client {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// ReplaceGlobal 替换全局 Redis 客户端。
func ReplaceGlobal(c *redis.Client) {
	globalMu.Lock()
	global = c
	globalMu.Unlock()
}

// Build 创建 Redis 客户端并 Ping 一次，失败时关闭连接。
func Build(cfg config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return c, nil
}
