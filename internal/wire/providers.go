// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/infrastructure/persistence/memory"
	"journal-cover-ai-api/internal/infrastructure/persistence/redis"
	"journal-cover-ai-api/internal/interfaces/http/middleware"
	"journal-cover-ai-api/pkg/logger"
)

// ProvideSessionStore 提供内存会话存储
func ProvideSessionStore(cfg *config.Config) (*memory.SessionStore, func()) {
	store := memory.NewSessionStore(memory.Options{
		TTL:           cfg.Session.TTL,
		SweepInterval: cfg.Session.SweepInterval,
	})
	cleanup := func() {
		store.Close()
	}
	return store, cleanup
}

// ProvideRedisClientOptional 提供 Redis 客户端
// 限流未启用、未配置地址或连接失败时返回 nil，不阻塞启动
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Security.RateLimit.Enabled || cfg.Cache.Redis.Host == "" {
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiterOptional 提供限流器，Redis 不可用时为 nil
func ProvideRateLimiterOptional(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideExportConfig 提供导出配置
func ProvideExportConfig(cfg *config.Config) config.ExportConfig {
	return cfg.Export
}
