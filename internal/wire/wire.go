//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"journal-cover-ai-api/internal/application/export"
	"journal-cover-ai-api/internal/application/layout"
	"journal-cover-ai-api/internal/application/pipeline"
	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/application/resolver"
	"journal-cover-ai-api/internal/application/session"
	"journal-cover-ai-api/internal/config"
	"journal-cover-ai-api/internal/domain/repository"
	"journal-cover-ai-api/internal/infrastructure/crossref"
	"journal-cover-ai-api/internal/infrastructure/gemini"
	"journal-cover-ai-api/internal/infrastructure/imaging"
	"journal-cover-ai-api/internal/infrastructure/persistence/memory"
	"journal-cover-ai-api/internal/interfaces/http/handler"
	"journal-cover-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StoreSet,
		BackendSet,
		DirectorySet,
		RedisSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// StoreSet 会话存储提供者集合
var StoreSet = wire.NewSet(
	ProvideSessionStore,
	wire.Bind(new(repository.SessionRepository), new(*memory.SessionStore)),
)

// BackendSet 生成后端提供者集合
var BackendSet = wire.NewSet(
	gemini.NewClient,
	wire.Bind(new(port.GenerativeBackend), new(*gemini.Client)),
)

// DirectorySet 文献目录提供者集合
var DirectorySet = wire.NewSet(
	crossref.NewClient,
	wire.Bind(new(port.ArticleDirectory), new(*crossref.Client)),
)

// RedisSet Redis 提供者集合（限流未启用或连接失败时为 nil）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiterOptional,
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	imaging.NewCompositor,
	ProvideExportConfig,
	session.NewService,
	resolver.NewService,
	pipeline.NewService,
	layout.NewService,
	export.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewSessionHandler,
	handler.NewResolveHandler,
	handler.NewGenerateHandler,
	handler.NewLayoutHandler,
	handler.NewExportHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
