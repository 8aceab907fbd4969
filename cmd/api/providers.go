package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/xiebiao/bookcatalog/docs"
	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// provideDB 创建数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := gormdb.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

// provideViewCache redis.enabled=false时不缓存
func provideViewCache(cfg *config.Config) (appbook.ViewCache, func(), error) {
	if !cfg.Redis.Enabled {
		return appbook.NoopCache{}, func() {}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewViewCache(client, cfg.Redis.CacheTTL), func() { _ = client.Close() }, nil
}

// provideEventPublisher mq.enabled=false时事件直接丢弃
func provideEventPublisher(cfg *config.Config) (appbook.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return appbook.NoopPublisher{}, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { _ = publisher.Close() }, nil
}

// provideCatalogSource OpenLibrary客户端(限流 + 重试 + 熔断)
func provideCatalogSource(cfg *config.Config) appbook.CatalogSource {
	return openlibrary.NewClient(cfg.OpenLibrary)
}

// provideGinEngine 创建Gin引擎并注册中间件与路由
// 中间件顺序：panic恢复 → 请求ID → 链路追踪 → 指标 → 访问日志
func provideGinEngine(cfg *config.Config, logger *zap.Logger, bookHandler *handler.BookHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		middleware.Metrics(),
		middleware.AccessLog(logger),
	)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档：http://localhost:8080/swagger/index.html
	if cfg.Server.EnableDocs {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, bookHandler)
	return r
}
