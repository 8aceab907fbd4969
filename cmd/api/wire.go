//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/work"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
)

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、视图缓存、事件发布、外部书目服务
var infrastructureSet = wire.NewSet(
	provideDB,
	provideViewCache,
	provideEventPublisher,
	provideCatalogSource,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormdb.NewBookRepository,
	gormdb.NewAuthorRepository,
	gormdb.NewWorkRepository,
	gormdb.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	author.NewService,
	work.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewImportBookUseCase,
	appbook.NewStoreOpenLibBooksUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewDeleteBookUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
)

// InitializeApp 初始化整个应用
// logger由main创建后注入用例和中间件
// cleanup按创建的逆序关闭MQ、Redis、数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil, nil
}
