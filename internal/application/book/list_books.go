package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// ListBooksUseCase 查询全部图书
// 设计说明:
// 1. 不分页(目录规模小,且接口约定返回全部)
// 2. 与条件查询共用缓存旁路逻辑
type ListBooksUseCase struct {
	bookService book.Service
	cache       ViewCache
	logger      *zap.Logger
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, cache ViewCache, logger *zap.Logger) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		cache:       cache,
		logger:      logger,
	}
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	Books []book.View `json:"books"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer func() { tracing.EndSpan(span, err) }()

	views, err := cachedSearch(ctx, uc.logger, uc.bookService, uc.cache, book.Query{})
	if err != nil {
		return nil, err
	}
	return &ListBooksResponse{Books: views}, nil
}

// cachedSearch 缓存旁路查询
// 缓存读写失败只记日志,结果以数据库为准
// 回写带上读缓存时拿到的代数,查库期间发生的失效会让这次回写作废
func cachedSearch(ctx context.Context, log *zap.Logger, svc book.Service, cache ViewCache, q book.Query) ([]book.View, error) {
	log = logger.WithTrace(ctx, log)

	views, gen, ok, cacheErr := cache.Get(ctx, q)
	if cacheErr != nil {
		log.Warn("view cache read failed", zap.Error(cacheErr))
	}
	if ok {
		return views, nil
	}

	views, err := svc.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []book.View{}
	}

	// 读失败时不知道当前代数,不回写
	if cacheErr != nil {
		return views, nil
	}
	if err := cache.Set(ctx, q, gen, views); err != nil {
		log.Warn("view cache write failed", zap.Error(err))
	}
	return views, nil
}
