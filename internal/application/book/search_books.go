package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// SearchBooksUseCase 按作者名/作品标题/最小页数查询
// 条件之间为AND;没有任何条件时返回全部图书("至少一个条件"由HTTP层负责)
type SearchBooksUseCase struct {
	bookService book.Service
	cache       ViewCache
	logger      *zap.Logger
}

// NewSearchBooksUseCase 创建条件查询用例
func NewSearchBooksUseCase(bookService book.Service, cache ViewCache, logger *zap.Logger) *SearchBooksUseCase {
	return &SearchBooksUseCase{
		bookService: bookService,
		cache:       cache,
		logger:      logger,
	}
}

// SearchBooksRequest 条件查询请求DTO
type SearchBooksRequest struct {
	Author   string // 作者名子串,不区分大小写
	Work     string // 作品标题子串,不区分大小写
	MinPages *int   // 页数下限(含)
}

// SearchBooksResponse 条件查询响应DTO
type SearchBooksResponse struct {
	Books []book.View `json:"books"`
}

// Execute 执行条件查询
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (resp *SearchBooksResponse, err error) {
	q := book.Query{
		AuthorName: req.Author,
		WorkTitle:  req.Work,
		MinPages:   req.MinPages,
	}
	if q.MinPages != nil && *q.MinPages < 0 {
		return nil, book.ErrInvalidPages
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "SearchBooks",
		attribute.String("catalog.author", q.AuthorName),
		attribute.String("catalog.work", q.WorkTitle),
	)
	defer func() { tracing.EndSpan(span, err) }()

	views, err := cachedSearch(ctx, uc.logger, uc.bookService, uc.cache, q)
	if err != nil {
		return nil, err
	}
	return &SearchBooksResponse{Books: views}, nil
}
