package book

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/work"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// DeleteBookUseCase 删除图书并级联回收孤儿作者/作品
// 流程(单事务):
//  1. 删除图书的全部边,找出因此不再关联任何图书的作者/作品
//  2. 删除这些孤儿
//  3. 删除图书本身
//
// 任何一步失败整体回滚:图书和本该被回收的作者/作品保持原样
type DeleteBookUseCase struct {
	bookService   book.Service
	authorService author.Service
	workService   work.Service
	txManager     *gormdb.TxManager
	cache         ViewCache
	publisher     EventPublisher
	logger        *zap.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	bookService book.Service,
	authorService author.Service,
	workService work.Service,
	txManager *gormdb.TxManager,
	cache ViewCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService:   bookService,
		authorService: authorService,
		workService:   workService,
		txManager:     txManager,
		cache:         cache,
		publisher:     publisher,
		logger:        logger,
	}
}

// DeleteBookResponse 删除响应DTO
type DeleteBookResponse struct {
	ID                 string   `json:"id"`
	Message            string   `json:"success"`
	CollectedAuthorIDs []string `json:"collected_author_ids"`
	CollectedWorkIDs   []string `json:"collected_work_ids"`
}

// Execute 执行删除,图书不存在时返回book.ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id string) (resp *DeleteBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook", attribute.String("catalog.book_id", id))
	var detached *book.Detached
	defer func() {
		collectedAuthors, collectedWorks := 0, 0
		if err == nil {
			collectedAuthors, collectedWorks = len(detached.OrphanAuthorIDs), len(detached.OrphanWorkIDs)
		}
		metrics.RecordBookDelete(err, collectedAuthors, collectedWorks)
		tracing.EndSpan(span, err)
	}()

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		d, err := uc.bookService.Detach(txCtx, id)
		if err != nil {
			return err
		}
		for _, authorID := range d.OrphanAuthorIDs {
			if err := uc.authorService.Remove(txCtx, authorID); err != nil {
				return err
			}
		}
		for _, workID := range d.OrphanWorkIDs {
			if err := uc.workService.Remove(txCtx, workID); err != nil {
				return err
			}
		}
		detached = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	afterCommit(ctx, uc.logger, uc.cache, uc.publisher, RoutingKeyBookDeleted, BookDeletedEvent{
		BookID:             id,
		CollectedAuthorIDs: detached.OrphanAuthorIDs,
		CollectedWorkIDs:   detached.OrphanWorkIDs,
		OccurredAt:         time.Now().UTC(),
	})

	return &DeleteBookResponse{
		ID:                 id,
		Message:            fmt.Sprintf("Book %s was deleted successfully.", id),
		CollectedAuthorIDs: detached.OrphanAuthorIDs,
		CollectedWorkIDs:   detached.OrphanWorkIDs,
	}, nil
}
