package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/pkg/logger"
)

// 事件路由键
const (
	RoutingKeyBookImported = "book.imported"
	RoutingKeyBookDeleted  = "book.deleted"
)

// BookImportedEvent 图书入库事件
type BookImportedEvent struct {
	BookID     string    `json:"book_id"`
	Source     string    `json:"source"`
	AuthorIDs  []string  `json:"author_ids"`
	WorkIDs    []string  `json:"work_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookDeletedEvent 图书删除事件,带上被级联回收的作者/作品
type BookDeletedEvent struct {
	BookID             string    `json:"book_id"`
	CollectedAuthorIDs []string  `json:"collected_author_ids"`
	CollectedWorkIDs   []string  `json:"collected_work_ids"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// afterCommit 事务提交后的收尾:失效缓存、发布事件
// 两者失败都只记日志,数据已经提交,不能再回滚
func afterCommit(ctx context.Context, log *zap.Logger, cache ViewCache, publisher EventPublisher, routingKey string, event interface{}) {
	if err := cache.Invalidate(ctx); err != nil {
		logger.WithTrace(ctx, log).Warn("invalidate view cache failed", zap.Error(err))
	}
	if err := publisher.Publish(ctx, routingKey, event); err != nil {
		logger.WithTrace(ctx, log).Warn("publish event failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
