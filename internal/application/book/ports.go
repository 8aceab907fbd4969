package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
)

const tracerName = "catalog"

// CatalogSource 外部书目数据源(OpenLibrary客户端实现)
type CatalogSource interface {
	GetEdition(ctx context.Context, code string) (*openlibrary.Edition, error)
	GetAuthor(ctx context.Context, key string) (*openlibrary.Author, error)
	GetWork(ctx context.Context, key string) (*openlibrary.Work, error)
}

// ViewCache 图书视图缓存(Redis实现)
// 读失败时用例直接回源,写操作提交后整体失效
// Get返回读取时的缓存代数,未命中时原样传给Set;
// 其间发生过Invalidate的话,这次Set写入的结果不会再被读到
type ViewCache interface {
	Get(ctx context.Context, q book.Query) (views []book.View, generation int64, ok bool, err error)
	Set(ctx context.Context, q book.Query, generation int64, views []book.View) error
	Invalidate(ctx context.Context) error
}

// EventPublisher 领域事件发布(RabbitMQ实现)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NoopCache 未启用Redis时使用
type NoopCache struct{}

func (NoopCache) Get(context.Context, book.Query) ([]book.View, int64, bool, error) {
	return nil, 0, false, nil
}
func (NoopCache) Set(context.Context, book.Query, int64, []book.View) error { return nil }
func (NoopCache) Invalidate(context.Context) error                          { return nil }

// NoopPublisher 未启用MQ时使用,事件直接丢弃
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
