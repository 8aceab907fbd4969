package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/work"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// app 命令行使用的用例集合
type app struct {
	storeOpenLibBooks *appbook.StoreOpenLibBooksUseCase
	createBook        *appbook.CreateBookUseCase
	listBooks         *appbook.ListBooksUseCase
	searchBooks       *appbook.SearchBooksUseCase
	deleteBook        *appbook.DeleteBookUseCase

	closers []func() error
}

// newApp 手动组装依赖
// 与HTTP服务一样,redis/mq启用时写操作会失效缓存并发布事件
func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := gormdb.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{}
	a.closers = append(a.closers, closeDB(db))

	var cache appbook.ViewCache = appbook.NoopCache{}
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		cache = redis.NewViewCache(client, cfg.Redis.CacheTTL)
	}

	var publisher appbook.EventPublisher = appbook.NoopPublisher{}
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		publisher = p
	}

	txManager := gormdb.NewTxManager(db)
	bookService := book.NewService(gormdb.NewBookRepository(db))
	authorService := author.NewService(gormdb.NewAuthorRepository(db))
	workService := work.NewService(gormdb.NewWorkRepository(db))

	importer := appbook.NewImportBookUseCase(bookService, authorService, workService, txManager, cache, publisher, logger)
	a.storeOpenLibBooks = appbook.NewStoreOpenLibBooksUseCase(openlibrary.NewClient(cfg.OpenLibrary), importer, logger)
	a.createBook = appbook.NewCreateBookUseCase(importer)
	a.listBooks = appbook.NewListBooksUseCase(bookService, cache, logger)
	a.searchBooks = appbook.NewSearchBooksUseCase(bookService, cache, logger)
	a.deleteBook = appbook.NewDeleteBookUseCase(bookService, authorService, workService, txManager, cache, publisher, logger)
	return a, nil
}

// close 逆序释放资源
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func closeDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}
