package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/work"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetEdition(ctx context.Context, code string) (*openlibrary.Edition, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Edition), args.Error(1)
}

func (m *mockSource) GetAuthor(ctx context.Context, key string) (*openlibrary.Author, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Author), args.Error(1)
}

func (m *mockSource) GetWork(ctx context.Context, key string) (*openlibrary.Work, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Work), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, q book.Query) ([]book.View, int64, bool, error) {
	args := m.Called(ctx, q)
	views, _ := args.Get(0).([]book.View)
	gen, _ := args.Get(1).(int64)
	return views, gen, args.Bool(2), args.Error(3)
}

func (m *mockCache) Set(ctx context.Context, q book.Query, generation int64, views []book.View) error {
	return m.Called(ctx, q, generation, views).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// testEnv 内存SQLite上的完整用例装配
type testEnv struct {
	db        *gorm.DB
	books     book.Service
	importer  *ImportBookUseCase
	creator   *CreateBookUseCase
	deleter   *DeleteBookUseCase
	lister    *ListBooksUseCase
	searcher  *SearchBooksUseCase
	publisher *mockPublisher
	logger    *zap.Logger
}

func newTestEnv(t *testing.T, cache ViewCache) *testEnv {
	t.Helper()
	db, err := gormdb.NewDB(&config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			DSN:             ":memory:",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if cache == nil {
		cache = NoopCache{}
	}
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	txManager := gormdb.NewTxManager(db)
	bookService := book.NewService(gormdb.NewBookRepository(db))
	authorService := author.NewService(gormdb.NewAuthorRepository(db))
	workService := work.NewService(gormdb.NewWorkRepository(db))

	logger := zaptest.NewLogger(t)

	importer := NewImportBookUseCase(bookService, authorService, workService, txManager, cache, publisher, logger)
	return &testEnv{
		db:        db,
		books:     bookService,
		importer:  importer,
		creator:   NewCreateBookUseCase(importer),
		deleter:   NewDeleteBookUseCase(bookService, authorService, workService, txManager, cache, publisher, logger),
		lister:    NewListBooksUseCase(bookService, cache, logger),
		searcher:  NewSearchBooksUseCase(bookService, cache, logger),
		publisher: publisher,
		logger:    logger,
	}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func intPtr(n int) *int { return &n }
