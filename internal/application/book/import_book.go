package book

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/work"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// SourceKind 载荷来源,决定ID的提取方式
type SourceKind string

const (
	// SourceOpenLibrary ID嵌在key路径里,取最后一段:/books/OL1M → OL1M
	SourceOpenLibrary SourceKind = "openlibrary"
	// SourceDirect 调用方直接给出id字段
	SourceDirect SourceKind = "direct"
)

// RawAuthor 载荷中的作者条目
type RawAuthor struct {
	Key  string
	ID   string
	Name string
}

// RawWork 载荷中的作品条目
type RawWork struct {
	Key   string
	ID    string
	Title string
}

// RawBook 待导入的图书载荷
// Authors/Works为nil表示载荷里缺少该字段,空切片是合法的
type RawBook struct {
	Key           string
	ID            string
	Title         string
	NumberOfPages *int
	Authors       []RawAuthor
	Works         []RawWork
}

// ImportBookUseCase 图书导入用例(两种来源共用)
// 设计说明:
// 1. 校验在任何存储访问之前完成,不合法的载荷整体拒绝
// 2. 查重、解析作者/作品、创建图书、连边全部在一个事务中,失败整体回滚
// 3. 提交之后才失效缓存、发布事件
type ImportBookUseCase struct {
	bookService   book.Service
	authorService author.Service
	workService   work.Service
	txManager     *gormdb.TxManager
	cache         ViewCache
	publisher     EventPublisher
	logger        *zap.Logger
}

// NewImportBookUseCase 创建导入用例
func NewImportBookUseCase(
	bookService book.Service,
	authorService author.Service,
	workService work.Service,
	txManager *gormdb.TxManager,
	cache ViewCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *ImportBookUseCase {
	return &ImportBookUseCase{
		bookService:   bookService,
		authorService: authorService,
		workService:   workService,
		txManager:     txManager,
		cache:         cache,
		publisher:     publisher,
		logger:        logger,
	}
}

// Execute 导入一本书,返回图书ID
// 可能的错误:ErrMissingFields、ErrInvalidPages、ErrDuplicateBook、存储错误
func (uc *ImportBookUseCase) Execute(ctx context.Context, raw RawBook, source SourceKind) (id string, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "ImportBook", attribute.String("catalog.source", string(source)))
	defer func() {
		metrics.RecordBookImport(string(source), err, time.Since(start))
		tracing.EndSpan(span, err)
	}()

	// 1. 校验并提取ID(不访问存储)
	b, authors, works, err := normalize(raw, source)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("catalog.book_id", b.ID))

	authorIDs := lo.Map(authors, func(a RawAuthor, _ int) string { return a.ID })
	workIDs := lo.Map(works, func(w RawWork, _ int) string { return w.ID })

	// 2. 单事务完成查重、解析、创建、连边
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.bookService.EnsureAbsent(txCtx, b.ID); err != nil {
			return err
		}
		for _, a := range authors {
			if _, err := uc.authorService.Resolve(txCtx, a.ID, a.Name); err != nil {
				return err
			}
		}
		for _, w := range works {
			if _, err := uc.workService.Resolve(txCtx, w.ID, w.Title); err != nil {
				return err
			}
		}
		return uc.bookService.Register(txCtx, b, authorIDs, workIDs)
	})
	if err != nil {
		return "", err
	}

	// 3. 提交后收尾
	afterCommit(ctx, uc.logger, uc.cache, uc.publisher, RoutingKeyBookImported, BookImportedEvent{
		BookID:     b.ID,
		Source:     string(source),
		AuthorIDs:  lo.Uniq(authorIDs),
		WorkIDs:    lo.Uniq(workIDs),
		OccurredAt: time.Now().UTC(),
	})

	return b.ID, nil
}

// normalize 校验载荷并按来源提取所有ID
// 同一载荷里重复出现的作者/作品只保留第一次
func normalize(raw RawBook, source SourceKind) (*book.Book, []RawAuthor, []RawWork, error) {
	if raw.Authors == nil || raw.Works == nil {
		return nil, nil, nil, book.ErrMissingFields
	}

	b, err := book.NewBook(identity(source, raw.Key, raw.ID), raw.Title, raw.NumberOfPages)
	if err != nil {
		return nil, nil, nil, err
	}

	authors := make([]RawAuthor, 0, len(raw.Authors))
	for _, a := range raw.Authors {
		a.ID = identity(source, a.Key, a.ID)
		if blank(a.ID) || blank(a.Name) {
			return nil, nil, nil, book.ErrMissingFields
		}
		authors = append(authors, a)
	}

	works := make([]RawWork, 0, len(raw.Works))
	for _, w := range raw.Works {
		w.ID = identity(source, w.Key, w.ID)
		if blank(w.ID) || blank(w.Title) {
			return nil, nil, nil, book.ErrMissingFields
		}
		works = append(works, w)
	}

	authors = lo.UniqBy(authors, func(a RawAuthor) string { return a.ID })
	works = lo.UniqBy(works, func(w RawWork) string { return w.ID })
	return b, authors, works, nil
}

// identity 按来源提取ID
func identity(source SourceKind, key, id string) string {
	if source == SourceOpenLibrary {
		return lastSegment(key)
	}
	return id
}

// lastSegment /authors/OL23919A → OL23919A
func lastSegment(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
