package book

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// StoreOpenLibBooksUseCase 从OpenLibrary批量导入
// 设计说明:
// 1. 每个编号是独立的单元:抓取 → 校验 → 导入,互不影响
// 2. 任何失败(抓取失败、缺字段、重复、存储错误)都只记为该编号被跳过
// 3. 顺序处理,不并发抓取
type StoreOpenLibBooksUseCase struct {
	source   CatalogSource
	importer *ImportBookUseCase
	logger   *zap.Logger
}

// NewStoreOpenLibBooksUseCase 创建批量导入用例
func NewStoreOpenLibBooksUseCase(source CatalogSource, importer *ImportBookUseCase, logger *zap.Logger) *StoreOpenLibBooksUseCase {
	return &StoreOpenLibBooksUseCase{
		source:   source,
		importer: importer,
		logger:   logger,
	}
}

// StoreOpenLibBooksRequest 批量导入请求
type StoreOpenLibBooksRequest struct {
	Codes []string // OpenLibrary版本编号,如OL7353617M
}

// SkippedBook 被跳过的编号及原因
type SkippedBook struct {
	Code   string
	Reason string
}

// StoreOpenLibBooksResponse 批量导入结果
type StoreOpenLibBooksResponse struct {
	Added   []string
	Skipped []SkippedBook
}

// Execute 执行批量导入,本身不返回错误
func (uc *StoreOpenLibBooksUseCase) Execute(ctx context.Context, req StoreOpenLibBooksRequest) *StoreOpenLibBooksResponse {
	ctx, span := tracing.StartSpan(ctx, tracerName, "StoreOpenLibBooks", attribute.Int("catalog.codes", len(req.Codes)))
	defer span.End()

	resp := &StoreOpenLibBooksResponse{
		Added:   []string{},
		Skipped: []SkippedBook{},
	}

	log := logger.WithTrace(ctx, uc.logger)
	for _, code := range req.Codes {
		if err := uc.storeOne(ctx, code); err != nil {
			reason := SkipReason(err)
			log.Info("openlibrary book skipped", zap.String("code", code), zap.String("reason", reason))
			resp.Skipped = append(resp.Skipped, SkippedBook{Code: code, Reason: reason})
			continue
		}
		resp.Added = append(resp.Added, code)
	}

	span.SetAttributes(
		attribute.Int("catalog.added", len(resp.Added)),
		attribute.Int("catalog.skipped", len(resp.Skipped)),
	)
	return resp
}

// storeOne 抓取一个编号并导入
func (uc *StoreOpenLibBooksUseCase) storeOne(ctx context.Context, code string) error {
	raw, err := uc.fetch(ctx, code)
	if err != nil {
		metrics.RecordBookImport(string(SourceOpenLibrary), err, 0)
		return err
	}
	_, err = uc.importer.Execute(ctx, *raw, SourceOpenLibrary)
	return err
}

// fetch 抓取版本以及它引用的作者、作品
// 缺少authors或works时不再继续抓取
func (uc *StoreOpenLibBooksUseCase) fetch(ctx context.Context, code string) (*RawBook, error) {
	edition, err := uc.source.GetEdition(ctx, code)
	if err != nil {
		return nil, err
	}
	if edition.Authors == nil || edition.Works == nil {
		return nil, book.ErrMissingFields
	}

	// 同一本书里重复的引用只抓取一次
	authors := make(map[string]*openlibrary.Author)
	for _, key := range lo.Uniq(refKeys(edition.Authors)) {
		a, err := uc.source.GetAuthor(ctx, key)
		if err != nil {
			return nil, err
		}
		authors[key] = a
	}
	works := make(map[string]*openlibrary.Work)
	for _, key := range lo.Uniq(refKeys(edition.Works)) {
		w, err := uc.source.GetWork(ctx, key)
		if err != nil {
			return nil, err
		}
		works[key] = w
	}

	raw := &RawBook{
		Key:           edition.Key,
		Title:         edition.Title,
		NumberOfPages: edition.NumberOfPages,
		Authors:       make([]RawAuthor, 0, len(edition.Authors)),
		Works:         make([]RawWork, 0, len(edition.Works)),
	}
	// 缺少key的版本响应按请求编号补齐
	if raw.Key == "" {
		raw.Key = "/books/" + code
	}
	for _, ref := range edition.Authors {
		a := authors[ref.Key]
		raw.Authors = append(raw.Authors, RawAuthor{Key: fallback(a.Key, ref.Key), Name: a.Name})
	}
	for _, ref := range edition.Works {
		w := works[ref.Key]
		raw.Works = append(raw.Works, RawWork{Key: fallback(w.Key, ref.Key), Title: w.Title})
	}
	return raw, nil
}

// SkipReason 跳过原因:"Skipped because of: <错误提示>"
func SkipReason(err error) string {
	msg := err.Error()
	if apperrors.IsAppError(err) {
		msg = apperrors.GetAppError(err).Message
	}
	return fmt.Sprintf("Skipped because of: %s", msg)
}

func refKeys(refs []openlibrary.Ref) []string {
	return lo.Map(refs, func(r openlibrary.Ref, _ int) string { return r.Key })
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
