package gormdb

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 边表的增删都在这里,保证"图书→作者"与"作者→图书"始终是同一行数据
// 4. 查询条件用squirrel拼装,再交给gorm执行(占位符由gorm按方言改写)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		NumberOfPages: b.NumberOfPages,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrDuplicateBook
		}
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "创建图书失败")
	}
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Delete 删除图书(硬删除,边由调用方先行移除)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&BookModel{})
	if result.Error != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// LinkAuthor 添加图书-作者边,已存在时忽略
func (r *bookRepository) LinkAuthor(ctx context.Context, bookID, authorID string) error {
	edge := &BookAuthorModel{BookID: bookID, AuthorID: authorID}
	err := r.getDB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
	if err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "关联作者失败")
	}
	return nil
}

// UnlinkAuthor 删除图书-作者边
func (r *bookRepository) UnlinkAuthor(ctx context.Context, bookID, authorID string) error {
	err := r.getDB(ctx).
		Where("book_id = ? AND author_id = ?", bookID, authorID).
		Delete(&BookAuthorModel{}).Error
	if err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "解除作者关联失败")
	}
	return nil
}

// LinkWork 添加图书-作品边,已存在时忽略
func (r *bookRepository) LinkWork(ctx context.Context, bookID, workID string) error {
	edge := &BookWorkModel{BookID: bookID, WorkID: workID}
	err := r.getDB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
	if err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "关联作品失败")
	}
	return nil
}

// UnlinkWork 删除图书-作品边
func (r *bookRepository) UnlinkWork(ctx context.Context, bookID, workID string) error {
	err := r.getDB(ctx).
		Where("book_id = ? AND work_id = ?", bookID, workID).
		Delete(&BookWorkModel{}).Error
	if err != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "解除作品关联失败")
	}
	return nil
}

// AuthorIDs 图书关联的作者ID
func (r *bookRepository) AuthorIDs(ctx context.Context, bookID string) ([]string, error) {
	ids := []string{}
	err := r.getDB(ctx).Model(&BookAuthorModel{}).
		Where("book_id = ?", bookID).
		Order("author_id").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书作者失败")
	}
	return ids, nil
}

// WorkIDs 图书关联的作品ID
func (r *bookRepository) WorkIDs(ctx context.Context, bookID string) ([]string, error) {
	ids := []string{}
	err := r.getDB(ctx).Model(&BookWorkModel{}).
		Where("book_id = ?", bookID).
		Order("work_id").
		Pluck("work_id", &ids).Error
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书作品失败")
	}
	return ids, nil
}

// CountByAuthor 作者关联的图书数
func (r *bookRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.getDB(ctx).Model(&BookAuthorModel{}).Where("author_id = ?", authorID).Count(&n).Error
	if err != nil {
		return 0, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "统计作者图书失败")
	}
	return n, nil
}

// CountByWork 作品关联的图书数
func (r *bookRepository) CountByWork(ctx context.Context, workID string) (int64, error) {
	var n int64
	err := r.getDB(ctx).Model(&BookWorkModel{}).Where("work_id = ?", workID).Count(&n).Error
	if err != nil {
		return 0, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "统计作品图书失败")
	}
	return n, nil
}

// Search 按条件查询图书视图
// 分两步:
// 1. 用squirrel拼出 SELECT DISTINCT b.id ... 得到命中的图书ID(按作者/作品JOIN可能产生多行,DISTINCT去重)
// 2. 按ID批量加载图书、全部作者、全部作品,组装成视图
func (r *bookRepository) Search(ctx context.Context, q book.Query) ([]book.View, error) {
	db := r.getDB(ctx)

	query, args, err := buildSearchQuery(q).ToSql()
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "构建查询失败")
	}

	ids := []string{}
	if err := db.Raw(query, args...).Scan(&ids).Error; err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书失败")
	}
	if len(ids) == 0 {
		return []book.View{}, nil
	}

	return r.loadViews(db, ids)
}

// buildSearchQuery 构建命中ID查询,条件之间为AND
func buildSearchQuery(q book.Query) sq.SelectBuilder {
	sb := sq.Select("b.id").Distinct().From("books b").OrderBy("b.id")

	if q.AuthorName != "" {
		sb = sb.
			Join("book_authors ba ON ba.book_id = b.id").
			Join("authors a ON a.id = ba.author_id").
			Where("a.name_folded LIKE ? ESCAPE '!'", likePattern(q.AuthorName))
	}
	if q.WorkTitle != "" {
		sb = sb.
			Join("book_works bw ON bw.book_id = b.id").
			Join("works w ON w.id = bw.work_id").
			Where("w.title_folded LIKE ? ESCAPE '!'", likePattern(q.WorkTitle))
	}
	// NULL >= n 永远不成立,页数未知的图书自然被排除
	if q.MinPages != nil {
		sb = sb.Where(sq.GtOrEq{"b.number_of_pages": *q.MinPages})
	}
	return sb
}

type authorRow struct {
	BookID string
	ID     string
	Name   string
}

type workRow struct {
	BookID string
	ID     string
	Title  string
}

// viewBatchSize 单条IN语句携带的ID数上限
// SQLite默认最多32766个绑定参数,PostgreSQL最多65535个
var viewBatchSize = 500

// loadViews 按ID分批加载视图,避免N+1查询,也避免单条语句参数超限
// ids已按编号升序,逐批拼接后整体仍有序
func (r *bookRepository) loadViews(db *gorm.DB, ids []string) ([]book.View, error) {
	views := make([]book.View, 0, len(ids))
	for _, chunk := range lo.Chunk(ids, viewBatchSize) {
		batch, err := r.loadViewBatch(db, chunk)
		if err != nil {
			return nil, err
		}
		views = append(views, batch...)
	}
	return views, nil
}

func (r *bookRepository) loadViewBatch(db *gorm.DB, ids []string) ([]book.View, error) {
	var models []BookModel
	if err := db.Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书失败")
	}

	var authors []authorRow
	err := db.Table("book_authors AS ba").
		Select("ba.book_id AS book_id, a.id AS id, a.name AS name").
		Joins("JOIN authors a ON a.id = ba.author_id").
		Where("ba.book_id IN ?", ids).
		Order("a.id").
		Scan(&authors).Error
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书作者失败")
	}

	var works []workRow
	err = db.Table("book_works AS bw").
		Select("bw.book_id AS book_id, w.id AS id, w.title AS title").
		Joins("JOIN works w ON w.id = bw.work_id").
		Where("bw.book_id IN ?", ids).
		Order("w.id").
		Scan(&works).Error
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询图书作品失败")
	}

	authorsByBook := lo.GroupBy(authors, func(row authorRow) string { return row.BookID })
	worksByBook := lo.GroupBy(works, func(row workRow) string { return row.BookID })

	views := make([]book.View, 0, len(models))
	for _, m := range models {
		views = append(views, book.View{
			ID:    m.ID,
			Title: m.Title,
			Authors: lo.Map(authorsByBook[m.ID], func(row authorRow, _ int) book.AuthorRef {
				return book.AuthorRef{ID: row.ID, Name: row.Name}
			}),
			Works: lo.Map(worksByBook[m.ID], func(row workRow, _ int) book.WorkRef {
				return book.WorkRef{ID: row.ID, Title: row.Title}
			}),
			NumberOfPages: m.NumberOfPages,
		})
	}
	return views, nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		NumberOfPages: model.NumberOfPages,
	}
}

func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db)
}
