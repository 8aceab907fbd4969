package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/author"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// authorRepository 作者仓储实现
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

func (r *authorRepository) FindByID(ctx context.Context, id string) (*author.Author, error) {
	var model AuthorModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询作者失败")
	}
	return &author.Author{ID: model.ID, Name: model.Name}, nil
}

func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := &AuthorModel{ID: a.ID, Name: a.Name, NameFolded: foldCase(a.Name)}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.WrapCode(apperrors.ErrCodeDuplicateEntry, err, "作者已存在")
		}
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "创建作者失败")
	}
	return nil
}

func (r *authorRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&AuthorModel{})
	if result.Error != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, result.Error, "删除作者失败")
	}
	if result.RowsAffected == 0 {
		return author.ErrAuthorNotFound
	}
	return nil
}
