package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/work"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// workRepository 作品仓储实现
type workRepository struct {
	db *gorm.DB
}

// NewWorkRepository 创建作品仓储
func NewWorkRepository(db *gorm.DB) work.Repository {
	return &workRepository{db: db}
}

func (r *workRepository) FindByID(ctx context.Context, id string) (*work.Work, error) {
	var model WorkModel
	err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, work.ErrWorkNotFound
		}
		return nil, apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "查询作品失败")
	}
	return &work.Work{ID: model.ID, Title: model.Title}, nil
}

func (r *workRepository) Create(ctx context.Context, w *work.Work) error {
	if err := conn(ctx, r.db).Create(&WorkModel{ID: w.ID, Title: w.Title, TitleFolded: foldCase(w.Title)}).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.WrapCode(apperrors.ErrCodeDuplicateEntry, err, "作品已存在")
		}
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, err, "创建作品失败")
	}
	return nil
}

func (r *workRepository) Delete(ctx context.Context, id string) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&WorkModel{})
	if result.Error != nil {
		return apperrors.WrapCode(apperrors.ErrCodeDatabaseError, result.Error, "删除作品失败")
	}
	if result.RowsAffected == 0 {
		return work.ErrWorkNotFound
	}
	return nil
}
