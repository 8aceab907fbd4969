package author

import (
	"context"
)

// Repository 作者仓储接口
// 实现必须参与调用方的事务
type Repository interface {
	// FindByID 不存在返回ErrAuthorNotFound
	FindByID(ctx context.Context, id string) (*Author, error)

	// Create 插入作者
	Create(ctx context.Context, a *Author) error

	// Delete 删除作者,调用方需保证已经没有图书关联它
	Delete(ctx context.Context, id string) error
}
