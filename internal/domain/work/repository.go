package work

import (
	"context"
)

// Repository 作品仓储接口
type Repository interface {
	FindByID(ctx context.Context, id string) (*Work, error)
	Create(ctx context.Context, w *Work) error
	Delete(ctx context.Context, id string) error
}
