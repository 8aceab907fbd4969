package author

import (
	"context"
	"errors"
)

// Service 作者领域服务
type Service interface {
	// Resolve 按ID返回已有作者,不存在则用给定名称创建
	// 已有作者的名称不会被覆盖(先写者胜)
	Resolve(ctx context.Context, id, name string) (*Author, error)

	// Remove 删除作者
	Remove(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService 创建作者领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Resolve(ctx context.Context, id, name string) (*Author, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrAuthorNotFound) {
		return nil, err
	}

	a, err := NewAuthor(id, name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
