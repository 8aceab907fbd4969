package work

import (
	"context"
	"errors"
)

// Service 作品领域服务
type Service interface {
	// Resolve 按ID返回已有作品,不存在则创建(已有作品的标题不会被覆盖)
	Resolve(ctx context.Context, id, title string) (*Work, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService 创建作品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Resolve(ctx context.Context, id, title string) (*Work, error) {
	existing, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrWorkNotFound):
		return nil, err
	}

	w, err := NewWork(id, title)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
