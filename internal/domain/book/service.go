package book

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装图书与边表之间的一致性规则(去重、孤儿判定)
// 2. 不开启事务:调用方(应用层)负责把多个调用放进同一个事务
type Service interface {
	// EnsureAbsent 图书ID尚未入库时返回nil,已存在返回DuplicateBookError
	EnsureAbsent(ctx context.Context, id string) error

	// Register 持久化图书并建立作者/作品边
	// 业务规则:
	// - 作者/作品必须已经存在(由对应的Resolve保证)
	// - 同一载荷中重复的作者/作品ID只建一条边
	Register(ctx context.Context, book *Book, authorIDs, workIDs []string) error

	// Detach 删除图书及其所有边,返回因此变成"零图书"的作者/作品ID
	// 孤儿的删除由调用方在同一事务内完成
	Detach(ctx context.Context, id string) (*Detached, error)

	// Search 查询图书视图,条件为空时返回全部
	Search(ctx context.Context, q Query) ([]View, error)
}

// Detached Detach的结果
type Detached struct {
	Book            *Book
	AuthorIDs       []string // 删除前关联的全部作者
	WorkIDs         []string // 删除前关联的全部作品
	OrphanAuthorIDs []string // 已不再关联任何图书的作者
	OrphanWorkIDs   []string // 已不再关联任何图书的作品
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// EnsureAbsent 检查图书是否已存在
func (s *service) EnsureAbsent(ctx context.Context, id string) error {
	_, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return DuplicateBookError(id)
	case errors.Is(err, ErrBookNotFound):
		return nil
	default:
		return err
	}
}

// Register 创建图书并连边
func (s *service) Register(ctx context.Context, book *Book, authorIDs, workIDs []string) error {
	if err := s.repo.Create(ctx, book); err != nil {
		if errors.Is(err, ErrDuplicateBook) {
			return DuplicateBookError(book.ID)
		}
		return err
	}

	for _, authorID := range lo.Uniq(authorIDs) {
		if err := s.repo.LinkAuthor(ctx, book.ID, authorID); err != nil {
			return err
		}
	}
	for _, workID := range lo.Uniq(workIDs) {
		if err := s.repo.LinkWork(ctx, book.ID, workID); err != nil {
			return err
		}
	}
	return nil
}

// Detach 删除图书与边,并找出孤儿
// 步骤:
// 1. 查询图书(不存在返回ErrBookNotFound)
// 2. 逐个删除作者边,删除后该作者图书数为0则记为孤儿
// 3. 作品同理
// 4. 删除图书本身
func (s *service) Detach(ctx context.Context, id string) (*Detached, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	authorIDs, err := s.repo.AuthorIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	workIDs, err := s.repo.WorkIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &Detached{
		Book:            b,
		AuthorIDs:       authorIDs,
		WorkIDs:         workIDs,
		OrphanAuthorIDs: []string{},
		OrphanWorkIDs:   []string{},
	}

	for _, authorID := range authorIDs {
		if err := s.repo.UnlinkAuthor(ctx, id, authorID); err != nil {
			return nil, err
		}
		remaining, err := s.repo.CountByAuthor(ctx, authorID)
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			result.OrphanAuthorIDs = append(result.OrphanAuthorIDs, authorID)
		}
	}

	for _, workID := range workIDs {
		if err := s.repo.UnlinkWork(ctx, id, workID); err != nil {
			return nil, err
		}
		remaining, err := s.repo.CountByWork(ctx, workID)
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			result.OrphanWorkIDs = append(result.OrphanWorkIDs, workID)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return result, nil
}

// Search 查询图书视图
func (s *service) Search(ctx context.Context, q Query) ([]View, error) {
	return s.repo.Search(ctx, q)
}
