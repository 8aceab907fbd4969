package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 多对多关系通过显式的边表API维护:一条边同时代表"图书→作者"和"作者→图书"两个方向,
//    因此双向关系天然对称,实体之间不需要互相持有引用
// 3. 所有方法都要参与调用方的事务(实现从ctx中取事务DB)
type Repository interface {
	// Create 创建图书,id已存在时返回ErrDuplicateBook
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Delete 删除图书本身(不处理边),不存在返回ErrBookNotFound
	Delete(ctx context.Context, id string) error

	// LinkAuthor 添加图书-作者边(重复添加是幂等的)
	LinkAuthor(ctx context.Context, bookID, authorID string) error

	// UnlinkAuthor 删除图书-作者边
	UnlinkAuthor(ctx context.Context, bookID, authorID string) error

	// LinkWork 添加图书-作品边(重复添加是幂等的)
	LinkWork(ctx context.Context, bookID, workID string) error

	// UnlinkWork 删除图书-作品边
	UnlinkWork(ctx context.Context, bookID, workID string) error

	// AuthorIDs 图书关联的作者ID(按ID排序)
	AuthorIDs(ctx context.Context, bookID string) ([]string, error)

	// WorkIDs 图书关联的作品ID(按ID排序)
	WorkIDs(ctx context.Context, bookID string) ([]string, error)

	// CountByAuthor 作者当前关联的图书数
	CountByAuthor(ctx context.Context, authorID string) (int64, error)

	// CountByWork 作品当前关联的图书数
	CountByWork(ctx context.Context, workID string) (int64, error)

	// Search 按条件查询图书视图,结果按图书ID去重并排序
	// 条件为空时返回全部图书
	Search(ctx context.Context, q Query) ([]View, error)
}
