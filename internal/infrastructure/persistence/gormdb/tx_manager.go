package gormdb

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有仓储操作都在同一事务中执行:fn返回error时ROLLBACK,返回nil时COMMIT
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if _, err := authorService.Resolve(ctx, "A1", "Name1"); err != nil {
//	        return err // 自动回滚
//	    }
//	    return bookService.Register(ctx, b, []string{"A1"}, nil)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已在事务中时直接复用外层事务DB
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.Transaction(func(inner *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, inner))
		})
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// conn 从context获取事务DB,如果没有则使用默认DB
// 所有仓储方法都必须经过它,否则会绕开调用方的事务
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
