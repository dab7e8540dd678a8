package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTxManager 基于 gorm 事务实现 TxManager
// 事务句柄通过 context 向下传递，仓储方法在事务内自动使用同一个连接
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom 取出 context 里的事务句柄，事务外退回基础连接
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base
}
