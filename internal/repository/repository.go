package repository

import (
	"context"
	"errors"
	"time"

	"pointledger/internal/model"
)

var (
	ErrPointNotFound = errors.New("积分账户不存在")
)

// UserPointStore 积分余额表
// SelectByID 在记录不存在时返回 ErrPointNotFound，由调用方决定视为 0 还是报错
type UserPointStore interface {
	SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error)
	InsertOrUpdate(ctx context.Context, userID int64, point int64) (*model.UserPoint, error)
}

// PointHistoryStore 积分流水表，只追加
type PointHistoryStore interface {
	Insert(ctx context.Context, userID int64, amount int64, txType string, createdAt time.Time) (*model.PointHistory, error)
	SelectAllByUserID(ctx context.Context, userID int64) ([]*model.PointHistory, error)
}

// OutboxStore 发件箱
type OutboxStore interface {
	Create(ctx context.Context, msg *model.OutboxMessage) error
	GetPendingMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	IncrementRetryCount(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
}

// TxManager 把余额更新、流水追加、事件落库包进同一个提交单元
// fn 内的所有仓储调用要么一起提交，要么一起回滚
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
