package memtable

import (
	"context"
	"math/rand"
	"time"
)

// ============================================================================
// 模拟数据库
// ============================================================================
//
// 用内存表模拟一个同步的存储引擎：每次读写都随机休眠一小段时间，
// 模拟真实数据库的 IO 延迟。没有任何持久化，进程退出数据即丢失。
//
// 事务语义：WithinTx 往 context 里塞一个回滚日志，表的写操作在应用变更前
// 先登记撤销动作；fn 返回错误时按逆序执行撤销，保证余额、流水、事件
// 要么一起生效，要么一起消失。不同用户的事务互不阻塞（上层已经按用户加锁，
// 同一行不会有并发变更）。

const (
	DefaultSelectDelay = 200 * time.Millisecond
	DefaultWriteDelay  = 300 * time.Millisecond
)

// Store 内存模拟库，聚合三张表并提供事务单元
type Store struct {
	points    *UserPointTable
	histories *PointHistoryTable
	outbox    *OutboxTable
}

// NewStore 创建模拟库
// selectDelay / writeDelay 是延迟上限，实际每次操作随机休眠 [0, 上限)；
// 传 0 可以关掉延迟（测试用）
func NewStore(selectDelay, writeDelay time.Duration) *Store {
	return &Store{
		points:    NewUserPointTable(selectDelay, writeDelay),
		histories: NewPointHistoryTable(selectDelay, writeDelay),
		outbox:    NewOutboxTable(),
	}
}

func (s *Store) Points() *UserPointTable { return s.points }

func (s *Store) Histories() *PointHistoryTable { return s.histories }

func (s *Store) Outbox() *OutboxTable { return s.outbox }

type txKey struct{}

// memTx 事务回滚日志
type memTx struct {
	undo []func()
}

func (t *memTx) add(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
}

// WithinTx 实现 repository.TxManager
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func txFrom(ctx context.Context) *memTx {
	tx, _ := ctx.Value(txKey{}).(*memTx)
	return tx
}

// throttle 模拟存储引擎的随机延迟
func throttle(max time.Duration) {
	if max <= 0 {
		return
	}
	time.Sleep(time.Duration(rand.Int63n(int64(max))))
}
