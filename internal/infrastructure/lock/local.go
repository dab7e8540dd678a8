package lock

import (
	"context"
	"sync"
)

// ============================================================================
// 进程内按用户加锁
// ============================================================================
//
// 【为什么不用一把全局锁？】
//
// 全局锁会让所有用户的操作串行：用户A在充值时，用户B的请求也得排队。
// 按用户各自一把锁，不同用户可以并发，同一用户的操作严格串行 —— 这正是
// 余额读-改-写需要的互斥粒度。
//
// 【为什么要回收锁条目？】
//
// 用户ID是无界的，每见过一个用户就永久留一把锁，表会无限增长。
// 这里给每把锁记引用数（持有者 + 等待者），归零时把条目从表里删掉，
// 表的大小只跟"此刻正在争用的用户数"相关。
//
// 【竞态要点】
//
// 查表和建锁必须在同一个临界区里完成：两个 goroutine 同时为一个新用户
// 加锁时，不能各自建出一把锁然后都"成功"。refs 的增减也都在表锁内，
// 保证引用数和表项的一致。

// LocalLockManager 进程内的用户锁表
type LocalLockManager struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int // 持有者 + 等待者
}

func NewLocalLockManager() *LocalLockManager {
	return &LocalLockManager{
		locks: make(map[int64]*userLock),
	}
}

func (m *LocalLockManager) Lock(ctx context.Context, userID int64) error {
	m.mu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return nil
}

func (m *LocalLockManager) Unlock(ctx context.Context, userID int64) {
	m.mu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		m.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, userID)
	}
	m.mu.Unlock()

	l.mu.Unlock()
}

// Size 当前锁表里的条目数，测试用
func (m *LocalLockManager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
