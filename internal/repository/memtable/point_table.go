package memtable

import (
	"context"
	"sync"
	"time"

	"pointledger/internal/model"
	"pointledger/internal/repository"
)

// UserPointTable 积分余额的内存表，按用户ID一行
type UserPointTable struct {
	mu          sync.RWMutex
	rows        map[int64]model.UserPoint
	nextID      int64
	selectDelay time.Duration
	writeDelay  time.Duration
}

func NewUserPointTable(selectDelay, writeDelay time.Duration) *UserPointTable {
	return &UserPointTable{
		rows:        make(map[int64]model.UserPoint),
		selectDelay: selectDelay,
		writeDelay:  writeDelay,
	}
}

func (t *UserPointTable) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	throttle(t.selectDelay)

	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[userID]
	if !ok {
		return nil, repository.ErrPointNotFound
	}
	return &row, nil
}

func (t *UserPointTable) InsertOrUpdate(ctx context.Context, userID int64, point int64) (*model.UserPoint, error) {
	throttle(t.writeDelay)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	prev, existed := t.rows[userID]

	row := prev
	if !existed {
		t.nextID++
		row = model.UserPoint{
			ID:        t.nextID,
			UserID:    userID,
			CreatedAt: now,
		}
	}
	row.Point = point
	row.UpdatedAt = now
	t.rows[userID] = row

	// 登记撤销动作：回滚时恢复旧行（或删掉新插入的行）
	if tx := txFrom(ctx); tx != nil {
		tx.add(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if existed {
				t.rows[userID] = prev
			} else {
				delete(t.rows, userID)
			}
		})
	}

	out := row
	return &out, nil
}

// Len 当前行数，测试用
func (t *UserPointTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
