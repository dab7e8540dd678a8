package memtable

import (
	"context"
	"sync"
	"time"

	"pointledger/internal/model"
	"pointledger/pkg/idgen"
)

// PointHistoryTable 积分流水的内存表，只追加，按插入顺序保存
type PointHistoryTable struct {
	mu          sync.RWMutex
	rows        []model.PointHistory
	cursor      int64
	selectDelay time.Duration
	writeDelay  time.Duration
}

func NewPointHistoryTable(selectDelay, writeDelay time.Duration) *PointHistoryTable {
	return &PointHistoryTable{
		selectDelay: selectDelay,
		writeDelay:  writeDelay,
	}
}

func (t *PointHistoryTable) Insert(ctx context.Context, userID int64, amount int64, txType string, createdAt time.Time) (*model.PointHistory, error) {
	throttle(t.writeDelay)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor++
	row := model.PointHistory{
		ID:        t.cursor,
		FlowNo:    idgen.GenerateFlowNo(),
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		CreatedAt: createdAt,
	}
	t.rows = append(t.rows, row)

	// 回滚时按ID摘掉这条流水，cursor 不回退，ID 保持单调递增
	if tx := txFrom(ctx); tx != nil {
		id := row.ID
		tx.add(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i := len(t.rows) - 1; i >= 0; i-- {
				if t.rows[i].ID == id {
					t.rows = append(t.rows[:i], t.rows[i+1:]...)
					break
				}
			}
		})
	}

	out := row
	return &out, nil
}

func (t *PointHistoryTable) SelectAllByUserID(ctx context.Context, userID int64) ([]*model.PointHistory, error) {
	throttle(t.selectDelay)

	t.mu.RLock()
	defer t.mu.RUnlock()

	histories := make([]*model.PointHistory, 0)
	for i := range t.rows {
		if t.rows[i].UserID == userID {
			row := t.rows[i]
			histories = append(histories, &row)
		}
	}
	return histories, nil
}
