package memtable

import (
	"context"
	"sync"
	"time"

	"pointledger/internal/model"
)

// OutboxTable 发件箱的内存表
// 没有模拟延迟：发件箱不属于被模拟的业务表，只是单机模式下的事件缓冲
type OutboxTable struct {
	mu     sync.Mutex
	rows   []*model.OutboxMessage
	nextID int64
}

func NewOutboxTable() *OutboxTable {
	return &OutboxTable{}
}

func (t *OutboxTable) Create(ctx context.Context, msg *model.OutboxMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	msg.ID = t.nextID
	if msg.Status == "" {
		msg.Status = model.OutboxStatusPending
	}
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = msg.CreatedAt
	t.rows = append(t.rows, msg)

	if tx := txFrom(ctx); tx != nil {
		id := msg.ID
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
	return nil
}

func (t *OutboxTable) GetPendingMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	messages := make([]*model.OutboxMessage, 0)
	for _, row := range t.rows {
		if row.Status == model.OutboxStatusPending {
			copied := *row
			messages = append(messages, &copied)
			if len(messages) >= limit {
				break
			}
		}
	}
	return messages, nil
}

func (t *OutboxTable) UpdateStatus(ctx context.Context, id int64, status string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if row.ID == id {
			row.Status = status
			row.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (t *OutboxTable) IncrementRetryCount(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if row.ID == id {
			row.RetryCount++
			row.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (t *OutboxTable) MarkAsFailed(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if row.ID == id {
			row.Status = model.OutboxStatusFailed
			row.RetryCount++
			row.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}
