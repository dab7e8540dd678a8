package memtable

import (
	"context"
	"errors"
	"testing"
	"time"

	"pointledger/internal/model"
	"pointledger/internal/repository"
)

func TestUserPointTable_SelectUnknownUser(t *testing.T) {
	store := NewStore(0, 0)

	_, err := store.Points().SelectByID(context.Background(), 1)
	if !errors.Is(err, repository.ErrPointNotFound) {
		t.Errorf("期望 ErrPointNotFound，实际 %v", err)
	}
}

func TestUserPointTable_InsertOrUpdate(t *testing.T) {
	store := NewStore(0, 0)
	ctx := context.Background()

	row, err := store.Points().InsertOrUpdate(ctx, 1, 100)
	if err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if row.UserID != 1 || row.Point != 100 {
		t.Errorf("期望 userID=1 point=100，实际 %d %d", row.UserID, row.Point)
	}

	// 同一用户再次写入是更新，不是新增
	row, err = store.Points().InsertOrUpdate(ctx, 1, 250)
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if row.Point != 250 {
		t.Errorf("更新后期望 250，实际 %d", row.Point)
	}
	if store.Points().Len() != 1 {
		t.Errorf("行数期望 1，实际 %d", store.Points().Len())
	}
}

func TestPointHistoryTable_InsertionOrderAndMonotonicIDs(t *testing.T) {
	store := NewStore(0, 0)
	ctx := context.Background()

	for _, amount := range []int64{100, 200, 300} {
		if _, err := store.Histories().Insert(ctx, 1, amount, model.TransactionTypeCharge, time.Now()); err != nil {
			t.Fatalf("写入流水失败: %v", err)
		}
	}
	// 其他用户的流水不应混进来
	if _, err := store.Histories().Insert(ctx, 2, 999, model.TransactionTypeCharge, time.Now()); err != nil {
		t.Fatalf("写入流水失败: %v", err)
	}

	histories, err := store.Histories().SelectAllByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("查询流水失败: %v", err)
	}
	if len(histories) != 3 {
		t.Fatalf("流水条数期望 3，实际 %d", len(histories))
	}
	for i, expected := range []int64{100, 200, 300} {
		if histories[i].Amount != expected {
			t.Errorf("第 %d 条流水金额期望 %d，实际 %d", i, expected, histories[i].Amount)
		}
		if i > 0 && histories[i].ID <= histories[i-1].ID {
			t.Errorf("流水ID必须单调递增: %d <= %d", histories[i].ID, histories[i-1].ID)
		}
	}
}

func TestWithinTx_RollsBackAllTables(t *testing.T) {
	store := NewStore(0, 0)
	ctx := context.Background()

	if _, err := store.Points().InsertOrUpdate(ctx, 1, 100); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	boom := errors.New("约束冲突")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := store.Points().InsertOrUpdate(ctx, 1, 500); err != nil {
			return err
		}
		if _, err := store.Histories().Insert(ctx, 1, 400, model.TransactionTypeCharge, time.Now()); err != nil {
			return err
		}
		if err := store.Outbox().Create(ctx, &model.OutboxMessage{MessageKey: "1", Topic: "t", Payload: "{}"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望透传事务内的错误，实际 %v", err)
	}

	// 三张表都要回到事务前的状态
	row, err := store.Points().SelectByID(ctx, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if row.Point != 100 {
		t.Errorf("回滚后余额期望 100，实际 %d", row.Point)
	}
	histories, _ := store.Histories().SelectAllByUserID(ctx, 1)
	if len(histories) != 0 {
		t.Errorf("回滚后流水应为空，实际 %d 条", len(histories))
	}
	events, _ := store.Outbox().GetPendingMessages(ctx, 10)
	if len(events) != 0 {
		t.Errorf("回滚后事件应为空，实际 %d 条", len(events))
	}
}

func TestWithinTx_CommitKeepsChanges(t *testing.T) {
	store := NewStore(0, 0)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := store.Points().InsertOrUpdate(ctx, 1, 300); err != nil {
			return err
		}
		_, err := store.Histories().Insert(ctx, 1, 300, model.TransactionTypeCharge, time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("事务失败: %v", err)
	}

	row, err := store.Points().SelectByID(ctx, 1)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if row.Point != 300 {
		t.Errorf("提交后余额期望 300，实际 %d", row.Point)
	}
}

func TestOutboxTable_StatusFlow(t *testing.T) {
	store := NewStore(0, 0)
	ctx := context.Background()

	msg := &model.OutboxMessage{MessageKey: "1", Topic: "point-event", Payload: "{}"}
	if err := store.Outbox().Create(ctx, msg); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	pending, _ := store.Outbox().GetPendingMessages(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("待投递期望 1 条，实际 %d", len(pending))
	}

	if err := store.Outbox().UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); err != nil {
		t.Fatalf("更新状态失败: %v", err)
	}
	pending, _ = store.Outbox().GetPendingMessages(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("投递后待投递期望 0 条，实际 %d", len(pending))
	}
}
