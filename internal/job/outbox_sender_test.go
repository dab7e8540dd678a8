package job

import (
	"context"
	"errors"
	"testing"

	"pointledger/internal/model"
	"pointledger/internal/repository/memtable"
)

func TestOutboxSender_SendsPendingMessages(t *testing.T) {
	store := memtable.NewStore(0, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Outbox().Create(ctx, &model.OutboxMessage{MessageKey: "1", Topic: "point-event", Payload: "{}"}); err != nil {
			t.Fatalf("写入事件失败: %v", err)
		}
	}

	var sent int
	sender := NewOutboxSender(store.Outbox(), 3)
	sender.send = func(topic, key, value string) error {
		sent++
		return nil
	}

	sender.processPendingMessages(ctx)

	if sent != 2 {
		t.Errorf("发送次数期望 2，实际 %d", sent)
	}
	pending, _ := store.Outbox().GetPendingMessages(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("投递后待投递期望 0 条，实际 %d", len(pending))
	}
}

func TestOutboxSender_MarksFailedAfterMaxRetry(t *testing.T) {
	store := memtable.NewStore(0, 0)
	ctx := context.Background()

	msg := &model.OutboxMessage{MessageKey: "1", Topic: "point-event", Payload: "{}"}
	if err := store.Outbox().Create(ctx, msg); err != nil {
		t.Fatalf("写入事件失败: %v", err)
	}

	sender := NewOutboxSender(store.Outbox(), 2)
	sender.send = func(topic, key, value string) error {
		return errors.New("broker 不可达")
	}

	// 第一轮：重试次数 0 -> 1，仍是 PENDING
	sender.processPendingMessages(ctx)
	pending, _ := store.Outbox().GetPendingMessages(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("第一轮后待投递期望 1 条，实际 %d", len(pending))
	}
	if pending[0].RetryCount != 1 {
		t.Errorf("第一轮后重试次数期望 1，实际 %d", pending[0].RetryCount)
	}

	// 第二轮：达到上限，标记 FAILED
	sender.processPendingMessages(ctx)
	pending, _ = store.Outbox().GetPendingMessages(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("达到上限后待投递期望 0 条，实际 %d", len(pending))
	}
}
