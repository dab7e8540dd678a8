package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"pointledger/internal/infrastructure/lock"
	"pointledger/internal/model"
	"pointledger/internal/repository"
)

// PointServiceConfig 业务开关
// 最低使用额度和"未充值用户能否扣减"在需求上有分歧，都做成可配置
type PointServiceConfig struct {
	EnforceMinUse          bool   // 是否启用单次最低使用额度
	AllowUseWithoutAccount bool   // 未充值用户扣减时，true=按0分处理，false=报账户不存在
	EventTopic             string // 积分变动事件的 Kafka topic
}

// PointService 积分核心服务
//
// 充值/使用的关键序列（必须在用户锁内完成）：
//
//	加锁 -> 校验 -> 读当前余额 -> 算新余额 -> [更新余额 + 追加流水 + 落事件]同一事务 -> 解锁
//
// 锁保证同一用户的变更严格串行；事务保证余额和流水不会出现只写了一半的状态。
// 服务从不跨调用缓存余额，每次变更都在锁内重读，避免拿旧值做决策。
type PointService struct {
	points    repository.UserPointStore
	histories repository.PointHistoryStore
	outbox    repository.OutboxStore
	tx        repository.TxManager
	locker    lock.UserLocker
	validator *PointValidator
	cfg       PointServiceConfig
}

func NewPointService(
	points repository.UserPointStore,
	histories repository.PointHistoryStore,
	outbox repository.OutboxStore,
	tx repository.TxManager,
	locker lock.UserLocker,
	validator *PointValidator,
	cfg PointServiceConfig,
) *PointService {
	return &PointService{
		points:    points,
		histories: histories,
		outbox:    outbox,
		tx:        tx,
		locker:    locker,
		validator: validator,
		cfg:       cfg,
	}
}

// GetPoint 查询用户当前积分
// 不加锁：读不需要和读互斥，和并发写赛跑时读到新值或旧值都可接受
func (s *PointService) GetPoint(ctx context.Context, userID int64) (*model.UserPoint, error) {
	if err := s.validator.CheckUserID(userID); err != nil {
		return nil, err
	}

	point, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPointNotFound) {
			// 首次充值前没有记录，查询按 0 分返回而不是报错
			return model.EmptyUserPoint(userID), nil
		}
		return nil, fmt.Errorf("查询积分失败: %w", err)
	}
	return point, nil
}

// GetHistories 查询用户的充值/使用流水，按插入顺序返回
func (s *PointService) GetHistories(ctx context.Context, userID int64) ([]*model.PointHistory, error) {
	if err := s.validator.CheckUserID(userID); err != nil {
		return nil, err
	}

	histories, err := s.histories.SelectAllByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询流水失败: %w", err)
	}
	return histories, nil
}

// Charge 给用户充值积分
func (s *PointService) Charge(ctx context.Context, userID int64, amount int64) (*model.UserPoint, error) {
	if err := s.locker.Lock(ctx, userID); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer s.locker.Unlock(ctx, userID)

	if err := s.validator.CheckUserID(userID); err != nil {
		return nil, err
	}
	if err := s.validator.CheckChargeAmount(amount); err != nil {
		return nil, err
	}

	current, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrPointNotFound) {
			return nil, fmt.Errorf("查询积分失败: %w", err)
		}
		// 首次充值：视为从 0 分开始
		current = model.EmptyUserPoint(userID)
	}

	newPoint := current.Point + amount

	var updated *model.UserPoint
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var txErr error
		updated, txErr = s.points.InsertOrUpdate(ctx, userID, newPoint)
		if txErr != nil {
			return fmt.Errorf("更新积分失败: %w", txErr)
		}

		// 流水记录本次变动的增量，不是变动后的总额
		if _, txErr = s.histories.Insert(ctx, userID, amount, model.TransactionTypeCharge, time.Now()); txErr != nil {
			return fmt.Errorf("记录流水失败: %w", txErr)
		}

		return s.appendEvent(ctx, userID, amount, model.TransactionTypeCharge, updated.Point)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PointService] 充值成功: userID=%d, amount=%d, balance=%d", userID, amount, updated.Point)
	return updated, nil
}

// Use 扣减用户积分
func (s *PointService) Use(ctx context.Context, userID int64, amount int64) (*model.UserPoint, error) {
	if err := s.locker.Lock(ctx, userID); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer s.locker.Unlock(ctx, userID)

	if err := s.validator.CheckUserID(userID); err != nil {
		return nil, err
	}
	if err := s.validator.CheckUseAmount(amount); err != nil {
		return nil, err
	}
	if s.cfg.EnforceMinUse {
		if err := s.validator.CheckMinUse(amount); err != nil {
			return nil, err
		}
	}

	current, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrPointNotFound) {
			return nil, fmt.Errorf("查询积分失败: %w", err)
		}
		if !s.cfg.AllowUseWithoutAccount {
			// 从未充值的用户发起扣减是错误，不隐式当成 0 分账户
			return nil, ErrPointNotFound
		}
		current = model.EmptyUserPoint(userID)
	}

	if err := s.validator.CheckBalance(current.Point, amount); err != nil {
		return nil, err
	}

	remaining := current.Point - amount

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, txErr := s.points.InsertOrUpdate(ctx, userID, remaining); txErr != nil {
			return fmt.Errorf("更新积分失败: %w", txErr)
		}

		if _, txErr := s.histories.Insert(ctx, userID, amount, model.TransactionTypeUse, time.Now()); txErr != nil {
			return fmt.Errorf("记录流水失败: %w", txErr)
		}

		return s.appendEvent(ctx, userID, amount, model.TransactionTypeUse, remaining)
	})
	if err != nil {
		return nil, err
	}

	// 返回重读后的落库值，而不是写入时算出来的值
	updated, err := s.points.SelectByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询积分失败: %w", err)
	}

	log.Printf("[PointService] 使用成功: userID=%d, amount=%d, balance=%d", userID, amount, updated.Point)
	return updated, nil
}

// appendEvent 把积分变动事件写进发件箱，随业务事务一起提交
func (s *PointService) appendEvent(ctx context.Context, userID, amount int64, txType string, balance int64) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id":     userID,
		"amount":      amount,
		"type":        txType,
		"balance":     balance,
		"occurred_at": time.Now().Format(time.RFC3339),
	})

	msg := &model.OutboxMessage{
		MessageKey: strconv.FormatInt(userID, 10),
		Topic:      s.cfg.EventTopic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, msg); err != nil {
		return fmt.Errorf("写入事件失败: %w", err)
	}
	return nil
}
