package repository

import (
	"context"
	"time"

	"pointledger/internal/model"
	"pointledger/pkg/idgen"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, userID int64, amount int64, txType string, createdAt time.Time) (*model.PointHistory, error) {
	history := &model.PointHistory{
		FlowNo:    idgen.GenerateFlowNo(),
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		CreatedAt: createdAt,
	}
	if err := dbFrom(ctx, r.db).WithContext(ctx).Create(history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *HistoryRepository) SelectAllByUserID(ctx context.Context, userID int64) ([]*model.PointHistory, error) {
	var histories []*model.PointHistory
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&histories).Error
	return histories, err
}
