package repository

import (
	"context"
	"errors"

	"pointledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) *PointRepository {
	return &PointRepository{db: db}
}

func (r *PointRepository) SelectByID(ctx context.Context, userID int64) (*model.UserPoint, error) {
	var point model.UserPoint
	err := dbFrom(ctx, r.db).WithContext(ctx).Where("user_id = ?", userID).First(&point).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPointNotFound
		}
		return nil, err
	}
	return &point, nil
}

func (r *PointRepository) InsertOrUpdate(ctx context.Context, userID int64, point int64) (*model.UserPoint, error) {
	row := &model.UserPoint{
		UserID: userID,
		Point:  point,
	}

	err := dbFrom(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"point": point}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	return r.SelectByID(ctx, userID)
}
