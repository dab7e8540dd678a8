package model

import (
	"time"
)

// UserPoint 用户积分表
// 每个用户一行，记录当前可用积分余额，是整个积分系统的核心数据
// 约束：point 永远 >= 0，任何写入提交前都必须校验
type UserPoint struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"user_id"` // 用户ID，业务方传入
	Point     int64     `gorm:"not null;default:0" json:"point"`     // 当前积分余额
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserPoint) TableName() string {
	return "user_point"
}

// EmptyUserPoint 返回某个用户的零余额记录
// 用户在首次充值前没有落库记录，查询时视为 0 分而不是报错
func EmptyUserPoint(userID int64) *UserPoint {
	return &UserPoint{
		UserID:    userID,
		Point:     0,
		UpdatedAt: time.Now(),
	}
}

// ============================================================================
// 积分流水
// ============================================================================

const (
	TransactionTypeCharge = "CHARGE" // 充值
	TransactionTypeUse    = "USE"    // 使用（扣减）
)

// PointHistory 积分流水表
// 记录每一笔积分变动，是对账的核心依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 按用户查询时保持插入顺序 —— 插入顺序即时间顺序
// 3. amount 记录本次变动的增量（正数），方向由 type 区分
type PointHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FlowNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"flow_no"` // 流水号（全局唯一）
	UserID    int64     `gorm:"index;not null" json:"user_id"`                        // 用户ID
	Amount    int64     `gorm:"not null" json:"amount"`                               // 变动积分（正数增量）
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`                // CHARGE / USE
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (PointHistory) TableName() string {
	return "point_history"
}
