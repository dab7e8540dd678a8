package service

// PointValidator 前置校验
// 全部是纯函数：不读存储、不碰锁，失败时返回 ValidationError
type PointValidator struct {
	minUsePoint int64
}

func NewPointValidator(minUsePoint int64) *PointValidator {
	return &PointValidator{minUsePoint: minUsePoint}
}

// CheckUserID 用户ID必须是正数
func (v *PointValidator) CheckUserID(userID int64) error {
	if userID <= 0 {
		return newValidationError("请输入有效的用户ID")
	}
	return nil
}

// CheckChargeAmount 充值积分必须大于0
func (v *PointValidator) CheckChargeAmount(amount int64) error {
	if amount <= 0 {
		return newValidationError("充值积分必须大于0")
	}
	return nil
}

// CheckUseAmount 使用积分必须大于0
func (v *PointValidator) CheckUseAmount(amount int64) error {
	if amount <= 0 {
		return newValidationError("使用积分必须大于0")
	}
	return nil
}

// CheckMinUse 单次使用不能低于最低额度
func (v *PointValidator) CheckMinUse(amount int64) error {
	if amount < v.minUsePoint {
		return newValidationError("单次最低使用 %d 积分", v.minUsePoint)
	}
	return nil
}

// CheckBalance 余额必须覆盖本次扣减
func (v *PointValidator) CheckBalance(current, requested int64) error {
	if current < requested {
		return &InsufficientPointError{Current: current, Requested: requested}
	}
	return nil
}
