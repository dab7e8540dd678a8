package service

import (
	"errors"
	"fmt"
)

// 错误分类：
//   ValidationError        —— 入参问题，调用方可修正
//   ErrPointNotFound       —— 从未充值的用户发起扣减
//   InsufficientPointError —— 余额不够本次扣减，消息里带当前余额
// 存储层错误原样向上传递，不在这里重试

var ErrPointNotFound = errors.New("积分账户不存在")

// ValidationError 入参校验失败
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError 判断是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientPointError 余额不足
type InsufficientPointError struct {
	Current   int64 // 当前余额
	Requested int64 // 本次要扣减的积分
}

func (e *InsufficientPointError) Error() string {
	return fmt.Sprintf("积分不足，当前余额: %d", e.Current)
}

// IsInsufficientPointError 判断是否为余额不足
func IsInsufficientPointError(err error) bool {
	var ie *InsufficientPointError
	return errors.As(err, &ie)
}
