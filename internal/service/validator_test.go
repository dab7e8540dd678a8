package service

import (
	"strings"
	"testing"
)

func TestCheckUserID(t *testing.T) {
	v := NewPointValidator(100)

	for _, userID := range []int64{0, -1} {
		if err := v.CheckUserID(userID); !IsValidationError(err) {
			t.Errorf("userID=%d 期望校验错误，实际 %v", userID, err)
		}
	}
	if err := v.CheckUserID(1); err != nil {
		t.Errorf("userID=1 期望通过，实际 %v", err)
	}
}

func TestCheckChargeAmount(t *testing.T) {
	v := NewPointValidator(100)

	for _, amount := range []int64{0, -5} {
		if err := v.CheckChargeAmount(amount); !IsValidationError(err) {
			t.Errorf("amount=%d 期望校验错误，实际 %v", amount, err)
		}
	}
	if err := v.CheckChargeAmount(1); err != nil {
		t.Errorf("amount=1 期望通过，实际 %v", err)
	}
}

func TestCheckMinUse(t *testing.T) {
	v := NewPointValidator(100)

	if err := v.CheckMinUse(99); !IsValidationError(err) {
		t.Errorf("amount=99 期望校验错误，实际 %v", err)
	}
	if err := v.CheckMinUse(100); err != nil {
		t.Errorf("amount=100 期望通过，实际 %v", err)
	}
}

func TestCheckBalance(t *testing.T) {
	v := NewPointValidator(100)

	err := v.CheckBalance(100, 150)
	if !IsInsufficientPointError(err) {
		t.Fatalf("期望余额不足错误，实际 %v", err)
	}
	// 错误信息必须带上当前余额
	if !strings.Contains(err.Error(), "100") {
		t.Errorf("错误信息应包含当前余额 100，实际 %q", err.Error())
	}

	if err := v.CheckBalance(100, 100); err != nil {
		t.Errorf("余额刚好够用时期望通过，实际 %v", err)
	}
}
