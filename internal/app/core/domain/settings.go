package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Settings 社群設定
type Settings struct {
	MinBid            int64         `yaml:"min_bid"`
	MaxBid            int64         `yaml:"max_bid"`
	Cooldown          time.Duration `yaml:"cooldown"`
	RegistrationBonus int64         `yaml:"registration_bonus"`
}

// DefaultSettings 預設社群設定
func DefaultSettings() Settings {
	return Settings{
		MinBid:            1,
		MaxBid:            999999999999999999,
		Cooldown:          0,
		RegistrationBonus: 0,
	}
}

// Validate 檢查設定值：不可為負數，最低押注不可大於最高押注
func (s Settings) Validate() error {
	if s.MinBid < 0 || s.MaxBid < 0 || s.Cooldown < 0 || s.RegistrationBonus < 0 {
		return ErrNegativeValue
	}
	if s.MinBid > s.MaxBid {
		return fmt.Errorf("%w: %d > %d", ErrInvalidSettings, s.MinBid, s.MaxBid)
	}
	return nil
}

// ValidBid 押注是否在 [MinBid, MaxBid] 範圍內
func (s Settings) ValidBid(bid int64) bool {
	return s.MinBid <= bid && bid <= s.MaxBid
}

// AdjustmentOp 餘額調整方式
type AdjustmentOp uint8

const (
	AdjustmentSet AdjustmentOp = iota
	AdjustmentDeposit
	AdjustmentWithdraw
)

// Adjustment 管理者調整餘額的參數
// "+N" 存入 N，"-N" 扣除 N，"N" 直接設為 N
type Adjustment struct {
	Op     AdjustmentOp
	Amount int64
}

// ParseAdjustment 解析餘額調整參數
func ParseAdjustment(arg string) (Adjustment, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Adjustment{}, ErrInvalidAdjustment
	}
	if arg[0] == '+' || arg[0] == '-' {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || n == 0 || !isDigits(arg[1:]) {
			return Adjustment{}, ErrInvalidAdjustment
		}
		if n < 0 {
			return Adjustment{Op: AdjustmentWithdraw, Amount: -n}, nil
		}
		return Adjustment{Op: AdjustmentDeposit, Amount: n}, nil
	}
	if !isDigits(arg) {
		return Adjustment{}, ErrInvalidAdjustment
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return Adjustment{}, ErrInvalidAdjustment
	}
	return Adjustment{Op: AdjustmentSet, Amount: n}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
