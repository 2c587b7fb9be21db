package usecase

import (
	"context"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層，對外的指令介面
type CoreUseCase struct {
	bank  *BankUseCase
	slots *SlotsUseCase
}

func NewCoreUseCase(bank *BankUseCase, slots *SlotsUseCase) *CoreUseCase {
	return &CoreUseCase{
		bank:  bank,
		slots: slots,
	}
}

// Bank 銀行操作
func (c *CoreUseCase) Bank() *BankUseCase {
	return c.bank
}

// Slots 拉霸機
func (c *CoreUseCase) Slots() *SlotsUseCase {
	return c.slots
}

// Register 開戶
func (c *CoreUseCase) Register(ctx context.Context, key domain.AccountKey, name string) (*domain.Account, error) {
	return c.bank.Register(ctx, key, name)
}

// GetBalance 取得帳戶餘額
func (c *CoreUseCase) GetBalance(ctx context.Context, key domain.AccountKey) (int64, error) {
	return c.bank.Balance(ctx, key)
}

// Transfer 轉帳
func (c *CoreUseCase) Transfer(ctx context.Context, from, to domain.AccountKey, amount int64) (int64, error) {
	return c.bank.Transfer(ctx, from, to, amount)
}

// SetBalance 調整餘額
func (c *CoreUseCase) SetBalance(ctx context.Context, key domain.AccountKey, arg string) (int64, error) {
	return c.bank.SetBalance(ctx, key, arg)
}

// Leaderboard 排行榜
func (c *CoreUseCase) Leaderboard(ctx context.Context, community string, top int) ([]*domain.Account, error) {
	return c.bank.Leaderboard(ctx, community, top)
}

// Play 拉霸
func (c *CoreUseCase) Play(ctx context.Context, req PlayRequest) (*domain.PlayResult, error) {
	return c.slots.Play(ctx, req)
}
