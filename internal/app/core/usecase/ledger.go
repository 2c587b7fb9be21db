package usecase

import (
	"context"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
// 每個異動都是原子操作，失敗時不會留下部分狀態，成功回傳前已完成持久化
type Ledger interface {
	// CreateAccount 開戶
	CreateAccount(ctx context.Context, key domain.AccountKey, name string, initial int64) (*domain.Account, error)
	// GetBalance 取得帳戶餘額
	GetBalance(ctx context.Context, key domain.AccountKey) (int64, error)
	// Debit 扣款，回傳異動後餘額
	Debit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error)
	// Credit 存款，回傳異動後餘額
	Credit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error)
	// SetBalance 直接覆寫餘額
	SetBalance(ctx context.Context, key domain.AccountKey, amount int64) (int64, error)
	// Transfer 轉帳 (先扣後存)
	Transfer(ctx context.Context, from, to domain.AccountKey, amount int64) error
	// Settle 拉霸結算：餘額 - stake + award 一次寫入
	Settle(ctx context.Context, key domain.AccountKey, stake, award int64) (int64, error)
	// CanSpend 餘額是否足夠，不回傳錯誤
	CanSpend(ctx context.Context, key domain.AccountKey, amount int64) bool
	// Accounts 取得社群內所有帳戶 (依餘額排序)
	Accounts(ctx context.Context, community string) ([]*domain.Account, error)
	// LoadAllAccounts 載入所有帳戶
	LoadAllAccounts(ctx context.Context) (domain.Book, error)
}

// SettingsStore 社群設定儲存
type SettingsStore interface {
	// Get 取得社群設定，不存在時回傳預設值
	Get(ctx context.Context, community string) (domain.Settings, error)
	// Update 修改社群設定並持久化，fn 回傳錯誤時不做任何修改
	Update(ctx context.Context, community string, fn func(*domain.Settings) error) (domain.Settings, error)
}
