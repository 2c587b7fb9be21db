package memory

import (
	"context"
	"time"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// base 實作 usecase.Ledger 的所有操作，只依賴兩個原語：
//
//	post: 在臨界區內提交一筆交易，回傳目標帳戶異動後的餘額
//	read: 在臨界區內讀取帳本
//
// MutexLedger 與 LMAXLedger 分別以 Mutex 與單一事件迴圈提供這兩個原語
type base struct {
	post func(tran *domain.Transaction) (int64, error)
	read func(fn func(book domain.Book)) error
}

// CreateAccount 開戶
func (b *base) CreateAccount(ctx context.Context, key domain.AccountKey, name string, initial int64) (*domain.Account, error) {
	tran := domain.NewTransaction(domain.TransactionTypeOpen)
	tran.To = key
	tran.Name = name
	tran.Amount = initial
	if _, err := b.post(tran); err != nil {
		return nil, err
	}
	return domain.NewAccount(key, name, initial, time.Unix(0, tran.CreatedAt).UTC()), nil
}

// GetBalance 取得帳戶餘額
func (b *base) GetBalance(ctx context.Context, key domain.AccountKey) (balance int64, err error) {
	if readErr := b.read(func(book domain.Book) {
		balance, err = book.Balance(key)
	}); readErr != nil {
		return 0, readErr
	}
	return balance, err
}

// Debit 扣款
func (b *base) Debit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeWithdraw)
	tran.From = key
	tran.Amount = amount
	return b.post(tran)
}

// Credit 存款
func (b *base) Credit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeDeposit)
	tran.To = key
	tran.Amount = amount
	return b.post(tran)
}

// SetBalance 覆寫餘額
func (b *base) SetBalance(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeSet)
	tran.To = key
	tran.Amount = amount
	return b.post(tran)
}

// Transfer 轉帳
func (b *base) Transfer(ctx context.Context, from, to domain.AccountKey, amount int64) error {
	tran := domain.NewTransaction(domain.TransactionTypeTransfer)
	tran.From = from
	tran.To = to
	tran.Amount = amount
	_, err := b.post(tran)
	return err
}

// Settle 拉霸結算
func (b *base) Settle(ctx context.Context, key domain.AccountKey, stake, award int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeSettle)
	tran.From = key
	tran.Amount = stake
	tran.Award = award
	return b.post(tran)
}

// CanSpend 餘額是否足夠
func (b *base) CanSpend(ctx context.Context, key domain.AccountKey, amount int64) (ok bool) {
	err := b.read(func(book domain.Book) {
		account, found := book[key]
		ok = found && account.CanSpend(amount)
	})
	return err == nil && ok
}

// Accounts 社群內所有帳戶
func (b *base) Accounts(ctx context.Context, community string) (accounts []*domain.Account, err error) {
	err = b.read(func(book domain.Book) {
		accounts = book.Community(community)
	})
	return accounts, err
}

// LoadAllAccounts 回傳帳本的副本
func (b *base) LoadAllAccounts(ctx context.Context) (domain.Book, error) {
	out := make(domain.Book)
	err := b.read(func(book domain.Book) {
		for key, account := range book {
			out[key] = account.Clone()
		}
	})
	return out, err
}

// targetBalance 交易後目標帳戶的餘額 (轉帳回傳轉出帳戶)
func targetBalance(book domain.Book, tran *domain.Transaction) int64 {
	key := tran.Target()
	if tran.Type == domain.TransactionTypeTransfer {
		key = tran.From
	}
	if account, ok := book[key]; ok {
		return account.Balance
	}
	return 0
}
