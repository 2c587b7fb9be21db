package domain

import (
	"sort"
	"time"
)

// Book 記憶體中的帳戶集合，所有帳本實作共用的狀態機
// Book 本身不是執行緒安全的，由呼叫端負責鎖
type Book map[AccountKey]*Account

// Check 檢查交易能否套用，不修改任何狀態
func (b Book) Check(tran *Transaction) error {
	if err := tran.Validate(); err != nil {
		return err
	}
	switch tran.Type {
	case TransactionTypeOpen:
		if _, ok := b[tran.To]; ok {
			return ErrAccountAlreadyExists
		}
	case TransactionTypeSet:
		if _, ok := b[tran.To]; !ok {
			return ErrAccountNotFound
		}
	case TransactionTypeDeposit:
		to, ok := b[tran.To]
		if !ok {
			return ErrAccountNotFound
		}
		if !to.CanReceive(tran.Amount) {
			return ErrBalanceOverflow
		}
	case TransactionTypeWithdraw:
		from, ok := b[tran.From]
		if !ok {
			return ErrAccountNotFound
		}
		if !from.CanSpend(tran.Amount) {
			return ErrInsufficientBalance
		}
	case TransactionTypeSettle:
		from, ok := b[tran.From]
		if !ok {
			return ErrAccountNotFound
		}
		if _, err := from.settled(tran.Amount, tran.Award); err != nil {
			return err
		}
	case TransactionTypeTransfer:
		from, ok := b[tran.From]
		if !ok {
			return ErrAccountNotFound
		}
		to, ok := b[tran.To]
		if !ok {
			return ErrAccountNotFound
		}
		if !from.CanSpend(tran.Amount) {
			return ErrInsufficientBalance
		}
		if !to.CanReceive(tran.Amount) {
			return ErrBalanceOverflow
		}
	}
	return nil
}

// Apply 套用交易，呼叫前應先通過 Check
func (b Book) Apply(tran *Transaction) error {
	if err := b.Check(tran); err != nil {
		return err
	}
	switch tran.Type {
	case TransactionTypeOpen:
		b[tran.To] = NewAccount(tran.To, tran.Name, tran.Amount, time.Unix(0, tran.CreatedAt).UTC())
		return nil
	case TransactionTypeDeposit:
		return b[tran.To].Deposit(tran.Amount)
	case TransactionTypeSet:
		return b[tran.To].Set(tran.Amount)
	case TransactionTypeWithdraw:
		return b[tran.From].Withdraw(tran.Amount)
	case TransactionTypeSettle:
		return b[tran.From].Settle(tran.Amount, tran.Award)
	case TransactionTypeTransfer:
		if err := b[tran.From].Withdraw(tran.Amount); err != nil {
			return err
		}
		return b[tran.To].Deposit(tran.Amount)
	}
	return nil
}

// Balance 查詢餘額
func (b Book) Balance(key AccountKey) (int64, error) {
	account, ok := b[key]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return account.Balance, nil
}

// Community 回傳某社群所有帳戶的副本，依餘額由高到低排序
func (b Book) Community(community string) []*Account {
	out := make([]*Account, 0)
	for key, account := range b {
		if key.Community == community {
			out = append(out, account.Clone())
		}
	}
	SortByBalance(out)
	return out
}

// SortByBalance 依餘額由高到低排序，同額依名稱、識別碼
func SortByBalance(accounts []*Account) {
	sort.Slice(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if a.Balance != b.Balance {
			return a.Balance > b.Balance
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Key.Identity < b.Key.Identity
	})
}
