package domain

import (
	"fmt"
	"math"
	"time"
)

// AccountKey 帳戶識別：一個社群內的一個使用者
type AccountKey struct {
	Community string `json:"community"`
	Identity  string `json:"identity"`
}

func (k AccountKey) String() string {
	return fmt.Sprintf("%s/%s", k.Community, k.Identity)
}

// Account 帳戶
type Account struct {
	Key       AccountKey
	Name      string
	Balance   int64
	CreatedAt time.Time
}

func NewAccount(key AccountKey, name string, balance int64, createdAt time.Time) *Account {
	return &Account{
		Key:       key,
		Name:      name,
		Balance:   balance,
		CreatedAt: createdAt,
	}
}

// Deposit 存款
func (a *Account) Deposit(amount int64) error {
	if amount < 0 {
		return ErrNegativeValue
	}
	if !a.CanReceive(amount) {
		return ErrBalanceOverflow
	}

	a.Balance = a.Balance + amount
	return nil
}

// Withdraw 提款
func (a *Account) Withdraw(amount int64) error {
	if amount < 0 {
		return ErrNegativeValue
	}

	if a.Balance < amount {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance - amount
	return nil
}

// Set 直接覆寫餘額
func (a *Account) Set(amount int64) error {
	if amount < 0 {
		return ErrNegativeValue
	}

	a.Balance = amount
	return nil
}

// Settle 結算一局：扣除押注並加上派彩，一次寫入
func (a *Account) Settle(stake, award int64) error {
	balance, err := a.settled(stake, award)
	if err != nil {
		return err
	}

	a.Balance = balance
	return nil
}

// settled 計算結算後的餘額，不修改帳戶
func (a *Account) settled(stake, award int64) (int64, error) {
	if stake < 0 || award < 0 {
		return 0, ErrNegativeValue
	}
	if a.Balance < stake {
		return 0, ErrInsufficientBalance
	}
	rest := a.Balance - stake
	if award > math.MaxInt64-rest {
		return 0, ErrBalanceOverflow
	}
	return rest + award, nil
}

// CanSpend 餘額是否足夠
func (a *Account) CanSpend(amount int64) bool {
	return amount >= 0 && a.Balance >= amount
}

// CanReceive 存入 amount 後餘額不會溢位
func (a *Account) CanReceive(amount int64) bool {
	return amount >= 0 && a.Balance <= math.MaxInt64-amount
}

// Clone 複製一份帳戶資料
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
