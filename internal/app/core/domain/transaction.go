package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType 交易類型
// 為了節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 開戶
	TransactionTypeOpen TransactionType = 1
	// 存款
	TransactionTypeDeposit TransactionType = 2
	// 提款
	TransactionTypeWithdraw TransactionType = 3
	// 覆寫餘額
	TransactionTypeSet TransactionType = 4
	// 轉帳
	TransactionTypeTransfer TransactionType = 5
	// 拉霸結算 (扣押注加派彩)
	TransactionTypeSettle TransactionType = 6
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeOpen:
		return "open"
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	case TransactionTypeSet:
		return "set"
	case TransactionTypeTransfer:
		return "transfer"
	case TransactionTypeSettle:
		return "settle"
	}
	return "unknown"
}

// Transaction 一筆帳本異動
//
// 單帳戶操作的目標帳戶：Withdraw/Settle 使用 From，Open/Deposit/Set 使用 To
type Transaction struct {
	// Sequence: 帳本分配的順序號，用於 WAL 重放
	Sequence uint64 `json:"seq"`
	// From, To: 帳戶
	From AccountKey `json:"from"`
	To   AccountKey `json:"to"`
	// Amount: 金額 (Settle 時為押注)
	Amount int64 `json:"amount"`
	// Award: Settle 的派彩金額
	Award int64 `json:"award,omitempty"`
	// Name: 開戶時的顯示名稱
	Name string `json:"name,omitempty"`
	// CreatedAt: 交易時間 (UnixNano)
	CreatedAt int64 `json:"created_at"`
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID       `json:"id"`
	Type          TransactionType `json:"type"`
}

// NewTransaction 建立帶有新 UUID 與時間戳的交易
func NewTransaction(t TransactionType) *Transaction {
	return &Transaction{
		TransactionID: uuid.New(),
		Type:          t,
		CreatedAt:     time.Now().UnixNano(),
	}
}

// Target 單帳戶操作的目標帳戶
func (t *Transaction) Target() AccountKey {
	switch t.Type {
	case TransactionTypeWithdraw, TransactionTypeSettle:
		return t.From
	}
	return t.To
}

// GetLockIDs 回傳需要鎖定的帳戶，並確保順序以避免死鎖
func (t *Transaction) GetLockIDs() (ids []AccountKey) {
	ids = make([]AccountKey, 0, 2)
	if t.Type != TransactionTypeTransfer {
		return append(ids, t.Target())
	}
	if lessKey(t.From, t.To) {
		return append(ids, t.From, t.To)
	}
	return append(ids, t.To, t.From)
}

func lessKey(a, b AccountKey) bool {
	if a.Community != b.Community {
		return a.Community < b.Community
	}
	return a.Identity < b.Identity
}

// Validate 檢查與帳戶狀態無關的前置條件
func (t *Transaction) Validate() error {
	if t.Type == TransactionTypeTransfer && t.From == t.To {
		return ErrSameSenderAndReceiver
	}
	if t.Amount < 0 || t.Award < 0 {
		return ErrNegativeValue
	}
	return nil
}
