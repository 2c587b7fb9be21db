package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-slot-bank/pkg/wal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	book: 帳戶資料
//	mu: Mutex 用於保護帳戶資料
//	processedTransactions: 已處理過的交易
//	wal: Write-Ahead Log 實例 (nil 代表純記憶體)
type MutexLedger struct {
	base
	book domain.Book
	mu   sync.RWMutex
	// 已處理過的交易
	processedTransactions map[uuid.UUID]time.Time
	// Write-Ahead Logging
	wal      *wal.WAL
	sequence uint64
	// 每次異動後的快照持久化 (可為 nil)
	snapshot func(book domain.Book) error
}

// MutexOption 定義了 MutexLedger 的配置選項函數
type MutexOption func(*MutexLedger)

// WithSnapshot 每次異動套用後呼叫 fn 持久化整份帳本
// fn 失敗時該筆異動會被還原，呼叫端收到錯誤
func WithSnapshot(fn func(book domain.Book) error) MutexOption {
	return func(m *MutexLedger) {
		m.snapshot = fn
	}
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	book: 初始帳戶資料 (可為 nil)
//	wal: Write-Ahead Log 實例 (可為 nil)
//	opts: 選項
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewMutexLedger(book domain.Book, wal *wal.WAL, opts ...MutexOption) (*MutexLedger, error) {
	if book == nil {
		book = make(domain.Book)
	}
	ledger := &MutexLedger{
		book:                  book,
		processedTransactions: make(map[uuid.UUID]time.Time),
		wal:                   wal,
	}
	for _, opt := range opts {
		opt(ledger)
	}
	ledger.base = base{post: ledger.post, read: ledger.read}
	if err := ledger.recoverFromWAL(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// recoverFromWAL 從 WAL 檔案恢復帳本狀態
// 只有 NewMutexLedger 呼叫，無需 Lock (單執行緒)
func (m *MutexLedger) recoverFromWAL() error {
	if m.wal == nil {
		return nil
	}
	now := time.Now()
	return m.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return fmt.Errorf("%w: wal: %v", domain.ErrStoreCorrupted, err)
		}
		if _, ok := m.processedTransactions[tran.TransactionID]; ok {
			return nil
		}
		if err := m.book.Apply(&tran); err != nil {
			return fmt.Errorf("%w: wal replay seq %d: %v", domain.ErrStoreCorrupted, tran.Sequence, err)
		}
		m.processedTransactions[tran.TransactionID] = now
		if tran.Sequence > m.sequence {
			m.sequence = tran.Sequence
		}
		return nil
	})
}

// PostTransaction 處理交易請求 (Mutex Lock)
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易請求物件
//
// 回傳:
//
//	error: 處理錯誤
func (m *MutexLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	_, err := m.post(tran)
	return err
}

func (m *MutexLedger) post(tran *domain.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.postTransactionInternal(tran)
}

func (m *MutexLedger) read(fn func(book domain.Book)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.book)
	return nil
}

// postTransactionInternal 執行交易核心邏輯
// 先檢查前置條件，通過後才寫入 WAL，最後套用到記憶體
func (m *MutexLedger) postTransactionInternal(tran *domain.Transaction) (int64, error) {
	if _, ok := m.processedTransactions[tran.TransactionID]; ok {
		return targetBalance(m.book, tran), nil
	}

	// 1. 前置條件檢查，失敗不留下任何紀錄
	if err := m.book.Check(tran); err != nil {
		return 0, err
	}

	// 2. 寫入 WAL (Critical Path)
	tran.Sequence = m.sequence + 1
	if m.wal != nil {
		if err := m.wal.Write(tran); err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
	}
	m.sequence = tran.Sequence

	// 3. 套用到記憶體
	var undo []*domain.Account
	if m.snapshot != nil {
		undo = capture(m.book, tran)
	}
	if err := m.book.Apply(tran); err != nil {
		return 0, err
	}

	// 4. 快照持久化，失敗則還原
	if m.snapshot != nil {
		if err := m.snapshot(m.book); err != nil {
			restore(m.book, tran, undo)
			return 0, err
		}
	}
	m.processedTransactions[tran.TransactionID] = time.Now()
	return targetBalance(m.book, tran), nil
}

// capture 複製交易涉及的帳戶，不存在的帳戶記為 nil
func capture(book domain.Book, tran *domain.Transaction) []*domain.Account {
	keys := tran.GetLockIDs()
	undo := make([]*domain.Account, len(keys))
	for i, key := range keys {
		if account, ok := book[key]; ok {
			undo[i] = account.Clone()
		}
	}
	return undo
}

// restore 將帳戶還原為 capture 時的狀態
func restore(book domain.Book, tran *domain.Transaction, undo []*domain.Account) {
	for i, key := range tran.GetLockIDs() {
		if undo[i] == nil {
			delete(book, key)
			continue
		}
		book[key] = undo[i]
	}
}

var _ usecase.Ledger = (*MutexLedger)(nil)
