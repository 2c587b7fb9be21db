package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-slot-bank/pkg/wal"
)

// ErrLedgerStopped 事件迴圈已停止
var ErrLedgerStopped = errors.New("ledger event loop stopped")

// ledgerRequest 請求包裝 channel，讓呼叫端可以等待結果
// Tx 與 Read 擇一
type ledgerRequest struct {
	Tx      *domain.Transaction
	Read    func(book domain.Book)
	Balance int64
	Result  chan error // 讓呼叫端等這個 channel
}

// LMAXLedger 單一寫入者帳本：所有請求經由 channel 送進同一個 goroutine 依序處理，不需要鎖
type LMAXLedger struct {
	base
	book domain.Book
	// 已處理過的交易
	processedTransactions map[uuid.UUID]bool
	// Write-Ahead Logging
	wal      *wal.WAL
	sequence uint64
	// 輸送帶 負責接收請求
	requestChan chan *ledgerRequest
	// 迴圈結束後關閉
	done chan struct{}
	// Pool 減少 GC 壓力
	requestPool sync.Pool
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例，需呼叫 Start 才會開始處理
//
// 參數:
//
//	book: 初始帳戶資料 (可為 nil)
//	wal: Write-Ahead Log 實例 (可為 nil)
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
//	error: 初始化錯誤
func NewLMAXLedger(book domain.Book, wal *wal.WAL) (*LMAXLedger, error) {
	if book == nil {
		book = make(domain.Book)
	}
	ledger := &LMAXLedger{
		book:                  book,
		processedTransactions: make(map[uuid.UUID]bool),
		wal:                   wal,
		requestChan:           make(chan *ledgerRequest, 1000), // Buffer 1000
		done:                  make(chan struct{}),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &ledgerRequest{
					Result: make(chan error, 1),
				}
			},
		},
	}
	ledger.base = base{post: ledger.post, read: ledger.read}

	// 在啟動前先恢復資料
	if err := ledger.recoverFromWAL(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// recoverFromWAL 從 WAL 檔案恢復帳本狀態 (單執行緒，迴圈尚未啟動)
func (l *LMAXLedger) recoverFromWAL() error {
	if l.wal == nil {
		return nil
	}
	return l.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return fmt.Errorf("%w: wal: %v", domain.ErrStoreCorrupted, err)
		}
		if l.processedTransactions[tran.TransactionID] {
			return nil
		}
		if err := l.book.Apply(&tran); err != nil {
			return fmt.Errorf("%w: wal replay seq %d: %v", domain.ErrStoreCorrupted, tran.Sequence, err)
		}
		l.processedTransactions[tran.TransactionID] = true
		if tran.Sequence > l.sequence {
			l.sequence = tran.Sequence
		}
		return nil
	})
}

// PostTransaction 接收交易請求
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> WAL -> Map Update -> Result Channel -> PostTransaction(收到結果)
func (l *LMAXLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	_, err := l.post(tran)
	return err
}

func (l *LMAXLedger) post(tran *domain.Transaction) (int64, error) {
	req := l.acquire()
	req.Tx = tran
	err := l.submit(req)
	balance := req.Balance
	l.release(req)
	return balance, err
}

func (l *LMAXLedger) read(fn func(book domain.Book)) error {
	req := l.acquire()
	req.Read = fn
	err := l.submit(req)
	l.release(req)
	return err
}

func (l *LMAXLedger) acquire() *ledgerRequest {
	req := l.requestPool.Get().(*ledgerRequest)
	// 清空 Channel (理論上應該是空的)
	select {
	case <-req.Result:
	default:
	}
	return req
}

func (l *LMAXLedger) release(req *ledgerRequest) {
	req.Tx = nil
	req.Read = nil
	req.Balance = 0
	l.requestPool.Put(req)
}

// submit 放入輸送帶並等待結果
func (l *LMAXLedger) submit(req *ledgerRequest) error {
	select {
	case l.requestChan <- req:
	case <-l.done:
		return ErrLedgerStopped
	}
	select {
	case err := <-req.Result:
		return err
	case <-l.done:
		// 迴圈可能在結束前 (drain) 已處理完這筆
		select {
		case err := <-req.Result:
			return err
		default:
			return ErrLedgerStopped
		}
	}
}

// Start 啟動核心引擎 (非同步)，ctx 結束時處理完剩餘請求後停止
func (l *LMAXLedger) Start(ctx context.Context) {
	go l.run(ctx)
}

// Done 迴圈結束後關閉
func (l *LMAXLedger) Done() <-chan struct{} {
	return l.done
}

func (l *LMAXLedger) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，把剩下的請求處理完
			l.drain()
			return
		case req := <-l.requestChan:
			l.process(req)
		}
	}
}

func (l *LMAXLedger) drain() {
	for {
		select {
		case req := <-l.requestChan:
			l.process(req)
		default:
			return
		}
	}
}

// process 處理單筆請求並回傳結果
func (l *LMAXLedger) process(req *ledgerRequest) {
	if req.Read != nil {
		req.Read(l.book)
		req.Result <- nil
		return
	}
	balance, err := l.processTransaction(req.Tx)
	req.Balance = balance
	req.Result <- err
}

func (l *LMAXLedger) processTransaction(tran *domain.Transaction) (int64, error) {
	// 0. Idempotency Check (Thread Safe in Loop)
	if l.processedTransactions[tran.TransactionID] {
		return targetBalance(l.book, tran), nil
	}

	// 1. 前置條件檢查
	if err := l.book.Check(tran); err != nil {
		return 0, err
	}

	// 2. 寫入 WAL (Critical Path)
	tran.Sequence = l.sequence + 1
	if l.wal != nil {
		if err := l.wal.Write(tran); err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
	}
	l.sequence = tran.Sequence

	// 3. 執行業務邏輯
	if err := l.book.Apply(tran); err != nil {
		return 0, err
	}
	l.processedTransactions[tran.TransactionID] = true
	return targetBalance(l.book, tran), nil
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
