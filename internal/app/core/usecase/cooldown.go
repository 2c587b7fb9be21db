package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// CooldownStore 記錄每個帳戶最後一次拉霸的時間
type CooldownStore interface {
	// LastPlay 取得最後一次拉霸時間，沒有紀錄時 ok 為 false
	LastPlay(ctx context.Context, key domain.AccountKey) (at time.Time, ok bool, err error)
	// MarkPlay 記錄拉霸時間，ttl 後紀錄可以丟棄
	MarkPlay(ctx context.Context, key domain.AccountKey, at time.Time, ttl time.Duration) error
}

// Recorder 拉霸統計
type Recorder interface {
	ObservePlay(community string, mode domain.Mode, bid, award int64)
	ObserveOutcome(operation string, outcome domain.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) ObservePlay(string, domain.Mode, int64, int64) {}
func (nopRecorder) ObserveOutcome(string, domain.Outcome)         {}
