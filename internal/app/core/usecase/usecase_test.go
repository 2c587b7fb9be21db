package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
)

var (
	alice = domain.AccountKey{Community: "guild", Identity: "alice"}
	bob   = domain.AccountKey{Community: "guild", Identity: "bob"}
	carol = domain.AccountKey{Community: "guild", Identity: "carol"}
	ghost = domain.AccountKey{Community: "guild", Identity: "ghost"}
)

// fixedRNG 不洗牌也不旋轉，盤面固定為圖案的原始順序:
//
//	cherries wild wild wild cherries
//	medal cherries cherries cherries medal
//	flc medal medal medal flc
type fixedRNG struct{}

func (fixedRNG) IntN(n int) int              { return n / 2 }
func (fixedRNG) Shuffle(int, func(i, j int)) {}

// countingRecorder 記錄結果代碼
type countingRecorder struct {
	mu       sync.Mutex
	plays    int
	outcomes map[string]map[domain.Outcome]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: make(map[string]map[domain.Outcome]int)}
}

func (r *countingRecorder) ObservePlay(string, domain.Mode, int64, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays++
}

func (r *countingRecorder) ObserveOutcome(op string, o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes[op] == nil {
		r.outcomes[op] = make(map[domain.Outcome]int)
	}
	r.outcomes[op][o]++
}

type fixture struct {
	ledger   *memory.MutexLedger
	settings *memory.SettingsStore
	bank     *usecase.BankUseCase
	slots    *usecase.SlotsUseCase
	core     *usecase.CoreUseCase
	recorder *countingRecorder
	now      time.Time
}

func newFixture(t *testing.T, settings domain.Settings, rng domain.RNG) *fixture {
	t.Helper()
	ledger, err := memory.NewMutexLedger(nil, nil)
	if err != nil {
		t.Fatalf("NewMutexLedger: %v", err)
	}
	f := &fixture{
		ledger:   ledger,
		settings: memory.NewSettingsStore(settings),
		recorder: newCountingRecorder(),
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.bank = usecase.NewBankUseCase(ledger, f.settings, f.recorder, zap.NewNop())
	f.slots, err = usecase.NewSlotsUseCase(ledger, f.settings, memory.NewCooldownStore(),
		domain.NewPaytable(nil),
		domain.ClassicMachine(),
		usecase.WithRNG(rng),
		usecase.WithClock(func() time.Time { return f.now }),
		usecase.WithRecorder(f.recorder),
		usecase.WithLogger(zap.NewNop()),
	)
	if err != nil {
		t.Fatalf("NewSlotsUseCase: %v", err)
	}
	f.core = usecase.NewCoreUseCase(f.bank, f.slots)
	return f
}

func (f *fixture) register(t *testing.T, key domain.AccountKey, balance int64) {
	t.Helper()
	if _, err := f.core.Register(context.Background(), key, key.Identity); err != nil {
		t.Fatalf("register %s: %v", key, err)
	}
	if _, err := f.ledger.SetBalance(context.Background(), key, balance); err != nil {
		t.Fatalf("set balance %s: %v", key, err)
	}
}
