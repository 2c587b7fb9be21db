package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// multiLines 多線模式的派彩線數
const multiLines = 3

// PlayRequest 拉霸請求
type PlayRequest struct {
	Key domain.AccountKey
	// Bid 單線押注；多線模式實際扣款為 Bid * 3
	Bid  int64
	Mode domain.Mode
}

// SlotsUseCase 拉霸機
type SlotsUseCase struct {
	ledger    Ledger
	settings  SettingsStore
	cooldowns CooldownStore
	paytable  *domain.Paytable
	machine   domain.Machine

	rngMu sync.Mutex
	rng   domain.RNG

	now      func() time.Time
	recorder Recorder
	logger   *zap.Logger
}

// SlotsOption 定義了 SlotsUseCase 的配置選項函數
type SlotsOption func(*SlotsUseCase)

// WithRNG 指定亂數來源 (測試時可固定種子)
func WithRNG(rng domain.RNG) SlotsOption {
	return func(s *SlotsUseCase) {
		s.rng = rng
	}
}

// WithClock 指定時間來源
func WithClock(now func() time.Time) SlotsOption {
	return func(s *SlotsUseCase) {
		s.now = now
	}
}

// WithRecorder 指定統計收集器
func WithRecorder(r Recorder) SlotsOption {
	return func(s *SlotsUseCase) {
		s.recorder = r
	}
}

// WithLogger 指定 logger
func WithLogger(l *zap.Logger) SlotsOption {
	return func(s *SlotsUseCase) {
		s.logger = l
	}
}

// NewSlotsUseCase 建立拉霸機
//
// 參數:
//
//	ledger: 帳本
//	settings: 社群設定儲存
//	cooldowns: 冷卻時間紀錄
//	paytable: 派彩引擎
//	machine: 轉輪配置
//
// 回傳:
//
//	*SlotsUseCase: 拉霸機
//	error: 倍率表無法涵蓋轉輪配置時回傳錯誤
func NewSlotsUseCase(
	ledger Ledger,
	settings SettingsStore,
	cooldowns CooldownStore,
	paytable *domain.Paytable,
	machine domain.Machine,
	opts ...SlotsOption,
) (*SlotsUseCase, error) {
	if err := machine.Validate(); err != nil {
		return nil, err
	}
	if err := paytable.Multipliers.Validate(machine.Reels); err != nil {
		return nil, err
	}
	s := &SlotsUseCase{
		ledger:    ledger,
		settings:  settings,
		cooldowns: cooldowns,
		paytable:  paytable,
		machine:   machine,
		now:       time.Now,
		recorder:  nopRecorder{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.logger = s.logger.Named("slots")
	return s, nil
}

// Paytable 回傳派彩引擎
func (s *SlotsUseCase) Paytable() *domain.Paytable {
	return s.paytable
}

// Play 拉一次拉霸
//
// 流程: 驗證押注 -> 冷卻檢查 -> 帳戶與餘額檢查 -> 抽盤面 -> 計算派彩 -> 結算
// 有派彩時以 Settle 一次寫入 (餘額 - 押注 + 派彩)，沒有派彩時單純扣款
func (s *SlotsUseCase) Play(ctx context.Context, req PlayRequest) (result *domain.PlayResult, err error) {
	defer func() { s.recorder.ObserveOutcome("play", domain.OutcomeOf(err)) }()

	settings, err := s.settings.Get(ctx, req.Key.Community)
	if err != nil {
		return nil, err
	}

	bid := req.Bid
	if req.Mode == domain.ModeMulti {
		if bid > math.MaxInt64/multiLines || bid < 0 {
			return nil, fmt.Errorf("%w: must be between %d and %d", domain.ErrInvalidBid, settings.MinBid, settings.MaxBid)
		}
		bid *= multiLines
	}
	if !settings.ValidBid(bid) {
		return nil, fmt.Errorf("%w: must be between %d and %d", domain.ErrInvalidBid, settings.MinBid, settings.MaxBid)
	}

	now := s.now()
	if settings.Cooldown > 0 {
		last, ok, err := s.cooldowns.LastPlay(ctx, req.Key)
		if err != nil {
			return nil, err
		}
		if ok && now.Sub(last) < settings.Cooldown {
			return nil, fmt.Errorf("%w: %s left", domain.ErrOnCooldown, (settings.Cooldown - now.Sub(last)).Round(time.Second))
		}
	}

	if _, err := s.ledger.GetBalance(ctx, req.Key); err != nil {
		return nil, err
	}
	if !s.ledger.CanSpend(ctx, req.Key, bid) {
		return nil, domain.ErrInsufficientBalance
	}

	if err := s.cooldowns.MarkPlay(ctx, req.Key, now, settings.Cooldown); err != nil {
		return nil, err
	}

	grid := s.draw()
	wins := s.evaluate(grid, req.Mode, bid)
	var total int64
	for _, w := range wins {
		total = domain.SaturatingAdd(total, w.Award.Amount)
	}

	var after int64
	if total > 0 {
		after, err = s.ledger.Settle(ctx, req.Key, bid, total)
	} else {
		after, err = s.ledger.Debit(ctx, req.Key, bid)
	}
	if err != nil {
		return nil, err
	}

	result = &domain.PlayResult{
		Key:        req.Key,
		Grid:       grid,
		Mode:       req.Mode,
		Bid:        bid,
		Wins:       wins,
		TotalAward: total,
		Before:     after - total + bid,
		After:      after,
	}
	s.recorder.ObservePlay(req.Key.Community, req.Mode, bid, total)
	s.logger.Info("play",
		zap.Stringer("account", req.Key),
		zap.Stringer("mode", req.Mode),
		zap.Int64("bid", bid),
		zap.Int64("award", total),
		zap.Int64("before", result.Before),
		zap.Int64("after", after))
	return result, nil
}

// evaluate 依模式計算派彩
// 多線模式每列押注為 bid / 3，單線模式只看中間列
func (s *SlotsUseCase) evaluate(grid domain.Grid, mode domain.Mode, bid int64) []domain.LineWin {
	var wins []domain.LineWin
	if mode == domain.ModeMulti {
		lineBet := bid / multiLines
		for row := range grid {
			for _, a := range s.paytable.LinePayout(grid.Row(row), lineBet) {
				wins = append(wins, domain.LineWin{Row: row, Award: a})
			}
		}
		return wins
	}
	middle := len(grid) / 2
	for _, a := range s.paytable.LinePayout(grid.Row(middle), bid) {
		wins = append(wins, domain.LineWin{Row: middle, Award: a})
	}
	return wins
}

func (s *SlotsUseCase) draw() domain.Grid {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.machine.Draw(s.rng)
}

// Settings 取得社群目前的拉霸設定
func (s *SlotsUseCase) Settings(ctx context.Context, community string) (domain.Settings, error) {
	return s.settings.Get(ctx, community)
}

// SettingsPatch 要修改的設定，nil 代表不修改
type SettingsPatch struct {
	MinBid            *int64
	MaxBid            *int64
	Cooldown          *time.Duration
	RegistrationBonus *int64
}

// UpdateSettings 合併所有欄位後驗證一次，通過才寫入，失敗時設定維持原狀
func (s *SlotsUseCase) UpdateSettings(ctx context.Context, community string, patch SettingsPatch) (domain.Settings, error) {
	return s.settings.Update(ctx, community, func(st *domain.Settings) error {
		next := *st
		if patch.MinBid != nil {
			next.MinBid = *patch.MinBid
		}
		if patch.MaxBid != nil {
			next.MaxBid = *patch.MaxBid
		}
		if patch.Cooldown != nil {
			next.Cooldown = *patch.Cooldown
		}
		if patch.RegistrationBonus != nil {
			next.RegistrationBonus = *patch.RegistrationBonus
		}
		if err := next.Validate(); err != nil {
			return err
		}
		*st = next
		return nil
	})
}

// SetMinBid 設定最低押注
func (s *SlotsUseCase) SetMinBid(ctx context.Context, community string, bid int64) (domain.Settings, error) {
	return s.UpdateSettings(ctx, community, SettingsPatch{MinBid: &bid})
}

// SetMaxBid 設定最高押注
func (s *SlotsUseCase) SetMaxBid(ctx context.Context, community string, bid int64) (domain.Settings, error) {
	return s.UpdateSettings(ctx, community, SettingsPatch{MaxBid: &bid})
}

// SetCooldown 設定兩次拉霸的間隔
func (s *SlotsUseCase) SetCooldown(ctx context.Context, community string, cooldown time.Duration) (domain.Settings, error) {
	return s.UpdateSettings(ctx, community, SettingsPatch{Cooldown: &cooldown})
}

// SetRegistrationBonus 設定開戶獎勵
func (s *SlotsUseCase) SetRegistrationBonus(ctx context.Context, community string, bonus int64) (domain.Settings, error) {
	return s.UpdateSettings(ctx, community, SettingsPatch{RegistrationBonus: &bonus})
}
