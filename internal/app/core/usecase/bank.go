package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// BankUseCase 銀行操作：開戶、查詢、轉帳、管理者調整餘額、排行榜
type BankUseCase struct {
	ledger   Ledger
	settings SettingsStore
	recorder Recorder
	logger   *zap.Logger
}

func NewBankUseCase(ledger Ledger, settings SettingsStore, recorder Recorder, logger *zap.Logger) *BankUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankUseCase{
		ledger:   ledger,
		settings: settings,
		recorder: recorder,
		logger:   logger.Named("bank"),
	}
}

// Register 開戶，初始餘額為社群設定的開戶獎勵
func (b *BankUseCase) Register(ctx context.Context, key domain.AccountKey, name string) (account *domain.Account, err error) {
	defer func() { b.recorder.ObserveOutcome("register", domain.OutcomeOf(err)) }()

	settings, err := b.settings.Get(ctx, key.Community)
	if err != nil {
		return nil, err
	}
	account, err = b.ledger.CreateAccount(ctx, key, name, settings.RegistrationBonus)
	if err != nil {
		return nil, err
	}
	b.logger.Info("account registered",
		zap.Stringer("account", key),
		zap.String("name", name),
		zap.Int64("balance", account.Balance))
	return account, nil
}

// Balance 查詢餘額
func (b *BankUseCase) Balance(ctx context.Context, key domain.AccountKey) (int64, error) {
	return b.ledger.GetBalance(ctx, key)
}

// Transfer 轉帳，回傳轉出帳戶的最新餘額
func (b *BankUseCase) Transfer(ctx context.Context, from, to domain.AccountKey, amount int64) (balance int64, err error) {
	defer func() { b.recorder.ObserveOutcome("transfer", domain.OutcomeOf(err)) }()

	if err = b.ledger.Transfer(ctx, from, to, amount); err != nil {
		return 0, err
	}
	b.logger.Info("transfer",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int64("amount", amount))
	return b.ledger.GetBalance(ctx, from)
}

// SetBalance 管理者調整餘額，arg 格式見 domain.ParseAdjustment
func (b *BankUseCase) SetBalance(ctx context.Context, key domain.AccountKey, arg string) (balance int64, err error) {
	defer func() { b.recorder.ObserveOutcome("set_balance", domain.OutcomeOf(err)) }()

	adj, err := domain.ParseAdjustment(arg)
	if err != nil {
		return 0, err
	}
	switch adj.Op {
	case domain.AdjustmentDeposit:
		balance, err = b.ledger.Credit(ctx, key, adj.Amount)
	case domain.AdjustmentWithdraw:
		balance, err = b.ledger.Debit(ctx, key, adj.Amount)
	default:
		balance, err = b.ledger.SetBalance(ctx, key, adj.Amount)
	}
	if err != nil {
		return 0, err
	}
	b.logger.Info("balance adjusted",
		zap.Stringer("account", key),
		zap.String("arg", arg),
		zap.Int64("balance", balance))
	return balance, nil
}

// Leaderboard 社群餘額排行，top <= 0 時回傳全部
func (b *BankUseCase) Leaderboard(ctx context.Context, community string, top int) ([]*domain.Account, error) {
	accounts, err := b.ledger.Accounts(ctx, community)
	if err != nil {
		return nil, err
	}
	if top > 0 && len(accounts) > top {
		accounts = accounts[:top]
	}
	return accounts, nil
}
