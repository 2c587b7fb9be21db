package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-slot-bank/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Community string `gorm:"size:64;uniqueIndex:idx_account"`
	Identity  string `gorm:"size:64;uniqueIndex:idx_account"`
	Name      string `gorm:"size:128"`
	Balance   int64
	CreatedAt time.Time
	UpdatedAt int64 `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func (a *sqlAccount) toDomain() *domain.Account {
	key := domain.AccountKey{Community: a.Community, Identity: a.Identity}
	return domain.NewAccount(key, a.Name, a.Balance, a.CreatedAt)
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	RefID         []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.TransactionID
	Community     string `gorm:"size:64;index"`
	FromIdentity  string `gorm:"size:64"`
	ToIdentity    string `gorm:"size:64"`
	FromCommunity string `gorm:"size:64"`
	ToCommunity   string `gorm:"size:64"`
	Amount        int64
	Award         int64
	Type          uint8
	CreatedAt     int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

// Ledger 以 MySQL 實作的帳本，每筆異動一個資料庫交易，並以悲觀鎖鎖定涉及的帳戶
type Ledger struct {
	client *mysql.Client
	logger *zap.Logger
}

// NewLedger 建立 MySQL 帳本並建立資料表
func NewLedger(ctx context.Context, client *mysql.Client, logger *zap.Logger) (*Ledger, error) {
	if err := client.DB().WithContext(ctx).AutoMigrate(&sqlAccount{}, &sqlTransaction{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Ledger{
		client: client,
		logger: logger.Named("mysql_ledger"),
	}, nil
}

// PostTransaction 在一個資料庫交易內套用一筆帳本異動，回傳目標帳戶的最新餘額
func (ledger *Ledger) PostTransaction(ctx context.Context, tran *domain.Transaction) (balance int64, err error) {
	if err := tran.Validate(); err != nil {
		return 0, err
	}
	err = ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先檢查是否有這筆交易記錄 (冪等)
		var existing sqlTransaction
		err := tx.Where("ref_id = ?", tran.TransactionID[:]).First(&existing).Error
		if err == nil {
			ledger.logger.Debug("transaction already processed", zap.Stringer("ref_id", tran.TransactionID))
			balance, err = selectBalance(tx, balanceKey(tran))
			return err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("select transaction: %w", err)
		}

		// 依 GetLockIDs 的順序鎖定帳號 (悲觀鎖，避免死鎖)
		book := make(domain.Book)
		rows := make(map[domain.AccountKey]*sqlAccount)
		for _, key := range tran.GetLockIDs() {
			var row sqlAccount
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("community = ? AND identity = ?", key.Community, key.Identity).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			rows[key] = &row
			book[key] = row.toDomain()
		}

		// 依 Type 執行業務邏輯，前置條件不符時直接回滾
		if err := book.Apply(tran); err != nil {
			return err
		}

		// 更新資料庫
		for _, key := range tran.GetLockIDs() {
			account := book[key]
			row, ok := rows[key]
			if !ok {
				row = &sqlAccount{
					Community: key.Community,
					Identity:  key.Identity,
					Name:      account.Name,
					Balance:   account.Balance,
					CreatedAt: account.CreatedAt,
				}
				if err := tx.Create(row).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return domain.ErrAccountAlreadyExists
					}
					return err
				}
				continue
			}
			if row.Balance == account.Balance {
				continue
			}
			if err := tx.Model(&sqlAccount{}).Where("id = ?", row.ID).Update("balance", account.Balance).Error; err != nil {
				return err
			}
		}

		// 建立交易紀錄
		record := sqlTransaction{
			RefID:         tran.TransactionID[:],
			Community:     tran.Target().Community,
			FromCommunity: tran.From.Community,
			FromIdentity:  tran.From.Identity,
			ToCommunity:   tran.To.Community,
			ToIdentity:    tran.To.Identity,
			Amount:        tran.Amount,
			Award:         tran.Award,
			Type:          uint8(tran.Type),
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		balance = book[balanceKey(tran)].Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// balanceKey 要回傳餘額的帳戶 (轉帳回傳轉出帳戶)
func balanceKey(tran *domain.Transaction) domain.AccountKey {
	if tran.Type == domain.TransactionTypeTransfer {
		return tran.From
	}
	return tran.Target()
}

func selectBalance(db *gorm.DB, key domain.AccountKey) (int64, error) {
	var row sqlAccount
	err := db.Where("community = ? AND identity = ?", key.Community, key.Identity).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	return row.Balance, nil
}

// CreateAccount 開戶
func (ledger *Ledger) CreateAccount(ctx context.Context, key domain.AccountKey, name string, initial int64) (*domain.Account, error) {
	tran := domain.NewTransaction(domain.TransactionTypeOpen)
	tran.To = key
	tran.Name = name
	tran.Amount = initial
	if _, err := ledger.PostTransaction(ctx, tran); err != nil {
		return nil, err
	}
	return domain.NewAccount(key, name, initial, time.Unix(0, tran.CreatedAt).UTC()), nil
}

// GetBalance 取得帳戶餘額
func (ledger *Ledger) GetBalance(ctx context.Context, key domain.AccountKey) (int64, error) {
	return selectBalance(ledger.client.DB().WithContext(ctx), key)
}

// Debit 扣款
func (ledger *Ledger) Debit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeWithdraw)
	tran.From = key
	tran.Amount = amount
	return ledger.PostTransaction(ctx, tran)
}

// Credit 存款
func (ledger *Ledger) Credit(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeDeposit)
	tran.To = key
	tran.Amount = amount
	return ledger.PostTransaction(ctx, tran)
}

// SetBalance 覆寫餘額
func (ledger *Ledger) SetBalance(ctx context.Context, key domain.AccountKey, amount int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeSet)
	tran.To = key
	tran.Amount = amount
	return ledger.PostTransaction(ctx, tran)
}

// Transfer 轉帳
func (ledger *Ledger) Transfer(ctx context.Context, from, to domain.AccountKey, amount int64) error {
	tran := domain.NewTransaction(domain.TransactionTypeTransfer)
	tran.From = from
	tran.To = to
	tran.Amount = amount
	_, err := ledger.PostTransaction(ctx, tran)
	return err
}

// Settle 拉霸結算
func (ledger *Ledger) Settle(ctx context.Context, key domain.AccountKey, stake, award int64) (int64, error) {
	tran := domain.NewTransaction(domain.TransactionTypeSettle)
	tran.From = key
	tran.Amount = stake
	tran.Award = award
	return ledger.PostTransaction(ctx, tran)
}

// CanSpend 餘額是否足夠
func (ledger *Ledger) CanSpend(ctx context.Context, key domain.AccountKey, amount int64) bool {
	balance, err := ledger.GetBalance(ctx, key)
	return err == nil && amount >= 0 && balance >= amount
}

// Accounts 社群內所有帳戶
func (ledger *Ledger) Accounts(ctx context.Context, community string) ([]*domain.Account, error) {
	var rows []sqlAccount
	if err := ledger.client.DB().WithContext(ctx).Where("community = ?", community).Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toDomain())
	}
	domain.SortByBalance(accounts)
	return accounts, nil
}

// LoadAllAccounts 載入所有帳戶
func (ledger *Ledger) LoadAllAccounts(ctx context.Context) (domain.Book, error) {
	var rows []sqlAccount
	if err := ledger.client.DB().WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	book := make(domain.Book, len(rows))
	for i := range rows {
		account := rows[i].toDomain()
		book[account.Key] = account
	}
	return book, nil
}

var _ usecase.Ledger = (*Ledger)(nil)
