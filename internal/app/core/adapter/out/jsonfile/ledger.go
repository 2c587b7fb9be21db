package jsonfile

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/pkg/jsonstore"
)

// createdAtLayout 帳戶建立時間的儲存格式
const createdAtLayout = "2006-01-02 15:04:05"

// accountRecord 對應 JSON 文件中的帳戶
type accountRecord struct {
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// bankDocument community -> identity -> account
type bankDocument map[string]map[string]accountRecord

// NewLedger 建立以 JSON 文件持久化的帳本
// 啟動時載入整份文件，之後每次異動都會寫回整份文件
// 文件不存在或格式錯誤時以空文件取代
//
// 參數:
//
//	file: JSON 文件
//	logger: 日誌
//
// 回傳:
//
//	*memory.MutexLedger: 帳本
//	error: 讀寫錯誤 (不含格式錯誤)
func NewLedger(file *jsonstore.File, logger *zap.Logger) (*memory.MutexLedger, error) {
	book, err := loadBook(file, logger)
	if err != nil {
		return nil, err
	}
	return memory.NewMutexLedger(book, nil, memory.WithSnapshot(func(book domain.Book) error {
		if err := file.Save(toDocument(book)); err != nil {
			return fmt.Errorf("save %s: %w", file.Path(), err)
		}
		return nil
	}))
}

func loadBook(file *jsonstore.File, logger *zap.Logger) (domain.Book, error) {
	doc := make(bankDocument)
	found, err := file.Load(&doc)
	switch {
	case errors.Is(err, jsonstore.ErrCorrupted):
		logger.Error("bank document corrupted, creating empty default", zap.String("path", file.Path()), zap.Error(err))
		doc = make(bankDocument)
		if err := file.Save(doc); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !found:
		logger.Info("creating default bank document", zap.String("path", file.Path()))
		if err := file.Save(doc); err != nil {
			return nil, err
		}
	}
	return fromDocument(doc, logger), nil
}

func fromDocument(doc bankDocument, logger *zap.Logger) domain.Book {
	book := make(domain.Book)
	for community, accounts := range doc {
		for identity, rec := range accounts {
			key := domain.AccountKey{Community: community, Identity: identity}
			if rec.Balance < 0 {
				logger.Warn("negative balance in bank document, clamped to 0", zap.Stringer("account", key), zap.Int64("balance", rec.Balance))
				rec.Balance = 0
			}
			createdAt, err := time.ParseInLocation(createdAtLayout, rec.CreatedAt, time.UTC)
			if err != nil {
				createdAt = time.Time{}
			}
			book[key] = domain.NewAccount(key, rec.Name, rec.Balance, createdAt)
		}
	}
	return book
}

func toDocument(book domain.Book) bankDocument {
	doc := make(bankDocument)
	for key, account := range book {
		accounts, ok := doc[key.Community]
		if !ok {
			accounts = make(map[string]accountRecord)
			doc[key.Community] = accounts
		}
		accounts[key.Identity] = accountRecord{
			Name:      account.Name,
			Balance:   account.Balance,
			CreatedAt: account.CreatedAt.UTC().Format(createdAtLayout),
		}
	}
	return doc
}
