package jsonfile

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-slot-bank/pkg/jsonstore"
)

// settingsRecord 對應 settings.json 中的社群設定，冷卻時間以秒儲存
type settingsRecord struct {
	SlotMin         int64 `json:"SLOT_MIN"`
	SlotMax         int64 `json:"SLOT_MAX"`
	SlotTime        int64 `json:"SLOT_TIME"`
	RegisterCredits int64 `json:"REGISTER_CREDITS"`
}

func toRecord(s domain.Settings) settingsRecord {
	return settingsRecord{
		SlotMin:         s.MinBid,
		SlotMax:         s.MaxBid,
		SlotTime:        int64(s.Cooldown / time.Second),
		RegisterCredits: s.RegistrationBonus,
	}
}

func (r settingsRecord) settings() domain.Settings {
	return domain.Settings{
		MinBid:            r.SlotMin,
		MaxBid:            r.SlotMax,
		Cooldown:          time.Duration(r.SlotTime) * time.Second,
		RegistrationBonus: r.RegisterCredits,
	}
}

// SettingsStore 以 JSON 文件儲存的社群設定 (community -> settings)
type SettingsStore struct {
	mu       sync.RWMutex
	file     *jsonstore.File
	defaults domain.Settings
	records  map[string]settingsRecord
}

// NewSettingsStore 載入設定文件，不存在或格式錯誤時建立空文件
func NewSettingsStore(file *jsonstore.File, defaults domain.Settings, logger *zap.Logger) (*SettingsStore, error) {
	records := make(map[string]settingsRecord)
	found, err := file.Load(&records)
	switch {
	case errors.Is(err, jsonstore.ErrCorrupted):
		logger.Error("settings document corrupted, creating empty default", zap.String("path", file.Path()), zap.Error(err))
		records = make(map[string]settingsRecord)
		if err := file.Save(records); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !found:
		logger.Info("creating default settings document", zap.String("path", file.Path()))
		if err := file.Save(records); err != nil {
			return nil, err
		}
	}
	return &SettingsStore{
		file:     file,
		defaults: defaults,
		records:  records,
	}, nil
}

// Get 取得社群設定
func (s *SettingsStore) Get(ctx context.Context, community string) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[community]; ok {
		return rec.settings(), nil
	}
	return s.defaults, nil
}

// Update 修改社群設定並寫回文件，fn 或寫入失敗時不會改變記憶體中的設定
func (s *SettingsStore) Update(ctx context.Context, community string, fn func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.defaults
	prev, existed := s.records[community]
	if existed {
		st = prev.settings()
	}
	if err := fn(&st); err != nil {
		return domain.Settings{}, err
	}

	s.records[community] = toRecord(st)
	if err := s.file.Save(s.records); err != nil {
		if existed {
			s.records[community] = prev
		} else {
			delete(s.records, community)
		}
		return domain.Settings{}, err
	}
	return st, nil
}

var _ usecase.SettingsStore = (*SettingsStore)(nil)
