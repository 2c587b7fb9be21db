package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
)

// SettingsStore 記憶體版社群設定
type SettingsStore struct {
	mu       sync.RWMutex
	defaults domain.Settings
	settings map[string]domain.Settings
}

func NewSettingsStore(defaults domain.Settings) *SettingsStore {
	return &SettingsStore{
		defaults: defaults,
		settings: make(map[string]domain.Settings),
	}
}

// Get 取得社群設定，不存在時回傳預設值
func (s *SettingsStore) Get(ctx context.Context, community string) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.settings[community]; ok {
		return st, nil
	}
	return s.defaults, nil
}

// Update 修改社群設定
func (s *SettingsStore) Update(ctx context.Context, community string, fn func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[community]
	if !ok {
		st = s.defaults
	}
	if err := fn(&st); err != nil {
		return domain.Settings{}, err
	}
	s.settings[community] = st
	return st, nil
}

// sweepInterval 清除過期冷卻紀錄的間隔
const sweepInterval = time.Minute

type cooldownRecord struct {
	at      time.Time
	expires time.Time
}

// CooldownStore 記憶體版冷卻時間紀錄
// 與 Redis 版相同，ttl <= 0 不記錄，過期的紀錄會在之後的 MarkPlay 中清除
type CooldownStore struct {
	mu        sync.Mutex
	plays     map[domain.AccountKey]cooldownRecord
	nextSweep time.Time
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{
		plays: make(map[domain.AccountKey]cooldownRecord),
	}
}

// LastPlay 取得最後一次拉霸時間
func (c *CooldownStore) LastPlay(ctx context.Context, key domain.AccountKey) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.plays[key]
	return rec.at, ok, nil
}

// MarkPlay 記錄拉霸時間，紀錄在 at + ttl 後過期
func (c *CooldownStore) MarkPlay(ctx context.Context, key domain.AccountKey, at time.Time, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !at.Before(c.nextSweep) {
		c.sweep(at)
		c.nextSweep = at.Add(sweepInterval)
	}
	if ttl <= 0 {
		delete(c.plays, key)
		return nil
	}
	c.plays[key] = cooldownRecord{at: at, expires: at.Add(ttl)}
	return nil
}

func (c *CooldownStore) sweep(now time.Time) {
	for key, rec := range c.plays {
		if !now.Before(rec.expires) {
			delete(c.plays, key)
		}
	}
}

var (
	_ usecase.SettingsStore = (*SettingsStore)(nil)
	_ usecase.CooldownStore = (*CooldownStore)(nil)
)
