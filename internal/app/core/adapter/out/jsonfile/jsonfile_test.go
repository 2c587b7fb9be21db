package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/pkg/jsonstore"
)

var alice = domain.AccountKey{Community: "guild", Identity: "alice"}

func openFile(t *testing.T, path string) *jsonstore.File {
	t.Helper()
	f, err := jsonstore.Open(path)
	if err != nil {
		t.Fatalf("jsonstore.Open: %v", err)
	}
	return f
}

func TestLedger_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bank.json")

	l, err := NewLedger(openFile(t, path), zap.NewNop())
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if _, err := l.CreateAccount(ctx, alice, "Alice", 100); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := l.Settle(ctx, alice, 10, 50); err != nil {
		t.Fatalf("settle: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{`"guild"`, `"alice"`, `"balance": 140`, `"created_at"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("document missing %s:\n%s", want, data)
		}
	}

	reloaded, err := NewLedger(openFile(t, path), zap.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, _ := reloaded.GetBalance(ctx, alice); got != 140 {
		t.Fatalf("balance after reload = %d, want 140", got)
	}
	accounts, _ := reloaded.Accounts(ctx, "guild")
	if len(accounts) != 1 || accounts[0].Name != "Alice" || accounts[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestLedger_CorruptedDocumentReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	if err := os.WriteFile(path, []byte(`{"guild": [1, 2`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l, err := NewLedger(openFile(t, path), zap.NewNop())
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if _, err := l.GetBalance(context.Background(), alice); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected empty ledger, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "{}" {
		t.Fatalf("expected empty document, got %s", data)
	}
}

func TestFromDocument_ClampsNegative(t *testing.T) {
	doc := bankDocument{"guild": {"alice": {Name: "Alice", Balance: -5, CreatedAt: "2024-01-02 03:04:05"}}}
	book := fromDocument(doc, zap.NewNop())
	account := book[alice]
	if account.Balance != 0 {
		t.Fatalf("balance = %d, want 0", account.Balance)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !account.CreatedAt.Equal(want) {
		t.Fatalf("created_at = %v, want %v", account.CreatedAt, want)
	}
}

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	defaults := domain.DefaultSettings()

	s, err := NewSettingsStore(openFile(t, path), defaults, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	if got, _ := s.Get(ctx, "guild"); got != defaults {
		t.Fatalf("unknown community = %+v, want defaults", got)
	}

	_, err = s.Update(ctx, "guild", func(st *domain.Settings) error {
		st.MinBid = 5
		st.Cooldown = 30 * time.Second
		st.RegistrationBonus = 200
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	data, _ := os.ReadFile(path)
	for _, key := range []string{`"SLOT_MIN": 5`, `"SLOT_TIME": 30`, `"REGISTER_CREDITS": 200`, `"SLOT_MAX"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("settings document missing %s:\n%s", key, data)
		}
	}

	reloaded, err := NewSettingsStore(openFile(t, path), defaults, zap.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, _ := reloaded.Get(ctx, "guild")
	want := domain.Settings{MinBid: 5, MaxBid: defaults.MaxBid, Cooldown: 30 * time.Second, RegistrationBonus: 200}
	if got != want {
		t.Fatalf("reloaded = %+v, want %+v", got, want)
	}
	if other, _ := reloaded.Get(ctx, "other"); other != defaults {
		t.Fatalf("other community = %+v", other)
	}
}

func TestSettingsStore_RejectedUpdate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewSettingsStore(openFile(t, path), domain.DefaultSettings(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	_, err = s.Update(ctx, "guild", func(st *domain.Settings) error {
		st.MinBid = 77
		return domain.ErrInvalidSettings
	})
	if !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if got, _ := s.Get(ctx, "guild"); got != domain.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", got)
	}
	if _, err := os.Stat(path); err == nil {
		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), "77") {
			t.Fatalf("rejected update written to disk:\n%s", data)
		}
	}
}

func TestSettingsStore_CorruptedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewSettingsStore(openFile(t, path), domain.DefaultSettings(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	if got, _ := s.Get(context.Background(), "guild"); got != domain.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}
