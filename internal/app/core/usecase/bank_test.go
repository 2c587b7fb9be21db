package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

func TestRegister(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.RegistrationBonus = 250
	f := newFixture(t, settings, fixedRNG{})
	ctx := context.Background()

	account, err := f.bank.Register(ctx, alice, "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Balance != 250 || account.Name != "Alice" {
		t.Fatalf("account = %+v", account)
	}
	if _, err := f.bank.Register(ctx, alice, "Alice"); !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected ErrAccountAlreadyExists, got %v", err)
	}
	// 同一個使用者在不同社群是不同帳戶
	if _, err := f.bank.Register(ctx, domain.AccountKey{Community: "other", Identity: "alice"}, "Alice"); err != nil {
		t.Fatalf("register in other community: %v", err)
	}
	if got := f.recorder.outcomes["register"][domain.OutcomeAccountAlreadyExists]; got != 1 {
		t.Fatalf("already exists outcomes = %d", got)
	}
}

func TestTransfer(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), fixedRNG{})
	f.register(t, alice, 100)
	f.register(t, bob, 0)
	ctx := context.Background()

	balance, err := f.core.Transfer(ctx, alice, bob, 60)
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if balance != 40 {
		t.Fatalf("sender balance = %d, want 40", balance)
	}
	if got, _ := f.core.GetBalance(ctx, bob); got != 60 {
		t.Fatalf("receiver balance = %d, want 60", got)
	}

	cases := []struct {
		from, to domain.AccountKey
		amount   int64
		want     error
	}{
		{alice, bob, 41, domain.ErrInsufficientBalance},
		{alice, alice, 1, domain.ErrSameSenderAndReceiver},
		{alice, bob, -1, domain.ErrNegativeValue},
		{alice, ghost, 1, domain.ErrAccountNotFound},
		{ghost, alice, 1, domain.ErrAccountNotFound},
	}
	for _, c := range cases {
		if _, err := f.core.Transfer(ctx, c.from, c.to, c.amount); !errors.Is(err, c.want) {
			t.Errorf("Transfer(%s, %s, %d) = %v, want %v", c.from, c.to, c.amount, err, c.want)
		}
	}
}

func TestSetBalance(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), fixedRNG{})
	f.register(t, alice, 100)
	ctx := context.Background()

	steps := []struct {
		arg  string
		want int64
	}{
		{"+50", 150},
		{"-20", 130},
		{"300", 300},
		{"0", 0},
	}
	for _, s := range steps {
		got, err := f.core.SetBalance(ctx, alice, s.arg)
		if err != nil {
			t.Fatalf("SetBalance(%q): %v", s.arg, err)
		}
		if got != s.want {
			t.Fatalf("SetBalance(%q) = %d, want %d", s.arg, got, s.want)
		}
	}
	if _, err := f.core.SetBalance(ctx, alice, "-1"); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("withdraw below zero: %v", err)
	}
	if _, err := f.core.SetBalance(ctx, alice, "lots"); !errors.Is(err, domain.ErrInvalidAdjustment) {
		t.Fatalf("invalid arg: %v", err)
	}
	if _, err := f.core.SetBalance(ctx, ghost, "+1"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("missing account: %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), fixedRNG{})
	f.register(t, alice, 10)
	f.register(t, bob, 30)
	f.register(t, carol, 20)
	f.register(t, domain.AccountKey{Community: "other", Identity: "dave"}, 1000)
	ctx := context.Background()

	top, err := f.core.Leaderboard(ctx, "guild", 2)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(top) != 2 || top[0].Key != bob || top[1].Key != carol {
		t.Fatalf("top = %+v", top)
	}
	all, _ := f.core.Leaderboard(ctx, "guild", 0)
	if len(all) != 3 || all[2].Key != alice {
		t.Fatalf("all = %+v", all)
	}
	empty, _ := f.core.Leaderboard(ctx, "nobody", 5)
	if len(empty) != 0 {
		t.Fatalf("expected empty leaderboard")
	}
}
