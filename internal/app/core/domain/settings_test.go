package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseAdjustment(t *testing.T) {
	tests := []struct {
		arg  string
		want Adjustment
	}{
		{"+50", Adjustment{Op: AdjustmentDeposit, Amount: 50}},
		{"-20", Adjustment{Op: AdjustmentWithdraw, Amount: 20}},
		{"300", Adjustment{Op: AdjustmentSet, Amount: 300}},
		{"0", Adjustment{Op: AdjustmentSet, Amount: 0}},
		{" 7 ", Adjustment{Op: AdjustmentSet, Amount: 7}},
	}
	for _, tt := range tests {
		got, err := ParseAdjustment(tt.arg)
		if err != nil {
			t.Fatalf("ParseAdjustment(%q): %v", tt.arg, err)
		}
		if got != tt.want {
			t.Fatalf("ParseAdjustment(%q) = %+v, want %+v", tt.arg, got, tt.want)
		}
	}

	for _, arg := range []string{"", "+0", "-0", "abc", "+-5", "--5", "1e3", "+", "99999999999999999999"} {
		if _, err := ParseAdjustment(arg); !errors.Is(err, ErrInvalidAdjustment) {
			t.Errorf("ParseAdjustment(%q) = %v, want ErrInvalidAdjustment", arg, err)
		}
	}
}

func TestValidBid(t *testing.T) {
	s := Settings{MinBid: 10, MaxBid: 100}
	for bid, want := range map[int64]bool{9: false, 10: true, 100: true, 101: false, -1: false} {
		if got := s.ValidBid(bid); got != want {
			t.Errorf("ValidBid(%d) = %v, want %v", bid, got, want)
		}
	}
	if !DefaultSettings().ValidBid(1) || DefaultSettings().ValidBid(0) {
		t.Fatalf("default bid range should start at 1")
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err         error
		want        Outcome
		recoverable bool
	}{
		{nil, OutcomeOK, false},
		{ErrAccountNotFound, OutcomeNoAccount, true},
		{fmt.Errorf("%w: 3s left", ErrOnCooldown), OutcomeOnCooldown, true},
		{fmt.Errorf("%w: must be between 1 and 5", ErrInvalidBid), OutcomeInvalidBid, true},
		{ErrInsufficientBalance, OutcomeInsufficientBalance, true},
		{ErrBalanceOverflow, OutcomeBalanceOverflow, true},
		{ErrInvalidSettings, OutcomeInvalidSettings, true},
		{fmt.Errorf("write: %w", ErrWALWriteFailed), OutcomeInternal, false},
		{errors.New("boom"), OutcomeInternal, false},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.err); got != tt.want {
			t.Errorf("OutcomeOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
		if got := IsRecoverable(tt.err); got != tt.recoverable {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.recoverable)
		}
	}
}

func TestDescribe(t *testing.T) {
	grid := Grid{
		{SymbolBell, SymbolGem, SymbolHeart, SymbolSpade, SymbolMedal},
		{SymbolSeven, SymbolSeven, SymbolBell, SymbolGem, SymbolHeart},
		{SymbolMedal, SymbolDollar, SymbolGem, SymbolBell, SymbolSpade},
	}
	lost := &PlayResult{Grid: grid, Mode: ModeSingle, Bid: 5, Before: 100, After: 95}
	if got := lost.Describe(DefaultMultipliers()); !containsAll(got, "Nothing!", "Your bid: 5", "100 → 95!") {
		t.Fatalf("unexpected loss text:\n%s", got)
	}

	won := &PlayResult{
		Grid: grid, Mode: ModeSingle, Bid: 5, TotalAward: 50, Before: 100, After: 145,
		Wins: []LineWin{{Row: 1, Award: Award{Amount: 50, Symbol: SymbolSeven, Count: 2}}},
	}
	got := won.Describe(DefaultMultipliers())
	if !containsAll(got, SymbolSeven.String()+SymbolSeven.String()+" = multiplier of 10", "Your total win: 50", "100 → 145!") {
		t.Fatalf("unexpected win text:\n%s", got)
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
