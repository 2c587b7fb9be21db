package domain

import (
	"errors"
	"testing"
)

func TestDefaultMultipliers_Validate(t *testing.T) {
	if err := DefaultMultipliers().Validate(5); err != nil {
		t.Fatalf("default table: %v", err)
	}
	if err := DefaultMultipliers().Validate(6); err == nil {
		t.Fatalf("expected default table to not cover 6 reels")
	}
}

func TestMultiplier(t *testing.T) {
	m := DefaultMultipliers()
	if got := m.Multiplier(SymbolSeven, 2); got != 10 {
		t.Fatalf("seven x2 = %d, want 10", got)
	}
	if got := m.Multiplier(SymbolHeart, 4); got != 80 {
		t.Fatalf("heart x4 = %d, want 80", got)
	}
	if got := m.Multiplier(SymbolSeven, 6); got != 0 {
		t.Fatalf("out of range run = %d, want 0", got)
	}
	if got := m.Multiplier(SymbolWild, 3); got != 0 {
		t.Fatalf("wild = %d, want 0", got)
	}
}

func TestParseMultipliers(t *testing.T) {
	base := DefaultMultipliers()
	m, err := ParseMultipliers(base, map[string][]int64{"gem": {0, 0, 0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("ParseMultipliers: %v", err)
	}
	if got := m.Multiplier(SymbolGem, 5); got != 3 {
		t.Fatalf("gem x5 = %d, want 3", got)
	}
	if got := base.Multiplier(SymbolGem, 5); got != 150 {
		t.Fatalf("base table modified: gem x5 = %d", got)
	}
	if got := m.Multiplier(SymbolSeven, 5); got != 300 {
		t.Fatalf("untouched row changed: seven x5 = %d", got)
	}

	if _, err := ParseMultipliers(base, map[string][]int64{"banana": {0}}); err == nil {
		t.Fatalf("expected error for unknown symbol")
	}
	if _, err := ParseMultipliers(base, map[string][]int64{"wild": {0, 0, 0, 1}}); err == nil {
		t.Fatalf("expected error for wild row")
	}
	if _, err := ParseMultipliers(base, map[string][]int64{"bell": {0, 0, 0, -1}}); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
}

func TestParseSymbol(t *testing.T) {
	for _, s := range Alphabet() {
		got, err := ParseSymbol(s.Name())
		if err != nil || got != s {
			t.Fatalf("ParseSymbol(%q) = %v, %v", s.Name(), got, err)
		}
	}
	if got, _ := ParseSymbol("flc"); got != SymbolFourLeafClover {
		t.Fatalf("flc = %v", got)
	}
	var s Symbol
	if err := s.UnmarshalText([]byte("seven")); err != nil || s != SymbolSeven {
		t.Fatalf("UnmarshalText: %v %v", s, err)
	}
	if _, err := Symbol(200).MarshalText(); err == nil {
		t.Fatalf("expected error for invalid symbol")
	}
}
