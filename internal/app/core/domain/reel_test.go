package domain

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

func TestRotate(t *testing.T) {
	reel := []Symbol{SymbolBell, SymbolGem, SymbolSeven}
	tests := []struct {
		n    int
		want []Symbol
	}{
		{0, []Symbol{SymbolBell, SymbolGem, SymbolSeven}},
		{1, []Symbol{SymbolSeven, SymbolBell, SymbolGem}},
		{-1, []Symbol{SymbolGem, SymbolSeven, SymbolBell}},
		{3, []Symbol{SymbolBell, SymbolGem, SymbolSeven}},
		{-999, []Symbol{SymbolBell, SymbolGem, SymbolSeven}},
		{998, []Symbol{SymbolGem, SymbolSeven, SymbolBell}},
	}
	for _, tt := range tests {
		if got := rotate(reel, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("rotate(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestDraw_Shape(t *testing.T) {
	m := ClassicMachine()
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		grid := m.Draw(rng)
		if len(grid) != m.Rows {
			t.Fatalf("rows = %d, want %d", len(grid), m.Rows)
		}
		for _, row := range grid {
			if len(row) != m.Reels {
				t.Fatalf("row length = %d, want %d", len(row), m.Reels)
			}
			if row[0] == SymbolWild || row[m.Reels-1] == SymbolWild {
				t.Fatalf("wild on an outer reel: %v", row)
			}
			for _, s := range row {
				if !s.Valid() {
					t.Fatalf("invalid symbol %d", s)
				}
			}
		}
		// 同一個轉輪上的圖案不會重複
		for r := 0; r < m.Reels; r++ {
			seen := make(map[Symbol]bool)
			for row := range grid {
				s := grid[row][r]
				if seen[s] {
					t.Fatalf("reel %d repeats %s", r, s.Name())
				}
				seen[s] = true
			}
		}
	}
}

func TestDraw_WildReachesInnerReels(t *testing.T) {
	m := ClassicMachine()
	rng := rand.New(rand.NewPCG(7, 7))
	wilds := make([]int, m.Reels)
	for i := 0; i < 5000; i++ {
		grid := m.Draw(rng)
		for _, row := range grid {
			for r, s := range row {
				if s == SymbolWild {
					wilds[r]++
				}
			}
		}
	}
	for r := 1; r <= 3; r++ {
		if wilds[r] == 0 {
			t.Fatalf("expected wilds on reel %d", r)
		}
	}
}

func TestDraw_Deterministic(t *testing.T) {
	m := ClassicMachine()
	a := m.Draw(rand.New(rand.NewPCG(42, 42)))
	b := m.Draw(rand.New(rand.NewPCG(42, 42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different grids:\n%s\n%s", a, b)
	}
}

func TestMachineValidate(t *testing.T) {
	if err := ClassicMachine().Validate(); err != nil {
		t.Fatalf("classic machine: %v", err)
	}
	bad := []Machine{
		{Reels: 1, Rows: 3},
		{Reels: 5, Rows: 0},
		{Reels: 5, Rows: 12},
	}
	for _, m := range bad {
		if err := m.Validate(); err == nil {
			t.Errorf("expected error for %+v", m)
		}
	}
}

func TestGridRender(t *testing.T) {
	grid := Grid{
		{SymbolBell, SymbolBell, SymbolBell},
		{SymbolGem, SymbolGem, SymbolGem},
		{SymbolSeven, SymbolSeven, SymbolSeven},
	}
	single := strings.Split(strings.TrimSuffix(grid.Render(ModeSingle), "\n"), "\n")
	if len(single) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(single))
	}
	if !strings.HasPrefix(single[0], "||") || !strings.HasPrefix(single[1], ">") || !strings.HasSuffix(single[1], "<") {
		t.Fatalf("single mode marks only the middle row:\n%s", grid.Render(ModeSingle))
	}
	for _, line := range strings.Split(strings.TrimSuffix(grid.Render(ModeMulti), "\n"), "\n") {
		if !strings.HasPrefix(line, ">") || !strings.HasSuffix(line, "<") {
			t.Fatalf("multi mode marks every row, got %q", line)
		}
	}
	if !reflect.DeepEqual(grid.MiddleRow(), grid.Row(1)) {
		t.Fatalf("middle row mismatch")
	}
}
