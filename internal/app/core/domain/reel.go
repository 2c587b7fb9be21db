package domain

import (
	"fmt"
	"strings"
)

// rotateSpan 轉輪隨機旋轉的範圍 [-rotateSpan, rotateSpan]
const rotateSpan = 999

// RNG 抽獎使用的亂數來源，*rand.Rand (math/rand/v2) 即符合
type RNG interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Machine 拉霸機轉輪配置
type Machine struct {
	// Reels 轉輪數 (也是每列圖案數)
	Reels int
	// Rows 每個轉輪可見的圖案數 (派彩線數)
	Rows int
	// WildReels 回傳該轉輪是否可以出現 wild
	WildReels func(reel int) bool
}

// ClassicMachine 5 軸 3 列，wild 只出現在第 2 到第 4 軸
func ClassicMachine() Machine {
	return Machine{
		Reels: 5,
		Rows:  3,
		WildReels: func(reel int) bool {
			return reel >= 1 && reel <= 3
		},
	}
}

// Validate 檢查轉輪配置
func (m Machine) Validate() error {
	if m.Reels < 2 {
		return fmt.Errorf("machine: need at least 2 reels, got %d", m.Reels)
	}
	if m.Rows < 1 || m.Rows > int(symbolCount)-1 {
		return fmt.Errorf("machine: rows must be between 1 and %d, got %d", symbolCount-1, m.Rows)
	}
	return nil
}

// reelSymbols 回傳該轉輪使用的圖案
func (m Machine) reelSymbols(reel int) []Symbol {
	symbols := Alphabet()
	if m.WildReels != nil && m.WildReels(reel) {
		return symbols
	}
	out := symbols[:0]
	for _, s := range symbols {
		if s != SymbolWild {
			out = append(out, s)
		}
	}
	return out
}

// Draw 抽出一個盤面
// 每個轉輪先洗牌再隨機旋轉，取前 Rows 個圖案；第 i 列由每個轉輪的第 i 個圖案組成
func (m Machine) Draw(rng RNG) Grid {
	reels := make([][]Symbol, m.Reels)
	for r := range reels {
		reel := m.reelSymbols(r)
		rng.Shuffle(len(reel), func(i, j int) {
			reel[i], reel[j] = reel[j], reel[i]
		})
		reel = rotate(reel, rng.IntN(2*rotateSpan+1)-rotateSpan)
		reels[r] = reel[:m.Rows]
	}

	grid := make(Grid, m.Rows)
	for row := range grid {
		grid[row] = make([]Symbol, m.Reels)
		for r := range reels {
			grid[row][r] = reels[r][row]
		}
	}
	return grid
}

// rotate 向右旋轉 n 格 (n 為負數時向左)
func rotate(reel []Symbol, n int) []Symbol {
	size := len(reel)
	if size == 0 {
		return reel
	}
	n = ((n % size) + size) % size
	out := make([]Symbol, size)
	for i, s := range reel {
		out[(i+n)%size] = s
	}
	return out
}

// Grid 盤面，一列即一條派彩線
type Grid [][]Symbol

// Row 取得第 i 列
func (g Grid) Row(i int) []Symbol {
	return g[i]
}

// MiddleRow 中間列 (單線模式的派彩線)
func (g Grid) MiddleRow() []Symbol {
	return g[len(g)/2]
}

// Render 繪製盤面，參與派彩的列以 > < 標示
func (g Grid) Render(mode Mode) string {
	var sb strings.Builder
	for i, row := range g {
		open, closing := "||", "||"
		if mode == ModeMulti || i == len(g)/2 {
			open, closing = ">", "<"
		}
		sb.WriteString(open)
		for _, s := range row {
			sb.WriteString(" ")
			sb.WriteString(s.String())
		}
		sb.WriteString(closing)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (g Grid) String() string {
	return g.Render(ModeSingle)
}
