package domain

import "math"

// Award 單一連線的派彩結果
type Award struct {
	Amount int64  `json:"amount"`
	Symbol Symbol `json:"symbol"`
	Count  int    `json:"count"`
}

// Paytable 派彩引擎：倍率表加上連線長度 2 即可派彩的高價圖案
type Paytable struct {
	Multipliers MultiplierTable
	Premium     map[Symbol]bool
}

// NewPaytable 以指定倍率表建立派彩引擎，高價圖案使用預設值
func NewPaytable(multipliers MultiplierTable) *Paytable {
	if multipliers == nil {
		multipliers = DefaultMultipliers()
	}
	return &Paytable{
		Multipliers: multipliers,
		Premium:     DefaultPremium(),
	}
}

// LinePayout 計算一條派彩線的所有得獎連線
//
// 倍率乘上押注超過 int64 上限時，派彩以上限計。
// 由左至右掃描，已被前一段連線吃掉的位置會跳過，最後一欄永遠不作為連線起點。
// 連線尾端若為 wild，下一次掃描會從尾端 wild 的起點重新開始，讓 wild 可以同時屬於兩段連線。
//
// 參數:
//
//	line: 一列圖案
//	bet: 此派彩線的押注
//
// 回傳:
//
//	[]Award: 得獎連線 (可能為空)
func (p *Paytable) LinePayout(line []Symbol, bet int64) []Award {
	var awards []Award
	next := 0
	for i := 0; i < len(line)-1; i++ {
		if i < next {
			continue
		}
		anchor, count := runAt(line, i)
		if p.pays(anchor, count) {
			if amount := SaturatingMul(p.Multipliers.Multiplier(anchor, count), bet); amount > 0 {
				awards = append(awards, Award{Amount: amount, Symbol: anchor, Count: count})
			}
		}
		next = nextStart(line, i, count)
	}
	return awards
}

// pays 長度 2 只有高價圖案派彩，長度 3 以上都派彩
func (p *Paytable) pays(anchor Symbol, count int) bool {
	if anchor == SymbolWild {
		return false
	}
	if count == 2 {
		return p.Premium[anchor]
	}
	return count > 2
}

// runAt 回傳從 start 開始的連線圖案與長度
// 起點為 wild 時，以往後第一個非 wild 圖案作為連線圖案
func runAt(line []Symbol, start int) (Symbol, int) {
	anchor := line[start]
	if anchor == SymbolWild {
		for _, s := range line[start+1:] {
			if s != SymbolWild {
				anchor = s
				break
			}
		}
	}
	count := 1
	for j := start + 1; j < len(line); j++ {
		if line[j] != anchor && line[j] != SymbolWild {
			break
		}
		count++
	}
	return anchor, count
}

// nextStart 計算下一個掃描起點
// 連線尾端的 wild 不算被消耗，下一段連線可以從第一個尾端 wild 開始
func nextStart(line []Symbol, start, count int) int {
	trailing := 0
	for pos := start + count - 1; pos > start && line[pos] == SymbolWild; pos-- {
		trailing++
	}
	return start + count - trailing
}

// TotalAmount 加總派彩金額
func TotalAmount(awards []Award) int64 {
	var total int64
	for _, a := range awards {
		total = SaturatingAdd(total, a.Amount)
	}
	return total
}

// SaturatingMul 非負數相乘，溢位時回傳 math.MaxInt64
func SaturatingMul(a, b int64) int64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// SaturatingAdd 非負數相加，溢位時回傳 math.MaxInt64
func SaturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
