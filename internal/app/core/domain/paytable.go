package domain

import "fmt"

// MultiplierTable 倍率表，依 (圖案, 連線長度) 查倍率，slice 索引即連線長度
type MultiplierTable map[Symbol][]int64

// DefaultMultipliers 預設倍率表
func DefaultMultipliers() MultiplierTable {
	return MultiplierTable{
		SymbolCherries:       {0, 0, 2, 5, 10, 100},
		SymbolMedal:          {0, 0, 0, 5, 10, 100},
		SymbolFourLeafClover: {0, 0, 0, 5, 20, 100},
		SymbolDollar:         {0, 0, 0, 5, 20, 100},
		SymbolBell:           {0, 0, 0, 10, 50, 100},
		SymbolMoneyStack:     {0, 0, 0, 10, 50, 100},
		SymbolHeart:          {0, 0, 0, 20, 80, 120},
		SymbolSpade:          {0, 0, 0, 20, 80, 120},
		SymbolGem:            {0, 0, 0, 50, 100, 150},
		SymbolMoneyBag:       {0, 0, 0, 50, 100, 150},
		SymbolSeven:          {0, 0, 10, 50, 100, 300},
	}
}

// DefaultPremium 連線長度 2 即可派彩的圖案
func DefaultPremium() map[Symbol]bool {
	return map[Symbol]bool{
		SymbolSeven:    true,
		SymbolCherries: true,
	}
}

// ParseMultipliers 將設定檔中的 圖案名稱 -> 倍率 轉換為倍率表，並覆蓋在 base 之上
func ParseMultipliers(base MultiplierTable, raw map[string][]int64) (MultiplierTable, error) {
	out := make(MultiplierTable, len(base)+len(raw))
	for sym, row := range base {
		out[sym] = append([]int64(nil), row...)
	}
	for name, row := range raw {
		sym, err := ParseSymbol(name)
		if err != nil {
			return nil, err
		}
		if sym == SymbolWild {
			return nil, fmt.Errorf("paytable: wild has no multipliers")
		}
		for _, m := range row {
			if m < 0 {
				return nil, fmt.Errorf("paytable: %s: %w", name, ErrNegativeValue)
			}
		}
		out[sym] = append([]int64(nil), row...)
	}
	return out, nil
}

// Multiplier 查詢倍率，未定義時回傳 0
func (t MultiplierTable) Multiplier(sym Symbol, count int) int64 {
	row, ok := t[sym]
	if !ok || count < 0 || count >= len(row) {
		return 0
	}
	return row[count]
}

// Validate 確認所有可能出現的 (圖案, 連線長度) 組合都有定義
//
// 參數:
//
//	maxRun: 最長連線長度 (等於轉輪數)
func (t MultiplierTable) Validate(maxRun int) error {
	for _, sym := range Alphabet() {
		if sym == SymbolWild {
			continue
		}
		row, ok := t[sym]
		if !ok {
			return fmt.Errorf("paytable: missing multipliers for %s", sym.Name())
		}
		if len(row) <= maxRun {
			return fmt.Errorf("paytable: %s covers run length %d, need %d", sym.Name(), len(row)-1, maxRun)
		}
	}
	return nil
}
