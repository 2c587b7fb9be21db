package domain

import "fmt"

// Symbol 拉霸機的圖案
type Symbol uint8

const (
	SymbolWild Symbol = iota
	SymbolCherries
	SymbolMedal
	SymbolFourLeafClover
	SymbolDollar
	SymbolBell
	SymbolMoneyStack
	SymbolHeart
	SymbolSpade
	SymbolGem
	SymbolMoneyBag
	SymbolSeven

	symbolCount
)

var symbolNames = [symbolCount]string{
	"wild", "cherries", "medal", "flc", "dollar", "bell",
	"moneystack", "heart", "spade", "gem", "moneybag", "seven",
}

var symbolGlyphs = [symbolCount]string{
	"\U0001F3B2", // game die
	"\U0001F352", // cherries
	"\U0001F3C5", // sports medal
	"\U0001F340", // four leaf clover
	"\U0001F4B5", // banknote with dollar sign
	"\U0001F514", // bell
	"\U0001F4B8", // money with wings
	"\u2764",     // heavy black heart
	"\u2660",     // black spade suit
	"\U0001F48E", // gem stone
	"\U0001F4B0", // money bag
	"7\u20E3",    // keycap seven
}

// Alphabet 回傳完整的圖案順序 (含 wild)
func Alphabet() []Symbol {
	out := make([]Symbol, 0, symbolCount)
	for s := Symbol(0); s < symbolCount; s++ {
		out = append(out, s)
	}
	return out
}

// Valid 是否為已定義的圖案
func (s Symbol) Valid() bool {
	return s < symbolCount
}

// Name 設定檔與 JSON 使用的名稱
func (s Symbol) Name() string {
	if !s.Valid() {
		return fmt.Sprintf("symbol(%d)", uint8(s))
	}
	return symbolNames[s]
}

// String 顯示用的圖示
func (s Symbol) String() string {
	if !s.Valid() {
		return "?"
	}
	return symbolGlyphs[s]
}

// ParseSymbol 由名稱取得圖案
func ParseSymbol(name string) (Symbol, error) {
	for i, n := range symbolNames {
		if n == name {
			return Symbol(i), nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", name)
}

func (s Symbol) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid symbol %d", uint8(s))
	}
	return []byte(s.Name()), nil
}

func (s *Symbol) UnmarshalText(text []byte) error {
	v, err := ParseSymbol(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
