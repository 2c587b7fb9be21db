package domain

import (
	"fmt"
	"strings"
)

// Mode 遊玩模式
type Mode uint8

const (
	// ModeSingle 只看中間列，押注全額
	ModeSingle Mode = iota
	// ModeMulti 三列都派彩，每列押注為總押注的三分之一
	ModeMulti
)

func (m Mode) String() string {
	if m == ModeMulti {
		return "multi"
	}
	return "single"
}

// LineWin 某一列的派彩
type LineWin struct {
	Row   int   `json:"row"`
	Award Award `json:"award"`
}

// PlayResult 一次拉霸的結果
type PlayResult struct {
	Key        AccountKey `json:"key"`
	Grid       Grid       `json:"grid"`
	Mode       Mode       `json:"mode"`
	Bid        int64      `json:"bid"`
	Wins       []LineWin  `json:"wins"`
	TotalAward int64      `json:"total_award"`
	Before     int64      `json:"before"`
	After      int64      `json:"after"`
}

// Describe 產生純文字結果描述
func (r *PlayResult) Describe(multipliers MultiplierTable) string {
	var sb strings.Builder
	sb.WriteString(r.Grid.Render(r.Mode))
	if r.TotalAward == 0 {
		fmt.Fprintf(&sb, "Nothing!\nYour bid: %d\n%d → %d!", r.Bid, r.Before, r.After)
		return sb.String()
	}
	for _, w := range r.Wins {
		sb.WriteString(strings.Repeat(w.Award.Symbol.String(), w.Award.Count))
		fmt.Fprintf(&sb, " = multiplier of %d\n", multipliers.Multiplier(w.Award.Symbol, w.Award.Count))
	}
	fmt.Fprintf(&sb, "Your total win: %d\nYour bid: %d\n%d → %d!", r.TotalAward, r.Bid, r.Before, r.After)
	return sb.String()
}
