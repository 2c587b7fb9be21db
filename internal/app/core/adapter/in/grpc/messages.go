package grpc

import (
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
)

// Account 帳戶識別 (社群 + 使用者)
type Account struct {
	Community string `json:"community"`
	Identity  string `json:"identity"`
}

func (a Account) key() domain.AccountKey {
	return domain.AccountKey{Community: a.Community, Identity: a.Identity}
}

// Status 業務結果，Success=false 時 Outcome 表示失敗原因 (Soft Failure)
type Status struct {
	Success bool           `json:"success"`
	Outcome domain.Outcome `json:"outcome"`
	Message string         `json:"message,omitempty"`
}

type RegisterRequest struct {
	Account Account `json:"account"`
	Name    string  `json:"name"`
}

type RegisterResponse struct {
	Status
	Balance int64 `json:"balance"`
}

type GetBalanceRequest struct {
	Account Account `json:"account"`
}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type TransferRequest struct {
	From   Account `json:"from"`
	To     Account `json:"to"`
	Amount int64   `json:"amount"`
}

type TransferResponse struct {
	Status
	CurrentBalance int64 `json:"current_balance"`
}

// SetBalanceRequest Value 為 "+N" 存入、"-N" 扣除、"N" 覆寫
type SetBalanceRequest struct {
	Account Account `json:"account"`
	Value   string  `json:"value"`
}

type SetBalanceResponse struct {
	Status
	Balance int64 `json:"balance"`
}

type LeaderboardRequest struct {
	Community string `json:"community"`
	Top       int    `json:"top"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// PlayRequest Bid 為單線押注，Multi=true 時實際扣款為 Bid * 3
type PlayRequest struct {
	Account Account `json:"account"`
	Bid     int64   `json:"bid"`
	Multi   bool    `json:"multi"`
}

// PlayResponse Grid 為圖案名稱，一列即一條派彩線
type PlayResponse struct {
	Status
	Grid       [][]string       `json:"grid,omitempty"`
	Wins       []domain.LineWin `json:"wins,omitempty"`
	Bid        int64            `json:"bid"`
	TotalAward int64            `json:"total_award"`
	Before     int64            `json:"before"`
	After      int64            `json:"after"`
	Text       string           `json:"text,omitempty"`
}

// UpdateSettingsRequest 只更新有給值的欄位
type UpdateSettingsRequest struct {
	Community         string `json:"community"`
	MinBid            *int64 `json:"min_bid,omitempty"`
	MaxBid            *int64 `json:"max_bid,omitempty"`
	CooldownSeconds   *int64 `json:"cooldown_seconds,omitempty"`
	RegistrationBonus *int64 `json:"registration_bonus,omitempty"`
}

type Settings struct {
	MinBid            int64 `json:"min_bid"`
	MaxBid            int64 `json:"max_bid"`
	CooldownSeconds   int64 `json:"cooldown_seconds"`
	RegistrationBonus int64 `json:"registration_bonus"`
}

type UpdateSettingsResponse struct {
	Status
	Settings Settings `json:"settings"`
}
