package domain

import "errors"

var (
	// ErrNegativeValue 金額不可為負數
	ErrNegativeValue = errors.New("amount must not be negative")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrSameSenderAndReceiver 轉出與轉入帳戶相同
	ErrSameSenderAndReceiver = errors.New("sender and receiver are the same account")

	// ErrInvalidBid 下注金額超出設定範圍
	ErrInvalidBid = errors.New("bid outside configured range")

	// ErrOnCooldown 冷卻時間尚未結束
	ErrOnCooldown = errors.New("slot machine is on cooldown")

	// ErrInvalidAdjustment 餘額調整參數格式錯誤
	ErrInvalidAdjustment = errors.New("invalid balance adjustment")

	// ErrBalanceOverflow 異動後餘額超出 int64 上限
	ErrBalanceOverflow = errors.New("balance would overflow")

	// ErrInvalidSettings 最低押注大於最高押注
	ErrInvalidSettings = errors.New("min bid must not exceed max bid")

	// ErrWALWriteFailed WAL 寫入失敗
	ErrWALWriteFailed = errors.New("wal write failed")

	// ErrStoreCorrupted 持久化資料格式錯誤
	ErrStoreCorrupted = errors.New("store data corrupted")
)

// Outcome 是回傳給呼叫端的結果代碼
type Outcome string

const (
	OutcomeOK                    Outcome = "ok"
	OutcomeNoAccount             Outcome = "no_account"
	OutcomeAccountAlreadyExists  Outcome = "account_already_exists"
	OutcomeInsufficientBalance   Outcome = "insufficient_balance"
	OutcomeNegativeValue         Outcome = "negative_value"
	OutcomeSameSenderAndReceiver Outcome = "same_sender_and_receiver"
	OutcomeInvalidBid            Outcome = "invalid_bid"
	OutcomeOnCooldown            Outcome = "on_cooldown"
	OutcomeInvalidAdjustment     Outcome = "invalid_adjustment"
	OutcomeBalanceOverflow       Outcome = "balance_overflow"
	OutcomeInvalidSettings       Outcome = "invalid_settings"
	OutcomeInternal              Outcome = "internal"
)

var outcomes = []struct {
	err     error
	outcome Outcome
}{
	{ErrAccountNotFound, OutcomeNoAccount},
	{ErrAccountAlreadyExists, OutcomeAccountAlreadyExists},
	{ErrInsufficientBalance, OutcomeInsufficientBalance},
	{ErrNegativeValue, OutcomeNegativeValue},
	{ErrSameSenderAndReceiver, OutcomeSameSenderAndReceiver},
	{ErrInvalidBid, OutcomeInvalidBid},
	{ErrOnCooldown, OutcomeOnCooldown},
	{ErrInvalidAdjustment, OutcomeInvalidAdjustment},
	{ErrBalanceOverflow, OutcomeBalanceOverflow},
	{ErrInvalidSettings, OutcomeInvalidSettings},
}

// OutcomeOf 將錯誤轉換為結果代碼，nil 為 OutcomeOK，無法辨識的錯誤為 OutcomeInternal
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.outcome
		}
	}
	return OutcomeInternal
}

// IsRecoverable 判斷錯誤是否為預期內的業務結果 (非致命)
func IsRecoverable(err error) bool {
	o := OutcomeOf(err)
	return o != OutcomeOK && o != OutcomeInternal
}
