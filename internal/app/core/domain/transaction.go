package domain

import "github.com/google/uuid"

// amount 使用 int64 最小貨幣單位（分），避免浮點漂移
const (
	CurrencyScale = 100
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款（單帳戶入金）
	TransactionTypeDeposit TransactionType = 1
	// 轉帳（雙帳戶原子移轉）
	TransactionTypeTransfer TransactionType = 2
)

// Transaction 一筆交易意圖 (Transfer Intent)
// 僅存活於單次請求，commit 或 abort 後即丟棄；不保存歷史
type Transaction struct {
	// From, To: 帳戶 ID；Deposit 只看 To
	From int64
	To   int64
	// Amount: 金額（最小單位），必須 > 0
	Amount int64
	// RefID: 外部追蹤號 (UUID)，memory ledger 以此去重
	RefID uuid.UUID
	// Type: 放最後，利用 Padding 空間
	Type TransactionType
}

// Validate 檢核交易意圖本身（不觸碰任何儲存層）
func (t *Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrAmountMustBePositive
	}
	switch t.Type {
	case TransactionTypeDeposit:
		// Deposit 只需要目的帳戶
	case TransactionTypeTransfer:
		if t.From == t.To {
			return ErrSameAccount
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

// GetLockIDs 回傳需要鎖定的帳號 ID，遞增排序以避免死鎖
func (t *Transaction) GetLockIDs() (ids []int64) {
	ids = make([]int64, 0, 2)
	switch t.Type {
	case TransactionTypeTransfer:
		if t.From < t.To {
			ids = append(ids, t.From, t.To)
		} else {
			ids = append(ids, t.To, t.From)
		}
	case TransactionTypeDeposit:
		ids = append(ids, t.To)
	}
	return ids
}

// PrimaryAccount 回傳交易的主帳戶：
// 轉帳看 From（回報扣款後餘額），存款看 To（回報入金後餘額）
func (t *Transaction) PrimaryAccount() int64 {
	if t.Type == TransactionTypeDeposit {
		return t.To
	}
	return t.From
}
