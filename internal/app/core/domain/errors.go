package domain

import "errors"

var (
	// ErrInvalidInput 請求內容不合法（欄位缺漏或超出範圍）
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized 呼叫者憑證缺失或無效
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrSameAccount 轉帳來源與目標帳戶相同
	ErrSameAccount = errors.New("from and to are the same account")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidDestination 轉帳目標帳戶不存在
	ErrInvalidDestination = errors.New("invalid destination account")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrUserAlreadyExists 使用者已存在（email 或 username 重複）
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound 找不到使用者
	ErrUserNotFound = errors.New("user not found")

	// ErrTransferConflict 交易與其他併發交易衝突，可安全重試
	ErrTransferConflict = errors.New("transfer conflict, safe to retry")

	// ErrStoreUnavailable 儲存層暫時無法使用
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrWALWriteFailed WAL 寫入失敗
	ErrWALWriteFailed = errors.New("wal write failed")
)

// IsRetryable 回報此錯誤是否屬於可重試類別
// （衝突與基礎設施故障可重試；業務規則錯誤不可）
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransferConflict) || errors.Is(err, ErrStoreUnavailable)
}
