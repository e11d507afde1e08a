package usecase

import (
	"context"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

// Ledger 是帳務儲存層的介面 (Account Store)
// 所有餘額變動都必須在實作者自己的交易邊界內完成，
// 失敗時不得留下任何可觀察的部分效果
type Ledger interface {
	// Post 以全有或全無的方式套用一筆交易；
	// 成功時回傳主帳戶在同一交易內計算出的新餘額
	Post(ctx context.Context, tran *domain.Transaction) (int64, error)
	// GetAccountBalance 取得帳戶餘額
	GetAccountBalance(ctx context.Context, accountID int64) (int64, error)
	// CreateAccount 以餘額 0 建立帳戶（註冊時呼叫）
	CreateAccount(ctx context.Context, accountID int64) error
}

// UserRepository 使用者資料存取介面
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete 移除使用者（註冊開戶失敗時的補償動作）
	Delete(ctx context.Context, id int64) error
	// Search 以 firstName/lastName 做不分大小寫的模糊查詢
	Search(ctx context.Context, filter string) ([]*domain.User, error)
}

// TokenIssuer 簽發登入憑證
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}
