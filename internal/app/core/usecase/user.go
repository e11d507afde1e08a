package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

// UserUseCase 使用者註冊 / 登入 / 資料維護
type UserUseCase struct {
	users  UserRepository
	ledger Ledger
	tokens TokenIssuer
	log    *zap.Logger
}

func NewUserUseCase(users UserRepository, ledger Ledger, tokens TokenIssuer, log *zap.Logger) *UserUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserUseCase{
		users:  users,
		ledger: ledger,
		tokens: tokens,
		log:    log,
	}
}

// UserUpdate 部分更新欄位；nil 代表不變更
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// Signup 建立使用者並開立餘額為 0 的帳戶
func (u *UserUseCase) Signup(ctx context.Context, user *domain.User, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	id, err := u.users.Create(ctx, user)
	if err != nil {
		return 0, err
	}
	if err := u.ledger.CreateAccount(ctx, id); err != nil {
		// 開戶失敗時補償刪除使用者，維持使用者與帳戶一比一
		if delErr := u.users.Delete(ctx, id); delErr != nil {
			u.log.Error("failed to roll back user after account creation failure",
				zap.Int64("user_id", id), zap.Error(delErr))
		}
		return 0, err
	}
	u.log.Info("user signed up", zap.Int64("user_id", id))
	return id, nil
}

// Login 驗證密碼並簽發 Token
// 帳號不存在與密碼錯誤統一回 ErrUnauthorized，不洩漏差異
func (u *UserUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	tok, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, user, nil
}

// Profile 取得登入者自己的資料
func (u *UserUseCase) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return u.users.GetByID(ctx, userID)
}

// Update 部分更新登入者資料；密碼變更時重新雜湊
func (u *UserUseCase) Update(ctx context.Context, userID int64, upd UserUpdate) error {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	return u.users.Update(ctx, user)
}

// Search 模糊搜尋使用者（轉帳前查詢對方帳戶用）
func (u *UserUseCase) Search(ctx context.Context, filter string) ([]*domain.User, error) {
	return u.users.Search(ctx, filter)
}
