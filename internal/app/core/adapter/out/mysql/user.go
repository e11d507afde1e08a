package mysql

import (
	"context"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/mysql"
)

// sqlUser 對應資料庫的 users 表
type sqlUser struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FirstName    string `gorm:"size:64;not null"`
	LastName     string `gorm:"size:64;not null"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:milli"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:milli"`
}

func (*sqlUser) TableName() string {
	return "users"
}

func (u *sqlUser) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

// UserRepo MySQL 使用者儲存
type UserRepo struct {
	client *mysql.Client
}

func NewUserRepo(client *mysql.Client) *UserRepo {
	return &UserRepo{client: client}
}

// Migrate 建立 users 表（部署初始化用）
func (r *UserRepo) Migrate() error {
	return r.client.DB().AutoMigrate(&sqlUser{})
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	row := sqlUser{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := r.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		var mysqlErr *driver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return 0, domain.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	user.ID = row.ID
	return row.ID, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row sqlUser
	err := r.client.DB().WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row sqlUser
	err := r.client.DB().WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return row.toDomain(), nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	// email/username 不可變更，只寫回可編輯欄位
	res := r.client.DB().WithContext(ctx).Model(&sqlUser{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"password_hash": user.PasswordHash,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res := r.client.DB().WithContext(ctx).Where("id = ?", id).Delete(&sqlUser{})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Search(ctx context.Context, filter string) ([]*domain.User, error) {
	var rows []sqlUser
	pattern := "%" + filter + "%"
	err := r.client.DB().WithContext(ctx).
		Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern).
		Limit(50).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	out := make([]*domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

var _ usecase.UserRepository = (*UserRepo)(nil)
