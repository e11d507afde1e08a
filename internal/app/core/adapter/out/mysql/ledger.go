package mysql

import (
	"context"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/mysql"
)

// MySQL error numbers
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDuplicateEntry  = 1062
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64 `gorm:"primaryKey"`
	Balance   int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// MySQLLedger 以 MySQL 交易實現的 Account Store
//
// 每筆 Post 都在單一 DB Transaction 內完成：
// 以遞增順序 SELECT ... FOR UPDATE 鎖定涉及的帳戶（悲觀鎖，
// 共享帳戶的併發交易必須序列化，杜絕 lost update），
// 檢核通過後以 balance = balance ± ? 的原子運算式更新，
// 絕不在行程內讀值、計算、再寫回。
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

// Migrate 建立 accounts 表（部署初始化用）
func (ledger *MySQLLedger) Migrate() error {
	return ledger.client.DB().AutoMigrate(&sqlAccount{})
}

// Post 以全有或全無的方式套用一筆交易
// commit 失敗（死鎖、鎖等待逾時）回報 ErrTransferConflict，
// 整筆意圖可安全重送，因為沒有任何部分狀態被提交
func (ledger *MySQLLedger) Post(ctx context.Context, tran *domain.Transaction) (int64, error) {
	var newBalance int64
	err := ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 取得鎖定帳號，遞增排序避免死鎖（悲觀鎖）
		lockIDs := tran.GetLockIDs()
		var accounts []sqlAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", lockIDs).
			Find(&accounts).Error; err != nil {
			return err
		}
		accountMap := make(map[int64]*sqlAccount, len(accounts))
		for i := range accounts {
			accountMap[accounts[i].ID] = &accounts[i]
		}

		// 存在性檢核
		switch tran.Type {
		case domain.TransactionTypeTransfer:
			if _, ok := accountMap[tran.From]; !ok {
				return domain.ErrAccountNotFound
			}
			if _, ok := accountMap[tran.To]; !ok {
				return domain.ErrInvalidDestination
			}
		case domain.TransactionTypeDeposit:
			if _, ok := accountMap[tran.To]; !ok {
				return domain.ErrAccountNotFound
			}
		}

		// 業務規則檢核與餘額更新
		// 行已上鎖，鎖內讀值即為當前值；更新仍用原子運算式
		switch tran.Type {
		case domain.TransactionTypeDeposit:
			if err := tx.Model(&sqlAccount{}).
				Where("id = ?", tran.To).
				UpdateColumn("balance", gorm.Expr("balance + ?", tran.Amount)).Error; err != nil {
				return err
			}
			newBalance = accountMap[tran.To].Balance + tran.Amount
		case domain.TransactionTypeTransfer:
			if accountMap[tran.From].Balance < tran.Amount {
				return domain.ErrInsufficientBalance
			}
			if err := tx.Model(&sqlAccount{}).
				Where("id = ?", tran.From).
				UpdateColumn("balance", gorm.Expr("balance - ?", tran.Amount)).Error; err != nil {
				return err
			}
			if err := tx.Model(&sqlAccount{}).
				Where("id = ?", tran.To).
				UpdateColumn("balance", gorm.Expr("balance + ?", tran.Amount)).Error; err != nil {
				return err
			}
			newBalance = accountMap[tran.From].Balance - tran.Amount
		}
		return nil
	})
	if err != nil {
		return 0, translateError(err)
	}
	return newBalance, nil
}

// GetAccountBalance 取得帳戶餘額
func (ledger *MySQLLedger) GetAccountBalance(ctx context.Context, accountID int64) (int64, error) {
	var account sqlAccount
	err := ledger.client.DB().WithContext(ctx).
		Where("id = ?", accountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, translateError(err)
	}
	return account.Balance, nil
}

// CreateAccount 以餘額 0 開戶（帳戶 ID 即使用者 ID）
func (ledger *MySQLLedger) CreateAccount(ctx context.Context, accountID int64) error {
	err := ledger.client.DB().WithContext(ctx).
		Create(&sqlAccount{ID: accountID, Balance: 0}).Error
	if err != nil {
		var mysqlErr *driver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return domain.ErrAccountAlreadyExists
		}
		return translateError(err)
	}
	return nil
}

// translateError 把儲存層錯誤翻譯成領域錯誤
// 死鎖與鎖等待逾時屬於暫時性衝突，可重試；
// 領域錯誤原樣放行；其餘視為儲存層故障
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInvalidDestination),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAccountAlreadyExists):
		return err
	}
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return domain.ErrTransferConflict
		}
	}
	// 保留底層錯誤方便查修
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

var _ usecase.Ledger = (*MySQLLedger)(nil)
