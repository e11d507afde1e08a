package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

// 衝突重試策略：最多 3 次嘗試、線性退避
// 上限是刻意的，避免熱帳戶把 goroutine 釘死；超過後把
// ErrTransferConflict 交還呼叫端自行決定是否重送
const (
	transferMaxAttempts = 3
	transferRetryDelay  = 25 * time.Millisecond
)

// CoreUseCase 是核心業務邏輯層：
// 驗證交易意圖、驅動儲存層的交易邊界、對衝突做有限重試
type CoreUseCase struct {
	ledger Ledger
	log    *zap.Logger
}

func NewCoreUseCase(ledger Ledger, log *zap.Logger) *CoreUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CoreUseCase{
		ledger: ledger,
		log:    log,
	}
}

// PostTransaction 處理一筆交易（轉帳或存款）
//
// 狀態流轉: received → validating → (rejected | reserving)
// → (aborted | committing) → (committed | conflict_aborted)
// 回傳主帳戶的新餘額；任何非 nil error 都保證兩邊餘額未變動
func (c *CoreUseCase) PostTransaction(ctx context.Context, tran *domain.Transaction) (int64, error) {
	if tran.RefID == uuid.Nil {
		tran.RefID = uuid.New()
	}
	log := c.log.With(
		zap.String("ref_id", tran.RefID.String()),
		zap.Uint8("type", uint8(tran.Type)),
		zap.Int64("from", tran.From),
		zap.Int64("to", tran.To),
		zap.Int64("amount", tran.Amount),
	)
	log.Debug("transaction received", zap.Stringer("state", domain.TransferStateValidating))

	if err := tran.Validate(); err != nil {
		log.Warn("transaction rejected", zap.Stringer("state", domain.TransferStateRejected), zap.Error(err))
		return 0, err
	}

	var balance int64
	var err error
	for attempt := 1; attempt <= transferMaxAttempts; attempt++ {
		log.Debug("posting transaction",
			zap.Stringer("state", domain.TransferStateReserving),
			zap.Int("attempt", attempt),
		)
		balance, err = c.ledger.Post(ctx, tran)
		if err == nil {
			log.Info("transaction committed",
				zap.Stringer("state", domain.TransferStateCommitted),
				zap.Int64("balance", balance),
			)
			return balance, nil
		}
		if !errors.Is(err, domain.ErrTransferConflict) {
			log.Warn("transaction aborted", zap.Stringer("state", domain.TransferStateAborted), zap.Error(err))
			return 0, err
		}
		// 衝突：整筆意圖重跑是安全的，因為沒有任何部分狀態被提交
		if attempt < transferMaxAttempts {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(transferRetryDelay * time.Duration(attempt)):
			}
		}
	}
	log.Warn("transaction conflict, retries exhausted",
		zap.Stringer("state", domain.TransferStateConflictAborted),
	)
	return 0, err
}

// Transfer 轉帳：from → to，金額必須為正
func (c *CoreUseCase) Transfer(ctx context.Context, from, to, amount int64) error {
	_, err := c.PostTransaction(ctx, &domain.Transaction{
		From:   from,
		To:     to,
		Amount: amount,
		Type:   domain.TransactionTypeTransfer,
	})
	return err
}

// Credit 入金：回傳入金後的新餘額
func (c *CoreUseCase) Credit(ctx context.Context, accountID, amount int64) (int64, error) {
	return c.PostTransaction(ctx, &domain.Transaction{
		To:     accountID,
		Amount: amount,
		Type:   domain.TransactionTypeDeposit,
	})
}

// GetAccountBalance 取得帳戶餘額
func (c *CoreUseCase) GetAccountBalance(ctx context.Context, accountID int64) (int64, error) {
	return c.ledger.GetAccountBalance(ctx, accountID)
}
