package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/wal"
)

// journalRecord WAL 紀錄：開戶、交易或使用者異動擇一
// 帳本與使用者儲存共用同一份日誌，重放時各取所需的 Kind
type journalRecord struct {
	Kind      string              `json:"kind"` // "account" | "tran" | "user" | "user_del"
	AccountID int64               `json:"account_id,omitempty"`
	Tran      *domain.Transaction `json:"tran,omitempty"`
	User      *domain.User        `json:"user,omitempty"`
	UserID    int64               `json:"user_id,omitempty"`
}

const (
	journalKindAccount = "account"
	journalKindTran    = "tran"
	journalKindUser    = "user"
	journalKindUserDel = "user_del"
)

// MutexLedger 以單一 RWMutex 實現的帳本 (Account Store)
//
// 所有寫入都在同一臨界區內完成：檢核（存在性、餘額）全數通過後
// 才寫 WAL、才套用變更，因此任何失敗都不會留下部分效果。
// 單一鎖即是這個儲存層的隔離機制，兩筆共享帳戶的交易天然序列化，
// 不可能發生 lost update。
type MutexLedger struct {
	accounts map[int64]*domain.Account
	mu       sync.RWMutex
	// 已處理過的交易（RefID 去重）
	processedTransactions map[uuid.UUID]time.Time
	// Write-Ahead Logging；nil 表示純記憶體（測試用）
	wal *wal.WAL
}

// NewMutexLedger 建立一個新的 MutexLedger 實例並從 WAL 恢復狀態
//
// 參數:
//
//	wal: Write-Ahead Log 實例，可為 nil
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewMutexLedger(w *wal.WAL) (*MutexLedger, error) {
	ledger := &MutexLedger{
		accounts:              make(map[int64]*domain.Account),
		processedTransactions: make(map[uuid.UUID]time.Time),
		wal:                   w,
	}
	if err := ledger.recoverFromWAL(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// recoverFromWAL 重放日誌重建帳本狀態
// 只有 NewMutexLedger 呼叫，單執行緒，無需上鎖
func (m *MutexLedger) recoverFromWAL() error {
	if m.wal == nil {
		return nil
	}
	now := time.Now()
	return m.wal.ReadAll(func(jsonRaw []byte) error {
		var rec journalRecord
		if err := json.Unmarshal(jsonRaw, &rec); err != nil {
			return err
		}
		switch rec.Kind {
		case journalKindAccount:
			m.accounts[rec.AccountID] = domain.NewAccount(rec.AccountID, 0)
		case journalKindTran:
			if _, err := m.apply(rec.Tran); err != nil {
				return err
			}
			m.processedTransactions[rec.Tran.RefID] = now
		}
		return nil
	})
}

// GetAccountBalance 取得指定帳戶的當前餘額
func (m *MutexLedger) GetAccountBalance(ctx context.Context, accountID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	return account.Balance, nil
}

// CreateAccount 以餘額 0 開戶
func (m *MutexLedger) CreateAccount(ctx context.Context, accountID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; ok {
		return domain.ErrAccountAlreadyExists
	}
	if err := m.journal(&journalRecord{Kind: journalKindAccount, AccountID: accountID}); err != nil {
		return err
	}
	m.accounts[accountID] = domain.NewAccount(accountID, 0)
	return nil
}

// Post 套用一筆交易 (全有或全無)
//
// 順序: 檢核 → 寫 WAL 並落盤 (Critical Path) → 套用
// 回傳主帳戶套用後的餘額
func (m *MutexLedger) Post(ctx context.Context, tran *domain.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// RefID 去重：重放同一筆意圖直接回報當前狀態
	if _, ok := m.processedTransactions[tran.RefID]; ok {
		account, ok := m.accounts[tran.PrimaryAccount()]
		if !ok {
			return 0, domain.ErrAccountNotFound
		}
		return account.Balance, nil
	}

	if err := m.check(tran); err != nil {
		return 0, err
	}

	if err := m.journal(&journalRecord{Kind: journalKindTran, Tran: tran}); err != nil {
		return 0, err
	}

	balance, err := m.apply(tran)
	if err != nil {
		// check 已通過，不應落到這裡
		return 0, err
	}
	m.processedTransactions[tran.RefID] = time.Now()
	return balance, nil
}

// check 在不改變任何狀態的前提下驗證交易能否套用
func (m *MutexLedger) check(tran *domain.Transaction) error {
	switch tran.Type {
	case domain.TransactionTypeDeposit:
		if _, ok := m.accounts[tran.To]; !ok {
			return domain.ErrAccountNotFound
		}
	case domain.TransactionTypeTransfer:
		from, ok := m.accounts[tran.From]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if _, ok := m.accounts[tran.To]; !ok {
			return domain.ErrInvalidDestination
		}
		if from.Balance < tran.Amount {
			return domain.ErrInsufficientBalance
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// apply 套用已通過檢核的交易，回傳主帳戶新餘額
func (m *MutexLedger) apply(tran *domain.Transaction) (int64, error) {
	switch tran.Type {
	case domain.TransactionTypeDeposit:
		toAccount, ok := m.accounts[tran.To]
		if !ok {
			return 0, domain.ErrAccountNotFound
		}
		if err := toAccount.Deposit(tran.Amount); err != nil {
			return 0, err
		}
		return toAccount.Balance, nil
	case domain.TransactionTypeTransfer:
		fromAccount, ok := m.accounts[tran.From]
		if !ok {
			return 0, domain.ErrAccountNotFound
		}
		toAccount, ok := m.accounts[tran.To]
		if !ok {
			return 0, domain.ErrInvalidDestination
		}
		if err := fromAccount.Withdraw(tran.Amount); err != nil {
			return 0, err
		}
		if err := toAccount.Deposit(tran.Amount); err != nil {
			// Withdraw 已成功但 Deposit 失敗時回滾扣款
			fromAccount.Balance += tran.Amount
			return 0, err
		}
		return fromAccount.Balance, nil
	default:
		return 0, domain.ErrInvalidInput
	}
}

// journal 寫入 WAL 並強制落盤
func (m *MutexLedger) journal(rec *journalRecord) error {
	if m.wal == nil {
		return nil
	}
	if err := m.wal.Write(rec); err != nil {
		return domain.ErrWALWriteFailed
	}
	if err := m.wal.Flush(); err != nil {
		return domain.ErrWALWriteFailed
	}
	return nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
