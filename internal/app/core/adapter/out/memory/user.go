package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/wal"
)

// UserRepo 記憶體使用者儲存（單機部署與測試用）
// 對外只回傳值拷貝，避免呼叫端越權修改內部狀態
//
// 與 MutexLedger 共用同一份 WAL：使用者異動以 "user" / "user_del"
// 紀錄落盤，重啟後重放即可恢復登入狀態，且 nextID 接續最大已配發
// ID，不會與已恢復的帳戶撞號
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*domain.User
	byEmail map[string]int64
	// nil 表示純記憶體（測試用）
	wal *wal.WAL
}

func NewUserRepo(w *wal.WAL) (*UserRepo, error) {
	r := &UserRepo{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		wal:     w,
	}
	if err := r.recoverFromWAL(); err != nil {
		return nil, err
	}
	return r, nil
}

// recoverFromWAL 重放使用者紀錄，其餘 Kind 由 MutexLedger 處理
func (r *UserRepo) recoverFromWAL() error {
	if r.wal == nil {
		return nil
	}
	return r.wal.ReadAll(func(jsonRaw []byte) error {
		var rec journalRecord
		if err := json.Unmarshal(jsonRaw, &rec); err != nil {
			return err
		}
		switch rec.Kind {
		case journalKindUser:
			cp := *rec.User
			r.users[cp.ID] = &cp
			r.byEmail[cp.Email] = cp.ID
			if cp.ID > r.nextID {
				r.nextID = cp.ID
			}
		case journalKindUserDel:
			if u, ok := r.users[rec.UserID]; ok {
				delete(r.byEmail, u.Email)
				delete(r.users, rec.UserID)
			}
		}
		return nil
	})
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return 0, domain.ErrUserAlreadyExists
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return 0, domain.ErrUserAlreadyExists
		}
	}
	cp := *user
	cp.ID = r.nextID + 1
	if err := r.journal(&journalRecord{Kind: journalKindUser, User: &cp}); err != nil {
		return 0, err
	}
	r.nextID = cp.ID
	user.ID = cp.ID
	r.users[cp.ID] = &cp
	r.byEmail[cp.Email] = cp.ID
	return cp.ID, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	// email/username 不可變更，沿用舊值
	cp := *user
	cp.Email = old.Email
	cp.Username = old.Username
	if err := r.journal(&journalRecord{Kind: journalKindUser, User: &cp}); err != nil {
		return err
	}
	r.users[cp.ID] = &cp
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := r.journal(&journalRecord{Kind: journalKindUserDel, UserID: id}); err != nil {
		return err
	}
	delete(r.byEmail, u.Email)
	delete(r.users, id)
	return nil
}

func (r *UserRepo) Search(ctx context.Context, filter string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(filter)
	out := make([]*domain.User, 0)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// journal 寫入 WAL 並強制落盤
func (r *UserRepo) journal(rec *journalRecord) error {
	if r.wal == nil {
		return nil
	}
	if err := r.wal.Write(rec); err != nil {
		return domain.ErrWALWriteFailed
	}
	if err := r.wal.Flush(); err != nil {
		return domain.ErrWALWriteFailed
	}
	return nil
}

var _ usecase.UserRepository = (*UserRepo)(nil)
