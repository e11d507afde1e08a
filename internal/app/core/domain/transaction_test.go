package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	// 金額必須為正
	tran := &Transaction{From: 1, To: 2, Amount: 0, Type: TransactionTypeTransfer}
	require.ErrorIs(t, tran.Validate(), ErrAmountMustBePositive)

	tran.Amount = -10
	require.ErrorIs(t, tran.Validate(), ErrAmountMustBePositive)

	// 自轉帳直接拒絕
	tran = &Transaction{From: 7, To: 7, Amount: 100, Type: TransactionTypeTransfer}
	require.ErrorIs(t, tran.Validate(), ErrSameAccount)

	// 未知類型
	tran = &Transaction{To: 2, Amount: 100, Type: TransactionType(99)}
	require.ErrorIs(t, tran.Validate(), ErrInvalidInput)

	// 合法轉帳與存款
	tran = &Transaction{From: 1, To: 2, Amount: 100, Type: TransactionTypeTransfer}
	require.NoError(t, tran.Validate())
	tran = &Transaction{To: 2, Amount: 100, Type: TransactionTypeDeposit}
	require.NoError(t, tran.Validate())
}

func TestGetLockIDsOrdering(t *testing.T) {
	// 無論 From/To 大小，鎖定順序必須遞增
	tran := &Transaction{From: 9, To: 3, Amount: 1, Type: TransactionTypeTransfer}
	assert.Equal(t, []int64{3, 9}, tran.GetLockIDs())

	tran = &Transaction{From: 3, To: 9, Amount: 1, Type: TransactionTypeTransfer}
	assert.Equal(t, []int64{3, 9}, tran.GetLockIDs())

	tran = &Transaction{To: 5, Amount: 1, Type: TransactionTypeDeposit}
	assert.Equal(t, []int64{5}, tran.GetLockIDs())
}

func TestPrimaryAccount(t *testing.T) {
	tran := &Transaction{From: 1, To: 2, Amount: 1, Type: TransactionTypeTransfer}
	assert.Equal(t, int64(1), tran.PrimaryAccount())

	tran = &Transaction{To: 2, Amount: 1, Type: TransactionTypeDeposit}
	assert.Equal(t, int64(2), tran.PrimaryAccount())
}
