package mysql

import (
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

func TestTranslateError(t *testing.T) {
	// 死鎖與鎖等待逾時都是暫時性衝突
	deadlock := &driver.MySQLError{Number: mysqlErrDeadlock, Message: "Deadlock found"}
	require.ErrorIs(t, translateError(deadlock), domain.ErrTransferConflict)

	lockWait := &driver.MySQLError{Number: mysqlErrLockWaitTimeout, Message: "Lock wait timeout"}
	require.ErrorIs(t, translateError(lockWait), domain.ErrTransferConflict)

	// 包裝過的也要能辨識
	wrapped := fmt.Errorf("commit: %w", deadlock)
	require.ErrorIs(t, translateError(wrapped), domain.ErrTransferConflict)

	// 領域錯誤原樣放行
	require.ErrorIs(t, translateError(domain.ErrInsufficientBalance), domain.ErrInsufficientBalance)
	require.ErrorIs(t, translateError(domain.ErrInvalidDestination), domain.ErrInvalidDestination)

	// 其餘一律視為儲存層故障
	require.ErrorIs(t, translateError(fmt.Errorf("connection refused")), domain.ErrStoreUnavailable)
	require.NoError(t, translateError(nil))
}

func TestTableNames(t *testing.T) {
	require.Equal(t, "accounts", (*sqlAccount)(nil).TableName())
	require.Equal(t, "users", (*sqlUser)(nil).TableName())
}
