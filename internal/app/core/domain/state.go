package domain

// TransferState 單筆轉帳請求的處理狀態
// Rejected / Aborted / ConflictAborted / Committed 為終態，不會再轉移
type TransferState uint8

const (
	TransferStateReceived TransferState = iota
	TransferStateValidating
	TransferStateRejected
	TransferStateReserving
	TransferStateAborted
	TransferStateCommitting
	TransferStateCommitted
	TransferStateConflictAborted
)

func (s TransferState) String() string {
	switch s {
	case TransferStateReceived:
		return "received"
	case TransferStateValidating:
		return "validating"
	case TransferStateRejected:
		return "rejected"
	case TransferStateReserving:
		return "reserving"
	case TransferStateAborted:
		return "aborted"
	case TransferStateCommitting:
		return "committing"
	case TransferStateCommitted:
		return "committed"
	case TransferStateConflictAborted:
		return "conflict_aborted"
	default:
		return "unknown"
	}
}

// Terminal 回報此狀態是否為終態
func (s TransferState) Terminal() bool {
	switch s {
	case TransferStateRejected, TransferStateAborted,
		TransferStateCommitted, TransferStateConflictAborted:
		return true
	}
	return false
}
