package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
)

// errorBody 統一的錯誤回應格式
// Retryable 讓呼叫端能區分可重試（衝突、儲存層故障）與不可重試的錯誤
type errorBody struct {
	Msg       string   `json:"msg"`
	Code      string   `json:"code"`
	Retryable bool     `json:"retryable"`
	Fields    []string `json:"fields,omitempty"`
}

// writeDomainErr 把領域錯誤映射成 HTTP 狀態碼與錯誤回應
func writeDomainErr(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrAmountMustBePositive),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidDestination):
		status, code = fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrAccountNotFound):
		status, code = fiber.StatusNotFound, "account_not_found"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "user_not_found"
	case errors.Is(err, domain.ErrInsufficientBalance):
		status, code = fiber.StatusConflict, "insufficient_balance"
	case errors.Is(err, domain.ErrTransferConflict):
		status, code = fiber.StatusConflict, "transfer_conflict"
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrAccountAlreadyExists):
		status, code = fiber.StatusConflict, "already_exists"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code = fiber.StatusServiceUnavailable, "store_unavailable"
	}

	return c.Status(status).JSON(errorBody{
		Msg:       err.Error(),
		Code:      code,
		Retryable: domain.IsRetryable(err),
	})
}

// writeValidationErr 欄位驗證失敗：列出違規欄位
func writeValidationErr(c *fiber.Ctx, fields []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody{
		Msg:    "invalid input",
		Code:   "invalid_input",
		Fields: fields,
	})
}
