package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/domain"
	"github.com/walletpay/go-wallet-ledger/pkg/token"
)

// Locals key
const (
	localUserID = "user_id"
	localEmail  = "user_email"
)

// authRequired 驗證 Bearer Token；所有會動到餘額的路由都必須掛上
// （查詢與轉帳、入金一視同仁，缺憑證一律 401）
func authRequired(tokens *token.Maker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return writeDomainErr(c, domain.ErrUnauthorized)
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, prefix))
		if err != nil {
			return writeDomainErr(c, domain.ErrUnauthorized)
		}
		c.Locals(localUserID, claims.UserID)
		c.Locals(localEmail, claims.Email)
		return c.Next()
	}
}

// callerID 取出已驗證的呼叫者帳戶 ID
func callerID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(localUserID).(int64)
	return id, ok
}

// requestLogger 記錄每個請求的方法、路徑、狀態碼與耗時
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
