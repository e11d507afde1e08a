package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/token"
)

// Server HTTP 層 (Driving Adapter)：
// 解析與驗證請求、驗證呼叫者身分，再交給 usecase 層執行
type Server struct {
	app   *fiber.App
	core  *usecase.CoreUseCase
	users *usecase.UserUseCase
}

// NewServer 組裝 fiber App 與全部路由
// 除了 signup/login 之外，所有帳戶路由（含查詢）都掛 authRequired
func NewServer(core *usecase.CoreUseCase, users *usecase.UserUseCase, tokens *token.Maker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Use(requestLogger(log))

	s := &Server{
		app:   app,
		core:  core,
		users: users,
	}

	api := app.Group("/api/v1")

	user := api.Group("/user")
	user.Post("/signup", s.signup)
	user.Post("/login", s.login)
	user.Get("/me", authRequired(tokens), s.me)
	user.Put("/update", authRequired(tokens), s.updateUser)
	user.Get("/search", authRequired(tokens), s.searchUsers)

	account := api.Group("/account", authRequired(tokens))
	account.Get("/balance", s.balance)
	account.Post("/transfer", s.transfer)
	account.Post("/credit", s.credit)

	return s
}

// App 回傳底層 fiber App（測試用）
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen 開始服務
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown 停止接受新請求並等待進行中的請求結束
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
