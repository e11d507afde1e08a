package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	http_adapter "github.com/walletpay/go-wallet-ledger/internal/app/core/adapter/in/http"
	memory_adapter "github.com/walletpay/go-wallet-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/walletpay/go-wallet-ledger/internal/app/core/adapter/out/mysql"
	"github.com/walletpay/go-wallet-ledger/internal/app/core/usecase"
	"github.com/walletpay/go-wallet-ledger/pkg/mysql"
	"github.com/walletpay/go-wallet-ledger/pkg/token"
	"github.com/walletpay/go-wallet-ledger/pkg/wal"
)

// Ledger backend 種類
const (
	LedgerBackendMySQL  = "mysql"
	LedgerBackendMemory = "memory"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Auth struct {
		Secret   string        `yaml:"secret"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Ledger struct {
		// Backend: "mysql" 或 "memory"（memory 搭配 WAL，單機開發用）
		Backend string `yaml:"backend"`
		WALPath string `yaml:"wal_path"`
	} `yaml:"ledger"`
	MySQL mysql.Config `yaml:"mysql"`
}

func main() {
	// 1. 載入設定
	cfg := loadConfig()

	// 2. 初始化 Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. 依設定組裝 Ledger 與 UserRepository
	var (
		usedLedger usecase.Ledger
		userRepo   usecase.UserRepository
		cleanup    func()
	)
	switch cfg.Ledger.Backend {
	case LedgerBackendMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL, logger)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		logger.Info("connected to mysql")

		ledgerRepo := mysql_adapter.NewMySQLLedger(dbClient)
		if err := ledgerRepo.Migrate(); err != nil {
			logger.Fatal("failed to migrate accounts table", zap.Error(err))
		}
		users := mysql_adapter.NewUserRepo(dbClient)
		if err := users.Migrate(); err != nil {
			logger.Fatal("failed to migrate users table", zap.Error(err))
		}

		usedLedger = ledgerRepo
		userRepo = users
		cleanup = func() { _ = dbClient.Close() }

	case LedgerBackendMemory:
		// 初始化 WAL，重啟時重放恢復帳本與使用者
		walFile, err := wal.NewWAL(cfg.Ledger.WALPath)
		if err != nil {
			logger.Fatal("failed to init wal", zap.Error(err))
		}
		mutexLedger, err := memory_adapter.NewMutexLedger(walFile)
		if err != nil {
			logger.Fatal("failed to init memory ledger", zap.Error(err))
		}
		users, err := memory_adapter.NewUserRepo(walFile)
		if err != nil {
			logger.Fatal("failed to init memory user repo", zap.Error(err))
		}

		usedLedger = mutexLedger
		userRepo = users
		cleanup = func() { _ = walFile.Close() }

	default:
		logger.Fatal("invalid ledger backend", zap.String("backend", cfg.Ledger.Backend))
	}
	defer cleanup()

	// 4. Token Maker 與 UseCase
	tokens, err := token.NewMaker(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("failed to init token maker", zap.Error(err))
	}
	coreUseCase := usecase.NewCoreUseCase(usedLedger, logger)
	userUseCase := usecase.NewUserUseCase(userRepo, usedLedger, tokens, logger)

	// 5. HTTP Adapter (Driving Adapter)
	server := http_adapter.NewServer(coreUseCase, userUseCase, tokens, logger)

	// 6. 啟動與 Graceful Shutdown
	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("backend", cfg.Ledger.Backend),
		)
		if err := server.Listen(cfg.Server.Addr); err != nil {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	if err := server.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server exited")
}

func loadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfgData, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	// 補全預設配置 (如果 yaml 沒寫)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = LedgerBackendMemory
	}
	if cfg.Ledger.WALPath == "" {
		cfg.Ledger.WALPath = "wal.log"
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	return cfg
}
