package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	grpc_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/in/http"
	jsonfile_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/jsonfile"
	memory_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/memory"
	metrics_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/metrics"
	mysql_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/mysql"
	redis_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/redis"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-slot-bank/pkg/jsonstore"
	"github.com/JoeShih716/go-slot-bank/pkg/mysql"
	"github.com/JoeShih716/go-slot-bank/pkg/redis"
	"github.com/JoeShih716/go-slot-bank/pkg/wal"
	zaplog "github.com/JoeShih716/go-slot-bank/pkg/zap"
)

func main() {
	// 1. 載入設定
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化 Logger
	logger := zaplog.NewLogger(&cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	// 3. 初始化帳本
	ledger, ready, closeLedger, err := newLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLedger()
	logger.Info("ledger ready", zap.String("type", string(cfg.Ledger)))

	// 4. 社群設定與冷卻時間
	settingsFile, err := jsonstore.Open(filepath.Join(cfg.DataDir, "settings.json"))
	if err != nil {
		return err
	}
	settings, err := jsonfile_adapter.NewSettingsStore(settingsFile, cfg.Defaults, logger)
	if err != nil {
		return err
	}

	var cooldowns usecase.CooldownStore = memory_adapter.NewCooldownStore()
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cooldowns = redis_adapter.NewCooldownStore(rdb)
		logger.Info("cooldowns stored in redis", zap.Strings("addr", cfg.Redis.Addr))
	}

	// 5. 倍率表
	multipliers, err := domain.ParseMultipliers(domain.DefaultMultipliers(), cfg.Paytable)
	if err != nil {
		return err
	}

	// 6. 初始化 UseCase
	recorder := metrics_adapter.NewRecorder(nil)
	bank := usecase.NewBankUseCase(ledger, settings, recorder, logger)
	slots, err := usecase.NewSlotsUseCase(ledger, settings, cooldowns,
		domain.NewPaytable(multipliers),
		domain.ClassicMachine(),
		usecase.WithRecorder(recorder),
		usecase.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	coreUseCase := usecase.NewCoreUseCase(bank, slots)

	// 7. 初始化 gRPC Adapter (Driving Adapter)
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(logger)))
	grpc_adapter.RegisterSlotBankServiceServer(s, grpc_adapter.NewGrpcServer(coreUseCase, logger))

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           http_adapter.NewRouter(nil, ready),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 8. 啟動 Server，收到信號後 Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting grpc server", zap.String("addr", cfg.GRPC.Addr))
		return s.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		s.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newLedger 依設定建立帳本
//
// 回傳:
//
//	usecase.Ledger: 帳本
//	func() bool: 健康檢查
//	func(): 關閉帳本使用的資源
//	error: 初始化失敗
func newLedger(ctx context.Context, cfg *Config, logger *zap.Logger) (usecase.Ledger, func() bool, func(), error) {
	alwaysReady := func() bool { return true }
	switch cfg.Ledger {
	case LedgerTypeMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to mysql: %w", err)
		}
		ledger, err := mysql_adapter.NewLedger(ctx, dbClient, logger)
		if err != nil {
			_ = dbClient.Close()
			return nil, nil, nil, err
		}
		ready := func() bool {
			sqlDB, err := dbClient.DB().DB()
			return err == nil && sqlDB.Ping() == nil
		}
		return ledger, ready, func() { _ = dbClient.Close() }, nil

	case LedgerTypeMutex, LedgerTypeLMAX:
		if err := os.MkdirAll(filepath.Dir(cfg.WALPath), 0o755); err != nil {
			return nil, nil, nil, err
		}
		walFile, err := wal.NewWAL(cfg.WALPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to init wal: %w", err)
		}
		closeWAL := func() { _ = walFile.Close() }
		if cfg.Ledger == LedgerTypeMutex {
			ledger, err := memory_adapter.NewMutexLedger(make(domain.Book), walFile)
			if err != nil {
				closeWAL()
				return nil, nil, nil, err
			}
			return ledger, alwaysReady, closeWAL, nil
		}
		ledger, err := memory_adapter.NewLMAXLedger(make(domain.Book), walFile)
		if err != nil {
			closeWAL()
			return nil, nil, nil, err
		}
		loopCtx, cancel := context.WithCancel(ctx)
		ledger.Start(loopCtx)
		ready := func() bool {
			select {
			case <-ledger.Done():
				return false
			default:
				return true
			}
		}
		// 等寫入迴圈把剩下的請求處理完再關閉 WAL
		return ledger, ready, func() { cancel(); <-ledger.Done(); closeWAL() }, nil

	case LedgerTypeJSON:
		file, err := jsonstore.Open(filepath.Join(cfg.DataDir, "bank.json"))
		if err != nil {
			return nil, nil, nil, err
		}
		ledger, err := jsonfile_adapter.NewLedger(file, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return ledger, alwaysReady, func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("invalid ledger type: %q", cfg.Ledger)
}
