package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	grpc_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	grpcpkg "github.com/JoeShih716/go-slot-bank/pkg/grpc"
	zaplog "github.com/JoeShih716/go-slot-bank/pkg/zap"
)

const (
	TotalCount  = 100000
	Concurrency = 1000
)

func main() {
	target := flag.String("target", "localhost:50051", "gRPC server address")
	total := flag.Int("n", TotalCount, "number of plays")
	concurrency := flag.Int("c", Concurrency, "worker pool size")
	bid := flag.Int64("bid", 1, "bid per line")
	multi := flag.Bool("multi", true, "play all three rows")
	flag.Parse()

	logger := zaplog.NewLogger(&zaplog.Config{Mode: zaplog.Dev, Level: "info", App: "test_rpc_client"})
	defer func() { _ = logger.Sync() }()

	pool := grpcpkg.NewPool(
		grpcpkg.WithCallTimeout(5*time.Second),
		grpcpkg.WithLogger(logger),
	)
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		logger.Fatal("did not connect", zap.Error(err))
	}
	c := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	// 每次執行使用新的帳戶，避免冷卻時間與前次餘額影響
	account := grpc_adapter.Account{Community: "loadtest", Identity: uuid.NewString()}
	if _, err := c.Register(ctx, &grpc_adapter.RegisterRequest{Account: account, Name: "load tester"}); err != nil {
		logger.Fatal("register failed", zap.Error(err))
	}
	stake := *bid * int64(*total)
	if *multi {
		stake *= 3
	}
	if _, err := c.SetBalance(ctx, &grpc_adapter.SetBalanceRequest{Account: account, Value: fmt.Sprintf("+%d", stake)}); err != nil {
		logger.Fatal("set balance failed", zap.Error(err))
	}

	antsPool, err := ants.NewPool(*concurrency)
	if err != nil {
		logger.Fatal("create worker pool failed", zap.Error(err))
	}
	defer antsPool.Release()

	var (
		wg       sync.WaitGroup
		wins     atomic.Int64
		awarded  atomic.Int64
		failures atomic.Int64
		outcomes sync.Map // domain.Outcome -> *atomic.Int64
	)
	countOutcome := func(o domain.Outcome) {
		v, _ := outcomes.LoadOrStore(o, new(atomic.Int64))
		v.(*atomic.Int64).Add(1)
	}

	startTime := time.Now()
	for i := 0; i < *total; i++ {
		wg.Add(1)
		idx := i
		if err := antsPool.Submit(func() {
			defer wg.Done()
			resp, err := c.Play(ctx, &grpc_adapter.PlayRequest{Account: account, Bid: *bid, Multi: *multi})
			if err != nil {
				failures.Add(1)
				if idx%10000 == 0 {
					logger.Warn("play failed", zap.Int("idx", idx), zap.Error(err))
				}
				return
			}
			countOutcome(resp.Outcome)
			if resp.TotalAward > 0 {
				wins.Add(1)
				awarded.Add(resp.TotalAward)
			}
		}); err != nil {
			wg.Done()
			failures.Add(1)
		}
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	balance, err := c.GetBalance(ctx, &grpc_adapter.GetBalanceRequest{Account: account})
	if err != nil {
		logger.Fatal("get balance failed", zap.Error(err))
	}

	fmt.Printf("Completed %d plays in %v\n", *total, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	fmt.Printf("Wins: %d, Awarded: %d, Failed: %d\n", wins.Load(), awarded.Load(), failures.Load())
	outcomes.Range(func(k, v any) bool {
		fmt.Printf("  %s: %d\n", k, v.(*atomic.Int64).Load())
		return true
	})
	fmt.Printf("Final balance: %d (funded %d)\n", balance.Balance, stake)
}
