package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpc_adapter "github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
	grpcpkg "github.com/JoeShih716/go-slot-bank/pkg/grpc"
)

var (
	alice = grpc_adapter.Account{Community: "guild", Identity: "alice"}
	bob   = grpc_adapter.Account{Community: "guild", Identity: "bob"}
)

func newClient(t *testing.T) *grpc_adapter.Client {
	t.Helper()
	ledger, err := memory.NewMutexLedger(nil, nil)
	if err != nil {
		t.Fatalf("NewMutexLedger: %v", err)
	}
	defaults := domain.DefaultSettings()
	defaults.RegistrationBonus = 100
	settings := memory.NewSettingsStore(defaults)
	bank := usecase.NewBankUseCase(ledger, settings, nil, zap.NewNop())
	slots, err := usecase.NewSlotsUseCase(ledger, settings, memory.NewCooldownStore(), domain.NewPaytable(nil), domain.ClassicMachine())
	if err != nil {
		t.Fatalf("NewSlotsUseCase: %v", err)
	}
	core := usecase.NewCoreUseCase(bank, slots)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(zap.NewNop())))
	grpc_adapter.RegisterSlotBankServiceServer(s, grpc_adapter.NewGrpcServer(core, zap.NewNop()))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	pool := grpcpkg.NewPool(grpcpkg.WithCallTimeout(5*time.Second), grpcpkg.WithLogger(zap.NewNop()))
	t.Cleanup(func() { _ = pool.Close() })
	conn, err := pool.GetConnection("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("GetConnection: %v", err)
	}
	return grpc_adapter.NewClient(conn)
}

func TestGrpcServer_BankFlow(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	reg, err := c.Register(ctx, &grpc_adapter.RegisterRequest{Account: alice, Name: "Alice"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Success || reg.Outcome != domain.OutcomeOK || reg.Balance != 100 {
		t.Fatalf("register response = %+v", reg)
	}
	again, err := c.Register(ctx, &grpc_adapter.RegisterRequest{Account: alice, Name: "Alice"})
	if err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if again.Success || again.Outcome != domain.OutcomeAccountAlreadyExists {
		t.Fatalf("expected soft failure, got %+v", again)
	}
	if _, err := c.Register(ctx, &grpc_adapter.RegisterRequest{Account: bob, Name: "Bob"}); err != nil {
		t.Fatalf("Register bob: %v", err)
	}

	tr, err := c.Transfer(ctx, &grpc_adapter.TransferRequest{From: alice, To: bob, Amount: 30})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !tr.Success || tr.CurrentBalance != 70 {
		t.Fatalf("transfer response = %+v", tr)
	}
	over, err := c.Transfer(ctx, &grpc_adapter.TransferRequest{From: alice, To: bob, Amount: 1000})
	if err != nil {
		t.Fatalf("Transfer overdraw: %v", err)
	}
	if over.Success || over.Outcome != domain.OutcomeInsufficientBalance || over.Message == "" {
		t.Fatalf("expected insufficient balance, got %+v", over)
	}

	set, err := c.SetBalance(ctx, &grpc_adapter.SetBalanceRequest{Account: bob, Value: "+20"})
	if err != nil || !set.Success || set.Balance != 150 {
		t.Fatalf("SetBalance = %+v, %v", set, err)
	}

	board, err := c.Leaderboard(ctx, &grpc_adapter.LeaderboardRequest{Community: "guild", Top: 10})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board.Entries) != 2 || board.Entries[0].Identity != "bob" || board.Entries[0].Rank != 1 {
		t.Fatalf("leaderboard = %+v", board.Entries)
	}

	bal, err := c.GetBalance(ctx, &grpc_adapter.GetBalanceRequest{Account: alice})
	if err != nil || bal.Balance != 70 {
		t.Fatalf("GetBalance = %+v, %v", bal, err)
	}
	_, err = c.GetBalance(ctx, &grpc_adapter.GetBalanceRequest{Account: grpc_adapter.Account{Community: "guild", Identity: "ghost"}})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGrpcServer_PlayAndSettings(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	if _, err := c.Register(ctx, &grpc_adapter.RegisterRequest{Account: alice, Name: "Alice"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	minBid, cooldown := int64(2), int64(60)
	st, err := c.UpdateSettings(ctx, &grpc_adapter.UpdateSettingsRequest{Community: "guild", MinBid: &minBid, CooldownSeconds: &cooldown})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if !st.Success || st.Settings.MinBid != 2 || st.Settings.CooldownSeconds != 60 {
		t.Fatalf("settings = %+v", st)
	}

	low, err := c.Play(ctx, &grpc_adapter.PlayRequest{Account: alice, Bid: 1})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if low.Success || low.Outcome != domain.OutcomeInvalidBid {
		t.Fatalf("expected invalid bid, got %+v", low)
	}

	resp, err := c.Play(ctx, &grpc_adapter.PlayRequest{Account: alice, Bid: 2, Multi: true})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !resp.Success || resp.Bid != 6 || len(resp.Grid) != 3 || resp.Text == "" {
		t.Fatalf("play response = %+v", resp)
	}
	if resp.After != resp.Before-resp.Bid+resp.TotalAward {
		t.Fatalf("balance mismatch: %+v", resp)
	}

	again, err := c.Play(ctx, &grpc_adapter.PlayRequest{Account: alice, Bid: 2})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if again.Success || again.Outcome != domain.OutcomeOnCooldown {
		t.Fatalf("expected cooldown, got %+v", again)
	}

	negative := int64(-1)
	bad, err := c.UpdateSettings(ctx, &grpc_adapter.UpdateSettingsRequest{Community: "guild", MaxBid: &negative})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if bad.Success || bad.Outcome != domain.OutcomeNegativeValue {
		t.Fatalf("expected negative value, got %+v", bad)
	}

	// 最低押注大於最高押注時整筆拒絕，前面的欄位也不會寫入
	bonus, high, low2 := int64(999), int64(100), int64(10)
	inverted, err := c.UpdateSettings(ctx, &grpc_adapter.UpdateSettingsRequest{
		Community:         "guild",
		RegistrationBonus: &bonus,
		MinBid:            &high,
		MaxBid:            &low2,
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if inverted.Success || inverted.Outcome != domain.OutcomeInvalidSettings {
		t.Fatalf("expected invalid settings, got %+v", inverted)
	}

	current, err := c.UpdateSettings(ctx, &grpc_adapter.UpdateSettingsRequest{Community: "guild"})
	if err != nil || current.Settings.MinBid != 2 || current.Settings.RegistrationBonus == bonus {
		t.Fatalf("read settings = %+v, %v", current, err)
	}
}
