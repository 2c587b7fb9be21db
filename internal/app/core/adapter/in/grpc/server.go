package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/internal/app/core/usecase"
)

type GrpcServer struct {
	core   *usecase.CoreUseCase
	logger *zap.Logger
}

func NewGrpcServer(core *usecase.CoreUseCase, logger *zap.Logger) *GrpcServer {
	return &GrpcServer{
		core:   core,
		logger: logger.Named("grpc"),
	}
}

// result 將用例錯誤轉換成回應狀態
// 業務錯誤回傳 Success=false (Soft Failure)，其他錯誤轉成 codes.Internal
func (s *GrpcServer) result(method string, err error) (Status, error) {
	if err == nil {
		return Status{Success: true, Outcome: domain.OutcomeOK}, nil
	}
	if domain.IsRecoverable(err) {
		return Status{Outcome: domain.OutcomeOf(err), Message: err.Error()}, nil
	}
	s.logger.Error("request failed", zap.String("method", method), zap.Error(err))
	return Status{}, status.Error(codes.Internal, err.Error())
}

func (s *GrpcServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	account, err := s.core.Register(ctx, req.Account.key(), req.Name)
	st, err := s.result("Register", err)
	if err != nil {
		return nil, err
	}
	resp := &RegisterResponse{Status: st}
	if account != nil {
		resp.Balance = account.Balance
	}
	return resp, nil
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	balance, err := s.core.GetBalance(ctx, req.Account.key())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &GetBalanceResponse{
		Balance: balance,
	}, nil
}

func (s *GrpcServer) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	balance, err := s.core.Transfer(ctx, req.From.key(), req.To.key(), req.Amount)
	st, err := s.result("Transfer", err)
	if err != nil {
		return nil, err
	}
	return &TransferResponse{
		Status:         st,
		CurrentBalance: balance,
	}, nil
}

func (s *GrpcServer) SetBalance(ctx context.Context, req *SetBalanceRequest) (*SetBalanceResponse, error) {
	balance, err := s.core.SetBalance(ctx, req.Account.key(), req.Value)
	st, err := s.result("SetBalance", err)
	if err != nil {
		return nil, err
	}
	return &SetBalanceResponse{
		Status:  st,
		Balance: balance,
	}, nil
}

func (s *GrpcServer) Leaderboard(ctx context.Context, req *LeaderboardRequest) (*LeaderboardResponse, error) {
	accounts, err := s.core.Leaderboard(ctx, req.Community, req.Top)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	entries := make([]LeaderboardEntry, 0, len(accounts))
	for i, a := range accounts {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Identity: a.Key.Identity,
			Name:     a.Name,
			Balance:  a.Balance,
		})
	}
	return &LeaderboardResponse{Entries: entries}, nil
}

func (s *GrpcServer) Play(ctx context.Context, req *PlayRequest) (*PlayResponse, error) {
	mode := domain.ModeSingle
	if req.Multi {
		mode = domain.ModeMulti
	}
	result, err := s.core.Play(ctx, usecase.PlayRequest{
		Key:  req.Account.key(),
		Bid:  req.Bid,
		Mode: mode,
	})
	st, err := s.result("Play", err)
	if err != nil {
		return nil, err
	}
	resp := &PlayResponse{Status: st}
	if result != nil {
		resp.Grid = gridNames(result.Grid)
		resp.Wins = result.Wins
		resp.Bid = result.Bid
		resp.TotalAward = result.TotalAward
		resp.Before = result.Before
		resp.After = result.After
		resp.Text = result.Describe(s.core.Slots().Paytable().Multipliers)
	}
	return resp, nil
}

func gridNames(grid domain.Grid) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = make([]string, len(row))
		for j, s := range row {
			out[i][j] = s.Name()
		}
	}
	return out
}

// UpdateSettings 只修改有給值的欄位，沒有任何欄位時回傳目前設定
func (s *GrpcServer) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*UpdateSettingsResponse, error) {
	slots := s.core.Slots()
	patch := usecase.SettingsPatch{
		MinBid:            req.MinBid,
		MaxBid:            req.MaxBid,
		RegistrationBonus: req.RegistrationBonus,
	}
	if req.CooldownSeconds != nil {
		cooldown := time.Duration(*req.CooldownSeconds) * time.Second
		patch.Cooldown = &cooldown
	}

	var (
		settings domain.Settings
		err      error
	)
	if patch == (usecase.SettingsPatch{}) {
		settings, err = slots.Settings(ctx, req.Community)
	} else {
		settings, err = slots.UpdateSettings(ctx, req.Community, patch)
	}

	st, err := s.result("UpdateSettings", err)
	if err != nil {
		return nil, err
	}
	return &UpdateSettingsResponse{
		Status: st,
		Settings: Settings{
			MinBid:            settings.MinBid,
			MaxBid:            settings.MaxBid,
			CooldownSeconds:   int64(settings.Cooldown / time.Second),
			RegistrationBonus: settings.RegistrationBonus,
		},
	}, nil
}

var _ SlotBankServiceServer = (*GrpcServer)(nil)
