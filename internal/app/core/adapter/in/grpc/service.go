package grpc

import (
	"context"

	"google.golang.org/grpc"

	grpcpkg "github.com/JoeShih716/go-slot-bank/pkg/grpc"
)

// ServiceName gRPC 服務全名
const ServiceName = "slotbank.SlotBankService"

// SlotBankServiceServer 服務端需要實作的方法
type SlotBankServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	SetBalance(context.Context, *SetBalanceRequest) (*SetBalanceResponse, error)
	Leaderboard(context.Context, *LeaderboardRequest) (*LeaderboardResponse, error)
	Play(context.Context, *PlayRequest) (*PlayResponse, error)
	UpdateSettings(context.Context, *UpdateSettingsRequest) (*UpdateSettingsResponse, error)
}

// RegisterSlotBankServiceServer 將服務註冊到 gRPC Server
func RegisterSlotBankServiceServer(s grpc.ServiceRegistrar, srv SlotBankServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler 產生單一請求的 handler，解碼請求後交給 call (經過攔截器)
func unaryHandler[Req any, Resp any](method string, call func(SlotBankServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SlotBankServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SlotBankServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc 手動定義的服務描述，訊息以 JSON codec 編碼
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SlotBankServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler("Register", SlotBankServiceServer.Register)},
		{MethodName: "GetBalance", Handler: unaryHandler("GetBalance", SlotBankServiceServer.GetBalance)},
		{MethodName: "Transfer", Handler: unaryHandler("Transfer", SlotBankServiceServer.Transfer)},
		{MethodName: "SetBalance", Handler: unaryHandler("SetBalance", SlotBankServiceServer.SetBalance)},
		{MethodName: "Leaderboard", Handler: unaryHandler("Leaderboard", SlotBankServiceServer.Leaderboard)},
		{MethodName: "Play", Handler: unaryHandler("Play", SlotBankServiceServer.Play)},
		{MethodName: "UpdateSettings", Handler: unaryHandler("UpdateSettings", SlotBankServiceServer.UpdateSettings)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "slotbank.json",
}

// Client SlotBankService 的客戶端
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(grpcpkg.CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts...)
}

func (c *Client) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c.cc, "GetBalance", in, opts...)
}

func (c *Client) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	return invoke[TransferResponse](ctx, c.cc, "Transfer", in, opts...)
}

func (c *Client) SetBalance(ctx context.Context, in *SetBalanceRequest, opts ...grpc.CallOption) (*SetBalanceResponse, error) {
	return invoke[SetBalanceResponse](ctx, c.cc, "SetBalance", in, opts...)
}

func (c *Client) Leaderboard(ctx context.Context, in *LeaderboardRequest, opts ...grpc.CallOption) (*LeaderboardResponse, error) {
	return invoke[LeaderboardResponse](ctx, c.cc, "Leaderboard", in, opts...)
}

func (c *Client) Play(ctx context.Context, in *PlayRequest, opts ...grpc.CallOption) (*PlayResponse, error) {
	return invoke[PlayResponse](ctx, c.cc, "Play", in, opts...)
}

func (c *Client) UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*UpdateSettingsResponse, error) {
	return invoke[UpdateSettingsResponse](ctx, c.cc, "UpdateSettings", in, opts...)
}
