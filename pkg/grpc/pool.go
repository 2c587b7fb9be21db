package grpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

// Pool 依目標地址保存 gRPC 連線，同一個地址只會有一條連線
// 所有連線預設使用 JSON codec
type Pool struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn

	callTimeout time.Duration
	logger      *zap.Logger
}

// PoolOption 定義了 Pool 的配置選項函數
type PoolOption func(*Pool)

// WithCallTimeout 呼叫端的 context 沒有 deadline 時，每次呼叫最多等待 d
func WithCallTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.callTimeout = d
	}
}

// WithLogger 以 debug 等級記錄每次呼叫的方法、耗時與狀態碼，失敗時以 warn 記錄
func WithLogger(logger *zap.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{conns: make(map[string]*grpc.ClientConn)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetConnection 取得目標的連線，不存在或已關閉時建立新連線
//
// 參數:
//
//	target: 伺服器地址 (e.g., "localhost:50051")
//	opts: 額外的連線選項，放在預設選項之後
//
// 回傳值:
//
//	*grpc.ClientConn: 連線 (第一次呼叫時才真正連線)
//	error: 建立失敗時回傳錯誤
func (p *Pool) GetConnection(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[target]; ok {
		if conn.GetState() != connectivity.Shutdown {
			return conn, nil
		}
		delete(p.conns, target)
	}

	dialOpts := []grpc.DialOption{
		// 內部服務不使用 TLS
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}
	if interceptors := p.interceptors(); len(interceptors) > 0 {
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(interceptors...))
	}

	conn, err := grpc.NewClient(target, append(dialOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpc client for %s: %w", target, err)
	}
	p.conns[target] = conn
	return conn, nil
}

func (p *Pool) interceptors() []grpc.UnaryClientInterceptor {
	var out []grpc.UnaryClientInterceptor
	if p.logger != nil {
		out = append(out, loggingInterceptor(p.logger))
	}
	if p.callTimeout > 0 {
		out = append(out, timeoutInterceptor(p.callTimeout))
	}
	return out
}

func timeoutInterceptor(d time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryClientInterceptor {
	logger = logger.Named("grpc_client")
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		fields := []zap.Field{
			zap.String("method", method),
			zap.Duration("elapsed", time.Since(start)),
			zap.Stringer("code", status.Code(err)),
		}
		if err != nil {
			logger.Warn("call failed", append(fields, zap.Error(err))...)
			return err
		}
		logger.Debug("call", fields...)
		return nil
	}
}

// Close 關閉所有連線，回傳第一個發生的錯誤
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for target, conn := range p.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, target)
	}
	return firstErr
}
