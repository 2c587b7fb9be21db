package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor 記錄每個請求的方法、耗時與 gRPC 狀態碼，並攔截 panic
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = logger.Named("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.String("method", info.FullMethod), zap.Any("panic", r), zap.Stack("stack"))
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
			logger.Debug("request",
				zap.String("method", info.FullMethod),
				zap.Duration("elapsed", time.Since(start)),
				zap.Stringer("code", status.Code(err)))
		}()
		return handler(ctx, req)
	}
}
