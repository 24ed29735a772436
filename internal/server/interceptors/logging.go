package interceptors

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"craftconnect/backend/internal/observability"
)

// LoggingUnary returns a unary server interceptor that logs every RPC and counts it in metrics.
// Server-side failures (Internal, Unavailable, Unknown) log at Warn; everything else at Debug.
// skipMethods is the set of full method names not logged (e.g. health checks); they are still counted.
func LoggingUnary(logger *zap.Logger, metrics *observability.Metrics, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		metrics.RPC(info.FullMethod, code.String())
		if skipMethods[info.FullMethod] {
			return resp, err
		}

		level := zapcore.DebugLevel
		switch code {
		case codes.Internal, codes.Unavailable, codes.Unknown:
			level = zapcore.WarnLevel
		}
		if ce := logger.Check(level, "rpc"); ce != nil {
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", ClientIP(ctx)),
			}
			if accountID, ok := GetAccountID(ctx); ok {
				fields = append(fields, zap.String("account_id", accountID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			ce.Write(fields...)
		}
		return resp, err
	}
}
