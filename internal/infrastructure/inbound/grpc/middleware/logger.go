package middleware

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	ports "blog-post-service/internal/domain/ports/output"
)

// UnaryLoggerInterceptor logs each unary call and records its count and latency.
func UnaryLoggerInterceptor(log ports.Logger, metrics ports.MetricsProvider) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		code := status.Code(err).String()
		metrics.IncrementGRPCRequests(info.FullMethod, code)
		metrics.RecordGRPCRequestDuration(info.FullMethod, code, duration)

		if err != nil {
			log.Warn("gRPC request failed",
				slog.String("method", info.FullMethod),
				slog.String("code", code),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
			)
			return resp, err
		}

		log.Debug("gRPC request",
			slog.String("method", info.FullMethod),
			slog.Duration("duration", duration),
		)
		return resp, nil
	}
}
