package middleware

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/portfolio-server/internal/logger"
)

// Logging writes one access line per gRPC call.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC is the unary interceptor.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	l.log(ctx, info.FullMethod, "unary", start, err)
	return resp, err
}

// HandleGRPCStream is the stream interceptor. The line is written when the
// stream ends.
func (l *Logging) HandleGRPCStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)

	ctx := context.Background()
	if ss != nil {
		ctx = ss.Context()
	}
	l.log(ctx, info.FullMethod, "stream", start, err)
	return err
}

func (l *Logging) log(ctx context.Context, method, kind string, start time.Time, err error) {
	code := status.Code(err)
	if err != nil {
		if _, ok := status.FromError(err); !ok {
			code = codes.Internal
		}
	}

	args := []any{
		"method", method,
		"kind", kind,
		"status", code.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		args = append(args, "peer", p.Addr.String())
	}
	if err != nil {
		args = append(args, "error", err.Error())
	}

	l.logger.Log(ctx, levelFor(code), "gRPC call finished", args...)
}

// levelFor logs caller mistakes as warnings and server faults as errors.
func levelFor(code codes.Code) slog.Level {
	switch code {
	case codes.OK, codes.Canceled:
		return slog.LevelInfo
	case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.PermissionDenied,
		codes.Unauthenticated, codes.FailedPrecondition, codes.OutOfRange, codes.DeadlineExceeded:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
