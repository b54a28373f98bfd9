package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/arisan/internal/storage"
)

// RPCLogger logs every unary call and every watch stream when it closes.
// Client errors (bad input, denied writes, conflicts) log at warn level and
// everything unclassified logs at error level.
type RPCLogger struct{}

var _ connect.Interceptor = RPCLogger{}

// LoggingInterceptor returns the interceptor. It must run inside RequireAuth
// so the caller is already known.
func LoggingInterceptor() RPCLogger {
	return RPCLogger{}
}

func (RPCLogger) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		logCall(ctx, "RPC", req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (RPCLogger) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (RPCLogger) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		slog.Debug("Stream opened", "procedure", conn.Spec().Procedure, "user_id", GetUserID(ctx))
		err := next(ctx, conn)
		// A client hanging up is the normal way a watch ends.
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		logCall(ctx, "Stream", conn.Spec().Procedure, start, err)
		return err
	}
}

func logCall(ctx context.Context, kind, procedure string, start time.Time, err error) {
	attrs := []any{
		"procedure", procedure,
		"user_id", GetUserID(ctx), // empty for Register and Login
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if p, ok := storage.PrincipalFrom(ctx); ok {
		attrs = append(attrs, "role", p.Role)
	}

	if err == nil {
		slog.Info(kind+" ok", attrs...)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
		attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
		slog.Warn(kind+" error", attrs...)
		return
	}
	attrs = append(attrs, "error", err)
	slog.Error(kind+" error", attrs...)
}
