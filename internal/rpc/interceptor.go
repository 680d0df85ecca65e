package rpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/endcode/internal/logging"
	"github.com/RowanDark/endcode/internal/observability/metrics"
)

// RequestIDKey is the metadata key carrying the request identifier.
const RequestIDKey = "x-request-id"

type requestIDCtxKey struct{}

// RequestIDFromContext returns the identifier assigned by
// UnaryServerInterceptor, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get(RequestIDKey) {
		if v = strings.TrimSpace(v); v != "" && len(v) <= 128 {
			return v
		}
	}
	return ""
}

// UnaryServerInterceptor assigns a request ID, echoes it in the response
// header, counts the call and writes an rpc_call audit event.
func UnaryServerInterceptor(logger *logging.AuditLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := incomingRequestID(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDCtxKey{}, id)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))

		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		code := status.Code(err)
		metrics.RecordRPCRequest(info.FullMethod, code.String())
		if logger != nil {
			event := logging.AuditEvent{
				RequestID: id,
				EventType: logging.EventRPCCall,
				Outcome:   logging.OutcomeSuccess,
				Metadata: map[string]any{
					"method":      info.FullMethod,
					"code":        code.String(),
					"duration_ms": elapsed.Milliseconds(),
				},
			}
			if err != nil {
				event.Outcome = logging.OutcomeFailure
				event.Reason = status.Convert(err).Message()
			}
			_ = logger.Emit(event)
		}
		return resp, err
	}
}
