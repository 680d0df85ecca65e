package rpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/logging"
	"github.com/RowanDark/endcode/internal/observability/metrics"
)

// Server implements CodecServer on top of a codec table.
type Server struct {
	table    *codec.Table
	detector *codec.Detector
	audit    *logging.AuditLogger
}

// ServerOption configures the server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	table         *codec.Table
	minConfidence float64
	audit         *logging.AuditLogger
}

// WithTable selects the table used for every call.
func WithTable(table *codec.Table) ServerOption {
	return func(o *serverOptions) {
		if table != nil {
			o.table = table
		}
	}
}

// WithMinConfidence drops detection candidates scoring below min.
func WithMinConfidence(min float64) ServerOption {
	return func(o *serverOptions) {
		o.minConfidence = min
	}
}

// WithAuditLogger overrides the audit logger used by the server.
func WithAuditLogger(logger *logging.AuditLogger) ServerOption {
	return func(o *serverOptions) {
		if logger != nil {
			o.audit = logger
		}
	}
}

// NewServer constructs the codec service.
func NewServer(opts ...ServerOption) *Server {
	o := serverOptions{table: codec.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		table:    o.table,
		detector: codec.NewDetector(o.table, codec.WithMinConfidence(o.minConfidence)),
		audit:    o.audit,
	}
}

// Encode encodes {text} with {format} and replies {output}.
func (s *Server) Encode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.convert(ctx, req, codec.DirectionEncode)
}

// Decode decodes {text} with {format} and replies {output}.
func (s *Server) Decode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.convert(ctx, req, codec.DirectionDecode)
}

func (s *Server) convert(ctx context.Context, req *structpb.Struct, dir codec.Direction) (*structpb.Struct, error) {
	name := strings.TrimSpace(stringField(req, "format"))
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "format is required")
	}
	f, err := codec.ParseFormat(name)
	if err != nil {
		return nil, statusFromError(err)
	}
	text := stringField(req, "text")

	start := time.Now()
	var output string
	event := logging.EventCodecEncode
	if dir == codec.DirectionDecode {
		event = logging.EventCodecDecode
		output, err = s.table.Decode(f, text)
	} else {
		output, err = s.table.Encode(f, text)
	}
	metrics.ObserveOperation(string(dir), f.String(), resultOf(err), time.Since(start))

	audit := logging.AuditEvent{
		RequestID: RequestIDFromContext(ctx),
		EventType: event,
		Format:    f.String(),
		Outcome:   logging.OutcomeSuccess,
		Metadata:  map[string]any{"input_length": len(text)},
	}
	if err != nil {
		audit.Outcome = logging.OutcomeFailure
		audit.Reason = err.Error()
		s.emit(audit)
		return nil, statusFromError(err)
	}
	s.emit(audit)
	return structpb.NewStruct(map[string]any{"output": output})
}

// Detect ranks the candidate formats of {text} and replies {candidates}.
func (s *Server) Detect(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := stringField(req, "text")

	start := time.Now()
	candidates := s.detector.Detect(text)
	metrics.ObserveOperation("detect", "", metrics.ResultOK, time.Since(start))
	metrics.ObserveDetectCandidates(len(candidates))

	list := make([]any, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, map[string]any{
			"format":     c.Format.String(),
			"decoded":    c.Decoded,
			"confidence": c.Confidence,
			"reasoning":  c.Reasoning,
		})
	}
	s.emit(logging.AuditEvent{
		RequestID: RequestIDFromContext(ctx),
		EventType: logging.EventCodecDetect,
		Outcome:   logging.OutcomeSuccess,
		Metadata: map[string]any{
			"input_length": len(text),
			"candidates":   len(candidates),
		},
	})
	return structpb.NewStruct(map[string]any{"candidates": list})
}

// Formats lists the supported formats, optionally limited to {family}.
func (s *Server) Formats(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	formats := codec.Formats()
	if family := strings.TrimSpace(stringField(req, "family")); family != "" {
		formats = codec.FormatsByFamily(codec.Family(strings.ToLower(family)))
	}
	list := make([]any, 0, len(formats))
	for _, f := range formats {
		info := codec.Describe(f)
		list = append(list, map[string]any{
			"name":        info.Name,
			"family":      string(info.Family),
			"description": info.Description,
			"invertible":  info.Invertible,
		})
	}
	return structpb.NewStruct(map[string]any{"formats": list})
}

func (s *Server) emit(event logging.AuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(event)
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// statusFromError maps codec error kinds onto gRPC codes.
func statusFromError(err error) error {
	var code codes.Code
	switch codec.KindOf(err) {
	case codec.KindUnknownFormat:
		code = codes.NotFound
	case codec.KindMalformedInput:
		code = codes.InvalidArgument
	case codec.KindExecutionLimitExceeded:
		code = codes.ResourceExhausted
	default:
		return status.Error(codes.Internal, "codec failure")
	}
	return status.Error(code, err.Error())
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, codec.ErrExecutionLimitExceeded):
		return metrics.ResultLimit
	default:
		return metrics.ResultError
	}
}
