package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/logging"
	"github.com/RowanDark/endcode/internal/observability/metrics"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// Config configures the REST API server.
type Config struct {
	Addr string
	// Table performs the codec work. Nil selects codec.Default().
	Table *codec.Table
	// MinConfidence drops detection candidates scoring below it.
	MinConfidence float64
	Logger        *logging.AuditLogger
}

// Server exposes the codec table and detector over HTTP.
type Server struct {
	cfg        Config
	httpServer *http.Server
	table      *codec.Table
	detector   *codec.Detector
	logger     *logging.AuditLogger
	now        func() time.Time
}

// NewServer constructs a REST API server using the provided configuration.
func NewServer(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("api address must be provided")
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, errors.New("min confidence must be between 0 and 1")
	}
	cfg.Addr = addr
	table := cfg.Table
	if table == nil {
		table = codec.Default()
	}
	return &Server{
		cfg:      cfg,
		table:    table,
		detector: codec.NewDetector(table, codec.WithMinConfidence(cfg.MinConfidence)),
		logger:   cfg.Logger,
		now:      time.Now,
	}, nil
}

// Handler returns the routed API with request IDs and metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/encode-decode", s.handleEncodeDecode)
	mux.HandleFunc("/api/v1/execute", s.handleExecute)
	mux.HandleFunc("/api/v1/detect", s.handleDetect)
	mux.HandleFunc("/api/v1/formats", s.handleFormats)
	mux.HandleFunc("/api/v1/pipeline", s.handlePipeline)
	return withRequestID(withMetrics(mux))
}

// Run starts the HTTP server and blocks until the provided context is cancelled or a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.emit(logging.AuditEvent{
		EventType: logging.EventServerLifecycle,
		Outcome:   logging.OutcomeInfo,
		Reason:    "http api listening",
		Metadata:  map[string]any{"addr": s.cfg.Addr},
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

type requestIDKey struct{}

// RequestID returns the identifier assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		// The mux records the matched pattern on the request.
		metrics.RecordHTTPRequest(r.Pattern, status)
	})
}

func (s *Server) emit(event logging.AuditEvent) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Emit(event)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.emit(logging.AuditEvent{
			EventType: logging.EventRequestRejected,
			Outcome:   logging.OutcomeFailure,
			Reason:    "encode response: " + err.Error(),
		})
	}
}
