package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/RowanDark/endcode/internal/api"
	"github.com/RowanDark/endcode/internal/codec"
	"github.com/RowanDark/endcode/internal/config"
	"github.com/RowanDark/endcode/internal/logging"
	obsmetrics "github.com/RowanDark/endcode/internal/observability/metrics"
	"github.com/RowanDark/endcode/internal/rpc"
)

var version = "dev"

const shutdownTimeout = 5 * time.Second

// flagValues holds the command-line overrides. Only flags the user set are
// applied on top of the loaded configuration.
type flagValues struct {
	configPath  string
	httpAddr    string
	grpcAddr    string
	metricsAddr string
	logLevel    string
	showVersion bool
	visited     map[string]bool
}

func parseFlags(args []string, output io.Writer) (flagValues, error) {
	var fv flagValues
	fs := flag.NewFlagSet("endcoded", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&fv.configPath, "config", "", "explicit config file (.toml, .yml or .yaml); defaults to ~/.endcode/config.toml and ./endcode.yml")
	fs.StringVar(&fv.httpAddr, "http-addr", "", "address for the REST API (empty to disable)")
	fs.StringVar(&fv.grpcAddr, "grpc-addr", "", "address for the gRPC server to listen on")
	fs.StringVar(&fv.metricsAddr, "metrics-addr", "", "address for the Prometheus metrics endpoint (empty to disable)")
	fs.StringVar(&fv.logLevel, "log-level", "", "minimum audit log level: debug, info, warn or error")
	fs.BoolVar(&fv.showVersion, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return flagValues{}, err
	}
	if fs.NArg() > 0 {
		return flagValues{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fv.visited = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		fv.visited[f.Name] = true
	})
	return fv, nil
}

// resolveConfig loads the configuration and applies the flags the user set.
func resolveConfig(fv flagValues) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path := strings.TrimSpace(fv.configPath); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if fv.visited["http-addr"] {
		cfg.HTTPAddr = strings.TrimSpace(fv.httpAddr)
	}
	if fv.visited["grpc-addr"] {
		cfg.GRPCAddr = strings.TrimSpace(fv.grpcAddr)
	}
	if fv.visited["metrics-addr"] {
		cfg.MetricsAddr = strings.TrimSpace(fv.metricsAddr)
	}
	if fv.visited["log-level"] {
		cfg.Log.Level = strings.TrimSpace(fv.logLevel)
	}
	if strings.TrimSpace(cfg.GRPCAddr) == "" {
		return config.Config{}, errors.New("grpc address must be provided")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	fv, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if fv.showVersion {
		fmt.Printf("endcoded %s\n", version)
		return
	}

	cfg, err := resolveConfig(fv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAuditLogger(component string, cfg config.LogConfig) (*logging.AuditLogger, error) {
	opts := []logging.Option{logging.WithLevel(cfg.Level)}
	if !cfg.Stdout {
		opts = append(opts, logging.WithoutStdout())
	}
	if path := strings.TrimSpace(cfg.Path); path != "" {
		opts = append(opts, logging.WithFile(path))
		if cfg.Rotation.Enable {
			opts = append(opts, logging.WithRotation(logging.Rotation{
				MaxSizeMB:  cfg.Rotation.MaxSizeMB,
				MaxBackups: cfg.Rotation.MaxBackups,
				MaxAgeDays: cfg.Rotation.MaxAgeDays,
				Compress:   cfg.Rotation.Compress,
			}))
		}
	}
	return logging.NewAuditLogger(component, opts...)
}

func run(ctx context.Context, cfg config.Config) error {
	coreLogger, err := newAuditLogger("endcoded", cfg.Log)
	if err != nil {
		return fmt.Errorf("configure audit logger: %w", err)
	}
	defer coreLogger.Close()
	return runWithLogger(ctx, cfg, coreLogger)
}

func runWithLogger(ctx context.Context, cfg config.Config, coreLogger *logging.AuditLogger) error {
	emitAudit(coreLogger, logging.AuditEvent{
		EventType: logging.EventConfigLoaded,
		Outcome:   logging.OutcomeInfo,
		Metadata: map[string]any{
			"version":      version,
			"http_addr":    cfg.HTTPAddr,
			"grpc_addr":    cfg.GRPCAddr,
			"metrics_addr": cfg.MetricsAddr,
			"step_limit":   cfg.Codec.StepLimit,
		},
	})

	table := codec.New(cfg.Codec.TableOptions()...)

	var (
		metricsSrv   *http.Server
		metricsErrCh chan error
	)
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obsmetrics.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		metricsErrCh = make(chan error, 1)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErrCh <- err
			}
		}()
		emitAudit(coreLogger, logging.AuditEvent{
			EventType: logging.EventServerLifecycle,
			Outcome:   logging.OutcomeInfo,
			Metadata: map[string]any{
				"phase":   "metrics_ready",
				"address": addr,
			},
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				emitAudit(coreLogger, logging.AuditEvent{
					EventType: logging.EventServerLifecycle,
					Outcome:   logging.OutcomeFailure,
					Reason:    err.Error(),
					Metadata: map[string]any{
						"phase": "metrics_shutdown",
					},
				})
			}
		}()
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	serviceCtx, cancelService := context.WithCancel(ctx)
	defer cancelService()

	grpcErrCh := make(chan error, 1)
	go func() {
		grpcErrCh <- serve(serviceCtx, lis, table, cfg.Codec.MinConfidence, coreLogger)
	}()
	emitAudit(coreLogger, logging.AuditEvent{
		EventType: logging.EventServerLifecycle,
		Outcome:   logging.OutcomeInfo,
		Metadata: map[string]any{
			"phase":   "grpc_ready",
			"address": lis.Addr().String(),
		},
	})

	var apiErrCh chan error
	if addr := strings.TrimSpace(cfg.HTTPAddr); addr != "" {
		apiServer, err := api.NewServer(api.Config{
			Addr:          addr,
			Table:         table,
			MinConfidence: cfg.Codec.MinConfidence,
			Logger:        coreLogger.WithComponent("api"),
		})
		if err != nil {
			cancelService()
			<-grpcErrCh
			return fmt.Errorf("configure api server: %w", err)
		}
		apiErrCh = make(chan error, 1)
		go func() {
			apiErrCh <- apiServer.Run(serviceCtx)
		}()
	}

	// waitAPI drains the REST server after serviceCtx is cancelled.
	waitAPI := func() error {
		if apiErrCh == nil {
			return nil
		}
		return <-apiErrCh
	}

	select {
	case err := <-grpcErrCh:
		cancelService()
		_ = waitAPI()
		if err != nil {
			return fmt.Errorf("grpc server failed: %w", err)
		}
		return nil
	case err := <-metricsErrCh:
		cancelService()
		_ = waitAPI()
		<-grpcErrCh
		return fmt.Errorf("metrics server failed: %w", err)
	case err := <-apiErrCh:
		cancelService()
		<-grpcErrCh
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		cancelService()
		apiErr := waitAPI()
		grpcErr := <-grpcErrCh
		emitAudit(coreLogger, logging.AuditEvent{
			EventType: logging.EventServerLifecycle,
			Outcome:   logging.OutcomeInfo,
			Metadata: map[string]any{
				"phase": "shutdown",
			},
		})
		return errors.Join(apiErr, grpcErr)
	}
}

// serve runs the gRPC server on lis until ctx is cancelled.
func serve(ctx context.Context, lis net.Listener, table *codec.Table, minConfidence float64, coreLogger *logging.AuditLogger) error {
	rpcLogger := coreLogger.WithComponent("rpc")
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(rpc.UnaryServerInterceptor(rpcLogger)),
	)
	rpc.RegisterCodecServer(srv, rpc.NewServer(
		rpc.WithTable(table),
		rpc.WithMinConfidence(minConfidence),
		rpc.WithAuditLogger(rpcLogger),
	))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	// Stop the gRPC server once the provided context is cancelled.
	go func() {
		<-ctx.Done()
		healthSrv.Shutdown()

		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			srv.Stop()
		}
	}()

	if err := srv.Serve(lis); err != nil {
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
	return nil
}

func emitAudit(logger *logging.AuditLogger, event logging.AuditEvent) {
	if logger == nil {
		return
	}
	if err := logger.Emit(event); err != nil {
		fmt.Fprintf(os.Stderr, "audit log error: %v\n", err)
	}
}
