package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type EventType string

const (
	EventCodecEncode     EventType = "codec_encode"
	EventCodecDecode     EventType = "codec_decode"
	EventCodecDetect     EventType = "codec_detect"
	EventPipelineRun     EventType = "pipeline_run"
	EventRPCCall         EventType = "rpc_call"
	EventRequestRejected EventType = "request_rejected"
	EventServerLifecycle EventType = "server_lifecycle"
	EventConfigLoaded    EventType = "config_loaded"
)

type Outcome string

const (
	OutcomeInfo    Outcome = "info"
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	RequestID string         `json:"request_id,omitempty"`
	EventType EventType      `json:"event_type"`
	Format    string         `json:"format,omitempty"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Rotation configures size-based rotation for file outputs.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Option func(*config) error

type config struct {
	syncers   []zapcore.WriteSyncer
	paths     []string
	closers   []io.Closer
	useStdout bool
	level     zapcore.Level
	rotation  *Rotation
}

func defaultConfig() *config {
	return &config{useStdout: true, level: zapcore.InfoLevel}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.syncers = append(cfg.syncers, zapcore.AddSync(w))
		return nil
	}
}

// WithFile appends events to path. The file rotates when WithRotation is
// also given.
func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		cfg.paths = append(cfg.paths, path)
		return nil
	}
}

func WithRotation(r Rotation) Option {
	return func(cfg *config) error {
		cfg.rotation = &r
		return nil
	}
}

// WithLevel sets the minimum level by name ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(level) == "" {
			return nil
		}
		lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.level = lvl
		return nil
	}
}

func WithoutStdout() Option {
	return func(cfg *config) error {
		cfg.useStdout = false
		return nil
	}
}

func (cfg *config) openFiles() error {
	for _, path := range cfg.paths {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if r := cfg.rotation; r != nil {
			lj := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    max(r.MaxSizeMB, 10),
				MaxBackups: max(r.MaxBackups, 1),
				MaxAge:     max(r.MaxAgeDays, 7),
				Compress:   r.Compress,
			}
			cfg.syncers = append(cfg.syncers, zapcore.AddSync(lj))
			cfg.closers = append(cfg.closers, lj)
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.syncers = append(cfg.syncers, zapcore.AddSync(f))
		cfg.closers = append(cfg.closers, f)
	}
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

type auditCore struct {
	mu      sync.Mutex
	core    zapcore.Core
	closers []io.Closer
}

type AuditLogger struct {
	component   string
	core        *auditCore
	ownsClosers bool
}

func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.openFiles(); err != nil {
		for _, closer := range cfg.closers {
			_ = closer.Close()
		}
		return nil, err
	}
	if cfg.useStdout {
		cfg.syncers = append([]zapcore.WriteSyncer{os.Stdout}, cfg.syncers...)
	}
	if len(cfg.syncers) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	cores := make([]zapcore.Core, len(cfg.syncers))
	for i, ws := range cfg.syncers {
		cores[i] = zapcore.NewCore(encoder.Clone(), zapcore.Lock(ws), cfg.level)
	}
	return &AuditLogger{
		component:   component,
		core:        &auditCore{core: zapcore.NewTee(cores...), closers: cfg.closers},
		ownsClosers: true,
	}, nil
}

func MustNewAuditLogger(component string, opts ...Option) *AuditLogger {
	logger, err := NewAuditLogger(component, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

func (l *AuditLogger) Close() error {
	if l == nil || !l.ownsClosers || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	// Sync fails on terminals and pipes; the closers report real errors.
	_ = l.core.core.Sync()
	var firstErr error
	for _, closer := range l.core.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.core.closers = nil
	return firstErr
}

func levelFor(outcome Outcome) zapcore.Level {
	if outcome == OutcomeFailure {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Emit writes one event. Failures are logged at warn level, everything else
// at info.
func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil {
		return errors.New("nil audit logger")
	}
	if l.core == nil {
		return errors.New("nil audit logger core")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	if event.Outcome == "" {
		event.Outcome = OutcomeInfo
	}

	entry := zapcore.Entry{
		Level:   levelFor(event.Outcome),
		Time:    event.Timestamp,
		Message: string(event.EventType),
	}
	if !l.core.core.Enabled(entry.Level) {
		return nil
	}
	fields := []zapcore.Field{
		zap.String("component", event.Component),
		zap.String("event_type", string(event.EventType)),
		zap.String("outcome", string(event.Outcome)),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Format != "" {
		fields = append(fields, zap.String("format", event.Format))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", redactString(event.Reason)))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", redactMetadata(event.Metadata)))
	}

	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.core.Write(entry, fields)
}

func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.core == nil {
		return nil
	}
	return &AuditLogger{
		component:   component,
		core:        l.core,
		ownsClosers: false,
	}
}

// Logger returns a zap logger that shares the audit outputs, for operational
// messages that are not audit events.
func (l *AuditLogger) Logger() *zap.Logger {
	if l == nil || l.core == nil {
		return zap.NewNop()
	}
	return zap.New(l.core.core).With(zap.String("component", l.component))
}
