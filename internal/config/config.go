package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/endcode/internal/codec"
)

// Config captures the endcode configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	HTTPAddr    string      `yaml:"http_addr" toml:"http_addr"`
	GRPCAddr    string      `yaml:"grpc_addr" toml:"grpc_addr"`
	MetricsAddr string      `yaml:"metrics_addr" toml:"metrics_addr"`
	Log         LogConfig   `yaml:"log" toml:"log"`
	Codec       CodecConfig `yaml:"codec" toml:"codec"`
}

// LogConfig controls the audit log outputs of endcoded.
type LogConfig struct {
	Level    string         `yaml:"level" toml:"level"`
	Path     string         `yaml:"path" toml:"path"`
	Stdout   bool           `yaml:"stdout" toml:"stdout"`
	Rotation RotationConfig `yaml:"rotation" toml:"rotation"`
}

// RotationConfig enables size-based rotation of the log file.
type RotationConfig struct {
	Enable     bool `yaml:"enable" toml:"enable"`
	MaxSizeMB  int  `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool `yaml:"compress" toml:"compress"`
}

// CodecConfig bounds the work a single codec call may do.
type CodecConfig struct {
	StepLimit     int     `yaml:"step_limit" toml:"step_limit"`
	TapeSize      int     `yaml:"tape_size" toml:"tape_size"`
	MaxExpansion  int     `yaml:"max_expansion" toml:"max_expansion"`
	MinConfidence float64 `yaml:"min_confidence" toml:"min_confidence"`
}

// Default returns the built-in endcode configuration.
func Default() Config {
	return Config{
		HTTPAddr:    "127.0.0.1:8080",
		GRPCAddr:    "127.0.0.1:50051",
		MetricsAddr: "127.0.0.1:9090",
		Log: LogConfig{
			Level:  "info",
			Stdout: true,
		},
		Codec: CodecConfig{
			StepLimit:    codec.DefaultStepLimit,
			TapeSize:     codec.DefaultTapeSize,
			MaxExpansion: codec.DefaultMaxExpansion,
		},
	}
}

// TableOptions converts the codec limits into codec.Table options.
func (c CodecConfig) TableOptions() []codec.Option {
	return []codec.Option{
		codec.WithStepLimit(c.StepLimit),
		codec.WithTapeSize(c.TapeSize),
		codec.WithMaxExpansion(c.MaxExpansion),
	}
}

// Validate reports settings that the daemon cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if c.Codec.StepLimit < 1 {
		errs = append(errs, errors.New("codec.step_limit must be positive"))
	}
	if c.Codec.TapeSize < codec.DefaultTapeSize {
		errs = append(errs, fmt.Errorf("codec.tape_size must be at least %d", codec.DefaultTapeSize))
	}
	if c.Codec.MaxExpansion < 1 {
		errs = append(errs, errors.New("codec.max_expansion must be positive"))
	}
	if c.Codec.MinConfidence < 0 || c.Codec.MinConfidence > 1 {
		errs = append(errs, errors.New("codec.min_confidence must be between 0 and 1"))
	}
	if !c.Log.Stdout && strings.TrimSpace(c.Log.Path) == "" {
		errs = append(errs, errors.New("log.stdout is disabled and log.path is empty"))
	}
	return errors.Join(errs...)
}

// Load resolves the endcode configuration using defaults, configuration
// files, and environment overrides. Files are applied in this order, later
// ones winning:
//  1. ~/.endcode/config.toml (TOML)
//  2. ./endcode.yml (YAML)
//
// Environment variables prefixed with ENDCODE_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile resolves defaults, the file at path and environment overrides. The
// file format follows the extension: .toml, .yml or .yaml.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	format, err := formatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(&cfg, data, format); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml", nil
	case ".yml", ".yaml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported config file %q: want .toml, .yml or .yaml", path)
	}
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	return loadOptional(cfg, filepath.Join(home, ".endcode", "config.toml"), "toml")
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadOptional(cfg, filepath.Join(wd, "endcode.yml"), "yaml")
}

func loadOptional(cfg *Config, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data, format); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig mirrors Config with pointers so that keys absent from a file
// leave the current value alone.
type fileConfig struct {
	HTTPAddr    *string          `yaml:"http_addr" toml:"http_addr"`
	GRPCAddr    *string          `yaml:"grpc_addr" toml:"grpc_addr"`
	MetricsAddr *string          `yaml:"metrics_addr" toml:"metrics_addr"`
	Log         *fileLogConfig   `yaml:"log" toml:"log"`
	Codec       *fileCodecConfig `yaml:"codec" toml:"codec"`
}

type fileLogConfig struct {
	Level    *string             `yaml:"level" toml:"level"`
	Path     *string             `yaml:"path" toml:"path"`
	Stdout   *bool               `yaml:"stdout" toml:"stdout"`
	Rotation *fileRotationConfig `yaml:"rotation" toml:"rotation"`
}

type fileRotationConfig struct {
	Enable     *bool `yaml:"enable" toml:"enable"`
	MaxSizeMB  *int  `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups *int  `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays *int  `yaml:"max_age_days" toml:"max_age_days"`
	Compress   *bool `yaml:"compress" toml:"compress"`
}

type fileCodecConfig struct {
	StepLimit     *int     `yaml:"step_limit" toml:"step_limit"`
	TapeSize      *int     `yaml:"tape_size" toml:"tape_size"`
	MaxExpansion  *int     `yaml:"max_expansion" toml:"max_expansion"`
	MinConfidence *float64 `yaml:"min_confidence" toml:"min_confidence"`
}

func applyFileConfig(cfg *Config, data []byte, format string) error {
	var fc fileConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return err
		}
	case "toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCAddr, fc.GRPCAddr)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	if l := fc.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.Path, l.Path)
		set(&cfg.Log.Stdout, l.Stdout)
		if r := l.Rotation; r != nil {
			set(&cfg.Log.Rotation.Enable, r.Enable)
			set(&cfg.Log.Rotation.MaxSizeMB, r.MaxSizeMB)
			set(&cfg.Log.Rotation.MaxBackups, r.MaxBackups)
			set(&cfg.Log.Rotation.MaxAgeDays, r.MaxAgeDays)
			set(&cfg.Log.Rotation.Compress, r.Compress)
		}
	}
	if c := fc.Codec; c != nil {
		set(&cfg.Codec.StepLimit, c.StepLimit)
		set(&cfg.Codec.TapeSize, c.TapeSize)
		set(&cfg.Codec.MaxExpansion, c.MaxExpansion)
		set(&cfg.Codec.MinConfidence, c.MinConfidence)
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// envOverride binds one ENDCODE_ variable to a field.
type envOverride struct {
	name  string
	apply func(cfg *Config, val string) error
}

var envOverrides = []envOverride{
	{"ENDCODE_HTTP_ADDR", func(cfg *Config, val string) error { cfg.HTTPAddr = val; return nil }},
	{"ENDCODE_GRPC_ADDR", func(cfg *Config, val string) error { cfg.GRPCAddr = val; return nil }},
	{"ENDCODE_METRICS_ADDR", func(cfg *Config, val string) error { cfg.MetricsAddr = val; return nil }},
	{"ENDCODE_LOG_LEVEL", func(cfg *Config, val string) error { cfg.Log.Level = val; return nil }},
	{"ENDCODE_LOG_PATH", func(cfg *Config, val string) error { cfg.Log.Path = val; return nil }},
	{"ENDCODE_LOG_STDOUT", func(cfg *Config, val string) (err error) {
		cfg.Log.Stdout, err = cast.ToBoolE(val)
		return err
	}},
	{"ENDCODE_STEP_LIMIT", func(cfg *Config, val string) (err error) {
		cfg.Codec.StepLimit, err = cast.ToIntE(val)
		return err
	}},
	{"ENDCODE_TAPE_SIZE", func(cfg *Config, val string) (err error) {
		cfg.Codec.TapeSize, err = cast.ToIntE(val)
		return err
	}},
	{"ENDCODE_MAX_EXPANSION", func(cfg *Config, val string) (err error) {
		cfg.Codec.MaxExpansion, err = cast.ToIntE(val)
		return err
	}},
	{"ENDCODE_MIN_CONFIDENCE", func(cfg *Config, val string) (err error) {
		cfg.Codec.MinConfidence, err = cast.ToFloat64E(val)
		return err
	}},
}

func applyEnvOverrides(cfg *Config) error {
	for _, o := range envOverrides {
		val := strings.TrimSpace(os.Getenv(o.name))
		if val == "" {
			continue
		}
		next := *cfg
		if err := o.apply(&next, val); err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
		*cfg = next
	}
	return nil
}
