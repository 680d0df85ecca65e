package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RowanDark/endcode/internal/codec"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	t.Setenv("HOME", homeDir)
	writeFile(t, filepath.Join(homeDir, ".endcode", "config.toml"), `http_addr = "0.0.0.0:1111"
metrics_addr = "0.0.0.0:9999"

[log]
level = "debug"

[codec]
step_limit = 5000
min_confidence = 0.25
`)

	// A local YAML config overrides the TOML file.
	workDir := filepath.Join(tempDir, "work")
	writeFile(t, filepath.Join(workDir, "endcode.yml"), `http_addr: 127.0.0.1:6500
log:
  level: warn
  rotation:
    enable: true
    max_size_mb: 50
codec:
  max_expansion: 2048
`)
	chdir(t, workDir)

	// Env overrides beat file configuration.
	t.Setenv("ENDCODE_GRPC_ADDR", "127.0.0.1:7000")
	t.Setenv("ENDCODE_STEP_LIMIT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6500", cfg.HTTPAddr, "yaml beats toml")
	assert.Equal(t, "0.0.0.0:9999", cfg.MetricsAddr, "toml beats defaults")
	assert.Equal(t, "127.0.0.1:7000", cfg.GRPCAddr, "env beats defaults")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Stdout, "untouched defaults survive")
	assert.True(t, cfg.Log.Rotation.Enable)
	assert.Equal(t, 50, cfg.Log.Rotation.MaxSizeMB)
	assert.Equal(t, 9000, cfg.Codec.StepLimit, "env beats toml")
	assert.Equal(t, 2048, cfg.Codec.MaxExpansion)
	assert.Equal(t, 0.25, cfg.Codec.MinConfidence)
	assert.Equal(t, codec.DefaultTapeSize, cfg.Codec.TapeSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadFiles(t *testing.T) {
	homeDir := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", homeDir)
	chdir(t, t.TempDir())

	writeFile(t, filepath.Join(homeDir, ".endcode", "config.toml"), `http_addr = `)
	_, err := Load()
	assert.ErrorContains(t, err, "parse config")

	writeFile(t, filepath.Join(homeDir, ".endcode", "config.toml"), `[codec]
step_limit = "lots"
`)
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	chdir(t, t.TempDir())

	tests := []struct {
		name  string
		value string
	}{
		{"ENDCODE_STEP_LIMIT", "many"},
		{"ENDCODE_LOG_STDOUT", "maybe"},
		{"ENDCODE_MIN_CONFIDENCE", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.name)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("ENDCODE_LOG_LEVEL", "error")
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "daemon.yaml")
	writeFile(t, yamlPath, "grpc_addr: 0.0.0.0:6000\nlog:\n  stdout: false\n  path: /var/log/endcode.log\n")
	cfg, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:6000", cfg.GRPCAddr)
	assert.False(t, cfg.Log.Stdout)
	assert.Equal(t, "/var/log/endcode.log", cfg.Log.Path)
	assert.Equal(t, "error", cfg.Log.Level)

	tomlPath := filepath.Join(dir, "daemon.toml")
	writeFile(t, tomlPath, "[codec]\ntape_size = 60000\n")
	cfg, err = LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 60000, cfg.Codec.TapeSize)

	_, err = LoadFile(filepath.Join(dir, "daemon.json"))
	assert.ErrorContains(t, err, "unsupported config file")

	_, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	cfg.Log.Stdout = false
	cfg.Codec.StepLimit = 0
	cfg.Codec.TapeSize = 100
	cfg.Codec.MinConfidence = 1.5

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"log.level", "step_limit", "tape_size", "min_confidence", "log.path"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestTableOptions(t *testing.T) {
	cfg := Default().Codec
	cfg.StepLimit = 123
	table := codec.New(cfg.TableOptions()...)
	assert.Equal(t, 123, table.StepLimit())
}
