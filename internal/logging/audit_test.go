package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	require.NoError(t, err)

	event := AuditEvent{EventType: EventCodecEncode, Format: "base64", Outcome: OutcomeSuccess}
	require.NoError(t, logger.Emit(event))

	line := buf.String()
	require.True(t, gjson.Valid(line), "expected JSON, got %q", line)
	assert.Equal(t, "test", gjson.Get(line, "component").String())
	assert.Equal(t, string(EventCodecEncode), gjson.Get(line, "event_type").String())
	assert.Equal(t, "base64", gjson.Get(line, "format").String())
	assert.Equal(t, "success", gjson.Get(line, "outcome").String())
	assert.Equal(t, "info", gjson.Get(line, "level").String())
	assert.False(t, gjson.Get(line, "request_id").Exists())

	ts, err := time.Parse(time.RFC3339Nano, gjson.Get(line, "timestamp").String())
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestAuditLoggerFailureIsWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("api", WithoutStdout(), WithWriter(buf))
	require.NoError(t, err)

	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	require.NoError(t, logger.Emit(AuditEvent{
		Timestamp: stamp,
		EventType: EventCodecDecode,
		RequestID: "req-1",
		Outcome:   OutcomeFailure,
		Reason:    "hex decode failed: no hex digits found",
	}))

	line := buf.String()
	assert.Equal(t, "warn", gjson.Get(line, "level").String())
	assert.Equal(t, "req-1", gjson.Get(line, "request_id").String())
	assert.Equal(t, "2024-01-01T11:00:00Z", gjson.Get(line, "timestamp").String())
	assert.Equal(t, "hex decode failed: no hex digits found", gjson.Get(line, "reason").String())
}

func TestAuditLoggerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("api", WithoutStdout(), WithWriter(buf), WithLevel("warn"))
	require.NoError(t, err)

	require.NoError(t, logger.Emit(AuditEvent{EventType: EventCodecEncode, Outcome: OutcomeSuccess}))
	assert.Zero(t, buf.Len(), "info events are below warn")

	require.NoError(t, logger.Emit(AuditEvent{EventType: EventCodecEncode, Outcome: OutcomeFailure}))
	assert.NotZero(t, buf.Len())

	_, err = NewAuditLogger("api", WithLevel("loud"))
	assert.Error(t, err)
}

func TestAuditLoggerRedactsSecrets(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("api", WithoutStdout(), WithWriter(buf))
	require.NoError(t, err)

	require.NoError(t, logger.Emit(AuditEvent{
		EventType: EventRequestRejected,
		Reason:    "rejected Bearer abcdefghijklmnop",
		Metadata: map[string]any{
			"api_key":      "abc",
			"note":         "password=hunter2hunter2",
			"input_length": 12,
		},
	}))

	line := buf.String()
	assert.Equal(t, "rejected Bearer [REDACTED_SECRET]", gjson.Get(line, "reason").String())
	assert.Equal(t, redactedSecret, gjson.Get(line, "metadata.api_key").String())
	assert.Equal(t, "password=[REDACTED_SECRET]", gjson.Get(line, "metadata.note").String())
	assert.Equal(t, int64(12), gjson.Get(line, "metadata.input_length").Int())
}

func TestAuditLoggerWithComponentSharesOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	root, err := NewAuditLogger("root", WithoutStdout(), WithWriter(buf))
	require.NoError(t, err)

	child := root.WithComponent("rpc")
	require.NoError(t, child.Emit(AuditEvent{EventType: EventRPCCall}))
	assert.NoError(t, child.Close(), "children do not own outputs")

	assert.Equal(t, "rpc", gjson.Get(buf.String(), "component").String())
	assert.NoError(t, root.Close())
}

func TestAuditLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "audit.jsonl")
	logger, err := NewAuditLogger("file", WithoutStdout(), WithFile(path))
	require.NoError(t, err)

	require.NoError(t, logger.Emit(AuditEvent{EventType: EventServerLifecycle, Reason: "started"}))
	require.NoError(t, logger.Logger().Sync())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "started", gjson.Get(lines[0], "reason").String())
}

func TestAuditLoggerRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewAuditLogger("file", WithoutStdout(), WithFile(path), WithRotation(Rotation{MaxSizeMB: 1}))
	require.NoError(t, err)

	require.NoError(t, logger.Emit(AuditEvent{EventType: EventConfigLoaded}))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(EventConfigLoaded), gjson.GetBytes(data, "event_type").String())
}

func TestNewAuditLoggerValidation(t *testing.T) {
	_, err := NewAuditLogger("x", WithoutStdout())
	assert.EqualError(t, err, "no writers configured for audit logger")

	_, err = NewAuditLogger("x", WithWriter(nil))
	assert.Error(t, err)

	_, err = NewAuditLogger("x", WithFile("  "))
	assert.Error(t, err)

	var nilLogger *AuditLogger
	assert.Error(t, nilLogger.Emit(AuditEvent{}))
	assert.NoError(t, nilLogger.Close())
	assert.NotNil(t, nilLogger.Logger())
}
