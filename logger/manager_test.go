package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestManager_FileOutput(t *testing.T) {
	dir := t.TempDir()

	m := NewManager(ManagerConfig{
		BaseLogDir:            dir,
		Level:                 "info",
		Encoding:              "json",
		EnableConsole:         false,
		EnableFile:            true,
		EnableLevelInFilename: true,
		EnableDateInFilename:  false,
		EnableStacktrace:      true,
	})

	ctx := context.Background()
	m.GetLogger("strategy").InfoCtx(ctx, "setup done", zap.String("strategy", "Raw"))
	m.GetLogger("bench").ErrorCtx(ctx, "iteration failed", zap.Int("iteration", 3))
	require.NoError(t, m.Shutdown())

	info, err := os.ReadFile(filepath.Join(dir, "strategy", "strategy-info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "setup done")
	assert.Contains(t, string(info), `"module":"strategy"`)
	assert.Contains(t, string(info), `"app_name":"dibench"`)

	errLog, err := os.ReadFile(filepath.Join(dir, "bench", "bench-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "iteration failed")
	assert.Contains(t, string(errLog), `"stack"`)

	// error 级别不进 info 文件，lumberjack 首次写入才创建文件
	assert.NoFileExists(t, filepath.Join(dir, "bench", "bench-info.log"))
}

func TestManager_GetLoggerCached(t *testing.T) {
	m := NewNopManager()

	a := m.GetLogger("strategy")
	b := m.GetLogger("strategy")
	assert.Same(t, a, b)
	assert.Equal(t, "strategy", a.Module())

	m.CloseAll()
	assert.NotSame(t, a, m.GetLogger("strategy"))
}

func TestManager_NopWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultManagerConfig()
	cfg.BaseLogDir = dir
	cfg.EnableConsole = false
	cfg.EnableFile = false

	m := NewManager(cfg)
	m.InfoCtx(context.Background(), "bench", "nothing")
	require.NoError(t, m.Shutdown())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManager_TraceIDFromSpan(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(ManagerConfig{
		BaseLogDir:            dir,
		Encoding:              "json",
		EnableFile:            true,
		EnableLevelInFilename: true,
		EnableTraceID:         true,
	})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	m.GetLogger("bench").InfoCtx(ctx, "traced")
	m.CloseAll()

	matches, err := filepath.Glob(filepath.Join(dir, "bench", "*.log"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	var found bool
	for _, f := range matches {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		if len(data) > 0 {
			assert.Contains(t, string(data), "4bf92f3577b34da6a3ce929d0e0e4736")
			found = true
		}
	}
	assert.True(t, found)
}

func TestManagerConfig_Validate(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(c *ManagerConfig)
	}{
		{"bad level", func(c *ManagerConfig) { c.Level = "verbose" }},
		{"bad encoding", func(c *ManagerConfig) { c.Encoding = "pretty" }},
		{"max size", func(c *ManagerConfig) { c.MaxSize = 0 }},
		{"stacktrace level", func(c *ManagerConfig) { c.StacktraceLevel = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultManagerConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestManagerConfig_ApplyDefaults(t *testing.T) {
	var cfg ManagerConfig
	cfg.ApplyDefaults()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.False(t, cfg.EnableFile)
}

func TestConfig_BuildFilePath(t *testing.T) {
	c := Config{moduleName: "bench", logDir: "logs", EnableLevelInFilename: true}
	assert.Equal(t, filepath.Join("logs", "bench", "bench-info.log"), c.getInfoFilePath())
	assert.Equal(t, filepath.Join("logs", "bench", "bench-error.log"), c.getErrorFilePath())

	c.EnableLevelInFilename = false
	assert.Equal(t, filepath.Join("logs", "bench", "bench.log"), c.buildFilePath("info"))
}
