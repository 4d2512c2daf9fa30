package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTestCtxLogger(t *testing.T) {
	log := NewTestCtxLogger()
	ctx := context.WithValue(context.Background(), "trace_id", "t-1")

	log.InfoCtx(ctx, "strategy finished", zap.String("label", "Raw"))
	log.ErrorCtx(ctx, "setup failed")
	log.DebugCtx(ctx, "probe")

	assert.True(t, log.HasLog("INFO", "strategy finished"))
	assert.True(t, log.HasLogWithField("INFO", "strategy finished", "label", "Raw"))
	assert.False(t, log.HasLog("WARN", "strategy finished"))
	assert.Equal(t, 1, log.CountLogs("ERROR"))
	assert.Equal(t, "t-1", log.Logs()[0].TraceID)

	log.Clear()
	assert.Empty(t, log.Logs())
}

func TestTestCtxLogger_WithSharesStore(t *testing.T) {
	log := NewTestCtxLogger()
	child := log.With(zap.String("strategy", "dig"))

	child.WarnCtx(context.Background(), "slow", zap.Int("iteration", 7))

	assert.True(t, log.HasLogWithField("WARN", "slow", "strategy", "dig"))
	// MapObjectEncoder 将整数存为 int64
	assert.True(t, log.HasLogWithField("WARN", "slow", "iteration", int64(7)))
}

func TestCaptureStacktrace(t *testing.T) {
	stack := CaptureStacktrace(1, 3)
	assert.NotEmpty(t, stack)
	assert.Contains(t, stack, "TestCaptureStacktrace")
	assert.LessOrEqual(t, strings.Count(stack, "\n\t"), 3)
}

func TestShouldCaptureStacktrace(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.True(t, shouldCaptureStacktrace("error", cfg))
	assert.False(t, shouldCaptureStacktrace("info", cfg))

	cfg.EnableStacktrace = false
	assert.False(t, shouldCaptureStacktrace("error", cfg))
}
