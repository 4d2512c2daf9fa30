package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Disabled(t *testing.T) {
	log := logger.NewTestCtxLogger()
	m := NewManager(DefaultConfig(), log)

	require.NoError(t, m.Start(context.Background()))
	assert.False(t, m.IsEnabled())
	assert.False(t, m.IsStarted())
	assert.NotNil(t, m.Tracer("x"))
	assert.NotNil(t, m.Meter("x"))
	assert.True(t, log.HasLog("DEBUG", "Telemetry disabled, skipping initialization"))

	rec, err := m.Recorder()
	assert.NoError(t, err)
	assert.Nil(t, rec)

	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_NoopExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter.Type = "noop"
	cfg.Batch.Enabled = false
	cfg.ResourceAttrs = map[string]interface{}{
		"deployment": map[string]interface{}{"environment": "ci"},
	}

	m := NewManager(cfg, logger.NewTestCtxLogger())
	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	assert.True(t, m.IsStarted())

	rec, err := m.Recorder()
	require.NoError(t, err)
	require.NotNil(t, rec)
	rec.Observe(ctx, bench.Result{Label: "Raw", Elapsed: time.Millisecond, Iterations: 10, StartedAt: time.Now()})

	require.NoError(t, m.Shutdown(ctx))
	assert.False(t, m.IsStarted())
	// 重复关闭无副作用
	assert.NoError(t, m.Shutdown(ctx))
}

func TestManager_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter.Type = "jaeger"

	m := NewManager(cfg, logger.NewTestCtxLogger())
	assert.Error(t, m.Start(context.Background()))
	assert.False(t, m.IsStarted())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate(), "disabled config is always valid")

	base := DefaultConfig()
	base.Enabled = true
	assert.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"service name", func(c *Config) { c.ServiceName = "" }},
		{"exporter type", func(c *Config) { c.Exporter.Type = "zipkin" }},
		{"otlp endpoint", func(c *Config) { c.Exporter.Endpoint = "" }},
		{"sampler type", func(c *Config) { c.Sampler.Type = "sometimes" }},
		{"sampler ratio", func(c *Config) { c.Sampler.Type = "trace_id_ratio"; c.Sampler.Ratio = 1.5 }},
		{"batch queue", func(c *Config) { c.Batch.MaxQueueSize = 0 }},
		{"metrics interval", func(c *Config) { c.Metrics.ExportInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			c.Enabled = true
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestFlattenMap(t *testing.T) {
	got := flattenMap(map[string]interface{}{
		"team": "platform",
		"deployment": map[string]interface{}{
			"environment": "ci",
			"replicas":    3,
		},
	}, "")

	assert.Equal(t, map[string]string{
		"team":                   "platform",
		"deployment.environment": "ci",
		"deployment.replicas":    "3",
	}, got)
}
