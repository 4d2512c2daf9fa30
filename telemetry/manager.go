package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/KOMKZ/go-yogan-dibench/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// InstrumentationName tracer / meter 名
const InstrumentationName = "github.com/KOMKZ/go-yogan-dibench"

// Manager 管理 TracerProvider 与 MetricsManager
type Manager struct {
	config         Config
	logger         logger.CtxLogger
	tracerProvider *sdktrace.TracerProvider
	metricsManager *MetricsManager
	mu             sync.RWMutex
}

// NewManager 创建遥测管理器，Start 之前不产生任何副作用
func NewManager(config Config, log logger.CtxLogger) *Manager {
	if log == nil {
		log = logger.GetLogger("telemetry")
	}
	return &Manager{
		config: config,
		logger: log,
	}
}

// Start 按配置初始化 tracer 与 metrics
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.DebugCtx(ctx, "Telemetry disabled, skipping initialization")
		return nil
	}
	if err := m.config.Validate(); err != nil {
		return err
	}

	res, err := m.createResource(ctx)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}

	tp, err := m.createTracerProvider(ctx, res)
	if err != nil {
		return err
	}

	mm, err := NewMetricsManager(m.config, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}

	m.mu.Lock()
	m.tracerProvider = tp
	m.metricsManager = mm
	m.mu.Unlock()

	otel.SetTracerProvider(tp)

	m.logger.InfoCtx(ctx, "✅ Telemetry started",
		zap.String("service_name", m.config.ServiceName),
		zap.String("exporter", m.config.Exporter.Type),
		zap.Bool("metrics", mm.IsEnabled()),
	)
	return nil
}

// Shutdown 刷新并关闭所有 provider（samber/do 关闭时调用）
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	tp, mm := m.tracerProvider, m.metricsManager
	m.tracerProvider, m.metricsManager = nil, nil
	m.mu.Unlock()

	var err error
	if tp != nil {
		if e := tp.Shutdown(ctx); e != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown tracer provider failed: %w", e))
		}
	}
	if mm != nil {
		if e := mm.Shutdown(ctx); e != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown meter provider failed: %w", e))
		}
	}
	return err
}

// Tracer 未启用时返回 noop tracer
func (m *Manager) Tracer(name string) trace.Tracer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tracerProvider == nil {
		return tracenoop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Meter 未启用时返回 noop meter
func (m *Manager) Meter(name string) metric.Meter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.metricsManager == nil || !m.metricsManager.IsEnabled() {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return m.metricsManager.GetMeter(name)
}

// Recorder 基于当前 provider 的结果记录器；未启动时返回 nil
func (m *Manager) Recorder() (*Recorder, error) {
	if !m.IsStarted() {
		return nil, nil
	}
	return NewRecorder(m.Meter(InstrumentationName), m.Tracer(InstrumentationName), m.config.Metrics.Namespace)
}

// IsEnabled 配置是否启用
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// IsStarted provider 是否已创建
func (m *Manager) IsStarted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracerProvider != nil
}

// GetConfig 配置
func (m *Manager) GetConfig() Config {
	return m.config
}

// createTracerProvider 资源 + 导出器 + 采样器 + 批处理
func (m *Manager) createTracerProvider(ctx context.Context, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := m.createExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("create exporter failed: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(m.createSampler()),
	}
	if m.config.Batch.Enabled {
		opts = append(opts, sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxQueueSize(m.config.Batch.MaxQueueSize),
			sdktrace.WithMaxExportBatchSize(m.config.Batch.MaxExportBatchSize),
			sdktrace.WithBatchTimeout(m.config.Batch.ScheduleDelay),
			sdktrace.WithExportTimeout(m.config.Batch.ExportTimeout),
		))
	} else {
		// 同步导出，仅用于调试
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

func (m *Manager) createSampler() sdktrace.Sampler {
	switch m.config.Sampler.Type {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "trace_id_ratio":
		return sdktrace.TraceIDRatioBased(m.config.Sampler.Ratio)
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}
