package di

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/config"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/strategy"
	"github.com/KOMKZ/go-yogan-dibench/telemetry"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// CoreLoggerName 框架自身使用的日志模块名
const CoreLoggerName = "dibench"

// ============================================
// 基础组件 Provider（Config, Logger）
// ============================================

// ConfigOptions 配置组件选项
type ConfigOptions struct {
	ConfigPath   string                 // 配置目录路径
	ConfigPrefix string                 // 环境变量前缀
	Defaults     map[string]interface{} // 内置默认值（优先级最低）
}

// ProvideConfigLoader 最基础的组件，无依赖
func ProvideConfigLoader(opts ConfigOptions) func(do.Injector) (*config.Loader, error) {
	return config.ProvideLoader(config.ProvideLoaderOptions{
		ConfigPath:   opts.ConfigPath,
		ConfigPrefix: opts.ConfigPrefix,
		Defaults:     opts.Defaults,
	})
}

// ProvideLoggerManager 依赖 config.Loader（logger 节点）
// 配置非法时返回错误，不回退默认值
func ProvideLoggerManager(i do.Injector) (*logger.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}

	cfg := logger.DefaultManagerConfig()
	if err := loader.UnmarshalKey("logger", &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("logger config invalid: %w", err)
	}

	return logger.NewManager(cfg), nil
}

// ProvideCtxLogger 命名模块 logger 的 Provider 工厂
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}
		return mgr.GetLogger(moduleName), nil
	}
}

// ============================================
// Telemetry 组件 Provider
// 依赖：Config, Logger
// ============================================

// ProvideTelemetryManager 创建并按配置启动 telemetry.Manager
// 未启用时返回未启动的 Manager，Tracer/Meter 为 noop
func ProvideTelemetryManager(i do.Injector) (*telemetry.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return nil, err
	}
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}

	cfg := telemetry.DefaultConfig()
	if err := loader.UnmarshalKey("telemetry", &cfg); err != nil {
		return nil, err
	}

	tm := telemetry.NewManager(cfg, mgr.GetLogger("telemetry"))
	if cfg.Enabled {
		if err := tm.Start(context.Background()); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// ============================================
// Bench 组件 Provider
// 依赖：Logger, Telemetry
// ============================================

// ProvideRunner telemetry 已启动时挂载 Recorder
func ProvideRunner(i do.Injector) (*bench.Runner, error) {
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}
	log := mgr.GetLogger("bench")

	opts := []bench.Option{bench.WithLogger(log)}

	tm, err := do.Invoke[*telemetry.Manager](i)
	if err != nil {
		return nil, err
	}
	rec, err := tm.Recorder()
	if err != nil {
		return nil, err
	}
	if rec != nil {
		opts = append(opts, bench.WithObserver(rec))
		log.DebugCtx(context.Background(), "telemetry recorder attached",
			zap.String("service", tm.GetConfig().ServiceName))
	}

	return bench.NewRunner(opts...), nil
}

// ProvideStrategies 固定顺序的适配器列表
func ProvideStrategies(i do.Injector) ([]strategy.Strategy, error) {
	mgr, err := do.Invoke[*logger.Manager](i)
	if err != nil {
		return nil, err
	}
	return strategy.Defaults(mgr, mgr.GetLogger("strategy")), nil
}
